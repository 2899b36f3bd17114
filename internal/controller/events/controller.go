package events

import (
	"bufio"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service"
	"github.com/GintGld/showreel/internal/service/realtime"
)

// New returns fiber app streaming change
// notifications as server-sent events.
func New(hub Hub, heartbeat time.Duration) *fiber.App {
	eventsCtr := eventsController{
		hub:       hub,
		heartbeat: heartbeat,
	}

	app := fiber.New()

	app.Get("/:collection", eventsCtr.stream)

	return app
}

type eventsController struct {
	hub       Hub
	heartbeat time.Duration
}

type Hub interface {
	Subscribe(collection models.Collection) (*realtime.Subscription, error)
}

// stream holds one subscription per connection,
// it is released once the client goes away.
func (eventsCtr *eventsController) stream(c *fiber.Ctx) error {
	collection := models.Collection(c.Params("collection"))

	sub, err := eventsCtr.hub.Subscribe(collection)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCollection) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "unknown collection",
			})
		}

		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Close()

		ticker := time.NewTicker(eventsCtr.heartbeat)
		defer ticker.Stop()

		fmt.Fprint(w, ": subscribed\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case _, ok := <-sub.C():
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: change\ndata: %s\n\n", collection)
			case <-ticker.C:
				fmt.Fprint(w, ": heartbeat\n\n")
			}

			// failing flush means the client is gone
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}

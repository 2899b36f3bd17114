package showcase

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/GintGld/showreel/internal/service"
	"github.com/GintGld/showreel/internal/service/preload"
	showcaseSrv "github.com/GintGld/showreel/internal/service/showcase"
)

// New returns fiber app exposing
// showreel, hero slideshow and grid state.
func New(showcase Showcase) *fiber.App {
	showcaseCtr := showcaseController{
		srv: showcase,
	}

	app := fiber.New()

	app.Get("/showreel", showcaseCtr.showreel)
	app.Post("/showreel/mounted/:id", showcaseCtr.mounted)
	app.Get("/hero", showcaseCtr.hero)
	app.Get("/grid", showcaseCtr.grid)
	app.Post("/grid/viewport", showcaseCtr.viewport)

	return app
}

type showcaseController struct {
	srv Showcase
}

type Showcase interface {
	Showreel(width int) showcaseSrv.VideoView
	Grid(width int) showcaseSrv.VideoView
	Hero() showcaseSrv.HeroView
	MountShowreel(id string) error
	ReportViewport(v preload.Viewport)
}

func (showcaseCtr *showcaseController) showreel(c *fiber.Ctx) error {
	width := c.QueryInt("width", 0)
	if width < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid width",
		})
	}

	return c.JSON(showcaseCtr.srv.Showreel(width))
}

// mounted is called when the showreel
// element of the video is on screen.
func (showcaseCtr *showcaseController) mounted(c *fiber.Ctx) error {
	if err := showcaseCtr.srv.MountShowreel(c.Params("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "video is not in the showreel",
			})
		}

		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (showcaseCtr *showcaseController) hero(c *fiber.Ctx) error {
	return c.JSON(showcaseCtr.srv.Hero())
}

func (showcaseCtr *showcaseController) grid(c *fiber.Ctx) error {
	width := c.QueryInt("width", 0)
	if width < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid width",
		})
	}

	return c.JSON(showcaseCtr.srv.Grid(width))
}

func (showcaseCtr *showcaseController) viewport(c *fiber.Ctx) error {
	form := new(preload.Viewport)

	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}

	if form.Height <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "viewport height required",
		})
	}

	showcaseCtr.srv.ReportViewport(*form)

	return c.SendStatus(fiber.StatusAccepted)
}

package public

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service"
)

// New returns fiber app serving
// public reads of the portfolio.
func New(catalog Catalog) *fiber.App {
	publicCtr := publicController{
		srv: catalog,
	}

	app := fiber.New()

	app.Get("/videos", publicCtr.videos)
	app.Get("/videos/:slug", publicCtr.video)
	app.Get("/social", publicCtr.social)
	app.Get("/equipment", publicCtr.equipment)

	return app
}

type publicController struct {
	srv Catalog
}

type Catalog interface {
	Videos(query string) ([]models.Video, *models.Notice)
	VideoBySlug(slug string) (models.Video, error)
	SocialLinks() ([]models.SocialLink, *models.Notice)
	Equipment() ([]models.EquipmentGroup, *models.Notice)
}

// videos answers all videos,
// or search results for ?q=
func (publicCtr *publicController) videos(c *fiber.Ctx) error {
	videos, notice := publicCtr.srv.Videos(c.Query("q"))

	return c.JSON(fiber.Map{
		"videos": videos,
		"notice": notice,
	})
}

// video resolves slug, unknown slugs
// are sent back to the listing.
func (publicCtr *publicController) video(c *fiber.Ctx) error {
	video, err := publicCtr.srv.VideoBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Redirect("/videos", fiber.StatusSeeOther)
		}

		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(fiber.Map{
		"video": video,
	})
}

func (publicCtr *publicController) social(c *fiber.Ctx) error {
	links, notice := publicCtr.srv.SocialLinks()

	return c.JSON(fiber.Map{
		"social": links,
		"notice": notice,
	})
}

func (publicCtr *publicController) equipment(c *fiber.Ctx) error {
	groups, notice := publicCtr.srv.Equipment()

	return c.JSON(fiber.Map{
		"equipment": groups,
		"notice":    notice,
	})
}

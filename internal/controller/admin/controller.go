package admin

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	jwtController "github.com/GintGld/showreel/internal/controller/jwt"
	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service"
)

// New returns fiber app handling admin writes.
// Every route requires a valid session.
func New(
	timeout time.Duration,
	editor Editor,
	jwtC *jwtController.JWT,
) *fiber.App {
	adminCtr := adminController{
		timeout: timeout,
		srv:     editor,
	}

	app := fiber.New()

	app.Use(jwtC.AuthRequired())

	app.Post("/videos", adminCtr.addVideo)
	app.Put("/videos/:id", adminCtr.updateVideo)
	app.Delete("/videos/:id", adminCtr.deleteVideo)

	app.Post("/hero", adminCtr.addHeroImage)
	app.Put("/hero/:id", adminCtr.updateHeroImage)
	app.Delete("/hero/:id", adminCtr.deleteHeroImage)
	app.Post("/hero/:id/move", adminCtr.moveHeroImage)

	app.Post("/social", adminCtr.addSocialLink)
	app.Put("/social/:id", adminCtr.updateSocialLink)
	app.Delete("/social/:id", adminCtr.deleteSocialLink)

	app.Post("/equipment", adminCtr.addEquipment)
	app.Put("/equipment/:id", adminCtr.updateEquipment)
	app.Delete("/equipment/:id", adminCtr.deleteEquipment)
	app.Post("/equipment/categories/:id/move", adminCtr.moveCategory)

	return app
}

type adminController struct {
	timeout time.Duration
	srv     Editor
}

type Editor interface {
	AddVideo(ctx context.Context, video models.Video) (models.Video, error)
	UpdateVideo(ctx context.Context, id string, patch models.VideoPatch) (models.Video, error)
	DeleteVideo(ctx context.Context, id string) error

	AddHeroImage(ctx context.Context, image models.HeroImage) (models.HeroImage, error)
	UpdateHeroImage(ctx context.Context, id string, patch models.HeroImagePatch) (models.HeroImage, error)
	DeleteHeroImage(ctx context.Context, id string) error
	MoveHeroImage(ctx context.Context, id string, dir models.Direction) error

	AddSocialLink(ctx context.Context, link models.SocialLink) (models.SocialLink, error)
	UpdateSocialLink(ctx context.Context, id string, patch models.SocialLinkPatch) (models.SocialLink, error)
	DeleteSocialLink(ctx context.Context, id string) error

	AddEquipment(ctx context.Context, item models.Equipment) (models.Equipment, error)
	UpdateEquipment(ctx context.Context, id string, patch models.EquipmentPatch) (models.Equipment, error)
	DeleteEquipment(ctx context.Context, id string) error
	MoveCategory(ctx context.Context, id string, dir models.Direction) error
}

func (adminCtr *adminController) timeoutCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), adminCtr.timeout)
}

// fail answers error of a write,
// form state stays on the client.
func fail(c *fiber.Ctx, err error) error {
	var inputErr *service.InvalidInputError

	switch {
	case errors.As(err, &inputErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": inputErr.Error(),
		})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not found",
		})
	case errors.Is(err, service.ErrCannotMove):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "cannot move further",
		})
	case errors.Is(err, service.ErrExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "already exists",
		})
	case errors.Is(err, service.ErrTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
			"error": "timeout",
		})
	}

	return c.SendStatus(fiber.StatusInternalServerError)
}

func direction(c *fiber.Ctx) (models.Direction, error) {
	return models.ParseDirection(c.Query("dir"))
}

// create parses body into T, runs add
// and answers the stored record.
func create[T any](c *fiber.Ctx, adminCtr *adminController, key string, add func(context.Context, T) (T, error)) error {
	ctx, cancel := adminCtr.timeoutCtx()
	defer cancel()

	form := new(T)
	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}

	record, err := add(ctx, *form)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		key: record,
	})
}

// update parses patch P and answers the stored record R.
func update[P, R any](c *fiber.Ctx, adminCtr *adminController, key string, upd func(context.Context, string, P) (R, error)) error {
	ctx, cancel := adminCtr.timeoutCtx()
	defer cancel()

	patch := new(P)
	if err := c.BodyParser(patch); err != nil {
		return fiber.ErrBadRequest
	}

	record, err := upd(ctx, c.Params("id"), *patch)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		key: record,
	})
}

func remove(c *fiber.Ctx, adminCtr *adminController, del func(context.Context, string) error) error {
	ctx, cancel := adminCtr.timeoutCtx()
	defer cancel()

	if err := del(ctx, c.Params("id")); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func move(c *fiber.Ctx, adminCtr *adminController, mv func(context.Context, string, models.Direction) error) error {
	ctx, cancel := adminCtr.timeoutCtx()
	defer cancel()

	dir, err := direction(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "dir must be up or down",
		})
	}

	if err := mv(ctx, c.Params("id"), dir); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (adminCtr *adminController) addVideo(c *fiber.Ctx) error {
	return create(c, adminCtr, "video", adminCtr.srv.AddVideo)
}

func (adminCtr *adminController) updateVideo(c *fiber.Ctx) error {
	return update(c, adminCtr, "video", adminCtr.srv.UpdateVideo)
}

func (adminCtr *adminController) deleteVideo(c *fiber.Ctx) error {
	return remove(c, adminCtr, adminCtr.srv.DeleteVideo)
}

func (adminCtr *adminController) addHeroImage(c *fiber.Ctx) error {
	return create(c, adminCtr, "hero", adminCtr.srv.AddHeroImage)
}

func (adminCtr *adminController) updateHeroImage(c *fiber.Ctx) error {
	return update(c, adminCtr, "hero", adminCtr.srv.UpdateHeroImage)
}

func (adminCtr *adminController) deleteHeroImage(c *fiber.Ctx) error {
	return remove(c, adminCtr, adminCtr.srv.DeleteHeroImage)
}

func (adminCtr *adminController) moveHeroImage(c *fiber.Ctx) error {
	return move(c, adminCtr, adminCtr.srv.MoveHeroImage)
}

func (adminCtr *adminController) addSocialLink(c *fiber.Ctx) error {
	return create(c, adminCtr, "social", adminCtr.srv.AddSocialLink)
}

func (adminCtr *adminController) updateSocialLink(c *fiber.Ctx) error {
	return update(c, adminCtr, "social", adminCtr.srv.UpdateSocialLink)
}

func (adminCtr *adminController) deleteSocialLink(c *fiber.Ctx) error {
	return remove(c, adminCtr, adminCtr.srv.DeleteSocialLink)
}

func (adminCtr *adminController) addEquipment(c *fiber.Ctx) error {
	return create(c, adminCtr, "equipment", adminCtr.srv.AddEquipment)
}

func (adminCtr *adminController) updateEquipment(c *fiber.Ctx) error {
	return update(c, adminCtr, "equipment", adminCtr.srv.UpdateEquipment)
}

func (adminCtr *adminController) deleteEquipment(c *fiber.Ctx) error {
	return remove(c, adminCtr, adminCtr.srv.DeleteEquipment)
}

func (adminCtr *adminController) moveCategory(c *fiber.Ctx) error {
	return move(c, adminCtr, adminCtr.srv.MoveCategory)
}

package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	jwtController "github.com/GintGld/showreel/internal/controller/jwt"
	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service"
)

// New returns an fiber.App that will
// authorize admin and return JWT,
// report current session and end it.
func New(
	timeout time.Duration,
	a Auth,
	jwtC *jwtController.JWT,
) *fiber.App {
	authCtr := authController{
		timeout: timeout,
		srv:     a,
	}

	app := fiber.New()

	app.Post("/login", authCtr.login)
	app.Get("/session", authCtr.session)
	app.Post("/logout", jwtC.AuthRequired(), authCtr.logout)

	return app
}

type authController struct {
	timeout time.Duration
	srv     Auth
}

type Auth interface {
	Login(ctx context.Context, login string, password string) (string, error)
	Session(ctx context.Context, token string) (models.Admin, error)
	Logout(ctx context.Context, token string) error
}

// login
func (authCtr *authController) login(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), authCtr.timeout)
	defer cancel()

	form := new(models.Credentials)

	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}

	if form.Login == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "login required",
		})
	}

	if form.Pass == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "password required",
		})
	}

	token, err := authCtr.srv.Login(ctx, form.Login, form.Pass)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid credentials",
			})
		}

		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": token,
	})
}

// session answers current admin or null,
// any failure means there is no session.
func (authCtr *authController) session(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), authCtr.timeout)
	defer cancel()

	token, ok := bearer(c)
	if !ok {
		return c.JSON(fiber.Map{"user": nil})
	}

	admin, err := authCtr.srv.Session(ctx, token)
	if err != nil {
		return c.JSON(fiber.Map{"user": nil})
	}

	return c.JSON(fiber.Map{"user": admin})
}

// logout
func (authCtr *authController) logout(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), authCtr.timeout)
	defer cancel()

	token, ok := jwtController.Token(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	if err := authCtr.srv.Logout(ctx, token.Raw); err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func bearer(c *fiber.Ctx) (string, bool) {
	scheme, token, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}

package jwtController

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type JWT struct {
	secret  []byte
	revoked Revoker
}

type Revoker interface {
	Revoked(jti string) bool
}

func New(secret []byte, revoked Revoker) *JWT {
	return &JWT{
		secret:  secret,
		revoked: revoked,
	}
}

// AuthRequired accepts requests with a valid
// bearer token that was not logged out.
func (jwtController *JWT) AuthRequired() func(*fiber.Ctx) error {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: jwtController.secret},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication error",
			})
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := Token(c)
			if !ok {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "authentication error",
				})
			}

			claims, _ := token.Claims.(jwt.MapClaims)
			if jti, _ := claims["jti"].(string); jti == "" || jwtController.revoked.Revoked(jti) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "session is over",
				})
			}

			return c.Next()
		},
	})
}

// Token returns token validated by AuthRequired.
func Token(c *fiber.Ctx) (*jwt.Token, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	return token, ok
}

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"github.com/GintGld/showreel/internal/lib/logger/sl"
	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service"
	jwtService "github.com/GintGld/showreel/internal/service/jwt"
)

type Auth struct {
	log           *slog.Logger
	jwt           JWT
	adminPassHash []byte
	tokenTTL      time.Duration
	revoked       *cache.Cache
}

type JWT interface {
	NewToken(admin models.Admin, duration time.Duration) (string, error)
	Parse(tokenString string) (jwtService.Claims, error)
}

// New returns new instance of authentication service
func New(
	log *slog.Logger,
	jwt JWT,
	adminPassHash []byte,
	tokenTTL time.Duration,
) *Auth {
	return &Auth{
		log:           log,
		jwt:           jwt,
		adminPassHash: adminPassHash,
		tokenTTL:      tokenTTL,
		revoked:       cache.New(tokenTTL, tokenTTL),
	}
}

// Login checks admin credentials and returns access token.
func (a *Auth) Login(_ context.Context, login string, password string) (string, error) {
	const op = "Auth.Login"

	log := a.log.With(
		slog.String("op", op),
		slog.String("login", login),
	)

	log.Info("attempting to login")

	if login != models.AdminLogin {
		log.Info("unknown login")

		return "", fmt.Errorf("%s: %w", op, service.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword(a.adminPassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, service.ErrInvalidCredentials)
	}

	token, err := a.jwt.NewToken(models.Admin{ID: models.AdminID, Login: models.AdminLogin}, a.tokenTTL)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("admin logged in successfully")

	return token, nil
}

// Session returns identity behind token.
// Expired, malformed and revoked tokens are rejected.
func (a *Auth) Session(_ context.Context, token string) (models.Admin, error) {
	const op = "Auth.Session"

	claims, err := a.jwt.Parse(token)
	if err != nil {
		return models.Admin{}, fmt.Errorf("%s: %w", op, err)
	}

	if a.Revoked(claims.ID) {
		return models.Admin{}, fmt.Errorf("%s: %w", op, service.ErrInvalidToken)
	}

	return models.Admin{ID: claims.UID, Login: claims.Login}, nil
}

// Logout revokes token until it expires.
func (a *Auth) Logout(_ context.Context, token string) error {
	const op = "Auth.Logout"

	log := a.log.With(slog.String("op", op))

	claims, err := a.jwt.Parse(token)
	if err != nil {
		log.Info("invalid token", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	a.revoked.Set(claims.ID, struct{}{}, ttl)

	log.Info("session revoked", slog.String("login", claims.Login))

	return nil
}

// Revoked reports whether token id was logged out.
func (a *Auth) Revoked(jti string) bool {
	_, ok := a.revoked.Get(jti)
	return ok
}

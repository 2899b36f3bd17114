package jwtService

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/GintGld/showreel/internal/models"
	"github.com/GintGld/showreel/internal/service"
)

type JWT struct {
	secret []byte
}

func New(secret []byte) *JWT {
	return &JWT{
		secret: secret,
	}
}

// Claims of a session token.
type Claims struct {
	UID       int64
	Login     string
	ID        string
	ExpiresAt time.Time
}

func (jwtStruct *JWT) NewToken(admin models.Admin, duration time.Duration) (string, error) {
	const op = "JWT.NewToken"

	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["uid"] = admin.ID
	claims["login"] = admin.Login
	claims["jti"] = uuid.NewString()
	claims["exp"] = time.Now().Add(duration).Unix()

	tokenString, err := token.SignedString(jwtStruct.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return tokenString, nil
}

// Parse validates signature and expiry of tokenString.
func (jwtStruct *JWT) Parse(tokenString string) (Claims, error) {
	const op = "JWT.Parse"

	claims := jwt.MapClaims{}
	token, err := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	).ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (interface{}, error) {
		return jwtStruct.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("%s: %w", op, errors.Join(service.ErrInvalidToken, err))
	}

	return ClaimsFromMap(claims)
}

// ClaimsFromMap reads session claims from
// already validated token claims.
func ClaimsFromMap(claims jwt.MapClaims) (Claims, error) {
	const op = "JWT.ClaimsFromMap"

	uid, okUID := claims["uid"].(float64)
	login, okLogin := claims["login"].(string)
	jti, okID := claims["jti"].(string)
	exp, err := claims.GetExpirationTime()
	if !okUID || !okLogin || !okID || err != nil || exp == nil {
		return Claims{}, fmt.Errorf("%s: %w", op, service.ErrInvalidToken)
	}

	return Claims{
		UID:       int64(uid),
		Login:     login,
		ID:        jti,
		ExpiresAt: exp.Time,
	}, nil
}

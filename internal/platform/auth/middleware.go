package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Principal is the authenticated staff member attached to the request context.
type Principal struct {
	ID       uuid.UUID
	Username string
	Email    string
	Role     string
}

type principalKey struct{}

// JWTMiddleware validates the bearer token on each request and stores the
// resulting Principal on the request context. Requests without a valid token
// get 401.
func JWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			uid, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			principal := &Principal{
				ID:       uid,
				Username: claims.Username,
				Email:    claims.Email,
				Role:     claims.Role,
			}

			ctx := context.WithValue(c.Request().Context(), principalKey{}, principal)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// PrincipalFromContext returns the authenticated principal, or nil when the
// request did not pass through JWTMiddleware.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

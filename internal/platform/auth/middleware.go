package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Middleware authenticates bearer tokens and populates the request context
// with the caller's identity. Requests without an Authorization header are
// rejected; use Optional for routes that serve anonymous readers too.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := bearerClaims(c, secret)
			if err != nil {
				return err
			}
			c.SetRequest(c.Request().WithContext(withClaims(c.Request().Context(), claims)))
			return next(c)
		}
	}
}

// Optional authenticates a bearer token when one is present and lets
// anonymous requests through untouched.
func Optional(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}
			claims, err := bearerClaims(c, secret)
			if err != nil {
				return err
			}
			c.SetRequest(c.Request().WithContext(withClaims(c.Request().Context(), claims)))
			return next(c)
		}
	}
}

func bearerClaims(c echo.Context, secret []byte) (*Claims, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return nil, errMissingHeader
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, errBadFormat
	}
	claims, err := ParseToken(secret, parts[1])
	if err != nil {
		return nil, errInvalidToken
	}
	return claims, nil
}

func withClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.Subject)
	ctx = context.WithValue(ctx, UsernameKey, claims.Username)
	ctx = context.WithValue(ctx, RoleKey, claims.Role)
	return context.WithValue(ctx, AdminKey, claims.IsAdmin)
}

var (
	errMissingHeader = echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	errBadFormat     = echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
	errInvalidToken  = echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
)

// RequireRole rejects requests whose authenticated role matches none of
// roles. Admins pass every check.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if IsAdminFromContext(ctx) {
				return next(c)
			}
			has := RoleFromContext(ctx)
			for _, required := range roles {
				if has == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				"required role: "+strings.Join(roles, " or "))
		}
	}
}

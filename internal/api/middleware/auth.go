package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kanbanhq/kanban-api/internal/api/metrics"
	"github.com/kanbanhq/kanban-api/internal/core/domain"
	"github.com/kanbanhq/kanban-api/internal/core/ports"
)

// Context keys populated by Auth for downstream handlers.
const (
	CtxEmail = "email"
	CtxRole  = "role"
)

// Auth validates the bearer token and injects the subject and role into the
// echo context. Refresh tokens are rejected here: only access tokens grant
// API access.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthFailuresTotal.WithLabelValues("missing_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			if claims.Kind != ports.TokenKindAccess {
				metrics.AuthFailuresTotal.WithLabelValues("wrong_kind").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "refresh token not accepted here")
			}

			c.Set(CtxEmail, claims.Subject)
			c.Set(CtxRole, claims.Role)

			return next(c)
		}
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}

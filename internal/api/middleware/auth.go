package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecomstack/commerce-api/internal/api/metrics"
	"github.com/ecomstack/commerce-api/internal/core/auth"
	"github.com/ecomstack/commerce-api/internal/core/domain"
	"github.com/ecomstack/commerce-api/internal/core/ports"
)

const principalKey = "principal"

// Authenticate resolves the bearer token, if any, into an authenticated
// principal on the echo context. It NEVER rejects a request: every failure
// mode leaves the request anonymous and defers enforcement to the
// authorization layer. At most one principal is set per request, always
// built from the live user record rather than from token claims alone.
func Authenticate(tokens *auth.TokenService, users ports.UserRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return next(c)
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, domain.ErrTokenExpired) {
					reason = "expired_token"
				}
				metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
				log.Debug().Str("reason", reason).Msg("bearer token rejected")
				return next(c)
			}

			// Defensive re-lookup: the subject must still resolve to a live
			// account. A token outliving its account authenticates nothing.
			user, err := users.FindByEmail(c.Request().Context(), claims.Subject)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("unknown_subject").Inc()
				log.Debug().Msg("token subject no longer resolves")
				return next(c)
			}

			if !tokens.MatchesIdentity(claims, user.Email) {
				metrics.AuthFailuresTotal.WithLabelValues("identity_mismatch").Inc()
				return next(c)
			}

			// The live role wins over the role claim baked into the token:
			// a demoted admin loses admin access immediately, not at expiry.
			if claims.Role != user.Role {
				log.Warn().
					Int64("user_id", user.ID).
					Str("token_role", claims.Role).
					Str("live_role", user.Role).
					Msg("token role drift, using live role")
			}

			c.Set(principalKey, &auth.Principal{
				UserID: user.ID,
				Email:  user.Email,
				Role:   user.Role,
			})
			return next(c)
		}
	}
}

// PrincipalFrom returns the request's authenticated principal, or nil for an
// anonymous request.
func PrincipalFrom(c echo.Context) *auth.Principal {
	p, _ := c.Get(principalKey).(*auth.Principal)
	return p
}

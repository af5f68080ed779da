package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomstack/commerce-api/internal/api/middleware"
	"github.com/ecomstack/commerce-api/internal/core/auth"
)

// ctxPrincipal extracts the principal attached by the Authenticate middleware
// and fast-fails with 401 before any service call when the request is
// anonymous. Routes behind RequireAuth never hit the error branch; it covers
// handlers mounted without the middleware.
func ctxPrincipal(c echo.Context) (*auth.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	return p, nil
}

package middleware

import (
	"net/http"

	"taskdesk/internal/common"
	"taskdesk/internal/services"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTConfig builds the echo-jwt config for protected route groups. The token
// is verified through the token service and the resulting identity is stored
// on the echo context for the gate middleware and handlers.
func JWTConfig(tokens services.TokenService) echojwt.Config {
	return echojwt.Config{
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return tokens.Verify(auth)
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get("user").(*services.AccessClaims)
			if !ok {
				return
			}
			common.SetIdentity(c, claims.UserID, claims.TenantID, claims.Role)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}
}

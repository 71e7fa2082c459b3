package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminRoleGuard はADMINロールのトークンだけ通す。AuthJWTの後段に置く。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxUserRoleKey).(string)
			switch role {
			case "ADMIN":
				return next(c)
			case "":
				return unauthorized(c)
			default:
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}
		}
	}
}

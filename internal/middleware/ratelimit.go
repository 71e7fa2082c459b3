package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// 決済系エンドポイント用のIPレート制限。
// formatは"10-M"（毎分10回）のような limiter の書式。
func NewRateLimiter(format string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(format)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}

func RateLimit(l *limiter.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lctx, err := l.Get(c.Request().Context(), c.RealIP())
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			c.Response().Header().Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

			if lctx.Reached {
				return c.JSON(http.StatusTooManyRequests, errorJSON("too many requests"))
			}

			return next(c)
		}
	}
}

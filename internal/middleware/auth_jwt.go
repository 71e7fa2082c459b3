package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"shop/internal/config"
)

const (
	CtxUserIDKey   = "user_id"   // int64
	CtxUserRoleKey = "user_role" // string
)

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
}

// AuthJWT はBearerトークンを検証し、user_idとroleをcontextに載せる。
// 署名方式はHS256固定。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return unauthorized(c)
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(raw, claims,
				func(t *jwt.Token) (interface{}, error) {
					return []byte(cfg.JWTSecret), nil
				},
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			)
			if err != nil || !token.Valid {
				return unauthorized(c)
			}

			userID := subjectID(claims["sub"])
			if userID <= 0 {
				return unauthorized(c)
			}
			role, _ := claims["role"].(string)
			if role == "" {
				return unauthorized(c)
			}

			c.Set(CtxUserIDKey, userID)
			c.Set(CtxUserRoleKey, role)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	authz := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// subはfloat64（JSON数値）でも文字列でも来る
func subjectID(v interface{}) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case string:
		id, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0
		}
		return id
	default:
		return 0
	}
}

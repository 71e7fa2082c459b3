package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ulule/limiter/v3"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/repository"
	"shop/internal/usecase"
)

type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, rl *limiter.Limiter) {
	g := e.Group("/checkout")
	if rl != nil {
		g.Use(middleware.RateLimit(rl))
	}

	//webhookはゲートウェイのサーバーから叩かれるので認証なし。
	//署名検証がその代わりになる
	g.POST("/webhook", h.webhook)

	auth := g.Group("")
	auth.Use(middleware.AuthJWT(cfg))
	auth.Use(middleware.ActiveUserGuard(userRepo))

	auth.POST("", h.createIntent)
	auth.POST("/verify", h.verify)
	auth.POST("/cash-order", h.cashOrder)
}

func (h *CheckoutHandler) createIntent(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.CreateIntentInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidation})
	}

	out, err := h.uc.CreateIntent(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) verify(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.VerifyInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidation})
	}

	out, err := h.uc.VerifyAndSettle(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CheckoutHandler) cashOrder(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.CashOrderInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidation})
	}

	out, err := h.uc.CashOrder(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CheckoutHandler) webhook(c echo.Context) error {
	var req usecase.WebhookInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: usecase.CodeValidation})
	}

	out, err := h.uc.SettleWebhook(c.Request().Context(), req)
	if err != nil {
		//二重通知は正常系。ゲートウェイにリトライさせない
		if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusConflict {
			return c.JSON(http.StatusOK, map[string]string{"status": "already processed"})
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"shop/internal/gateway"
)

// 機械可読なエラーコード
const (
	CodeValidation           = "validation_error"
	CodeNotFound             = "not_found"
	CodeConflict             = "conflict"
	CodeInsufficientStock    = "insufficient_stock"
	CodeGatewayNotConfigured = "gateway_not_configured"
	CodeGatewayAuth          = "gateway_auth_error"
	CodeGatewayRequest       = "gateway_request_error"
	CodeInvalidSignature     = "invalid_signature"
	CodeInternal             = "internal_error"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// statusから無難なコードを引く（古い呼び出し向け）
func NewHTTPError(status int, message string) error {
	code := CodeInternal
	switch status {
	case http.StatusBadRequest:
		code = CodeValidation
	case http.StatusNotFound:
		code = CodeNotFound
	case http.StatusConflict:
		code = CodeConflict
	}
	return &HTTPError{Status: status, Code: code, Message: message}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func newValidationError(message string) error {
	return &HTTPError{Status: http.StatusBadRequest, Code: CodeValidation, Message: message}
}

func newNotFoundError(message string) error {
	return &HTTPError{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

func newConflictError(message string) error {
	return &HTTPError{Status: http.StatusConflict, Code: CodeConflict, Message: message}
}

// どの商品が在庫切れかをメッセージで返す
func newInsufficientStockError(productName string) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Code:    CodeInsufficientStock,
		Message: fmt.Sprintf("out of stock: %s", productName),
	}
}

// gatewayパッケージのエラーをそのまま区別して返す。
// まとめて500に潰さない。
func newGatewayError(err error) error {
	switch {
	case errors.Is(err, gateway.ErrNotConfigured):
		return &HTTPError{Status: http.StatusBadRequest, Code: CodeGatewayNotConfigured, Message: "payment gateway not configured"}
	case errors.Is(err, gateway.ErrAuth):
		return &HTTPError{Status: http.StatusBadGateway, Code: CodeGatewayAuth, Message: "payment gateway credential error"}
	case errors.Is(err, gateway.ErrInvalidSignature):
		return &HTTPError{Status: http.StatusBadRequest, Code: CodeInvalidSignature, Message: "invalid payment signature"}
	case errors.Is(err, gateway.ErrRequest):
		return &HTTPError{Status: http.StatusBadGateway, Code: CodeGatewayRequest, Message: "payment gateway request failed"}
	default:
		return &HTTPError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "internal error"}
	}
}

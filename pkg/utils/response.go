package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "intake-bridge/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	return ctx.JSON(code, response)
}

func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrEmptyInput):
		code = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrOrderNotSent):
		code = http.StatusBadGateway
	}

	logger.Warn("Запрос завершился с ошибкой",
		zap.Int("code", code),
		zap.Error(err),
	)

	response := &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: err.Error(),
	}
	return ctx.JSON(code, response)
}

// Файл: internal/controllers/intake_controller.go
package controllers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"intake-bridge/internal/dto"
	"intake-bridge/internal/services"
	apperrors "intake-bridge/pkg/errors"
	"intake-bridge/pkg/utils"
)

// IntakeController принимает записи клиентов от бота по HTTP.
type IntakeController struct {
	intakeService services.IntakeServiceInterface
	logger        *zap.Logger
}

func NewIntakeController(service services.IntakeServiceInterface, logger *zap.Logger) *IntakeController {
	return &IntakeController{
		intakeService: service,
		logger:        logger.Named("intake_controller"),
	}
}

// HandleIntake прогоняет запись через конвейер и возвращает итог отправки.
// Обработка синхронная: боту нужен номер заявки в ответе.
func (c *IntakeController) HandleIntake(ctx echo.Context) error {
	var rec dto.ClientRecord
	if err := ctx.Bind(&rec); err != nil {
		c.logger.Warn("Не удалось распознать тело запроса от бота", zap.Error(err))
		return utils.ErrorResponse(ctx, fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err), c.logger)
	}

	result, err := c.intakeService.Process(ctx.Request().Context(), &rec)
	if err != nil {
		if result != nil && result.Created {
			// Заказ создан, но конфигурация маршрутизации не дала
			// узнать номер — клиенту об этом нужно знать.
			c.logger.Error("Заказ создан, но запрос номера не состоялся", zap.Error(err))
			return utils.SuccessResponse(ctx, result, "Заказ создан, номер заявки не определен", http.StatusOK)
		}
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, result, "Заявка обработана", http.StatusOK)
}

// Файл: internal/services/intake_service.go
package services

import (
	"context"

	"go.uber.org/zap"

	"intake-bridge/internal/dto"
)

// IntakeServiceInterface нужен контроллеру вебхука и тестам.
type IntakeServiceInterface interface {
	Process(ctx context.Context, rec *dto.ClientRecord) (*dto.SubmissionResult, error)
}

// IntakeService прогоняет одну запись клиента через весь конвейер:
// журнал обращений, сборка заказа, отправка в 1С.
type IntakeService struct {
	recorder  *IntakeRecorder
	builder   *OrderBuilder
	submitter *OrderSubmitter
	logger    *zap.Logger
}

func NewIntakeService(recorder *IntakeRecorder, builder *OrderBuilder, submitter *OrderSubmitter, logger *zap.Logger) *IntakeService {
	return &IntakeService{
		recorder:  recorder,
		builder:   builder,
		submitter: submitter,
		logger:    logger.Named("intake_service"),
	}
}

func (s *IntakeService) Process(ctx context.Context, rec *dto.ClientRecord) (*dto.SubmissionResult, error) {
	// Журнал — независимый побочный эффект: его сбой не должен
	// блокировать создание заказа.
	if err := s.recorder.Record(rec); err != nil {
		s.logger.Warn("Не удалось записать обращение в журнал", zap.Error(err))
	}

	orderID, order, err := s.builder.Build(rec)
	if err != nil {
		return nil, err
	}

	return s.submitter.Submit(ctx, orderID, order)
}

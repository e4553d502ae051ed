// Файл: internal/services/intake_recorder.go
package services

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"intake-bridge/internal/dto"
)

// IntakeRecorder дописывает человекочитаемую карточку клиента в общий
// текстовый журнал. Одна запись на обращение, записи разделены пустой
// строкой.
type IntakeRecorder struct {
	path   string
	logger *zap.Logger
}

func NewIntakeRecorder(path string, logger *zap.Logger) *IntakeRecorder {
	return &IntakeRecorder{
		path:   path,
		logger: logger.Named("intake_recorder"),
	}
}

func (r *IntakeRecorder) Record(rec *dto.ClientRecord) error {
	var sb strings.Builder
	writeField := func(label, value string) {
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	writeField("Имя", rec.Name)
	writeField("Цель обращения", rec.Direction)
	writeField("Подробности неисправности", rec.Circumstances)
	writeField("Бренд и модель техники", rec.Brand)
	writeField("Телефон", rec.Phone)
	writeField("Второй телефон (callerID)", rec.Phone2)
	writeField("Адрес", FormatAddress(rec.Address))
	writeField("Квартира", rec.Address.Apartment)
	writeField("Подъезд", rec.Address.Entrance)
	writeField("Этаж", rec.Address.Floor)
	writeField("Код домофона", rec.Address.Intercom)
	writeField("Дата визита", rec.Date.String)
	writeField("Комментарий", rec.Comment)
	sb.WriteString("\n")

	file, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("не удалось открыть журнал обращений %s: %w", r.path, err)
	}
	defer file.Close()

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("не удалось дописать журнал обращений %s: %w", r.path, err)
	}

	r.logger.Debug("Обращение записано в журнал", zap.String("path", r.path))
	return nil
}

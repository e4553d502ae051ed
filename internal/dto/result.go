// Файл: internal/dto/result.go
package dto

// SubmissionResult — итог обработки одной записи клиента.
// Created=true означает, что заказ принят 1С, даже если номер заявки
// выяснить не удалось.
type SubmissionResult struct {
	OrderID      string `json:"order_id"`
	Created      bool   `json:"created"`
	TicketNumber string `json:"ticket_number,omitempty"`
	Warning      string `json:"warning,omitempty"`
}

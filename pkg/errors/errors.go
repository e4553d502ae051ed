package errors

import "fmt"

var (
	// Входные данные
	ErrEmptyInput = fmt.Errorf("нет входных данных")
	ErrBadRequest = fmt.Errorf("неверный запрос")

	// Общие
	ErrInternal = fmt.Errorf("внутренняя ошибка сервера")

	// Отправка в 1С
	ErrOrderNotSent      = fmt.Errorf("не удалось передать заказ в 1С")
	ErrUnknownRegionPath = fmt.Errorf("не найден ws_path для региона")
)

// BackOfficeError — ответ прокси 1С со статусом >= 400.
// Тело ответа сохраняется целиком для разбора на стороне оператора.
type BackOfficeError struct {
	StatusCode int
	Body       string
}

func (e *BackOfficeError) Error() string {
	return fmt.Sprintf("сервис 1С вернул статус %d", e.StatusCode)
}

func NewBackOfficeError(statusCode int, body string) error {
	return &BackOfficeError{StatusCode: statusCode, Body: body}
}

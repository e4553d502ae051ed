// Файл: internal/dto/client_record.go
package dto

import "github.com/aarondl/null/v8"

// ClientAddress — адрес из записи клиента. Все поля опциональны:
// бот заполняет только то, что сумел выяснить.
type ClientAddress struct {
	City        string       `json:"city"`
	Street      string       `json:"street"`
	HouseNumber string       `json:"house_number"`
	Apartment   string       `json:"apartment"`
	Entrance    string       `json:"entrance"`
	Floor       string       `json:"floor"`
	Intercom    string       `json:"intercom"`
	Latitude    null.Float64 `json:"latitude"`
	Longitude   null.Float64 `json:"longitude"`
}

// ClientRecord — запись клиента от чат/голосового бота.
// Ни одно поле не гарантировано; отсутствие значения — норма, а не ошибка.
// null-типы там, где "не пришло" отличается от нулевого значения.
type ClientRecord struct {
	Name            string        `json:"name"`
	Direction       string        `json:"direction"`
	Circumstances   string        `json:"circumstances"`
	Brand           string        `json:"brand"`
	Phone           string        `json:"phone"`
	Phone2          string        `json:"phone2"`
	PhoneIncoming   string        `json:"phoneIncoming"`
	Address         ClientAddress `json:"address"`
	Date            null.String   `json:"date"`
	Comment         string        `json:"comment"`
	MultipleRequest null.Bool     `json:"multipleRequest"`
}

// IncomingPhone — телефон, с которого пришло обращение: сначала phone2
// (callerID), затем явный phoneIncoming, затем основной phone.
func (r *ClientRecord) IncomingPhone() string {
	if r.Phone2 != "" {
		return r.Phone2
	}
	if r.PhoneIncoming != "" {
		return r.PhoneIncoming
	}
	return r.Phone
}

// Файл: internal/dto/order.go
package dto

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tiendc/go-deepcopy"
)

// KindLocality — тег элемента name_components, несущего город.
// По нему маршрутизируется запрос номера заявки.
const KindLocality = "locality"

// NameComponent — составляющая адреса в терминах 1С.
type NameComponent struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

type Geopoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type OrderService struct {
	ServiceID string `json:"service_id"`
}

type OrderClient struct {
	DisplayName   string `json:"display_name"`
	Phone         string `json:"phone"`
	PhoneIncoming string `json:"phoneIncoming"`
}

type OrderAddress struct {
	Name           string          `json:"name"`
	Apartment      string          `json:"apartment"`
	Entrance       string          `json:"entrance"`
	Floor          string          `json:"floor"`
	Intercom       string          `json:"intercom"`
	NameComponents []NameComponent `json:"name_components,omitempty"`
	Geopoint       *Geopoint       `json:"geopoint,omitempty"`
}

// Order — документ заказа в схеме прокси 1С.
type Order struct {
	UslugiID        string         `json:"uslugi_id"`
	Services        []OrderService `json:"services" validate:"min=1"`
	DesiredDt       string         `json:"desired_dt" validate:"required"`
	ModelTechnique  string         `json:"modelTechnique"`
	Client          OrderClient    `json:"client"`
	Address         OrderAddress   `json:"address"`
	MultipleRequest bool           `json:"multipleRequest"`
	Comment         string         `json:"comment"`
}

// OrderEnvelope — корень документа: и шаблон, и готовый заказ
// имеют одну и ту же форму {"order": {...}}.
type OrderEnvelope struct {
	Order Order `json:"order"`
}

// Clone делает глубокую копию конверта. Каждый заказ строится из копии
// шаблона; общий шаблон не мутируется никогда.
func (e *OrderEnvelope) Clone() (*OrderEnvelope, error) {
	var out OrderEnvelope
	if err := deepcopy.Copy(&out, e); err != nil {
		return nil, fmt.Errorf("не удалось скопировать шаблон заказа: %w", err)
	}
	return &out, nil
}

// LoadOrderTemplate читает шаблон заказа один раз при старте и проверяет
// обязательную структуру: services[0] и desired_dt должны присутствовать.
func LoadOrderTemplate(path string) (*OrderEnvelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать шаблон заказа %s: %w", path, err)
	}

	var tmpl OrderEnvelope
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("не удалось разобрать шаблон заказа %s: %w", path, err)
	}

	v := validator.New()
	if err := v.Struct(&tmpl); err != nil {
		return nil, fmt.Errorf("шаблон заказа неполный: %w", err)
	}

	return &tmpl, nil
}

// Locality возвращает город из name_components, а если тега locality нет —
// первый сегмент строкового адреса до запятой.
func (o *Order) Locality() string {
	for _, comp := range o.Address.NameComponents {
		if comp.Kind == KindLocality && comp.Name != "" {
			return comp.Name
		}
	}
	segment, _, _ := strings.Cut(o.Address.Name, ",")
	return strings.TrimSpace(segment)
}

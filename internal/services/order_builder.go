// Файл: internal/services/order_builder.go
package services

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"intake-bridge/internal/dto"
	"intake-bridge/pkg/utils"
)

// mskZone — фиксированный пояс UTC+3; от него считается идентификатор заказа.
var mskZone = time.FixedZone("MSK", 3*60*60)

// desiredDtRegexp — единственный допустимый формат даты визита для 1С.
var desiredDtRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T00:00Z$`)

// FormatAddress собирает строковый адрес из частей: город, улица, дом.
// Пустые части пропускаются, разделителей по краям не бывает.
func FormatAddress(addr dto.ClientAddress) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{addr.City, addr.Street, addr.HouseNumber} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// OrderBuilder формирует документ заказа из записи клиента и шаблона.
// Шаблон общий и неизменяемый: каждый вызов Build работает с глубокой копией.
type OrderBuilder struct {
	template *dto.OrderEnvelope
	logger   *zap.Logger
	now      func() time.Time
}

func NewOrderBuilder(template *dto.OrderEnvelope, logger *zap.Logger) *OrderBuilder {
	return &OrderBuilder{
		template: template,
		logger:   logger.Named("order_builder"),
		now:      time.Now,
	}
}

// Build возвращает идентификатор заказа и заполненный документ.
// Отсутствующие поля записи не ошибка: всё деградирует к пустым значениям.
func (b *OrderBuilder) Build(rec *dto.ClientRecord) (string, *dto.OrderEnvelope, error) {
	env, err := b.template.Clone()
	if err != nil {
		return "", nil, err
	}
	order := &env.Order

	now := b.now().In(mskZone)
	phoneDigits := utils.PhoneDigits(rec.IncomingPhone())
	orderID := now.Format("20060102150405") + phoneDigits

	order.UslugiID = orderID
	order.Services[0].ServiceID = rec.Direction
	order.DesiredDt = b.resolveDesiredDt(rec)
	order.ModelTechnique = rec.Brand

	order.Client.DisplayName = rec.Name
	order.Client.Phone = rec.Phone
	order.Client.PhoneIncoming = rec.Phone2

	order.Address.Name = FormatAddress(rec.Address)
	order.Address.Apartment = rec.Address.Apartment
	order.Address.Entrance = rec.Address.Entrance
	order.Address.Floor = rec.Address.Floor
	order.Address.Intercom = rec.Address.Intercom

	if rec.MultipleRequest.Valid {
		order.MultipleRequest = rec.MultipleRequest.Bool
	}

	if city := rec.Address.City; city != "" {
		setLocality(&order.Address, city)
	}

	if rec.Address.Latitude.Valid && rec.Address.Longitude.Valid {
		order.Address.Geopoint = &dto.Geopoint{
			Latitude:  rec.Address.Latitude.Float64,
			Longitude: rec.Address.Longitude.Float64,
		}
	}

	order.Comment = composeComment(rec)

	return orderID, env, nil
}

// resolveDesiredDt строит дату визита из записи клиента, а при любом
// отклонении от формата молча берет дату из шаблона: битая дата не должна
// сорвать создание заказа. Отклонение при этом логируется отдельно.
func (b *OrderBuilder) resolveDesiredDt(rec *dto.ClientRecord) string {
	templateDt := b.template.Order.DesiredDt

	candidate := templateDt
	if visitRaw := strings.TrimSpace(rec.Date.String); visitRaw != "" {
		candidate = visitRaw + "T00:00Z"
	}

	if !desiredDtRegexp.MatchString(candidate) {
		b.logger.Warn("Некорректная дата визита, подставлена дата из шаблона",
			zap.String("candidate", candidate),
			zap.String("template_dt", templateDt),
		)
		return templateDt
	}
	return candidate
}

// setLocality проставляет город в name_components: существующий элемент
// с kind=locality перезаписывается, иначе добавляется новый. Дублей locality
// не возникает, прочие kind не трогаются.
func setLocality(addr *dto.OrderAddress, city string) {
	for i := range addr.NameComponents {
		if addr.NameComponents[i].Kind == dto.KindLocality {
			addr.NameComponents[i].Name = city
			return
		}
	}
	addr.NameComponents = append(addr.NameComponents, dto.NameComponent{
		Kind: dto.KindLocality,
		Name: city,
	})
}

// composeComment склеивает комментарий из деталей неисправности, бренда
// и комментария клиента, пропуская пустые части.
func composeComment(rec *dto.ClientRecord) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{rec.Circumstances, rec.Brand, rec.Comment} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " - ")
}

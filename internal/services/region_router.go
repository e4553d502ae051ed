// Файл: internal/services/region_router.go
package services

import (
	"strings"

	"intake-bridge/internal/dto"
)

// Коды регионов, по которым выбирается путь запроса номера заявки.
const (
	RegionSPB = "spb"
	RegionMSK = "msk"
	RegionReg = "reg"
)

var (
	spbMarkers = []string{"Санкт", "Петербург", "СПб"}
	mskMarkers = []string{"Москва", "Моск"}
)

// RouteRegion классифицирует заказ по городу. Это намеренно грубая
// эвристика по подстрокам (с учетом регистра), а не геокодирование;
// все спорные случаи уходят в reg.
func RouteRegion(order *dto.Order) string {
	city := order.Locality()

	if containsAny(city, spbMarkers) {
		return RegionSPB
	}
	if containsAny(city, mskMarkers) {
		return RegionMSK
	}
	return RegionReg
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

package utils

import (
	"regexp"
)

var nonDigitRegexp = regexp.MustCompile(`\D`)

// PhoneDigits оставляет в номере только цифры. Пустая строка на входе
// (или номер без цифр) дает пустую строку — это не ошибка.
func PhoneDigits(phone string) string {
	return nonDigitRegexp.ReplaceAllString(phone, "")
}

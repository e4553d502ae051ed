package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhoneDigits(t *testing.T) {
	cases := []struct {
		phone    string
		expected string
	}{
		{"+7 911 222-33-44", "79112223344"},
		{"8 (800) 123-45-67", "88001234567"},
		{"без цифр", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, PhoneDigits(tc.phone), "вход: %q", tc.phone)
	}
}

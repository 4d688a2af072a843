package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertIsPure(t *testing.T) {
	first := Convert(19.99, "INR")
	second := Convert(19.99, "INR")
	assert.Equal(t, first, second)
}

func TestConvertZero(t *testing.T) {
	for _, code := range []string{"USD", "EUR", "JPY", "XXX"} {
		assert.Zero(t, Convert(0, code))
	}
}

func TestConvertUnknownCodeKeepsUSDAmount(t *testing.T) {
	assert.Equal(t, 12.50, Convert(12.50, "XYZ"))
}

func TestCountryLookups(t *testing.T) {
	tests := []struct {
		country string
		code    string
		symbol  string
	}{
		{"United States", "USD", "$"},
		{"India", "INR", "₹"},
		{"Germany", "EUR", "€"},
		{"Atlantis", "USD", "$"}, // unknown country defaults
		{"", "USD", "$"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, Code(tt.country), tt.country)
		assert.Equal(t, tt.symbol, Symbol(tt.country), tt.country)
	}
}

func TestFormatTwoDecimals(t *testing.T) {
	assert.Equal(t, "$10.00", Format(10, "United States"))
	assert.Equal(t, "£7.90", Format(10, "United Kingdom"))
}

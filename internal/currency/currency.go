// Package currency is a pure presentation transform: all prices are stored in
// USD and converted only for display, keyed off the profile country. Static
// tables, no network, no caching.
package currency

import "fmt"

type Currency struct {
	Code   string
	Symbol string
}

var countryCurrencies = map[string]Currency{
	"United States":  {Code: "USD", Symbol: "$"},
	"United Kingdom": {Code: "GBP", Symbol: "£"},
	"India":          {Code: "INR", Symbol: "₹"},
	"Germany":        {Code: "EUR", Symbol: "€"},
	"France":         {Code: "EUR", Symbol: "€"},
	"Spain":          {Code: "EUR", Symbol: "€"},
	"Italy":          {Code: "EUR", Symbol: "€"},
	"Japan":          {Code: "JPY", Symbol: "¥"},
	"Canada":         {Code: "CAD", Symbol: "C$"},
	"Australia":      {Code: "AUD", Symbol: "A$"},
	"Brazil":         {Code: "BRL", Symbol: "R$"},
	"Nigeria":        {Code: "NGN", Symbol: "₦"},
	"South Africa":   {Code: "ZAR", Symbol: "R"},
	"Mexico":         {Code: "MXN", Symbol: "Mex$"},
}

// exchangeRates are USD multipliers for display only.
var exchangeRates = map[string]float64{
	"USD": 1.0,
	"GBP": 0.79,
	"INR": 83.20,
	"EUR": 0.92,
	"JPY": 155.40,
	"CAD": 1.37,
	"AUD": 1.51,
	"BRL": 5.12,
	"NGN": 1480.0,
	"ZAR": 18.60,
	"MXN": 17.10,
}

// Convert turns a USD amount into the target display currency. Unknown codes
// fall back to a 1.0 rate.
func Convert(amountUSD float64, code string) float64 {
	rate, ok := exchangeRates[code]
	if !ok {
		rate = 1.0
	}
	return amountUSD * rate
}

// Code returns the display currency code for a country, defaulting to USD.
func Code(country string) string {
	if c, ok := countryCurrencies[country]; ok {
		return c.Code
	}
	return "USD"
}

// Symbol returns the display currency symbol for a country, defaulting to $.
func Symbol(country string) string {
	if c, ok := countryCurrencies[country]; ok {
		return c.Symbol
	}
	return "$"
}

// Format renders a USD amount in the display currency of the given country
// with two decimals, e.g. "₹1663.84".
func Format(amountUSD float64, country string) string {
	return fmt.Sprintf("%s%.2f", Symbol(country), Convert(amountUSD, Code(country)))
}

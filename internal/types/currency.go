package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CURRENCY_CODES_SYMBOLS is a map of 3 digit ISO currency codes to their symbols
var CURRENCY_CODES_SYMBOLS = map[string]string{
	"usd": "$",
	"eur": "€",
	"gbp": "£",
	"aud": "AU$",
	"cad": "CA$",
	"chf": "CHF",
	"sek": "kr",
	"nzd": "NZ$",
	"jpy": "¥",
	"inr": "₹",
	"brl": "R$",
	"mxn": "MX$",
}

// GetCurrencySymbol returns the symbol for a given currency code
// if the code is not found, it returns the code itself
func GetCurrencySymbol(code string) string {
	if symbol, ok := CURRENCY_CODES_SYMBOLS[code]; ok {
		return symbol
	}
	return code
}

// FormatAmount renders an amount with its currency symbol for logs and
// display strings, ex "$12.50".
func FormatAmount(amount decimal.Decimal, code string, precision int32) string {
	return fmt.Sprintf("%s%s", GetCurrencySymbol(code), amount.StringFixed(precision))
}

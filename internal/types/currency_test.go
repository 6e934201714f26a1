package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGetCurrencySymbol(t *testing.T) {
	assert.Equal(t, "$", GetCurrencySymbol("usd"))
	assert.Equal(t, "€", GetCurrencySymbol("eur"))
	assert.Equal(t, "xyz", GetCurrencySymbol("xyz"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$12.50", FormatAmount(decimal.NewFromFloat(12.5), "usd", 2))
	assert.Equal(t, "¥1200", FormatAmount(decimal.NewFromInt(1200), "jpy", 0))
}

package client

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatIDR renders an amount as whole rupiah with Indonesian digit
// grouping, e.g. "Rp 83.250".
func FormatIDR(amount decimal.Decimal) string {
	n := amount.Round(0).IntPart()
	if n < 0 {
		return "-Rp " + idPrinter.Sprintf("%d", -n)
	}
	return "Rp " + idPrinter.Sprintf("%d", n)
}

// CurrencyCode is the ISO code amounts are denominated in.
func CurrencyCode() string {
	return currency.IDR.String()
}

// FormatPercent renders a rate such as 0.11 as "11%".
func FormatPercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String() + "%"
}

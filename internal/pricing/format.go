package pricing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Format renders an amount with its currency symbol for display, always with
// two fractional digits whatever the currency's own precision is.
// The amount is expected to be rounded already; see Result.Rounded.
func Format(amount decimal.Decimal, unit currency.Unit, tag language.Tag) string {
	f, _ := amount.Float64()
	return message.NewPrinter(tag).Sprintf("%v %v", currency.Symbol(unit), number.Decimal(f, number.Scale(2)))
}

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nikolayk812/cartcalc/internal/cart"
	"github.com/nikolayk812/cartcalc/internal/pricing"
	"github.com/google/uuid"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// printTotals writes the lines and the rounded totals as an aligned table.
func printTotals(out io.Writer, lines []cart.Line, totals pricing.Result, unit currency.Unit, tag language.Tag, flow string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	for _, l := range lines {
		price := pricing.Format(l.Price.Amount.Round(2), l.Price.Currency, tag)
		fmt.Fprintf(w, "%s\t%d x %s\n", l.ProductID, l.Quantity, price)
	}

	fmt.Fprintf(w, "flow\t%s\n", flow)
	fmt.Fprintf(w, "subtotal\t%s\n", pricing.Format(totals.Subtotal, unit, tag))
	fmt.Fprintf(w, "shipping\t%s\n", pricing.Format(totals.ShippingCost, unit, tag))
	fmt.Fprintf(w, "tax\t%s\n", pricing.Format(totals.TaxAmount, unit, tag))
	fmt.Fprintf(w, "discount\t%s\n", pricing.Format(totals.DiscountAmount, unit, tag))
	fmt.Fprintf(w, "total\t%s\n", pricing.Format(totals.Total, unit, tag))

	_ = w.Flush()
}

func printList(out io.Writer, key string, ids []uuid.UUID) {
	fmt.Fprintf(out, "%s (%d)\n", key, len(ids))
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
}

// Package calculator implements the pure money arithmetic for Partela:
// table totals and the three bill-splitting algorithms.
//
// All currency values are rounded to cents with RoundCents (round half
// away from zero). Split computations absorb any cent-rounding remainder
// into the last guest of the deterministic iteration order, so the sum of
// shares reconciles with the table total exactly whenever the computation
// is complete.
package calculator

import "math"

// LineItem is the minimal billing view of a menu item.
type LineItem struct {
	Price    float64
	Quantity int
}

// Totals holds the derived money totals of a table.
// Total == Subtotal + TaxAmount + ServiceFeeAmount to the cent.
type Totals struct {
	Subtotal         float64
	TaxAmount        float64
	ServiceFeeAmount float64
	Total            float64
}

// RoundCents rounds to two decimal places, half away from zero. This is
// the single rounding rule applied everywhere money is computed.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Subtotal sums Price × Quantity over the given items.
func Subtotal(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// ComputeTotals derives the table totals from all current items. Tax and
// service fee are applied multiplicatively on the subtotal, and each of
// the four values is rounded independently.
func ComputeTotals(items []LineItem, taxRate, serviceFeeRate float64) Totals {
	subtotal := Subtotal(items)
	taxAmount := subtotal * taxRate
	serviceFeeAmount := subtotal * serviceFeeRate
	total := subtotal + taxAmount + serviceFeeAmount

	return Totals{
		Subtotal:         RoundCents(subtotal),
		TaxAmount:        RoundCents(taxAmount),
		ServiceFeeAmount: RoundCents(serviceFeeAmount),
		Total:            RoundCents(total),
	}
}

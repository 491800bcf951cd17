package calculator

// PayMyPart computes each guest's amount as their own subtotal plus their
// proportional share of tax and service fee. guestSubtotals must be in the
// table's guest order. When the table subtotal is zero every guest carries
// an equal 1/N proportion. The last guest absorbs the rounding remainder
// so the amounts sum to totals.Total exactly.
func PayMyPart(guestSubtotals []float64, totals Totals) []float64 {
	n := len(guestSubtotals)
	amounts := make([]float64, n)

	var accumulated float64
	for i, sub := range guestSubtotals {
		proportion := 1 / float64(n)
		if totals.Subtotal > 0 {
			proportion = sub / totals.Subtotal
		}
		tax := totals.TaxAmount * proportion
		service := totals.ServiceFeeAmount * proportion

		amount := RoundCents(sub + tax + service)
		if i == n-1 {
			amount = RoundCents(totals.Total - accumulated)
		}

		amounts[i] = amount
		accumulated += amount
	}
	return amounts
}

// SplitEqually divides total evenly among n guests, rounding each share to
// cents and assigning the remainder to the last guest.
func SplitEqually(total float64, n int) []float64 {
	if n == 0 {
		return nil
	}

	amounts := make([]float64, n)
	base := RoundCents(total / float64(n))

	var accumulated float64
	for i := range amounts {
		amount := base
		if i == n-1 {
			amount = RoundCents(total - accumulated)
		}
		amounts[i] = amount
		accumulated += amount
	}
	return amounts
}

// CustomSplit computes each guest's amount from their raw selected-item
// share (unit price divided by payer count, pre-tax), adding the
// proportional tax and service fee on that share. The remainder is
// absorbed by the last guest only when allAssigned is true; with items
// still unassigned, a sum below the table total is expected and surfaced
// separately as the remaining balance.
func CustomSplit(guestShares []float64, totals Totals, allAssigned bool) []float64 {
	n := len(guestShares)
	amounts := make([]float64, n)

	var accumulated float64
	for i, share := range guestShares {
		var proportion float64
		if totals.Subtotal > 0 {
			proportion = share / totals.Subtotal
		}
		tax := totals.TaxAmount * proportion
		service := totals.ServiceFeeAmount * proportion

		amount := RoundCents(share + tax + service)
		if i == n-1 && allAssigned {
			amount = RoundCents(totals.Total - accumulated)
		}

		amounts[i] = amount
		accumulated += amount
	}
	return amounts
}

// UnassignedBalance converts the pre-tax total of items with zero payers
// into the remaining balance by adding its proportional tax and service
// share.
func UnassignedBalance(unassignedSubtotal float64, totals Totals) float64 {
	balance := unassignedSubtotal
	if totals.Subtotal > 0 {
		proportion := unassignedSubtotal / totals.Subtotal
		balance += (totals.TaxAmount + totals.ServiceFeeAmount) * proportion
	}
	return RoundCents(balance)
}

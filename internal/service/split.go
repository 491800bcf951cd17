package service

import (
	"fmt"
	"log/slog"

	"github.com/ArtP10/prototype-partela-server/internal/calculator"
	"github.com/ArtP10/prototype-partela-server/internal/models"
)

func tableTotals(t *models.Table) calculator.Totals {
	return calculator.Totals{
		Subtotal:         t.Subtotal,
		TaxAmount:        t.TaxAmount,
		ServiceFeeAmount: t.ServiceFeeAmount,
		Total:            t.Total,
	}
}

// ApplySplit computes every guest's payment amount under the table's
// winning mode. Iteration order is the table's guest sequence; the last
// guest absorbs the cent-rounding remainder (for custom split only once
// every item has a payer).
func ApplySplit(t *models.Table) {
	if t.WinningMode == nil {
		return
	}

	switch *t.WinningMode {
	case models.PayMyPart:
		applyPayMyPart(t)
	case models.SplitEqually:
		applySplitEqually(t)
	case models.CustomSplit:
		applyCustomSplit(t)
	}
	t.Touch()
}

func applyPayMyPart(t *models.Table) {
	subtotals := make([]float64, len(t.Guests))
	for i, g := range t.Guests {
		subtotals[i] = g.Subtotal()
	}

	amounts := calculator.PayMyPart(subtotals, tableTotals(t))
	for i, g := range t.Guests {
		g.PaymentAmount = amounts[i]
		g.PaymentStatus = models.PaymentReady
	}
}

func applySplitEqually(t *models.Table) {
	amounts := calculator.SplitEqually(t.Total, len(t.Guests))
	for i, g := range t.Guests {
		g.PaymentAmount = amounts[i]
		g.PaymentStatus = models.PaymentReady
	}
}

// applyCustomSplit writes amounts but not readiness; under custom split a
// guest becomes ready only by confirming its selection.
func applyCustomSplit(t *models.Table) {
	shares := make([]float64, len(t.Guests))
	for i, g := range t.Guests {
		var share float64
		for _, itemID := range g.SelectedItemIDs {
			item, ok := t.FindItem(itemID)
			if !ok {
				continue
			}
			// Per-item division uses the unit price; demo items always
			// have quantity 1.
			if payers := t.PayerCount(itemID); payers > 0 {
				share += item.Price / float64(payers)
			}
		}
		shares[i] = share
	}

	amounts := calculator.CustomSplit(shares, tableTotals(t), t.AllItemsAssigned)
	for i, g := range t.Guests {
		g.PaymentAmount = amounts[i]
	}
}

// ToggleItem flips itemID in the guest's selection set, then rebuilds the
// table's item assignments from scratch and rederives the remaining
// balance. Returns the new assignments, remaining balance and whether all
// items now have a payer.
func ToggleItem(t *models.Table, g *models.Guest, itemID string) (map[string][]string, float64, bool) {
	removed := false
	for i, id := range g.SelectedItemIDs {
		if id == itemID {
			g.SelectedItemIDs = append(g.SelectedItemIDs[:i], g.SelectedItemIDs[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		g.SelectedItemIDs = append(g.SelectedItemIDs, itemID)
	}

	rebuildItemAssignments(t)
	recalcRemainingBalance(t)
	t.Touch()

	return t.ItemAssignments, t.RemainingBalance, t.AllItemsAssigned
}

// rebuildItemAssignments rescans every guest's selections over every table
// item. The assignment map is never edited incrementally: rebuilding keeps
// it a pure projection of the guests' selections, immune to drift.
func rebuildItemAssignments(t *models.Table) {
	assignments := make(map[string][]string)
	for _, item := range t.AllItems() {
		payers := []string{}
		for _, g := range t.Guests {
			if g.HasSelected(item.ID) {
				payers = append(payers, g.ID)
			}
		}
		assignments[item.ID] = payers
	}
	t.ItemAssignments = assignments
}

func recalcRemainingBalance(t *models.Table) {
	var unassigned float64
	allAssigned := true
	for _, item := range t.AllItems() {
		if t.PayerCount(item.ID) == 0 {
			unassigned += item.LineTotal()
			allAssigned = false
		}
	}

	t.RemainingBalance = calculator.UnassignedBalance(unassigned, tableTotals(t))
	t.AllItemsAssigned = allAssigned
}

// ConfirmSelection marks the guest ready. When every guest is ready and
// every item has a payer, a final custom-split pass runs (now absorbing
// the rounding remainder) and the table moves to paying. Reports whether
// that transition happened.
func ConfirmSelection(t *models.Table, g *models.Guest) bool {
	g.PaymentStatus = models.PaymentReady
	t.Touch()

	for _, other := range t.Guests {
		if other.PaymentStatus != models.PaymentReady {
			return false
		}
	}
	if !t.AllItemsAssigned {
		return false
	}

	applyCustomSplit(t)
	t.TableStatus = models.StatusPaying
	slog.Info("Custom split finalized", "table_id", t.ID, "guests", len(t.Guests))
	return true
}

// ValidateCustomSplit lists the items that still have no payer; the split
// is valid iff the list is empty.
func ValidateCustomSplit(t *models.Table) (bool, []string) {
	issues := []string{}
	for _, item := range t.AllItems() {
		if t.PayerCount(item.ID) == 0 {
			issues = append(issues, fmt.Sprintf("%s no tiene a nadie asignado", item.Name))
		}
	}
	return len(issues) == 0, issues
}

// ItemSplitInfo reports who pays for an item and the per-payer amount.
func ItemSplitInfo(t *models.Table, itemID string) ([]string, float64, bool) {
	item, ok := t.FindItem(itemID)
	if !ok {
		return nil, 0, false
	}

	payerIDs := t.ItemAssignments[itemID]
	names := make([]string, len(payerIDs))
	for i, id := range payerIDs {
		if g := t.FindGuest(id); g != nil {
			names[i] = g.DisplayName
		} else {
			names[i] = "Desconocido"
		}
	}

	amount := item.Price
	if len(payerIDs) > 0 {
		amount = calculator.RoundCents(item.Price / float64(len(payerIDs)))
	}
	return names, amount, true
}

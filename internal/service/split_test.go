package service

import (
	"math"
	"testing"

	"github.com/ArtP10/prototype-partela-server/internal/models"
)

// newSplitTable seats two guests with one known item each: a 10.00 dish
// and a 20.00 dish, no tax or service fee.
func newSplitTable() *models.Table {
	table := newTestTable(2)
	table.Guests[0].Items = []models.MenuItem{
		{ID: "item-1", Name: "Arepa Reina Pepiada", Price: 10.0, Quantity: 1},
	}
	table.Guests[1].Items = []models.MenuItem{
		{ID: "item-2", Name: "Pabellón Criollo", Price: 20.0, Quantity: 1},
	}
	table.Subtotal = 30.0
	table.Total = 30.0
	table.RemainingBalance = 30.0
	return table
}

func TestToggleItemRoundTrip(t *testing.T) {
	table := newSplitTable()
	g := table.Guests[0]

	assignments, remaining, allAssigned := ToggleItem(table, g, "item-1")
	if len(assignments["item-1"]) != 1 || assignments["item-1"][0] != g.ID {
		t.Errorf("item-1 payers = %v, want [%s]", assignments["item-1"], g.ID)
	}
	if math.Abs(remaining-20.0) > 0.001 {
		t.Errorf("remaining = %v after claiming the 10.00 item, want 20.0", remaining)
	}
	if allAssigned {
		t.Error("allAssigned with item-2 still unclaimed")
	}

	// Toggling again deselects and restores the starting state.
	assignments, remaining, _ = ToggleItem(table, g, "item-1")
	if len(assignments["item-1"]) != 0 {
		t.Errorf("item-1 payers = %v after deselect, want none", assignments["item-1"])
	}
	if math.Abs(remaining-30.0) > 0.001 {
		t.Errorf("remaining = %v after deselect, want 30.0", remaining)
	}
	if g.HasSelected("item-1") {
		t.Error("guest still has item-1 selected after deselect")
	}
}

func TestToggleItemSharedBetweenGuests(t *testing.T) {
	table := newSplitTable()

	ToggleItem(table, table.Guests[0], "item-2")
	assignments, remaining, allAssigned := ToggleItem(table, table.Guests[1], "item-2")

	if len(assignments["item-2"]) != 2 {
		t.Fatalf("item-2 payers = %v, want both guests", assignments["item-2"])
	}
	if math.Abs(remaining-10.0) > 0.001 {
		t.Errorf("remaining = %v, want 10.0 (item-1 unclaimed)", remaining)
	}
	if allAssigned {
		t.Error("allAssigned with item-1 unclaimed")
	}
}

func TestApplySplitEqually(t *testing.T) {
	table := newSplitTable()
	mode := models.SplitEqually
	table.WinningMode = &mode

	ApplySplit(table)

	for _, g := range table.Guests {
		if math.Abs(g.PaymentAmount-15.0) > 0.001 {
			t.Errorf("%s amount = %v, want 15.0", g.DisplayName, g.PaymentAmount)
		}
		if g.PaymentStatus != models.PaymentReady {
			t.Errorf("%s status = %q, want ready", g.DisplayName, g.PaymentStatus)
		}
	}
}

func TestApplySplitPayMyPart(t *testing.T) {
	table := newSplitTable()
	mode := models.PayMyPart
	table.WinningMode = &mode

	ApplySplit(table)

	if math.Abs(table.Guests[0].PaymentAmount-10.0) > 0.001 {
		t.Errorf("guest 1 amount = %v, want own subtotal 10.0", table.Guests[0].PaymentAmount)
	}
	if math.Abs(table.Guests[1].PaymentAmount-20.0) > 0.001 {
		t.Errorf("guest 2 amount = %v, want own subtotal 20.0", table.Guests[1].PaymentAmount)
	}
}

func TestConfirmSelectionFinalizesCustomSplit(t *testing.T) {
	table := newSplitTable()
	mode := models.CustomSplit
	table.WinningMode = &mode
	table.TableStatus = models.StatusSplitting

	ToggleItem(table, table.Guests[0], "item-1")
	ToggleItem(table, table.Guests[1], "item-2")

	if finalized := ConfirmSelection(table, table.Guests[0]); finalized {
		t.Error("finalized with one guest still unconfirmed")
	}
	if table.TableStatus != models.StatusSplitting {
		t.Errorf("tableStatus = %q before everyone confirmed, want splitting", table.TableStatus)
	}

	if finalized := ConfirmSelection(table, table.Guests[1]); !finalized {
		t.Fatal("expected finalization once every guest confirmed")
	}
	if table.TableStatus != models.StatusPaying {
		t.Errorf("tableStatus = %q, want paying", table.TableStatus)
	}
	if math.Abs(table.Guests[0].PaymentAmount-10.0) > 0.001 {
		t.Errorf("guest 1 amount = %v, want 10.0", table.Guests[0].PaymentAmount)
	}
	if math.Abs(table.Guests[1].PaymentAmount-20.0) > 0.001 {
		t.Errorf("guest 2 amount = %v, want 20.0", table.Guests[1].PaymentAmount)
	}
}

func TestConfirmSelectionBlockedByUnassignedItems(t *testing.T) {
	table := newSplitTable()
	mode := models.CustomSplit
	table.WinningMode = &mode
	table.TableStatus = models.StatusSplitting

	ToggleItem(table, table.Guests[0], "item-1")

	ConfirmSelection(table, table.Guests[0])
	if finalized := ConfirmSelection(table, table.Guests[1]); finalized {
		t.Error("finalized with item-2 unassigned")
	}
	if table.TableStatus != models.StatusSplitting {
		t.Errorf("tableStatus = %q, want still splitting", table.TableStatus)
	}
}

func TestValidateCustomSplit(t *testing.T) {
	table := newSplitTable()
	rebuildItemAssignments(table)

	valid, issues := ValidateCustomSplit(table)
	if valid {
		t.Error("split valid with nothing assigned")
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2: %v", len(issues), issues)
	}
	if issues[0] != "Arepa Reina Pepiada no tiene a nadie asignado" {
		t.Errorf("issue = %q", issues[0])
	}

	ToggleItem(table, table.Guests[0], "item-1")
	ToggleItem(table, table.Guests[0], "item-2")
	valid, issues = ValidateCustomSplit(table)
	if !valid || len(issues) != 0 {
		t.Errorf("valid = %v, issues = %v, want fully assigned split to pass", valid, issues)
	}
}

func TestItemSplitInfo(t *testing.T) {
	table := newSplitTable()
	ToggleItem(table, table.Guests[0], "item-2")
	ToggleItem(table, table.Guests[1], "item-2")

	names, amount, ok := ItemSplitInfo(table, "item-2")
	if !ok {
		t.Fatal("item-2 not found")
	}
	if len(names) != 2 {
		t.Errorf("payers = %v, want both display names", names)
	}
	if math.Abs(amount-10.0) > 0.001 {
		t.Errorf("per-payer amount = %v, want 20.00 / 2 = 10.0", amount)
	}

	if _, _, ok := ItemSplitInfo(table, "missing"); ok {
		t.Error("unknown item reported as found")
	}
}

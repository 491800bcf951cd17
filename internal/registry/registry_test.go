package registry

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/ArtP10/prototype-partela-server/internal/config"
	"github.com/ArtP10/prototype-partela-server/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		RestaurantName:    "UPTOWN",
		MaxGuestsPerTable: 4,
		TaxRate:           0.16,
		ServiceFeeRate:    0.10,
	}
}

// fixedItems is a deterministic ItemGenerator: every guest gets one
// 10.00 item with a unique ID.
func fixedItems() ItemGenerator {
	n := 0
	return func() []models.MenuItem {
		n++
		return []models.MenuItem{
			{ID: fmt.Sprintf("item-%d", n), Name: fmt.Sprintf("Plato %d", n), Price: 10.0, Quantity: 1},
		}
	}
}

func newTestRegistry() *Registry {
	return New(testConfig(), fixedItems())
}

func TestJoinFirstGuest(t *testing.T) {
	reg := newTestRegistry()

	g, err := reg.Join("MESA-AAAA", "conn-1", "")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if g.DisplayName != "Comensal 1" {
		t.Errorf("displayName = %q, want Comensal 1", g.DisplayName)
	}
	if len(g.Items) != 1 {
		t.Errorf("guest got %d items, want 1", len(g.Items))
	}
	if !g.IsOnline {
		t.Error("new guest not online")
	}

	table, ok := reg.Get("MESA-AAAA")
	if !ok {
		t.Fatal("table not created on first join")
	}
	if table.RestaurantName != "UPTOWN" {
		t.Errorf("restaurantName = %q", table.RestaurantName)
	}
	if table.TableStatus != models.StatusViewing {
		t.Errorf("tableStatus = %q, want viewing", table.TableStatus)
	}

	// First join initializes the unclaimed balance to the full bill.
	if math.Abs(table.RemainingBalance-table.Total) > 1e-9 {
		t.Errorf("remainingBalance = %v, want table total %v", table.RemainingBalance, table.Total)
	}
}

func TestJoinTotalsInvariant(t *testing.T) {
	reg := newTestRegistry()
	reg.Join("MESA-AAAA", "conn-1", "")
	reg.Join("MESA-AAAA", "conn-2", "")
	reg.Join("MESA-AAAA", "conn-3", "")

	table, _ := reg.Get("MESA-AAAA")
	if math.Abs(table.Subtotal-30.0) > 0.001 {
		t.Errorf("subtotal = %v, want 30.0", table.Subtotal)
	}
	sum := table.Subtotal + table.TaxAmount + table.ServiceFeeAmount
	if math.Abs(table.Total-sum) > 0.011 {
		t.Errorf("total = %v, parts sum to %v", table.Total, sum)
	}
}

func TestJoinTableFull(t *testing.T) {
	reg := newTestRegistry()
	for i := 1; i <= 4; i++ {
		if _, err := reg.Join("MESA-AAAA", fmt.Sprintf("conn-%d", i), ""); err != nil {
			t.Fatalf("join %d failed: %v", i, err)
		}
	}

	_, err := reg.Join("MESA-AAAA", "conn-5", "")
	if !errors.Is(err, ErrTableFull) {
		t.Fatalf("err = %v, want ErrTableFull", err)
	}

	table, _ := reg.Get("MESA-AAAA")
	if len(table.Guests) != 4 {
		t.Errorf("guest count = %d after rejected join, want 4", len(table.Guests))
	}
	if _, _, ok := reg.GuestByConn("conn-5"); ok {
		t.Error("rejected connection left bound in the indices")
	}
}

func TestJoinAlreadyInTable(t *testing.T) {
	reg := newTestRegistry()
	reg.Join("MESA-AAAA", "conn-1", "")

	if _, err := reg.Join("MESA-BBBB", "conn-1", ""); !errors.Is(err, ErrAlreadyInTable) {
		t.Fatalf("err = %v, want ErrAlreadyInTable", err)
	}
}

func TestReconnectPreservesGuestState(t *testing.T) {
	reg := newTestRegistry()
	g, _ := reg.Join("MESA-AAAA", "conn-1", "")

	mode := models.SplitEqually
	g.VotedPaymentMode = &mode
	g.SelectedItemIDs = []string{"item-1"}
	g.PaymentAmount = 12.60

	table, _, ok := reg.Disconnect("conn-1")
	if !ok {
		t.Fatal("disconnect of a seated guest failed")
	}
	if g.IsOnline {
		t.Error("guest still online after disconnect")
	}
	if len(table.Guests) != 1 {
		t.Fatal("disconnect removed the guest")
	}

	back, err := reg.Join("MESA-AAAA", "conn-2", g.ID)
	if err != nil {
		t.Fatalf("reconnect failed: %v", err)
	}
	if back != g {
		t.Error("reconnect produced a different guest")
	}
	if !back.IsOnline {
		t.Error("reconnected guest not online")
	}
	if back.VotedPaymentMode == nil || *back.VotedPaymentMode != models.SplitEqually {
		t.Error("vote lost across reconnect")
	}
	if len(back.SelectedItemIDs) != 1 || back.PaymentAmount != 12.60 {
		t.Error("selections or amount lost across reconnect")
	}
	if len(table.Guests) != 1 {
		t.Errorf("guest count = %d after reconnect, want 1", len(table.Guests))
	}

	if _, _, ok := reg.GuestByConn("conn-2"); !ok {
		t.Error("new connection not routed to the guest")
	}
	if _, _, ok := reg.GuestByConn("conn-1"); ok {
		t.Error("stale connection still routed")
	}
}

func TestReconnectFullTable(t *testing.T) {
	reg := newTestRegistry()
	g, _ := reg.Join("MESA-AAAA", "conn-1", "")
	for i := 2; i <= 4; i++ {
		reg.Join("MESA-AAAA", fmt.Sprintf("conn-%d", i), "")
	}
	reg.Disconnect("conn-1")

	// Capacity never applies to a reconnect.
	if _, err := reg.Join("MESA-AAAA", "conn-5", g.ID); err != nil {
		t.Fatalf("reconnect to a full table failed: %v", err)
	}
}

func TestLeaveRenumbersGuests(t *testing.T) {
	reg := newTestRegistry()
	reg.Join("MESA-AAAA", "conn-1", "")
	reg.Join("MESA-AAAA", "conn-2", "")
	reg.Join("MESA-AAAA", "conn-3", "")

	table, left, ok := reg.Leave("conn-1")
	if !ok {
		t.Fatal("leave failed")
	}
	if left.DisplayName != "Comensal 1" {
		t.Errorf("left guest = %q", left.DisplayName)
	}
	if len(table.Guests) != 2 {
		t.Fatalf("guest count = %d, want 2", len(table.Guests))
	}
	if table.Guests[0].DisplayName != "Comensal 1" || table.Guests[1].DisplayName != "Comensal 2" {
		t.Errorf("names after renumber = %q, %q",
			table.Guests[0].DisplayName, table.Guests[1].DisplayName)
	}

	// The leaver's items no longer count toward the bill.
	if math.Abs(table.Subtotal-20.0) > 0.001 {
		t.Errorf("subtotal = %v after leave, want 20.0", table.Subtotal)
	}
}

func TestReconnectAsDifferentGuestRejected(t *testing.T) {
	reg := newTestRegistry()
	gA, _ := reg.Join("MESA-AAAA", "conn-1", "")
	gB, _ := reg.Join("MESA-AAAA", "conn-2", "")

	if _, err := reg.Join("MESA-AAAA", "conn-1", gB.ID); !errors.Is(err, ErrAlreadyInTable) {
		t.Fatalf("err = %v, want ErrAlreadyInTable", err)
	}

	// The original binding is untouched.
	if _, g, ok := reg.GuestByConn("conn-1"); !ok || g != gA {
		t.Error("conn-1 no longer routed to its own guest")
	}
	if gB.ConnID != "conn-2" || !gB.IsOnline {
		t.Error("target guest's binding disturbed by the rejected join")
	}

	// Rejoining as oneself stays allowed.
	if _, err := reg.Join("MESA-AAAA", "conn-1", gA.ID); err != nil {
		t.Errorf("same-guest rejoin failed: %v", err)
	}
}

func TestLeaveWithdrawsVote(t *testing.T) {
	reg := newTestRegistry()
	g1, _ := reg.Join("MESA-AAAA", "conn-1", "")
	g2, _ := reg.Join("MESA-AAAA", "conn-2", "")
	reg.Join("MESA-AAAA", "conn-3", "")

	table, _ := reg.Get("MESA-AAAA")
	table.TableStatus = models.StatusVoting
	table.VotingOpen = true
	mode := models.PayMyPart
	g1.VotedPaymentMode = &mode
	g2.VotedPaymentMode = &mode
	table.Votes[mode] = []string{g1.ID, g2.ID}

	reg.Leave("conn-1")

	// The departed voter must not keep deciding the election.
	for _, m := range models.PaymentModes {
		for _, id := range table.Votes[m] {
			if id == g1.ID {
				t.Errorf("departed guest still listed in %s votes", m)
			}
		}
	}
	if len(table.Votes[mode]) != 1 || table.Votes[mode][0] != g2.ID {
		t.Errorf("votes[%s] = %v, want only the remaining voter", mode, table.Votes[mode])
	}
}

func TestLeavePrunesItemAssignments(t *testing.T) {
	reg := newTestRegistry()
	g1, _ := reg.Join("MESA-AAAA", "conn-1", "")
	g2, _ := reg.Join("MESA-AAAA", "conn-2", "")

	// Both guests share g2's item; g1's own item is unclaimed.
	g1.SelectedItemIDs = []string{"item-2"}
	g2.SelectedItemIDs = []string{"item-2"}
	table, _ := reg.Get("MESA-AAAA")
	table.ItemAssignments = map[string][]string{
		"item-1": {},
		"item-2": {g1.ID, g2.ID},
	}

	reg.Leave("conn-1")

	if payers := table.ItemAssignments["item-2"]; len(payers) != 1 || payers[0] != g2.ID {
		t.Errorf("item-2 payers = %v, want only the remaining guest", payers)
	}
	if _, ok := table.ItemAssignments["item-1"]; ok {
		t.Error("departed guest's item still present in assignments")
	}
	if !table.AllItemsAssigned {
		t.Error("allItemsAssigned false with every remaining item claimed")
	}
	if table.RemainingBalance != 0 {
		t.Errorf("remainingBalance = %v, want 0", table.RemainingBalance)
	}
}

func TestLeaveUnclaimedBalanceTracksShrunkBill(t *testing.T) {
	reg := newTestRegistry()
	reg.Join("MESA-AAAA", "conn-1", "")
	reg.Join("MESA-AAAA", "conn-2", "")

	table, _, ok := reg.Leave("conn-1")
	if !ok {
		t.Fatal("leave failed")
	}

	// Nothing is claimed, so the unclaimed balance is the new, smaller
	// total (10.00 subtotal + 16% tax + 10% service).
	if math.Abs(table.RemainingBalance-table.Total) > 1e-9 {
		t.Errorf("remainingBalance = %v, want shrunk total %v", table.RemainingBalance, table.Total)
	}
	if math.Abs(table.Total-12.60) > 0.001 {
		t.Errorf("total = %v, want 12.60", table.Total)
	}
	if table.AllItemsAssigned {
		t.Error("allItemsAssigned with the remaining item unclaimed")
	}
}

func TestReset(t *testing.T) {
	reg := newTestRegistry()
	g, _ := reg.Join("MESA-AAAA", "conn-1", "")
	reg.Join("MESA-AAAA", "conn-2", "")

	table, _ := reg.Get("MESA-AAAA")
	mode := models.CustomSplit
	table.TableStatus = models.StatusPaying
	table.VotingOpen = true
	table.WinningMode = &mode
	table.Votes[mode] = []string{g.ID}
	table.ItemAssignments["item-1"] = []string{g.ID}
	table.AllItemsAssigned = true
	g.VotedPaymentMode = &mode
	g.SelectedItemIDs = []string{"item-1"}
	g.PaymentAmount = 12.60
	g.PaymentStatus = models.PaymentConfirmed
	g.PaymentDetails = &models.PaymentInfo{Bank: "Banesco"}

	reset, ok := reg.Reset("MESA-AAAA")
	if !ok {
		t.Fatal("reset failed")
	}

	if reset.TableStatus != models.StatusViewing || reset.VotingOpen {
		t.Errorf("status = %q votingOpen = %v, want viewing/closed", reset.TableStatus, reset.VotingOpen)
	}
	if reset.WinningMode != nil || reset.AllItemsAssigned {
		t.Error("winner or assignment flag survived the reset")
	}
	if len(reset.Votes[mode]) != 0 || len(reset.ItemAssignments) != 0 {
		t.Error("votes or assignments survived the reset")
	}
	if math.Abs(reset.RemainingBalance-reset.Total) > 1e-9 {
		t.Errorf("remainingBalance = %v, want full total %v", reset.RemainingBalance, reset.Total)
	}

	if g.VotedPaymentMode != nil || len(g.SelectedItemIDs) != 0 {
		t.Error("guest vote or selections survived the reset")
	}
	if g.PaymentAmount != 0 || g.PaymentStatus != models.PaymentPending || g.PaymentDetails != nil {
		t.Error("guest payment state survived the reset")
	}
	if len(reset.Guests) != 2 || len(g.Items) != 1 {
		t.Error("reset removed guests or items")
	}
}

func TestEvictIfEmpty(t *testing.T) {
	reg := newTestRegistry()
	reg.Join("MESA-AAAA", "conn-1", "")

	if reg.EvictIfEmpty("MESA-AAAA") {
		t.Error("evicted a table that still has a guest")
	}

	reg.Leave("conn-1")
	if !reg.EvictIfEmpty("MESA-AAAA") {
		t.Error("empty table not evicted")
	}
	if _, ok := reg.Get("MESA-AAAA"); ok {
		t.Error("table still present after eviction")
	}
	if reg.TableCount() != 0 {
		t.Errorf("tableCount = %d, want 0", reg.TableCount())
	}

	if reg.EvictIfEmpty("MESA-GONE") {
		t.Error("evicting an unknown table reported success")
	}
}

func TestDisconnectUnknownConn(t *testing.T) {
	reg := newTestRegistry()
	if _, _, ok := reg.Disconnect("never-joined"); ok {
		t.Error("disconnect of an unknown connection reported a guest")
	}
}

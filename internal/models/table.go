package models

import "time"

// TableStatus is the table's position in the session state machine:
//
//	viewing → voting → splitting → paying → waiting_payments → completed
//
// A reset returns the table to viewing from any state.
type TableStatus string

const (
	StatusViewing         TableStatus = "viewing"
	StatusVoting          TableStatus = "voting"
	StatusSplitting       TableStatus = "splitting"
	StatusPaying          TableStatus = "paying"
	StatusWaitingPayments TableStatus = "waiting_payments"
	StatusCompleted       TableStatus = "completed"
)

// Table is one shared bill-splitting session. It exclusively owns its
// guests; guest order is join order and is the deterministic iteration
// order for every split computation.
type Table struct {
	// ID is the human-shareable table code (e.g., "MESA-A7B3").
	ID string `json:"id"`

	// RestaurantName is the venue shown to clients.
	RestaurantName string `json:"restaurantName"`

	// Guests in join order.
	Guests []*Guest `json:"guests"`

	// MaxGuests caps how many guests can be seated.
	MaxGuests int `json:"maxGuests"`

	// Derived money totals, recomputed after every membership or item
	// change. Total == Subtotal + TaxAmount + ServiceFeeAmount to the cent.
	Subtotal         float64 `json:"subtotal"`
	TaxRate          float64 `json:"taxRate"`
	TaxAmount        float64 `json:"taxAmount"`
	ServiceFeeRate   float64 `json:"serviceFeeRate"`
	ServiceFeeAmount float64 `json:"serviceFeeAmount"`
	Total            float64 `json:"total"`

	// VotingOpen reports whether votes are currently being accepted.
	VotingOpen bool `json:"votingOpen"`

	// Votes maps each mode to the guest IDs that chose it. The three sets
	// are pairwise disjoint; a guest ID appears in at most one of them.
	Votes map[PaymentMode][]string `json:"votes"`

	// WinningMode is set once voting resolves without a tie.
	WinningMode *PaymentMode `json:"winningMode"`

	// ItemAssignments maps item ID → guest IDs paying for it under custom
	// split. Always a pure projection of the guests' SelectedItemIDs,
	// rebuilt from scratch on every change.
	ItemAssignments map[string][]string `json:"itemAssignments"`

	// AllItemsAssigned is true iff no item has zero payers.
	AllItemsAssigned bool `json:"allItemsAssigned"`

	// RemainingBalance is the portion of the bill not yet claimed by any
	// guest under custom split, including its proportional tax and
	// service share.
	RemainingBalance float64 `json:"remainingBalance"`

	// TableStatus is the session state machine position.
	TableStatus TableStatus `json:"tableStatus"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EmptyVotes returns a fresh vote map with an empty set for each mode.
func EmptyVotes() map[PaymentMode][]string {
	return map[PaymentMode][]string{
		PayMyPart:    {},
		SplitEqually: {},
		CustomSplit:  {},
	}
}

// FindGuest returns the guest with the given ID, or nil.
func (t *Table) FindGuest(guestID string) *Guest {
	for _, g := range t.Guests {
		if g.ID == guestID {
			return g
		}
	}
	return nil
}

// AllItems flattens every guest's items in guest order.
func (t *Table) AllItems() []MenuItem {
	var items []MenuItem
	for _, g := range t.Guests {
		items = append(items, g.Items...)
	}
	return items
}

// FindItem looks an item up by ID across all guests.
func (t *Table) FindItem(itemID string) (MenuItem, bool) {
	for _, g := range t.Guests {
		for _, item := range g.Items {
			if item.ID == itemID {
				return item, true
			}
		}
	}
	return MenuItem{}, false
}

// PayerCount returns how many guests currently pay for the given item.
func (t *Table) PayerCount(itemID string) int {
	return len(t.ItemAssignments[itemID])
}

// Touch bumps the UpdatedAt timestamp.
func (t *Table) Touch() {
	t.UpdatedAt = time.Now()
}

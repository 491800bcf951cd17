package models

import "time"

// PaymentMode is one of the three bill-splitting strategies a table can
// vote for.
type PaymentMode string

const (
	PayMyPart    PaymentMode = "pay_my_part"
	SplitEqually PaymentMode = "split_equally"
	CustomSplit  PaymentMode = "custom_split"
)

// PaymentModes lists the three modes in their canonical order. Vote
// tallies and results always iterate in this order so outcomes are
// deterministic.
var PaymentModes = []PaymentMode{PayMyPart, SplitEqually, CustomSplit}

// ValidPaymentMode reports whether s names one of the three modes.
func ValidPaymentMode(s string) bool {
	switch PaymentMode(s) {
	case PayMyPart, SplitEqually, CustomSplit:
		return true
	}
	return false
}

// PaymentStatus tracks a guest's progress through checkout.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentReady     PaymentStatus = "ready"
	PaymentSubmitted PaymentStatus = "submitted"
	PaymentConfirmed PaymentStatus = "confirmed"
)

// PaymentInfo holds the payment details a guest submits. Validation rules
// live in the payment service; an invalid PaymentInfo is never stored.
type PaymentInfo struct {
	Bank        string `json:"bank"`
	IDType      string `json:"idType"`
	IDNumber    string `json:"idNumber"`
	PhoneCode   string `json:"phoneCode"`
	PhoneNumber string `json:"phoneNumber"`
}

// Guest is one participant at a table.
//
// A guest is created when a connection first joins a table, goes offline
// (but is not removed) on disconnect, and is revived on reconnect with its
// prior guest ID. Only an explicit leave removes it.
type Guest struct {
	// ID is the unique identifier for the guest (UUID format).
	ID string `json:"id"`

	// ConnID is the transport connection currently bound to this guest.
	// Empty while the guest is offline. Never serialized to clients.
	ConnID string `json:"-"`

	// DisplayName is derived from join order ("Comensal 1", ...) and is
	// renumbered when an earlier guest leaves.
	DisplayName string `json:"displayName"`

	// Items is the list of menu items this guest ordered, owned
	// exclusively by the guest.
	Items []MenuItem `json:"items"`

	// VotedPaymentMode is the guest's current vote, nil before voting.
	VotedPaymentMode *PaymentMode `json:"votedPaymentMode"`

	// SelectedItemIDs is the set of item IDs this guest has claimed under
	// custom split. Stored as a sequence, treated with set semantics.
	SelectedItemIDs []string `json:"selectedItemIds"`

	// PaymentAmount is the amount this guest owes once a split has been
	// computed.
	PaymentAmount float64 `json:"paymentAmount"`

	// PaymentStatus tracks checkout progress.
	PaymentStatus PaymentStatus `json:"paymentStatus"`

	// PaymentDetails is set once a valid payment has been submitted.
	PaymentDetails *PaymentInfo `json:"paymentDetails,omitempty"`

	// IsOnline reports whether a live connection is bound to this guest.
	IsOnline bool `json:"isOnline"`

	// JoinedAt is when the guest first joined the table.
	JoinedAt time.Time `json:"joinedAt"`
}

// Subtotal returns the sum of Price × Quantity over the guest's items.
func (g *Guest) Subtotal() float64 {
	var sum float64
	for _, item := range g.Items {
		sum += item.LineTotal()
	}
	return sum
}

// HasSelected reports whether itemID is in the guest's selection set.
func (g *Guest) HasSelected(itemID string) bool {
	for _, id := range g.SelectedItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

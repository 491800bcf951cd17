package models

// GuestDTO is the client-facing projection of a Guest. It omits the
// connection identity and the submitted payment details.
type GuestDTO struct {
	ID               string        `json:"id"`
	DisplayName      string        `json:"displayName"`
	Items            []MenuItem    `json:"items"`
	VotedPaymentMode *PaymentMode  `json:"votedPaymentMode"`
	SelectedItemIDs  []string      `json:"selectedItemIds"`
	PaymentAmount    float64       `json:"paymentAmount"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	IsOnline         bool          `json:"isOnline"`
}

// TableDTO is the client-facing projection of a Table, broadcast to the
// table's room after every state change.
type TableDTO struct {
	ID               string                   `json:"id"`
	RestaurantName   string                   `json:"restaurantName"`
	Guests           []GuestDTO               `json:"guests"`
	MaxGuests        int                      `json:"maxGuests"`
	Subtotal         float64                  `json:"subtotal"`
	TaxRate          float64                  `json:"taxRate"`
	TaxAmount        float64                  `json:"taxAmount"`
	ServiceFeeRate   float64                  `json:"serviceFeeRate"`
	ServiceFeeAmount float64                  `json:"serviceFeeAmount"`
	Total            float64                  `json:"total"`
	VotingOpen       bool                     `json:"votingOpen"`
	Votes            map[PaymentMode][]string `json:"votes"`
	WinningMode      *PaymentMode             `json:"winningMode"`
	ItemAssignments  map[string][]string      `json:"itemAssignments"`
	AllItemsAssigned bool                     `json:"allItemsAssigned"`
	RemainingBalance float64                  `json:"remainingBalance"`
	TableStatus      TableStatus              `json:"tableStatus"`
}

// NewGuestDTO projects a guest for transmission to clients.
func NewGuestDTO(g *Guest) GuestDTO {
	items := g.Items
	if items == nil {
		items = []MenuItem{}
	}
	selected := g.SelectedItemIDs
	if selected == nil {
		selected = []string{}
	}
	return GuestDTO{
		ID:               g.ID,
		DisplayName:      g.DisplayName,
		Items:            items,
		VotedPaymentMode: g.VotedPaymentMode,
		SelectedItemIDs:  selected,
		PaymentAmount:    g.PaymentAmount,
		PaymentStatus:    g.PaymentStatus,
		IsOnline:         g.IsOnline,
	}
}

// NewTableDTO projects a table for transmission to clients.
func NewTableDTO(t *Table) TableDTO {
	guests := make([]GuestDTO, len(t.Guests))
	for i, g := range t.Guests {
		guests[i] = NewGuestDTO(g)
	}
	return TableDTO{
		ID:               t.ID,
		RestaurantName:   t.RestaurantName,
		Guests:           guests,
		MaxGuests:        t.MaxGuests,
		Subtotal:         t.Subtotal,
		TaxRate:          t.TaxRate,
		TaxAmount:        t.TaxAmount,
		ServiceFeeRate:   t.ServiceFeeRate,
		ServiceFeeAmount: t.ServiceFeeAmount,
		Total:            t.Total,
		VotingOpen:       t.VotingOpen,
		Votes:            t.Votes,
		WinningMode:      t.WinningMode,
		ItemAssignments:  t.ItemAssignments,
		AllItemsAssigned: t.AllItemsAssigned,
		RemainingBalance: t.RemainingBalance,
		TableStatus:      t.TableStatus,
	}
}

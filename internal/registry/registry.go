// Package registry owns the authoritative in-memory table store: the
// tableId → Table map plus the connection reverse indices used to route
// inbound events.
//
// The registry performs no locking of its own. Every call must come from
// the single serialized event loop (the socket hub goroutine); this is the
// concurrency model of the whole server, and the registry documents rather
// than re-enforces it.
package registry

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ArtP10/prototype-partela-server/internal/calculator"
	"github.com/ArtP10/prototype-partela-server/internal/config"
	"github.com/ArtP10/prototype-partela-server/internal/menu"
	"github.com/ArtP10/prototype-partela-server/internal/models"
)

var (
	// ErrTableFull rejects a join when the table is at capacity.
	ErrTableFull = errors.New("table is full")
	// ErrAlreadyInTable rejects a join from a connection already bound to
	// a table.
	ErrAlreadyInTable = errors.New("connection is already in a table")
	// ErrTableNotFound reports a lookup for an unknown table.
	ErrTableNotFound = errors.New("table not found")
	// ErrGuestNotFound reports a lookup for an unknown guest.
	ErrGuestNotFound = errors.New("guest not found")
)

// ItemGenerator produces the demo order for a newly seated guest.
type ItemGenerator func() []models.MenuItem

// Registry is the explicitly owned store object, constructed in main and
// passed by handle into the orchestrator.
type Registry struct {
	cfg      *config.Config
	genItems ItemGenerator

	tables      map[string]*models.Table
	connToTable map[string]string
	connToGuest map[string]string
}

// New builds an empty registry. genItems is the demo-data collaborator;
// tests inject a deterministic generator.
func New(cfg *config.Config, genItems ItemGenerator) *Registry {
	return &Registry{
		cfg:         cfg,
		genItems:    genItems,
		tables:      make(map[string]*models.Table),
		connToTable: make(map[string]string),
		connToGuest: make(map[string]string),
	}
}

// GetOrCreate returns the table with the given ID, constructing a fresh
// one if needed.
func (r *Registry) GetOrCreate(tableID string) *models.Table {
	if t, ok := r.tables[tableID]; ok {
		return t
	}

	now := time.Now()
	t := &models.Table{
		ID:              tableID,
		RestaurantName:  r.cfg.RestaurantName,
		Guests:          []*models.Guest{},
		MaxGuests:       r.cfg.MaxGuestsPerTable,
		TaxRate:         r.cfg.TaxRate,
		ServiceFeeRate:  r.cfg.ServiceFeeRate,
		Votes:           models.EmptyVotes(),
		ItemAssignments: map[string][]string{},
		TableStatus:     models.StatusViewing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.tables[tableID] = t
	slog.Info("Created new table", "table_id", tableID)
	return t
}

// Get returns the table with the given ID.
func (r *Registry) Get(tableID string) (*models.Table, bool) {
	t, ok := r.tables[tableID]
	return t, ok
}

// TableByConn resolves the table a connection is bound to.
func (r *Registry) TableByConn(connID string) (*models.Table, bool) {
	tableID, ok := r.connToTable[connID]
	if !ok {
		return nil, false
	}
	t, ok := r.tables[tableID]
	return t, ok
}

// GuestByConn resolves both the table and the guest a connection is bound
// to. It is re-evaluated on every inbound event; connections never hold
// owning references to guests.
func (r *Registry) GuestByConn(connID string) (*models.Table, *models.Guest, bool) {
	t, ok := r.TableByConn(connID)
	if !ok {
		return nil, nil, false
	}
	guestID, ok := r.connToGuest[connID]
	if !ok {
		return nil, nil, false
	}
	g := t.FindGuest(guestID)
	if g == nil {
		return nil, nil, false
	}
	return t, g, true
}

// Join seats a connection at a table. When existingGuestID matches a guest
// currently on the table, this is the reconnection path: the guest's
// connection is rebound, it comes back online, and all its state (items,
// votes, selections, amounts) is preserved. Capacity is never checked on
// reconnect, but a connection already bound to a different guest cannot
// reconnect as someone else.
//
// Otherwise a new guest is synthesized, subject to capacity and
// single-table admission checks.
func (r *Registry) Join(tableID, connID, existingGuestID string) (*models.Guest, error) {
	t := r.GetOrCreate(tableID)

	if existingGuestID != "" {
		if g := t.FindGuest(existingGuestID); g != nil {
			if boundID, ok := r.connToGuest[connID]; ok && boundID != g.ID {
				return nil, ErrAlreadyInTable
			}
			r.rebind(t, g, connID)
			slog.Info("Guest reconnected",
				"table_id", tableID, "guest", g.DisplayName, "conn_id", connID)
			return g, nil
		}
	}

	if _, ok := r.connToTable[connID]; ok {
		return nil, ErrAlreadyInTable
	}
	if len(t.Guests) >= t.MaxGuests {
		return nil, ErrTableFull
	}

	g := &models.Guest{
		ID:              uuid.NewString(),
		ConnID:          connID,
		DisplayName:     menu.GuestName(len(t.Guests)),
		Items:           r.genItems(),
		SelectedItemIDs: []string{},
		PaymentStatus:   models.PaymentPending,
		IsOnline:        true,
		JoinedAt:        time.Now(),
	}

	t.Guests = append(t.Guests, g)
	r.connToTable[connID] = tableID
	r.connToGuest[connID] = g.ID

	r.RecalculateTotals(t)
	if len(t.Guests) == 1 {
		t.RemainingBalance = t.Total
	}
	t.Touch()

	slog.Info("Guest joined table",
		"table_id", tableID, "guest", g.DisplayName, "items", len(g.Items))
	return g, nil
}

func (r *Registry) rebind(t *models.Table, g *models.Guest, connID string) {
	if g.ConnID != "" && g.ConnID != connID {
		delete(r.connToTable, g.ConnID)
		delete(r.connToGuest, g.ConnID)
	}
	g.ConnID = connID
	g.IsOnline = true
	r.connToTable[connID] = t.ID
	r.connToGuest[connID] = g.ID
	t.Touch()
}

// Disconnect marks the connection's guest offline and clears the reverse
// indices. The guest keeps its slot, items, votes and amounts for a later
// reconnect; nothing is removed.
func (r *Registry) Disconnect(connID string) (*models.Table, *models.Guest, bool) {
	t, g, ok := r.GuestByConn(connID)
	if !ok {
		// The connection may never have joined a table.
		delete(r.connToTable, connID)
		delete(r.connToGuest, connID)
		return nil, nil, false
	}

	g.IsOnline = false
	g.ConnID = ""
	delete(r.connToTable, connID)
	delete(r.connToGuest, connID)
	t.Touch()

	slog.Info("Guest went offline", "table_id", t.ID, "guest", g.DisplayName)
	return t, g, true
}

// Leave permanently removes the connection's guest from its table,
// renumbers the remaining guests and recomputes the derived state: totals,
// the guest's vote is withdrawn, and item assignments and the unclaimed
// balance are rebuilt over the remaining guests. This is the only way a
// guest is ever removed.
func (r *Registry) Leave(connID string) (*models.Table, *models.Guest, bool) {
	t, g, ok := r.GuestByConn(connID)
	if !ok {
		return nil, nil, false
	}

	for i, other := range t.Guests {
		if other.ID == g.ID {
			t.Guests = append(t.Guests[:i], t.Guests[i+1:]...)
			break
		}
	}
	delete(r.connToTable, connID)
	delete(r.connToGuest, connID)

	if g.VotedPaymentMode != nil {
		withdrawVote(t, *g.VotedPaymentMode, g.ID)
	}

	for i, other := range t.Guests {
		other.DisplayName = menu.GuestName(i)
	}

	r.RecalculateTotals(t)
	r.rebuildAssignments(t)
	t.Touch()

	slog.Info("Guest left table",
		"table_id", t.ID, "guest", g.DisplayName, "remaining", len(t.Guests))
	return t, g, true
}

// Reset returns the table to the viewing state: voting state, winning
// mode, assignments and every guest's vote/selection/payment state are
// cleared. Guest identities, items and online flags are preserved.
func (r *Registry) Reset(tableID string) (*models.Table, bool) {
	t, ok := r.tables[tableID]
	if !ok {
		return nil, false
	}

	t.TableStatus = models.StatusViewing
	t.VotingOpen = false
	t.Votes = models.EmptyVotes()
	t.WinningMode = nil
	t.ItemAssignments = map[string][]string{}
	t.AllItemsAssigned = false

	for _, g := range t.Guests {
		g.VotedPaymentMode = nil
		g.SelectedItemIDs = []string{}
		g.PaymentAmount = 0
		g.PaymentStatus = models.PaymentPending
		g.PaymentDetails = nil
	}

	r.RecalculateTotals(t)
	t.RemainingBalance = t.Total
	t.Touch()

	slog.Info("Table reset", "table_id", tableID, "guests", len(t.Guests))
	return t, true
}

func withdrawVote(t *models.Table, mode models.PaymentMode, guestID string) {
	voters := t.Votes[mode]
	for i, id := range voters {
		if id == guestID {
			t.Votes[mode] = append(voters[:i], voters[i+1:]...)
			return
		}
	}
}

// rebuildAssignments rescans the remaining guests' selections over the
// remaining items, keeping itemAssignments a pure projection of the
// selections, and rederives the unclaimed balance.
func (r *Registry) rebuildAssignments(t *models.Table) {
	assignments := make(map[string][]string)
	var unassigned float64
	allAssigned := true
	for _, item := range t.AllItems() {
		payers := []string{}
		for _, g := range t.Guests {
			if g.HasSelected(item.ID) {
				payers = append(payers, g.ID)
			}
		}
		assignments[item.ID] = payers
		if len(payers) == 0 {
			unassigned += item.LineTotal()
			allAssigned = false
		}
	}

	t.ItemAssignments = assignments
	t.AllItemsAssigned = allAssigned
	t.RemainingBalance = calculator.UnassignedBalance(unassigned, calculator.Totals{
		Subtotal:         t.Subtotal,
		TaxAmount:        t.TaxAmount,
		ServiceFeeAmount: t.ServiceFeeAmount,
		Total:            t.Total,
	})
}

// RecalculateTotals rederives the table's money totals from the union of
// all current guests' items.
func (r *Registry) RecalculateTotals(t *models.Table) {
	allItems := t.AllItems()
	lines := make([]calculator.LineItem, len(allItems))
	for i, item := range allItems {
		lines[i] = calculator.LineItem{Price: item.Price, Quantity: item.Quantity}
	}

	totals := calculator.ComputeTotals(lines, t.TaxRate, t.ServiceFeeRate)
	t.Subtotal = totals.Subtotal
	t.TaxAmount = totals.TaxAmount
	t.ServiceFeeAmount = totals.ServiceFeeAmount
	t.Total = totals.Total
}

// EvictIfEmpty removes the table if it still has no guests. Called from
// the grace-period timer after the last guest leaves; a guest joining in
// the meantime makes this a no-op.
func (r *Registry) EvictIfEmpty(tableID string) bool {
	t, ok := r.tables[tableID]
	if !ok || len(t.Guests) > 0 {
		return false
	}
	delete(r.tables, tableID)
	slog.Info("Empty table removed", "table_id", tableID)
	return true
}

// TableCount returns the number of live tables.
func (r *Registry) TableCount() int {
	return len(r.tables)
}

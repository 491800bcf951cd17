package socket

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ArtP10/prototype-partela-server/internal/models"
	"github.com/ArtP10/prototype-partela-server/internal/registry"
	"github.com/ArtP10/prototype-partela-server/internal/service"
)

// handleEvent is the single dispatch point for inbound events. It runs on
// the hub loop. A panic in any handler is contained to that one event and
// reported back to the originating connection.
func (h *Hub) handleEvent(c *client, ev clientEvent) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while handling event",
				"event", ev.name(), "conn_id", c.id, "panic", r)
			h.sendError(c, CodeUnknownError, "Error interno del servidor")
		}
	}()

	h.metrics.EventsTotal.WithLabelValues(ev.name()).Inc()

	switch ev := ev.(type) {
	case joinEvent:
		h.handleJoin(c, ev)
	case leaveEvent:
		h.handleLeave(c)
	case resetEvent:
		h.handleReset(c)
	case voteEvent:
		h.handleVote(c, ev)
	case toggleItemEvent:
		h.handleToggleItem(c, ev)
	case confirmEvent:
		h.handleConfirm(c)
	case paymentEvent:
		h.handlePayment(c, ev)
	}
}

// resolve maps the connection back to its table and guest. Every inbound
// event re-resolves; a connection that disconnected and has not rejoined
// gets a routing failure, never a stale guest.
func (h *Hub) resolve(c *client) (*models.Table, *models.Guest, bool) {
	t, g, ok := h.reg.GuestByConn(c.id)
	if !ok {
		h.sendError(c, CodeGuestNotFound, "No estás en una mesa")
		return nil, nil, false
	}
	return t, g, true
}

func (h *Hub) broadcastState(t *models.Table) {
	h.broadcast(t.ID, evTableState, models.NewTableDTO(t))
}

func allGuestsReady(t *models.Table) bool {
	for _, g := range t.Guests {
		if g.PaymentStatus != models.PaymentReady {
			return false
		}
	}
	return true
}

func (h *Hub) handleJoin(c *client, ev joinEvent) {
	if ev.TableID == "" {
		h.sendError(c, CodeTableNotFound, "ID de mesa no proporcionado")
		return
	}

	guest, err := h.reg.Join(ev.TableID, c.id, ev.GuestID)
	switch {
	case errors.Is(err, registry.ErrTableFull):
		h.sendError(c, CodeTableFull, "La mesa está llena")
		return
	case errors.Is(err, registry.ErrAlreadyInTable):
		h.sendError(c, CodeAlreadyInTable, "Ya estás en una mesa")
		return
	case err != nil:
		h.sendError(c, CodeUnknownError, "Error al unirse a la mesa")
		return
	}

	// A join within the grace window rescues the table from eviction.
	if cancel, ok := h.evictCancels[ev.TableID]; ok {
		cancel()
		delete(h.evictCancels, ev.TableID)
	}

	t, _ := h.reg.Get(ev.TableID)
	h.joinRoom(t.ID, c)

	dto := models.NewTableDTO(t)
	h.sendTo(c, evTableState, dto)
	h.broadcastExcept(t.ID, c, evTableGuestJoined, guestJoinedPayload{
		Guest:      models.NewGuestDTO(guest),
		GuestCount: len(t.Guests),
	})
	h.broadcast(t.ID, evTableState, dto)

	h.metrics.TablesActive.Set(float64(h.reg.TableCount()))
}

func (h *Hub) handleLeave(c *client) {
	t, g, ok := h.reg.Leave(c.id)
	if !ok {
		h.sendError(c, CodeGuestNotFound, "No estás en una mesa")
		return
	}

	h.leaveRoom(t.ID, c)
	h.broadcast(t.ID, evTableGuestLeft, guestLeftPayload{
		GuestID:     g.ID,
		DisplayName: g.DisplayName,
		GuestCount:  len(t.Guests),
	})
	h.broadcastState(t)

	if len(t.Guests) == 0 {
		h.scheduleEviction(t.ID)
	}
	h.metrics.TablesActive.Set(float64(h.reg.TableCount()))
}

func (h *Hub) scheduleEviction(tableID string) {
	if cancel, ok := h.evictCancels[tableID]; ok {
		cancel()
	}
	h.evictCancels[tableID] = h.schedule(h.cfg.EmptyTableGrace, func() {
		delete(h.evictCancels, tableID)
		if h.reg.EvictIfEmpty(tableID) {
			h.cancelTableTimers(tableID)
			h.metrics.TablesActive.Set(float64(h.reg.TableCount()))
		}
	})
}

func (h *Hub) handleReset(c *client) {
	t, ok := h.reg.TableByConn(c.id)
	if !ok {
		h.sendError(c, CodeGuestNotFound, "No estás en una mesa")
		return
	}

	reset, ok := h.reg.Reset(t.ID)
	if !ok {
		return
	}

	// Pending revotes and confirmations refer to pre-reset state.
	h.cancelTableTimers(t.ID)
	h.broadcastState(reset)
}

func (h *Hub) handleVote(c *client, ev voteEvent) {
	t, g, ok := h.resolve(c)
	if !ok {
		return
	}

	if !models.ValidPaymentMode(ev.Mode) {
		h.sendError(c, CodeInvalidPaymentMode, "Modo de pago inválido")
		return
	}
	mode := models.PaymentMode(ev.Mode)

	if !t.VotingOpen {
		service.OpenVoting(t)
	}

	outcome := service.CastVote(t, g, mode)
	h.broadcast(t.ID, evVoteUpdated, voteUpdatedPayload{
		Votes:       outcome.Results,
		TotalVotes:  service.TotalVotes(t),
		TotalGuests: len(t.Guests),
	})

	if !outcome.AllVoted {
		return
	}

	switch {
	case outcome.IsTie:
		slog.Info("Vote tie", "table_id", t.ID, "tied_modes", outcome.TiedModes)
		h.broadcast(t.ID, evVoteTie, voteTiePayload{
			TiedModes: outcome.TiedModes,
			Message:   "¡Hubo un empate! Vuelvan a votar para desempatar.",
		})
		h.scheduleRevote(t.ID)

	case outcome.Winner != nil:
		winner := *outcome.Winner
		winnerVotes := 0
		for _, r := range outcome.Results {
			if r.Mode == winner {
				winnerVotes = r.Votes
			}
		}
		h.broadcast(t.ID, evVoteCompleted, voteCompletedPayload{
			WinningMode: winner,
			Message:     service.WinnerMessage(winner, winnerVotes, len(t.Guests)),
		})

		service.ApplySplit(t)
		h.broadcastState(t)
	}
}

func (h *Hub) scheduleRevote(tableID string) {
	if cancel, ok := h.revoteCancels[tableID]; ok {
		cancel()
	}
	h.revoteCancels[tableID] = h.schedule(h.cfg.RevoteDelay, func() {
		delete(h.revoteCancels, tableID)

		// The table may have been reset, evicted or decided while the
		// timer was pending; then the revote is a lost update.
		t, ok := h.reg.Get(tableID)
		if !ok || t.TableStatus != models.StatusVoting || t.WinningMode != nil {
			return
		}

		service.ResetVotes(t)
		h.broadcastState(t)
		h.broadcast(t.ID, evVoteUpdated, voteUpdatedPayload{
			Votes:       []service.VoteResult{},
			TotalVotes:  0,
			TotalGuests: len(t.Guests),
		})
	})
}

func (h *Hub) handleToggleItem(c *client, ev toggleItemEvent) {
	t, g, ok := h.resolve(c)
	if !ok {
		return
	}

	assignments, remaining, allAssigned := service.ToggleItem(t, g, ev.ItemID)
	h.broadcast(t.ID, evSplitUpdated, splitUpdatedPayload{
		ItemAssignments:  assignments,
		RemainingBalance: remaining,
		AllAssigned:      allAssigned,
	})
	h.broadcastState(t)
}

func (h *Hub) handleConfirm(c *client) {
	t, g, ok := h.resolve(c)
	if !ok {
		return
	}

	finalized := service.ConfirmSelection(t, g)
	switch {
	case finalized:
		valid, issues := service.ValidateCustomSplit(t)
		h.broadcast(t.ID, evSplitValidated, splitValidatedPayload{
			Valid:  valid,
			Issues: issues,
		})
	case allGuestsReady(t) && !t.AllItemsAssigned:
		// Everyone confirmed but items remain unclaimed; tell the last
		// confirmer what is blocking the split.
		_, issues := service.ValidateCustomSplit(t)
		h.sendError(c, CodeItemsNotAssigned, strings.Join(issues, ", "))
	}
	h.broadcastState(t)
}

func (h *Hub) handlePayment(c *client, ev paymentEvent) {
	t, g, ok := h.resolve(c)
	if !ok {
		return
	}

	if errs := service.ValidatePaymentInfo(ev.PaymentInfo); len(errs) > 0 {
		h.sendError(c, CodeInvalidPaymentInfo, strings.Join(errs, ", "))
		return
	}

	allPaid := service.SubmitPayment(t, g, ev.PaymentInfo)
	h.broadcast(t.ID, evPaymentReceived, paymentReceivedPayload{
		GuestID:     g.ID,
		DisplayName: g.DisplayName,
	})

	h.schedulePaymentConfirm(t.ID, g.ID)

	if allPaid {
		h.broadcast(t.ID, evTableCompleted, nil)
	}
	h.broadcastState(t)
}

// schedulePaymentConfirm models the external gateway callback: a deferred
// promotion to confirmed. It survives a disconnect so that settlement
// still lands for an offline guest.
func (h *Hub) schedulePaymentConfirm(tableID, guestID string) {
	key := tableID + "/" + guestID
	if cancel, ok := h.confirmCancels[key]; ok {
		cancel()
	}
	h.confirmCancels[key] = h.schedule(h.cfg.PaymentConfirmDelay, func() {
		delete(h.confirmCancels, key)

		t, ok := h.reg.Get(tableID)
		if !ok {
			return
		}
		if service.ConfirmPayment(t, guestID) {
			h.broadcastState(t)
		}
	})
}

// handleDisconnect runs when a connection's read loop ends, whether by
// client close or network failure. The guest is marked offline but keeps
// its seat for a reconnect.
func (h *Hub) handleDisconnect(c *client) {
	t, _, ok := h.reg.Disconnect(c.id)
	if ok {
		h.broadcastExcept(t.ID, c, evTableState, models.NewTableDTO(t))
	}

	h.closeClient(c)
	h.metrics.ConnectionsActive.Dec()
	slog.Info("Client disconnected", "conn_id", c.id)
}

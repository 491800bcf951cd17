package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ArtP10/prototype-partela-server/internal/models"
)

var validPhoneCodes = map[string]bool{
	"0412": true,
	"0414": true,
	"0424": true,
	"0416": true,
	"0426": true,
}

var validIDTypes = map[string]bool{
	"V": true,
	"E": true,
	"J": true,
	"P": true,
}

// ValidatePaymentInfo checks the submitted payment details and returns the
// itemized validation errors, empty when valid. Validation never mutates
// state.
func ValidatePaymentInfo(info models.PaymentInfo) []string {
	var errs []string

	if strings.TrimSpace(info.Bank) == "" {
		errs = append(errs, "Banco es requerido")
	}
	if !validIDTypes[info.IDType] {
		errs = append(errs, "Tipo de documento inválido")
	}
	if len(info.IDNumber) < 6 {
		errs = append(errs, "Número de documento debe tener al menos 6 dígitos")
	}
	if !validPhoneCodes[info.PhoneCode] {
		errs = append(errs, "Código de teléfono inválido")
	}
	if len(info.PhoneNumber) != 7 {
		errs = append(errs, "Número de teléfono debe tener 7 dígitos")
	}

	return errs
}

// SubmitPayment stores the guest's payment details and marks it submitted.
// The table moves to waiting_payments, or straight to completed when every
// guest has now paid. Reports whether all guests have paid.
//
// Confirmation is asynchronous: the orchestrator schedules a cancellable
// timer that later promotes the guest via ConfirmPayment, modeling an
// external gateway callback.
func SubmitPayment(t *models.Table, g *models.Guest, info models.PaymentInfo) bool {
	details := info
	g.PaymentDetails = &details
	g.PaymentStatus = models.PaymentSubmitted

	t.TableStatus = models.StatusWaitingPayments
	t.Touch()

	allPaid := AllPaid(t)
	if allPaid {
		t.TableStatus = models.StatusCompleted
	}

	slog.Info("Payment received",
		"table_id", t.ID, "guest", g.DisplayName, "amount", g.PaymentAmount, "all_paid", allPaid)
	return allPaid
}

// ConfirmPayment promotes a submitted payment to confirmed. It is the
// deferred-timer target and re-validates that the guest still exists and
// is still waiting for confirmation; a reset or leave in the window makes
// this a lost update, not an error. Confirmation lands even if the guest
// has gone offline.
func ConfirmPayment(t *models.Table, guestID string) bool {
	g := t.FindGuest(guestID)
	if g == nil || g.PaymentStatus != models.PaymentSubmitted {
		return false
	}

	g.PaymentStatus = models.PaymentConfirmed
	t.Touch()

	slog.Info("Payment confirmed", "table_id", t.ID, "guest", g.DisplayName)
	return true
}

// AllPaid is true iff every guest has submitted or confirmed a payment.
func AllPaid(t *models.Table) bool {
	for _, g := range t.Guests {
		if g.PaymentStatus != models.PaymentSubmitted && g.PaymentStatus != models.PaymentConfirmed {
			return false
		}
	}
	return true
}

// PaymentProgress summarizes who has paid and who is still pending.
type PaymentProgress struct {
	PaidCount     int      `json:"paidCount"`
	TotalGuests   int      `json:"totalGuests"`
	PaidGuests    []string `json:"paidGuests"`
	PendingGuests []string `json:"pendingGuests"`
	AllPaid       bool     `json:"allPaid"`
}

// PaymentStatus reports the table's payment progress by display name.
func PaymentStatus(t *models.Table) PaymentProgress {
	progress := PaymentProgress{
		TotalGuests:   len(t.Guests),
		PaidGuests:    []string{},
		PendingGuests: []string{},
	}

	for _, g := range t.Guests {
		if g.PaymentStatus == models.PaymentSubmitted || g.PaymentStatus == models.PaymentConfirmed {
			progress.PaidGuests = append(progress.PaidGuests, g.DisplayName)
		} else {
			progress.PendingGuests = append(progress.PendingGuests, g.DisplayName)
		}
	}

	progress.PaidCount = len(progress.PaidGuests)
	progress.AllPaid = len(progress.PendingGuests) == 0
	return progress
}

// SummaryLine is one row of a guest's payment breakdown.
type SummaryLine struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// PaymentSummary is the mode-specific human-readable breakdown of what a
// guest owes. Read-only; building it never mutates table state.
type PaymentSummary struct {
	GuestName string        `json:"guestName"`
	Amount    float64       `json:"amount"`
	ItemCount int           `json:"itemCount"`
	Breakdown []SummaryLine `json:"breakdown"`
}

// Summarize builds the guest's payment breakdown under the winning mode:
// itemized lines for pay_my_part, a single equal-share line for
// split_equally, and one line per selected item (with its per-payer split)
// for custom_split.
func Summarize(t *models.Table, g *models.Guest) PaymentSummary {
	breakdown := []SummaryLine{}

	if t.WinningMode != nil {
		switch *t.WinningMode {
		case models.PayMyPart:
			for _, item := range g.Items {
				breakdown = append(breakdown, SummaryLine{
					Description: fmt.Sprintf("%dx %s", item.Quantity, item.Name),
					Amount:      item.LineTotal(),
				})
			}
		case models.SplitEqually:
			breakdown = append(breakdown, SummaryLine{
				Description: fmt.Sprintf("Total dividido entre %d personas", len(t.Guests)),
				Amount:      g.PaymentAmount,
			})
		case models.CustomSplit:
			for _, itemID := range g.SelectedItemIDs {
				item, ok := t.FindItem(itemID)
				if !ok {
					continue
				}
				payers := t.PayerCount(itemID)
				description := item.Name
				if payers > 1 {
					description = fmt.Sprintf("%s (dividido entre %d)", item.Name, payers)
				}
				breakdown = append(breakdown, SummaryLine{
					Description: description,
					Amount:      item.Price / float64(max(payers, 1)),
				})
			}
		}
	}

	return PaymentSummary{
		GuestName: g.DisplayName,
		Amount:    g.PaymentAmount,
		ItemCount: len(breakdown),
		Breakdown: breakdown,
	}
}

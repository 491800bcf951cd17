// Package service implements the three engines that mutate table state:
// voting, bill splitting and payment tracking. All functions operate on a
// *models.Table in place and must only be called from the serialized event
// loop.
package service

import (
	"fmt"
	"log/slog"

	"github.com/ArtP10/prototype-partela-server/internal/models"
)

// VoteResult reports one mode's standing in the current tally.
type VoteResult struct {
	Mode       models.PaymentMode `json:"mode"`
	Votes      int                `json:"votes"`
	Percentage float64            `json:"percentage"`
	IsWinner   bool               `json:"isWinner"`
	Voters     []string           `json:"voters"`
}

// VoteOutcome aggregates the tally into the table-level verdict: still
// collecting, tied, or decided.
type VoteOutcome struct {
	AllVoted  bool
	IsTie     bool
	Winner    *models.PaymentMode
	TiedModes []models.PaymentMode
	Results   []VoteResult
}

// OpenVoting opens the vote and moves the table into the voting state.
func OpenVoting(t *models.Table) {
	t.VotingOpen = true
	t.TableStatus = models.StatusVoting
	t.Touch()
}

// CastVote records (or moves) a guest's vote and recomputes the outcome.
// A prior vote is removed from its old mode set first, so re-voting never
// double-counts and recasting the same mode is a safe no-op move.
//
// On a decided (non-tied, all-voted) outcome the winning mode is fixed,
// voting closes, and the table transitions to splitting. The caller is
// responsible for then running the split engine.
func CastVote(t *models.Table, g *models.Guest, mode models.PaymentMode) VoteOutcome {
	if g.VotedPaymentMode != nil {
		removeVote(t, *g.VotedPaymentMode, g.ID)
	}

	voted := mode
	g.VotedPaymentMode = &voted
	t.Votes[mode] = append(t.Votes[mode], g.ID)
	t.Touch()

	outcome := CheckOutcome(t)
	if outcome.AllVoted && !outcome.IsTie && outcome.Winner != nil {
		winner := *outcome.Winner
		t.WinningMode = &winner
		t.VotingOpen = false
		t.TableStatus = models.StatusSplitting
		slog.Info("Voting decided", "table_id", t.ID, "winner", winner)
	}
	return outcome
}

func removeVote(t *models.Table, mode models.PaymentMode, guestID string) {
	voters := t.Votes[mode]
	for i, id := range voters {
		if id == guestID {
			t.Votes[mode] = append(voters[:i], voters[i+1:]...)
			return
		}
	}
}

// VoteResults tallies the three modes in canonical order. A mode is
// flagged as (joint) winner when it holds the current maximum count and
// that maximum is above zero.
func VoteResults(t *models.Table) []VoteResult {
	totalGuests := len(t.Guests)

	maxVotes := 0
	for _, mode := range models.PaymentModes {
		if n := len(t.Votes[mode]); n > maxVotes {
			maxVotes = n
		}
	}

	results := make([]VoteResult, 0, len(models.PaymentModes))
	for _, mode := range models.PaymentModes {
		voterIDs := t.Votes[mode]
		voters := make([]string, len(voterIDs))
		for i, id := range voterIDs {
			if g := t.FindGuest(id); g != nil {
				voters[i] = g.DisplayName
			} else {
				voters[i] = "Desconocido"
			}
		}

		var percentage float64
		if totalGuests > 0 {
			percentage = float64(len(voterIDs)) / float64(totalGuests) * 100
		}

		results = append(results, VoteResult{
			Mode:       mode,
			Votes:      len(voterIDs),
			Percentage: percentage,
			IsWinner:   len(voterIDs) == maxVotes && maxVotes > 0,
			Voters:     voters,
		})
	}
	return results
}

// TotalVotes counts votes cast across all three modes.
func TotalVotes(t *models.Table) int {
	var total int
	for _, mode := range models.PaymentModes {
		total += len(t.Votes[mode])
	}
	return total
}

// CheckOutcome computes the aggregate verdict. allVoted is true iff the
// number of votes cast equals the live guest count; with all votes in,
// more than one mode at the maximum is a tie, otherwise the sole maximum
// wins.
func CheckOutcome(t *models.Table) VoteOutcome {
	results := VoteResults(t)

	if TotalVotes(t) < len(t.Guests) {
		return VoteOutcome{Results: results}
	}

	maxVotes := 0
	for _, r := range results {
		if r.Votes > maxVotes {
			maxVotes = r.Votes
		}
	}

	var topModes []models.PaymentMode
	for _, r := range results {
		if r.Votes == maxVotes && r.Votes > 0 {
			topModes = append(topModes, r.Mode)
		}
	}

	if len(topModes) > 1 {
		return VoteOutcome{
			AllVoted:  true,
			IsTie:     true,
			TiedModes: topModes,
			Results:   results,
		}
	}
	if len(topModes) == 0 {
		// No guests, no votes.
		return VoteOutcome{AllVoted: true, Results: results}
	}

	winner := topModes[0]
	return VoteOutcome{
		AllVoted: true,
		Winner:   &winner,
		Results:  results,
	}
}

// ResetVotes clears every vote for a tie-break re-vote: guests keep their
// seats and items but must recast from zero.
func ResetVotes(t *models.Table) {
	for _, g := range t.Guests {
		g.VotedPaymentMode = nil
	}
	t.Votes = models.EmptyVotes()
	t.WinningMode = nil
	t.VotingOpen = true
	t.Touch()

	slog.Info("Votes reset for re-vote", "table_id", t.ID)
}

var modeNames = map[models.PaymentMode]string{
	models.PayMyPart:    "Pagar Mi Parte",
	models.SplitEqually: "División Equitativa",
	models.CustomSplit:  "División Personalizada",
}

// WinnerMessage builds the announcement for a decided vote.
func WinnerMessage(mode models.PaymentMode, votes, totalGuests int) string {
	name := modeNames[mode]
	if votes == totalGuests {
		return fmt.Sprintf("¡Todos eligieron %s!", name)
	}
	return fmt.Sprintf("La mayoría eligió %s (%d/%d)", name, votes, totalGuests)
}

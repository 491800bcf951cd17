package socket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ArtP10/prototype-partela-server/internal/models"
	"github.com/ArtP10/prototype-partela-server/internal/service"
)

// Client → server event names.
const (
	evTableJoin       = "table:join"
	evTableLeave      = "table:leave"
	evTableReset      = "table:reset"
	evVoteCast        = "vote:cast"
	evVoteChange      = "vote:change" // alias of vote:cast
	evSplitToggleItem = "split:toggle_item"
	evSplitConfirm    = "split:confirm"
	evPaymentSubmit   = "payment:submit"
)

// Server → client event names.
const (
	evTableState       = "table:state"
	evTableGuestJoined = "table:guest_joined"
	evTableGuestLeft   = "table:guest_left"
	evVoteUpdated      = "vote:updated"
	evVoteTie          = "vote:tie"
	evVoteCompleted    = "vote:completed"
	evSplitUpdated     = "split:updated"
	evSplitValidated   = "split:validated"
	evPaymentReceived  = "payment:received"
	evTableCompleted   = "table:completed"
	evError            = "error"
)

// Error codes carried by the unicast error event.
const (
	CodeTableFull          = "TABLE_FULL"
	CodeTableNotFound      = "TABLE_NOT_FOUND"
	CodeGuestNotFound      = "GUEST_NOT_FOUND"
	CodeAlreadyInTable     = "ALREADY_IN_TABLE"
	CodeInvalidPaymentMode = "INVALID_PAYMENT_MODE"
	CodeInvalidPaymentInfo = "INVALID_PAYMENT_INFO"
	CodeItemsNotAssigned   = "ITEMS_NOT_ASSIGNED"
	CodeUnknownError       = "UNKNOWN_ERROR"
)

// envelope is the wire framing in both directions:
// {"event": "...", "data": {...}}.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// clientEvent is the closed set of inbound message kinds. Decoding
// produces exactly one of the types below; the hub dispatches them through
// a single exhaustive type switch, so a new event kind is a compile-time
// exercise.
type clientEvent interface {
	name() string
}

type joinEvent struct {
	TableID string `json:"tableId"`
	// GuestID, when present, requests reconnection as that guest.
	GuestID string `json:"guestId,omitempty"`
}

type leaveEvent struct{}

type resetEvent struct{}

type voteEvent struct {
	Mode string `json:"mode"`
}

type toggleItemEvent struct {
	ItemID string `json:"itemId"`
}

type confirmEvent struct{}

type paymentEvent struct {
	models.PaymentInfo
}

func (joinEvent) name() string       { return evTableJoin }
func (leaveEvent) name() string      { return evTableLeave }
func (resetEvent) name() string      { return evTableReset }
func (voteEvent) name() string       { return evVoteCast }
func (toggleItemEvent) name() string { return evSplitToggleItem }
func (confirmEvent) name() string    { return evSplitConfirm }
func (paymentEvent) name() string    { return evPaymentSubmit }

var errUnknownEvent = errors.New("unknown event")

// decodeClientEvent parses one inbound frame into its typed message kind.
func decodeClientEvent(raw []byte) (clientEvent, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	unmarshalData := func(v any) error {
		if len(env.Data) == 0 {
			return nil
		}
		return json.Unmarshal(env.Data, v)
	}

	switch env.Event {
	case evTableJoin:
		var ev joinEvent
		if err := unmarshalData(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case evTableLeave:
		return leaveEvent{}, nil
	case evTableReset:
		return resetEvent{}, nil
	case evVoteCast, evVoteChange:
		var ev voteEvent
		if err := unmarshalData(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case evSplitToggleItem:
		var ev toggleItemEvent
		if err := unmarshalData(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case evSplitConfirm:
		return confirmEvent{}, nil
	case evPaymentSubmit:
		var ev paymentEvent
		if err := unmarshalData(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownEvent, env.Event)
	}
}

// marshalEnvelope frames an outbound event. A nil data marshals to a
// frame with no data field (e.g. table:completed).
func marshalEnvelope(event string, data any) ([]byte, error) {
	env := envelope{Event: event}
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		env.Data = b
	}
	return json.Marshal(env)
}

// Outbound payloads.

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type guestJoinedPayload struct {
	Guest      models.GuestDTO `json:"guest"`
	GuestCount int             `json:"guestCount"`
}

type guestLeftPayload struct {
	GuestID     string `json:"guestId"`
	DisplayName string `json:"displayName"`
	GuestCount  int    `json:"guestCount"`
}

type voteUpdatedPayload struct {
	Votes       []service.VoteResult `json:"votes"`
	TotalVotes  int                  `json:"totalVotes"`
	TotalGuests int                  `json:"totalGuests"`
}

type voteTiePayload struct {
	TiedModes []models.PaymentMode `json:"tiedModes"`
	Message   string               `json:"message"`
}

type voteCompletedPayload struct {
	WinningMode models.PaymentMode `json:"winningMode"`
	Message     string             `json:"message"`
}

type splitUpdatedPayload struct {
	ItemAssignments  map[string][]string `json:"itemAssignments"`
	RemainingBalance float64             `json:"remainingBalance"`
	AllAssigned      bool                `json:"allAssigned"`
}

type splitValidatedPayload struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues,omitempty"`
}

type paymentReceivedPayload struct {
	GuestID     string `json:"guestId"`
	DisplayName string `json:"displayName"`
}

package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Op names the ledger mutation an event reports.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// TransactionEvent is a lightweight notification that the ledger changed.
// Consumers reload the snapshot instead of trusting a payload.
type TransactionEvent struct {
	Op        Op        `json:"op"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionEvent creates an event stamped with the current time
func NewTransactionEvent(op Op, id string) *TransactionEvent {
	return &TransactionEvent{
		Op:        op,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes an event and rejects unknown ops.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var ev TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	switch ev.Op {
	case OpCreate, OpUpdate, OpDelete:
	default:
		return nil, fmt.Errorf("unknown op %q", ev.Op)
	}
	return &ev, nil
}

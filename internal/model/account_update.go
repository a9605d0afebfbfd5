package model

import (
	"encoding/json"
	"time"
)

// AccountUpdate is the stored form of an AccountEvent.
type AccountUpdate struct {
	Method       string          `json:"method"`
	Subscription uint64          `json:"subscription"`
	Slot         uint64          `json:"slot"`
	Payload      json.RawMessage `json:"payload"`
	ReceivedAt   string          `json:"received_at"`
}

// NewAccountUpdate stamps an AccountEvent with its receive time.
func NewAccountUpdate(ev AccountEvent, receivedAt time.Time) AccountUpdate {
	return AccountUpdate{
		Method:       ev.Method,
		Subscription: ev.Subscription,
		Slot:         ev.Slot,
		Payload:      ev.Payload,
		ReceivedAt:   receivedAt.UTC().Format(time.RFC3339Nano),
	}
}

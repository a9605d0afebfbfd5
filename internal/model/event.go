package model

import "encoding/json"

// Kind names an Event variant.
type Kind string

const (
	KindLog          Kind = "log"
	KindAccount      Kind = "account"
	KindUnrecognized Kind = "unrecognized"
)

// Event is a decoded notification frame. The variant set is closed:
// LogEvent, AccountEvent and UnrecognizedEvent.
type Event interface {
	Kind() Kind
	isEvent()
}

// LogEvent is a logsNotification for one transaction.
type LogEvent struct {
	Subscription uint64          `json:"subscription"`
	Slot         uint64          `json:"slot"`
	Signature    string          `json:"signature"`
	HasError     bool            `json:"has_error"`
	Err          json.RawMessage `json:"err,omitempty"`
	Logs         []string        `json:"logs,omitempty"`
}

// AccountEvent is an accountNotification or programNotification.
type AccountEvent struct {
	Method       string          `json:"method"`
	Subscription uint64          `json:"subscription"`
	Slot         uint64          `json:"slot"`
	Payload      json.RawMessage `json:"payload"`
}

// UnrecognizedEvent covers subscription acknowledgements and any
// notification method that is not modelled.
type UnrecognizedEvent struct {
	Method string          `json:"method,omitempty"`
	ID     json.RawMessage `json:"id,omitempty"`
}

func (LogEvent) Kind() Kind          { return KindLog }
func (AccountEvent) Kind() Kind      { return KindAccount }
func (UnrecognizedEvent) Kind() Kind { return KindUnrecognized }

func (LogEvent) isEvent()          {}
func (AccountEvent) isEvent()      {}
func (UnrecognizedEvent) isEvent() {}

// TypedEvent is the JSONL form of an Event written by the decode command.
type TypedEvent struct {
	Line  int   `json:"line"`
	Kind  Kind  `json:"kind"`
	Event Event `json:"event"`
}

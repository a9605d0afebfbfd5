package decoder

import (
	"bytes"
	"encoding/json"
	"fmt"

	"solanaSniper/internal/model"
)

const (
	MethodLogsNotification    = "logsNotification"
	MethodAccountNotification = "accountNotification"
	MethodProgramNotification = "programNotification"
)

// Error is returned for a frame that cannot be turned into an Event.
type Error struct {
	Method string
	Err    error
}

func (e *Error) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("decode frame: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Method, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type frame struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type notificationParams struct {
	Subscription uint64 `json:"subscription"`
	Result       struct {
		Context struct {
			Slot uint64 `json:"slot"`
		} `json:"context"`
		Value json.RawMessage `json:"value"`
	} `json:"result"`
}

type logsValue struct {
	Signature string          `json:"signature"`
	Err       json.RawMessage `json:"err"`
	Logs      []string        `json:"logs"`
}

// Decoder turns raw PubSub frames into model.Event values.
type Decoder struct{}

func New() *Decoder {
	return &Decoder{}
}

// Decode parses one frame. Frames with an unknown or missing method decode
// to model.UnrecognizedEvent; malformed frames return *Error.
func (d *Decoder) Decode(data []byte) (model.Event, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &Error{Err: err}
	}

	switch f.Method {
	case MethodLogsNotification:
		return decodeLogs(f)
	case MethodAccountNotification, MethodProgramNotification:
		return decodeAccount(f)
	default:
		return model.UnrecognizedEvent{Method: f.Method, ID: f.ID}, nil
	}
}

func decodeLogs(f frame) (model.Event, error) {
	params, err := decodeParams(f)
	if err != nil {
		return nil, err
	}

	var value logsValue
	if err := json.Unmarshal(params.Result.Value, &value); err != nil {
		return nil, &Error{Method: f.Method, Err: fmt.Errorf("value: %w", err)}
	}
	if value.Signature == "" {
		return nil, &Error{Method: f.Method, Err: fmt.Errorf("missing signature")}
	}

	return model.LogEvent{
		Subscription: params.Subscription,
		Slot:         params.Result.Context.Slot,
		Signature:    value.Signature,
		HasError:     model.IsErrSet(value.Err),
		Err:          value.Err,
		Logs:         value.Logs,
	}, nil
}

func decodeAccount(f frame) (model.Event, error) {
	params, err := decodeParams(f)
	if err != nil {
		return nil, err
	}

	return model.AccountEvent{
		Method:       f.Method,
		Subscription: params.Subscription,
		Slot:         params.Result.Context.Slot,
		Payload:      params.Result.Value,
	}, nil
}

func decodeParams(f frame) (notificationParams, error) {
	var params notificationParams
	if len(f.Params) == 0 {
		return params, &Error{Method: f.Method, Err: fmt.Errorf("missing params")}
	}
	if err := json.Unmarshal(f.Params, &params); err != nil {
		return params, &Error{Method: f.Method, Err: fmt.Errorf("params: %w", err)}
	}
	value := bytes.TrimSpace(params.Result.Value)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return params, &Error{Method: f.Method, Err: fmt.Errorf("missing result value")}
	}
	params.Result.Value = value
	return params, nil
}

package model

// DecodeError records a decode failure for a raw frame line.
type DecodeError struct {
	Line   int    `json:"line"`
	Method string `json:"method,omitempty"`
	Error  string `json:"error"`
}

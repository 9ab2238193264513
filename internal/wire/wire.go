// Package wire defines the JSON wire format exchanged between a dispatching
// process and a worker process. These types are the cross-version ABI
// contract and must remain stable.
package wire

import "encoding/json"

// Request is the invocation payload written for a worker process.
type Request struct {
	Worker        string          `json:"worker"`
	Args          json.RawMessage `json:"args"`
	CallbackStyle bool            `json:"callbackStyle,omitempty"`
}

// Response carries the worker outcome back to the dispatching process.
// Exactly one of Result and Error is set.
type Response struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ErrorDetail    `json:"error,omitempty"`
}

// ErrorDetail is a worker error in transit. Message is preserved
// byte-for-byte so callers observe the original error text.
type ErrorDetail struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// Error returns the original worker error message, undecorated.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

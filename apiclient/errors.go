package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized is matched (errors.Is) by every *Error carrying a 401
// response, so callers can send the user back through login.
var ErrUnauthorized = errors.New("unauthorized - invalid or expired token")

// Error is the single failure shape returned by every Client operation.
type Error struct {
	Method  string          // HTTP method of the failed call
	Path    string          // Backend path of the failed call
	Status  int             // HTTP status; 0 when no response was received
	Body    json.RawMessage // Structured error body sent by the backend, nil when none
	Message string          // Fixed fallback message for the operation
	Err     error           // Underlying transport or decode error
}

func (e *Error) Error() string {
	if detail := e.Detail(); detail != "" {
		return detail
	}
	if e.Structured() {
		return string(e.Body)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Structured reports whether the backend sent a JSON error body.
func (e *Error) Structured() bool {
	return len(e.Body) > 0
}

// Detail extracts the human readable part of a structured body. It looks at
// detail, message and error in that order; a validation error list under
// detail is flattened into its messages.
func (e *Error) Detail() string {
	if !e.Structured() {
		return ""
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &fields); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "message", "error"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if text := rawText(raw); text != "" {
			return text
		}
	}
	return ""
}

func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// structuredBody returns body when it is a JSON object or array, nil otherwise.
func structuredBody(body []byte) json.RawMessage {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || (body[0] != '{' && body[0] != '[') {
		return nil
	}
	if !json.Valid(body) {
		return nil
	}
	return json.RawMessage(body)
}

// AsError unwraps err into an *Error when it carries one.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

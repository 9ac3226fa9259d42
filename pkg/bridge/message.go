package bridge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-formhost/pkg/formio"
)

// MessageType discriminates the envelopes crossing the embedded-surface
// boundary. The renderer emits the lifecycle types; the host sends the command
// types. "submit" appears in both directions: inbound it carries a submission,
// outbound it asks the renderer to submit.
type MessageType string

const (
	MessageReady            MessageType = "ready"
	MessageSubmit           MessageType = "submit"
	MessageError            MessageType = "error"
	MessageChange           MessageType = "change"
	MessageBeforeSubmit     MessageType = "beforeSubmit"
	MessageCurrentData      MessageType = "currentData"
	MessageValidationResult MessageType = "validationResult"

	// MessageFormSubmit is the single type the externally hosted page emits.
	MessageFormSubmit MessageType = "formSubmit"

	CommandSetData  MessageType = "setData"
	CommandGetData  MessageType = "getData"
	CommandValidate MessageType = "validate"
)

// Message is the tagged union exchanged with the rendering surface. Only the
// fields relevant to a given Type are populated; the envelope round-trips
// through JSON with no loss.
type Message struct {
	Type       MessageType          `json:"type"`
	FormID     string               `json:"formId,omitempty"`
	Submission *formio.Submission   `json:"submission,omitempty"`
	Error      string               `json:"error,omitempty"`
	Errors     []formio.ErrorDetail `json:"errors,omitempty"`
	Changed    json.RawMessage      `json:"changed,omitempty"`
	Data       formio.Data          `json:"data,omitempty"`
	IsValid    *bool                `json:"isValid,omitempty"`
}

// ParseError marks an inbound payload that could not be decoded as a message.
// The bridge drops and logs these; they are expected noise, never fatal.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "bridge: malformed message: " + e.Err.Error()
	}
	return "bridge: malformed message"
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Decode parses one inbound payload through a single validating boundary so
// downstream code never touches untyped JSON. Payloads that are not JSON
// objects or lack a type discriminant return a *ParseError.
func Decode(raw []byte) (Message, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return Message{}, &ParseError{Raw: trimmed}
	}

	var msg Message
	if err := json.Unmarshal([]byte(trimmed), &msg); err != nil {
		return Message{}, &ParseError{Raw: trimmed, Err: err}
	}
	if msg.Type == "" {
		return Message{}, &ParseError{Raw: trimmed, Err: fmt.Errorf("missing type discriminant")}
	}
	return msg, nil
}

// Encode serialises a message for the string channel.
func Encode(msg Message) (string, error) {
	if msg.Type == "" {
		return "", fmt.Errorf("bridge: message type is required")
	}
	encoded, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("bridge: encode message: %w", err)
	}
	return string(encoded), nil
}

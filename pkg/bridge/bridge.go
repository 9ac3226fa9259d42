// Package bridge ferries JSON messages between a hosting application and an
// embedded form-rendering surface. Outbound it builds a self-contained HTML
// document embedding a form definition; inbound it decodes lifecycle messages
// through one validating parser and dispatches them to callbacks.
//
// The embedded renderer is an opaque collaborator: the contract is only that
// the definition and data the document embeds appear verbatim to it, and that
// it emits the lifecycle message types when the matching event occurs.
package bridge

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formhost/pkg/formio"
)

// Poster is the fire-and-forget string channel into the rendering surface
// (a WebView postMessage, an iframe channel, a test double). Responses arrive
// asynchronously as inbound messages.
type Poster interface {
	Post(message string) error
}

// PosterFunc adapts a function to the Poster interface.
type PosterFunc func(message string) error

func (f PosterFunc) Post(message string) error {
	return f(message)
}

// FormError is the error shape surfaced when the rendering surface reports a
// failure, mirroring the service's structured error body.
type FormError struct {
	Name    string
	Message string
	Details []formio.ErrorDetail
}

func (e *FormError) Error() string {
	if e.Message == "" {
		return "bridge: form error"
	}
	return "bridge: form error: " + e.Message
}

// Handlers are the callbacks a host wires into a Bridge. All are optional;
// each must be idempotent since the channel is unordered relative to the
// host's own state and may deliver duplicates.
type Handlers struct {
	OnReady            func(formID string)
	OnSubmit           func(submission formio.Submission)
	OnError            func(err *FormError)
	OnChange           func(changed json.RawMessage)
	OnBeforeSubmit     func(data formio.Data)
	OnCurrentData      func(data formio.Data)
	OnValidationResult func(valid bool, details []formio.ErrorDetail)
}

// Option customises a Bridge.
type Option func(*Bridge)

// WithLogger injects a structured logger for dropped-message reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		if logger != nil {
			b.log = logger
		}
	}
}

// Bridge is the host side of the message channel. It owns no business logic:
// inbound messages dispatch to the configured handlers, outbound commands go
// through the Poster.
type Bridge struct {
	poster   Poster
	handlers Handlers
	log      *slog.Logger
}

// New constructs a Bridge. poster may be nil for hosts that only consume
// inbound messages.
func New(poster Poster, handlers Handlers, options ...Option) *Bridge {
	b := &Bridge{
		poster:   poster,
		handlers: handlers,
		log:      slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// HandleRaw decodes and dispatches one inbound payload. Malformed payloads are
// dropped and logged; they never propagate to the host screen. Unrecognised
// but well-formed types are ignored so renderer upgrades stay harmless.
func (b *Bridge) HandleRaw(raw string) {
	msg, err := Decode([]byte(raw))
	if err != nil {
		b.log.Warn("dropping malformed bridge message",
			"error", err, "payload", truncate(raw, 120))
		return
	}
	b.Handle(msg)
}

// Handle dispatches an already decoded message.
func (b *Bridge) Handle(msg Message) {
	switch msg.Type {
	case MessageReady:
		if b.handlers.OnReady != nil {
			b.handlers.OnReady(msg.FormID)
		}
	case MessageSubmit:
		if b.handlers.OnSubmit != nil && msg.Submission != nil {
			b.handlers.OnSubmit(*msg.Submission)
		}
	case MessageError:
		if b.handlers.OnError != nil {
			b.handlers.OnError(formErrorFromMessage(msg))
		}
	case MessageChange:
		if b.handlers.OnChange != nil {
			b.handlers.OnChange(msg.Changed)
		}
	case MessageBeforeSubmit:
		if b.handlers.OnBeforeSubmit != nil {
			b.handlers.OnBeforeSubmit(msg.Data)
		}
	case MessageCurrentData:
		if b.handlers.OnCurrentData != nil {
			b.handlers.OnCurrentData(msg.Data)
		}
	case MessageValidationResult:
		if b.handlers.OnValidationResult != nil {
			valid := msg.IsValid != nil && *msg.IsValid
			b.handlers.OnValidationResult(valid, msg.Errors)
		}
	default:
		b.log.Debug("ignoring bridge message", "type", string(msg.Type))
	}
}

// RequestSubmit asks the renderer to run its submit flow. The resulting
// submission arrives as an inbound submit message.
func (b *Bridge) RequestSubmit() error {
	return b.post(Message{Type: MessageSubmit})
}

// SetData replaces the renderer's current data bag.
func (b *Bridge) SetData(data formio.Data) error {
	return b.post(Message{Type: CommandSetData, Data: data})
}

// GetData asks for the current data bag; the answer arrives as a currentData
// message.
func (b *Bridge) GetData() error {
	return b.post(Message{Type: CommandGetData})
}

// Validate asks the renderer to validate; the answer arrives as a
// validationResult message.
func (b *Bridge) Validate() error {
	return b.post(Message{Type: CommandValidate})
}

func (b *Bridge) post(msg Message) error {
	if b.poster == nil {
		return nil
	}
	encoded, err := Encode(msg)
	if err != nil {
		return err
	}
	return b.poster.Post(encoded)
}

func formErrorFromMessage(msg Message) *FormError {
	out := &FormError{
		Name:    "FormError",
		Message: msg.Error,
		Details: msg.Errors,
	}
	if out.Message == "" {
		if len(msg.Errors) > 0 && msg.Errors[0].Message != "" {
			out.Message = msg.Errors[0].Message
		} else {
			out.Message = "form error occurred"
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}

// Package formhost re-exports the most used types and entry points so callers
// can start from a single import: an API client for a Form.io compatible
// service, a document builder for embedding forms in a rendering surface, and
// the message bridge between the two.
package formhost

import (
	"context"

	"github.com/goliatone/go-formhost/pkg/bridge"
	"github.com/goliatone/go-formhost/pkg/client"
	"github.com/goliatone/go-formhost/pkg/formio"
	"github.com/goliatone/go-formhost/pkg/openapi"
)

// Form is a form definition with its component tree.
type Form = formio.Form

// Component is one node of a form's component tree.
type Component = formio.Component

// Submission is a stored instance of user-entered data.
type Submission = formio.Submission

// Data is the submission payload keyed by component key.
type Data = formio.Data

// Message is the envelope exchanged with an embedded rendering surface.
type Message = bridge.Message

// NewClient builds an API client for the service at baseURL.
func NewClient(baseURL string, options ...client.Option) *client.Client {
	return client.New(baseURL, options...)
}

// RenderDocument produces a self-contained HTML document embedding the form
// and optional initial data, themed with the built-in tokens. Callers needing
// more control construct a bridge.DocumentBuilder directly.
func RenderDocument(form Form, initial Data, options ...bridge.DocumentOption) (string, error) {
	opts := append([]bridge.DocumentOption{bridge.WithTheme(bridge.DefaultTheme())}, options...)
	builder, err := bridge.NewDocument(opts...)
	if err != nil {
		return "", err
	}
	return builder.Render(form, initial)
}

// FormFromOpenAPI loads an OpenAPI document from disk and converts the named
// operation's request body into a form definition.
func FormFromOpenAPI(ctx context.Context, path, operationID string) (*Form, error) {
	doc, err := openapi.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return doc.BuildForm(operationID)
}

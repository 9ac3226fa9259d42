package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-formhost/pkg/formio"
)

// ListForms fetches every form definition visible to the current session.
func (c *Client) ListForms(ctx context.Context) ([]formio.Form, error) {
	var out []formio.Form
	if err := c.do(ctx, http.MethodGet, "/form", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetForm fetches one form definition by id.
func (c *Client) GetForm(ctx context.Context, formID string) (formio.Form, error) {
	var out formio.Form
	if err := c.do(ctx, http.MethodGet, "/form/"+url.PathEscape(formID), nil, nil, &out); err != nil {
		return formio.Form{}, err
	}
	return out, nil
}

// GetFormByPath fetches a form by its public path, e.g. "health-survey".
func (c *Client) GetFormByPath(ctx context.Context, path string) (formio.Form, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return formio.Form{}, fmt.Errorf("client: form path is required")
	}
	var out formio.Form
	if err := c.do(ctx, http.MethodGet, "/"+trimmed, nil, nil, &out); err != nil {
		return formio.Form{}, err
	}
	return out, nil
}

// CreateForm stores a new form definition and returns the service's copy with
// id and timestamps assigned.
func (c *Client) CreateForm(ctx context.Context, form formio.Form) (formio.Form, error) {
	var out formio.Form
	if err := c.do(ctx, http.MethodPost, "/form", nil, form, &out); err != nil {
		return formio.Form{}, err
	}
	return out, nil
}

// UpdateForm replaces a form definition.
func (c *Client) UpdateForm(ctx context.Context, formID string, form formio.Form) (formio.Form, error) {
	var out formio.Form
	if err := c.do(ctx, http.MethodPut, "/form/"+url.PathEscape(formID), nil, form, &out); err != nil {
		return formio.Form{}, err
	}
	return out, nil
}

// DeleteForm removes a form definition.
func (c *Client) DeleteForm(ctx context.Context, formID string) error {
	return c.do(ctx, http.MethodDelete, "/form/"+url.PathEscape(formID), nil, nil, nil)
}

package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/goliatone/go-formhost/pkg/formio"
)

// submissionBody is the envelope the service expects on create/update.
type submissionBody struct {
	Data  formio.Data  `json:"data"`
	State formio.State `json:"state,omitempty"`
}

func submissionPath(formID string, rest ...string) string {
	path := "/form/" + url.PathEscape(formID) + "/submission"
	for _, part := range rest {
		path += "/" + url.PathEscape(part)
	}
	return path
}

// ListSubmissions fetches submissions for a form. query passes through to the
// service unmodified (paging, filters).
func (c *Client) ListSubmissions(ctx context.Context, formID string, query url.Values) ([]formio.Submission, error) {
	var out []formio.Submission
	if err := c.do(ctx, http.MethodGet, submissionPath(formID), query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSubmission fetches one submission.
func (c *Client) GetSubmission(ctx context.Context, formID, submissionID string) (formio.Submission, error) {
	var out formio.Submission
	if err := c.do(ctx, http.MethodGet, submissionPath(formID, submissionID), nil, nil, &out); err != nil {
		return formio.Submission{}, err
	}
	return out, nil
}

// CreateSubmission stores data as a submitted entry for the form. The payload
// is wrapped in the {data: ...} envelope the service expects; the returned
// Submission carries the service-assigned id and timestamps.
func (c *Client) CreateSubmission(ctx context.Context, formID string, data formio.Data) (formio.Submission, error) {
	var out formio.Submission
	if err := c.do(ctx, http.MethodPost, submissionPath(formID), nil, submissionBody{Data: data}, &out); err != nil {
		return formio.Submission{}, err
	}
	return out, nil
}

// UpdateSubmission replaces a submission's payload.
func (c *Client) UpdateSubmission(ctx context.Context, formID, submissionID string, data formio.Data) (formio.Submission, error) {
	var out formio.Submission
	if err := c.do(ctx, http.MethodPut, submissionPath(formID, submissionID), nil, submissionBody{Data: data}, &out); err != nil {
		return formio.Submission{}, err
	}
	return out, nil
}

// DeleteSubmission removes a submission.
func (c *Client) DeleteSubmission(ctx context.Context, formID, submissionID string) error {
	return c.do(ctx, http.MethodDelete, submissionPath(formID, submissionID), nil, nil, nil)
}

// SaveDraft stores data as a draft submission the user can resume later.
func (c *Client) SaveDraft(ctx context.Context, formID string, data formio.Data) (formio.Submission, error) {
	body := submissionBody{Data: data, State: formio.StateDraft}
	var out formio.Submission
	if err := c.do(ctx, http.MethodPost, submissionPath(formID), nil, body, &out); err != nil {
		return formio.Submission{}, err
	}
	return out, nil
}

// ListDrafts fetches the form's draft submissions, filtered server-side.
func (c *Client) ListDrafts(ctx context.Context, formID string) ([]formio.Submission, error) {
	query := url.Values{"state": []string{string(formio.StateDraft)}}
	return c.ListSubmissions(ctx, formID, query)
}

package screens

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/goliatone/go-formhost/pkg/formio"
)

// FormLister is the slice of the API client the list screen consumes.
type FormLister interface {
	ListForms(ctx context.Context) ([]formio.Form, error)
}

// ListState is a snapshot of the list screen.
type ListState struct {
	Phase Phase
	Forms []formio.Form
	Err   error
}

// ListOption customises a ListController.
type ListOption func(*ListController)

// WithListObserver registers a callback invoked after every state change.
func WithListObserver(observer func(ListState)) ListOption {
	return func(c *ListController) {
		c.observer = observer
	}
}

// ListController drives the form list screen: loading on mount and refresh,
// ready with the visible set of forms, error with a retry affordance.
// Administrative and system forms never reach the visible set.
type ListController struct {
	svc      FormLister
	observer func(ListState)

	seq   atomic.Uint64
	state ListState
}

// NewList constructs a ListController in the idle phase.
func NewList(svc FormLister, options ...ListOption) *ListController {
	c := &ListController{
		svc:   svc,
		state: ListState{Phase: PhaseIdle},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// State returns the current snapshot.
func (c *ListController) State() ListState {
	return c.state
}

// Load fetches the form list. A fetch that finishes after a newer one started
// is discarded, so rapid refreshes settle on the newest response.
func (c *ListController) Load(ctx context.Context) {
	token := c.seq.Add(1)
	c.transition(ListState{Phase: PhaseLoading, Forms: c.state.Forms})

	forms, err := c.svc.ListForms(ctx)
	if token != c.seq.Load() {
		return // superseded by a newer load
	}
	if err != nil {
		c.transition(ListState{Phase: PhaseError, Forms: c.state.Forms, Err: err})
		return
	}
	c.transition(ListState{Phase: PhaseReady, Forms: VisibleForms(forms)})
}

// Refresh re-enters loading and fetches again.
func (c *ListController) Refresh(ctx context.Context) {
	c.Load(ctx)
}

// Retry recovers from the error phase by fetching again.
func (c *ListController) Retry(ctx context.Context) {
	c.Load(ctx)
}

func (c *ListController) transition(next ListState) {
	c.state = next
	if c.observer != nil {
		c.observer(next)
	}
}

// VisibleForms filters out administrative and system entries: anything under
// the admin/ or user/ path prefixes, the bare admin and user resources, and
// non-form resource types.
func VisibleForms(forms []formio.Form) []formio.Form {
	out := make([]formio.Form, 0, len(forms))
	for _, form := range forms {
		if form.Type != "" && form.Type != "form" {
			continue
		}
		if isSystemPath(form.Path) {
			continue
		}
		out = append(out, form)
	}
	return out
}

func isSystemPath(path string) bool {
	trimmed := strings.Trim(path, "/")
	if trimmed == "admin" || trimmed == "user" {
		return true
	}
	return strings.HasPrefix(trimmed, "admin/") || strings.HasPrefix(trimmed, "user/")
}

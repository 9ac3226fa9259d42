package screens

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-formhost/pkg/bridge"
	"github.com/goliatone/go-formhost/pkg/formio"
)

// SubmissionCreator is the slice of the API client the form screen consumes.
type SubmissionCreator interface {
	CreateSubmission(ctx context.Context, formID string, data formio.Data) (formio.Submission, error)
	SaveDraft(ctx context.Context, formID string, data formio.Data) (formio.Submission, error)
}

// FormState is a snapshot of the form screen.
type FormState struct {
	Phase  Phase
	Result *formio.Submission
	Share  string
	Err    error
}

// FormOption customises a FormController.
type FormOption func(*FormController)

// WithFormObserver registers a callback invoked after every state change.
func WithFormObserver(observer func(FormState)) FormOption {
	return func(c *FormController) {
		c.observer = observer
	}
}

// WithFormLogger sets the logger used for dropped and failed messages.
func WithFormLogger(log *slog.Logger) FormOption {
	return func(c *FormController) {
		c.log = log
	}
}

// FormController drives a single form screen. It owns the bridge to the
// embedded renderer: the page posts lifecycle messages, the controller
// translates a submit into exactly one CreateSubmission call and reports
// the outcome back as state.
type FormController struct {
	form     formio.Form
	svc      SubmissionCreator
	bridge   *bridge.Bridge
	observer func(FormState)
	log      *slog.Logger

	ctx   context.Context
	state FormState
}

// NewForm constructs a FormController wired to the given poster.
func NewForm(form formio.Form, svc SubmissionCreator, poster bridge.Poster, options ...FormOption) *FormController {
	c := &FormController{
		form:  form,
		svc:   svc,
		log:   slog.Default(),
		ctx:   context.Background(),
		state: FormState{Phase: PhaseLoading},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.bridge = bridge.New(poster, bridge.Handlers{
		OnReady:  c.onReady,
		OnSubmit: c.onSubmit,
		OnError:  c.onError,
	}, bridge.WithLogger(c.log))
	return c
}

// State returns the current snapshot.
func (c *FormController) State() FormState {
	return c.state
}

// Bridge exposes the underlying bridge for issuing commands to the page.
func (c *FormController) Bridge() *bridge.Bridge {
	return c.bridge
}

// HandleMessage feeds one raw payload from the page into the controller.
// Malformed payloads are logged and dropped without a state change.
func (c *FormController) HandleMessage(ctx context.Context, raw string) {
	c.ctx = ctx
	c.bridge.HandleRaw(raw)
}

// SaveDraft persists the given data as a draft submission.
func (c *FormController) SaveDraft(ctx context.Context, data formio.Data) (formio.Submission, error) {
	return c.svc.SaveDraft(ctx, c.form.ID, data)
}

// Retry leaves the error phase and returns to ready so the user can submit
// again. The rendered form keeps its data, nothing is re-fetched.
func (c *FormController) Retry() {
	if c.state.Phase != PhaseError {
		return
	}
	c.transition(FormState{Phase: PhaseReady})
}

func (c *FormController) onReady(string) {
	c.transition(FormState{Phase: PhaseReady})
}

func (c *FormController) onSubmit(sub formio.Submission) {
	if c.state.Phase == PhaseSubmitting {
		c.log.Debug("screens: submit while already submitting, dropped")
		return
	}
	c.transition(FormState{Phase: PhaseSubmitting})

	created, err := c.svc.CreateSubmission(c.ctx, c.form.ID, sub.Data)
	if err != nil {
		c.transition(FormState{Phase: PhaseError, Err: err})
		return
	}
	c.transition(FormState{
		Phase:  PhaseReady,
		Result: &created,
		Share:  created.ShareText(c.form),
	})
}

func (c *FormController) onError(err *bridge.FormError) {
	c.transition(FormState{Phase: PhaseError, Err: fmt.Errorf("screens: %w", err)})
}

func (c *FormController) transition(next FormState) {
	c.state = next
	if c.observer != nil {
		c.observer(next)
	}
}

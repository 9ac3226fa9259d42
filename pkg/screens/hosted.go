package screens

import (
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-formhost/pkg/bridge"
)

// DefaultHostedSpinnerDelay is how long the loading overlay lingers after the
// hosted page finishes its document load. Hosted pages keep rendering after
// the load event fires, so the overlay outlives it by a fixed margin unless
// the page announces readiness itself.
const DefaultHostedSpinnerDelay = 1500 * time.Millisecond

// HostedOption customises a HostedController.
type HostedOption func(*HostedController)

// WithSpinnerDelay overrides the post-load overlay delay.
func WithSpinnerDelay(d time.Duration) HostedOption {
	return func(c *HostedController) {
		c.delay = d
	}
}

// WithHostedObserver registers a callback invoked whenever the loading flag
// changes.
func WithHostedObserver(observer func(loading bool)) HostedOption {
	return func(c *HostedController) {
		c.observer = observer
	}
}

// WithHostedLogger sets the logger used for dropped messages.
func WithHostedLogger(log *slog.Logger) HostedOption {
	return func(c *HostedController) {
		c.log = log
	}
}

// HostedController drives a screen that embeds an externally hosted form page
// rather than a locally built document. It only tracks the loading overlay and
// watches for the page's submit announcement.
type HostedController struct {
	delay    time.Duration
	observer func(bool)
	onDone   func()
	log      *slog.Logger

	mu      sync.Mutex
	loading bool
	done    bool
	timer   *time.Timer
}

// NewHosted constructs a HostedController in the loading state. onDone fires
// once when the hosted page reports a completed submission; it may be nil.
func NewHosted(onDone func(), options ...HostedOption) *HostedController {
	c := &HostedController{
		delay:   DefaultHostedSpinnerDelay,
		onDone:  onDone,
		log:     slog.Default(),
		loading: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Loading reports whether the overlay is showing.
func (c *HostedController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LoadEnded marks the document load as finished. The overlay clears after the
// configured delay, giving the page time to render its form.
func (c *HostedController) LoadEnded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loading {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, c.clear)
}

// AppReady clears the overlay immediately. Pages that post an explicit ready
// message give a better signal than the fixed delay, so it wins when present.
func (c *HostedController) AppReady() {
	c.clear()
}

// HandleMessage feeds one raw payload posted by the hosted page. The first
// formSubmit message fires the done callback, duplicates are ignored; a ready
// message clears the overlay; anything malformed is logged and dropped.
func (c *HostedController) HandleMessage(raw string) {
	msg, err := bridge.Decode([]byte(raw))
	if err != nil {
		c.log.Warn("dropping malformed hosted page message", "error", err)
		return
	}
	switch msg.Type {
	case bridge.MessageFormSubmit:
		c.mu.Lock()
		first := !c.done
		c.done = true
		c.mu.Unlock()
		if first && c.onDone != nil {
			c.onDone()
		}
	case bridge.MessageReady:
		c.AppReady()
	default:
		c.log.Debug("ignoring hosted page message", "type", string(msg.Type))
	}
}

// Close stops any pending overlay timer.
func (c *HostedController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *HostedController) clear() {
	c.mu.Lock()
	if !c.loading {
		c.mu.Unlock()
		return
	}
	c.loading = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	observer := c.observer
	c.mu.Unlock()
	if observer != nil {
		observer(false)
	}
}

// Package screens holds the presentation-side state machines: the form list,
// the bridge-rendered form, and the externally hosted form. Controllers own
// only view state (loading flags, error, data shown); every network effect
// goes through the client and every renderer interaction through the bridge.
//
// Controllers are single-threaded and callback-driven. Handlers tolerate
// duplicate and out-of-order delivery; overlapping fetches are guarded with a
// sequence number so a stale response never overwrites a newer one.
package screens

// Phase is the lifecycle of a screen's primary operation.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoading    Phase = "loading"
	PhaseReady      Phase = "ready"
	PhaseSubmitting Phase = "submitting"
	PhaseError      Phase = "error"
)

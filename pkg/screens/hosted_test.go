package screens_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-formhost/pkg/screens"
)

func TestHostedLoadEndedClearsAfterDelay(t *testing.T) {
	cleared := make(chan bool, 1)
	ctrl := screens.NewHosted(nil,
		screens.WithSpinnerDelay(10*time.Millisecond),
		screens.WithHostedObserver(func(loading bool) {
			cleared <- loading
		}))
	defer ctrl.Close()

	if !ctrl.Loading() {
		t.Fatal("controller should start loading")
	}

	ctrl.LoadEnded()
	if !ctrl.Loading() {
		t.Fatal("overlay cleared before the delay elapsed")
	}

	select {
	case loading := <-cleared:
		if loading {
			t.Fatal("observer reported loading=true on clear")
		}
	case <-time.After(time.Second):
		t.Fatal("overlay never cleared")
	}
	if ctrl.Loading() {
		t.Fatal("Loading() still true after clear")
	}
}

func TestHostedAppReadyClearsImmediately(t *testing.T) {
	ctrl := screens.NewHosted(nil, screens.WithSpinnerDelay(time.Hour))
	defer ctrl.Close()

	ctrl.LoadEnded()
	ctrl.AppReady()

	if ctrl.Loading() {
		t.Fatal("AppReady did not clear the overlay")
	}
}

func TestHostedReadyMessageClearsOverlay(t *testing.T) {
	ctrl := screens.NewHosted(nil, screens.WithSpinnerDelay(time.Hour))
	defer ctrl.Close()

	ctrl.HandleMessage(`{"type":"ready"}`)

	if ctrl.Loading() {
		t.Fatal("ready message did not clear the overlay")
	}
}

func TestHostedFormSubmitFiresDone(t *testing.T) {
	done := 0
	ctrl := screens.NewHosted(func() { done++ }, screens.WithHostedLogger(quietLogger()))
	defer ctrl.Close()

	ctrl.HandleMessage(`{"type":"formSubmit"}`)
	if done != 1 {
		t.Fatalf("done fired %d times, want 1", done)
	}

	ctrl.HandleMessage(`not json at all`)
	ctrl.HandleMessage(`{"type":"somethingElse"}`)
	ctrl.HandleMessage(`{"type":"formSubmit"}`)
	if done != 1 {
		t.Fatalf("done fired %d times after noise and a duplicate, want 1", done)
	}
}

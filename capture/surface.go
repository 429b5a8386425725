package capture

import (
	"context"
	"errors"
	"time"
)

// ErrSurfaceBusy signals that the surface is mid-transition (e.g. the viewer
// is navigating and the script context was destroyed). The stabilization
// poller retries these within its timeout budget instead of treating them as
// terminal.
var ErrSurfaceBusy = errors.New("capture: surface mid-transition")

// Surface is the injected rendering surface the engine drives. The production
// implementation wraps a live browser tab; tests use an in-memory stub.
type Surface interface {
	// Candidates runs the content classifier against the live surface and
	// returns every page-like element currently rendered, in the surface's
	// natural element order. Returns ErrSurfaceBusy (possibly wrapped) while
	// the surface is mid-transition.
	Candidates(ctx context.Context) ([]PageCandidate, error)

	// WaitReady blocks until the surface reports itself loaded, or the
	// timeout elapses. Best effort: failures are swallowed.
	WaitReady(ctx context.Context, timeout time.Duration)

	// ClickNext activates the dedicated next-page control. Returns an error
	// if the control is absent, disabled, or the click fails.
	ClickNext(ctx context.Context) error

	// PressNextKey is the fallback advance action, a forward direction
	// key-press.
	PressNextKey(ctx context.Context) error
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

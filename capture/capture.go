package capture

import (
	"context"
	"log/slog"
)

// Capturer runs the capture state machine over an injected Surface and Store.
// Create one per run; it is not safe for concurrent use and does not need to
// be — the whole engine is single-goroutine by design.
type Capturer struct {
	cfg     Config
	surface Surface
	store   Store
	logger  *slog.Logger

	seen      map[string]struct{}
	artifacts []string
	nextIndex int
}

// New creates a Capturer with defaults applied to cfg.
func New(cfg Config, surface Surface, store Store, logger *slog.Logger) *Capturer {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Capturer{
		cfg:       cfg,
		surface:   surface,
		store:     store,
		logger:    logger,
		seen:      make(map[string]struct{}),
		nextIndex: 1,
	}
}

// Run executes the capture loop until the document is exhausted and returns
// the saved artifact paths in discovery order.
//
// States: CAPTURING stabilizes the surface and persists unseen candidates;
// ADVANCING asks the navigation driver for new content evidence. Advance
// success loops back to CAPTURING even when the prior step saved nothing —
// a step can legitimately reveal zero new pages (a loading pause) and still
// be followed by further navigation. The loop exits when the surface never
// shows page-like content at all, or when navigation attempts exhaust
// without new evidence; both exits return whatever was accumulated.
func (c *Capturer) Run(ctx context.Context) []string {
	for {
		c.logger.Info("capture: capturing step", "saved", len(c.artifacts))

		cands := c.stabilize(ctx)
		if len(cands) == 0 {
			c.logger.Warn("capture: no page-like content at this step, stopping")
			break
		}

		saved := c.persistNew(ctx, cands)
		c.logger.Info("capture: step complete", "new", saved, "total", len(c.artifacts))

		if !c.advance(ctx) {
			break
		}
	}

	c.logger.Info("capture: finished", "pages", len(c.artifacts))
	return c.artifacts
}

// Artifacts returns the paths saved so far, in discovery order.
func (c *Capturer) Artifacts() []string {
	return c.artifacts
}

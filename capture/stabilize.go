package capture

import (
	"context"
	"errors"
	"time"
)

// readyTimeout bounds the per-iteration load-state wait inside stabilize.
const readyTimeout = 5 * time.Second

// stabilize re-samples the surface until it yields at least one candidate at
// full page width. First success wins. Viewers commonly render a low-res
// placeholder before the real page, so an all-undersized sample is treated
// the same as an empty one: keep polling.
//
// Mid-transition failures (ErrSurfaceBusy) are retried within the timeout
// budget and never surfaced. Any other classifier error, and the timeout
// itself, degrade to returning the best result observed so far — possibly
// none. Capture is best-effort per step.
func (c *Capturer) stabilize(ctx context.Context) []PageCandidate {
	deadline := time.Now().Add(c.cfg.StabilizeTimeout)
	var best []PageCandidate

	for {
		c.surface.WaitReady(ctx, readyTimeout)

		cands, err := c.surface.Candidates(ctx)
		switch {
		case errors.Is(err, ErrSurfaceBusy):
			if time.Now().After(deadline) {
				c.logger.Warn("capture: gave up waiting for stable surface")
				return best
			}
			c.logger.Debug("capture: surface still navigating, retrying")
		case err != nil:
			c.logger.Warn("capture: classifier failed", "error", err)
			return best
		case len(cands) > 0:
			if filtered := filterByWidth(cands, c.cfg.MinPageWidth); len(filtered) > 0 {
				c.logger.Debug("capture: candidates stabilized",
					"count", len(filtered), "min_width", c.cfg.MinPageWidth)
				return filtered
			}
			c.logger.Debug("capture: only undersized candidates, waiting for hi-res")
		default:
			c.logger.Debug("capture: no candidates yet, waiting")
		}

		if time.Now().After(deadline) {
			c.logger.Warn("capture: stabilization timeout, using best so far", "count", len(best))
			return best
		}
		sleep(ctx, c.cfg.PollInterval)
		if ctx.Err() != nil {
			return best
		}
	}
}

package capture

import "context"

// advance tries to move the surface forward and reports whether new content
// appeared. Success is defined purely by observed evidence — an unseen
// fingerprint among the full-size candidates — never by whether the click or
// key-press itself landed. That keeps the driver working when the next
// control is disabled, missing, or replaced: every attempt falls back to a
// key-press and ends with a content check.
//
// Returning false after NavMaxAttempts is the engine's sole termination
// signal: no new content means end of document.
func (c *Capturer) advance(ctx context.Context) bool {
	for attempt := 1; attempt <= c.cfg.NavMaxAttempts; attempt++ {
		c.logger.Debug("capture: advancing", "attempt", attempt, "max", c.cfg.NavMaxAttempts)

		if err := c.surface.ClickNext(ctx); err != nil {
			c.logger.Debug("capture: next control unusable, pressing key", "error", err)
			if err := c.surface.PressNextKey(ctx); err != nil {
				c.logger.Warn("capture: fallback key-press failed", "error", err)
			}
		}

		sleep(ctx, c.cfg.NavSettle)

		cands, err := c.surface.Candidates(ctx)
		if err != nil {
			c.logger.Warn("capture: post-navigation sample failed", "error", err)
			continue
		}
		for _, cand := range filterByWidth(cands, c.cfg.MinPageWidth) {
			if cand.Fingerprint == "" {
				continue
			}
			if _, ok := c.seen[cand.Fingerprint]; !ok {
				c.logger.Debug("capture: new content detected after navigation", "attempt", attempt)
				return true
			}
		}
		c.logger.Debug("capture: nothing new after this attempt", "attempt", attempt)
	}

	c.logger.Info("capture: no new content after navigation attempts, assuming end of document")
	return false
}

package capture

import (
	"context"
	"fmt"
	"path/filepath"
)

// persistNew walks a stabilized snapshot in order and persists every
// candidate whose fingerprint has not been seen. Returns the number of new
// fingerprints encountered.
//
// A fingerprint is marked seen before the save is attempted, so a payload
// that fails to persist is not retried on later steps: the failure is logged,
// the candidate dropped, and the loop continues. Output indexes are only
// consumed by successful saves, keeping filenames dense.
func (c *Capturer) persistNew(ctx context.Context, cands []PageCandidate) int {
	newCount := 0

	for _, cand := range cands {
		if cand.Fingerprint == "" {
			continue
		}
		if _, ok := c.seen[cand.Fingerprint]; ok {
			continue
		}
		c.seen[cand.Fingerprint] = struct{}{}
		newCount++

		base := fmt.Sprintf("page_%03d", c.nextIndex)
		path, err := c.store.Save(ctx, base, cand)
		if err != nil {
			c.logger.Warn("capture: persist failed, dropping candidate",
				"index", c.nextIndex, "kind", cand.Kind, "error", err)
			continue
		}

		c.logger.Info("capture: saved page",
			"index", c.nextIndex, "kind", cand.Kind,
			"width", cand.Width, "height", cand.Height,
			"file", filepath.Base(path))
		c.artifacts = append(c.artifacts, path)
		c.nextIndex++
	}

	return newCount
}

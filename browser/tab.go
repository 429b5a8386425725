package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/stealth"
)

// navTimeout bounds the initial navigation of a fresh tab.
const navTimeout = 30 * time.Second

// OpenTab creates a stealth tab and navigates it to url. The load wait is
// best effort: slow portals keep streaming after the load event and the
// caller settles on its own terms.
func OpenTab(ctx context.Context, mgr *Manager, url string) (*rod.Page, error) {
	b := mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, navTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(url); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		mgr.cfg.Logger.Warn("browser: wait load timeout", "url", url, "error", err)
	}

	return page, nil
}

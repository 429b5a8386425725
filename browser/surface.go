package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"github.com/chuachunmin/issuegrab/capture"
)

// harvestJS collects every canvas and img under the viewer root with basic
// size info. Sub-iconFloor elements are UI chrome and skipped outright. A
// canvas payload is exported inline as a PNG data URL; toDataURL throws on a
// tainted (cross-origin) canvas and that element is silently skipped. An img
// without a src has nothing to fetch and is skipped too.
const harvestJS = `() => {
	const root = document.querySelector(%q);
	if (!root) return [];

	const els = Array.from(root.querySelectorAll('canvas, img'));
	const result = [];

	for (const el of els) {
		const tag = el.tagName.toLowerCase();
		const rect = el.getBoundingClientRect();
		const width = el.width || el.naturalWidth || rect.width || 0;
		const height = el.height || el.naturalHeight || rect.height || 0;

		if (width < %d || height < %d) continue;

		if (tag === 'canvas') {
			try {
				const dataUrl = el.toDataURL('image/png');
				if (dataUrl && dataUrl.startsWith('data:image')) {
					result.push({src: dataUrl, width, height, kind: 'canvas'});
				}
			} catch (e) {
				// tainted canvas
			}
		} else if (el.src) {
			result.push({src: el.src, width, height, kind: 'img'});
		}
	}

	return result;
}`

// findTimeout bounds the lookup of the next-page control.
const findTimeout = 2 * time.Second

// SurfaceConfig configures the live viewer surface.
type SurfaceConfig struct {
	// Root is the CSS selector of the viewer's content container.
	// Default: "#app".
	Root string `yaml:"root"`

	// IconFloor is the pixel floor below which elements are treated as UI
	// icons and never classified. Default: 100.
	IconFloor int `yaml:"icon_floor"`

	// NextButton is the XPath of the dedicated next-page control.
	// Default: //*[@id='next-page-button'].
	NextButton string `yaml:"next_button"`

	Logger *slog.Logger
}

func (c *SurfaceConfig) defaults() {
	if c.Root == "" {
		c.Root = "#app"
	}
	if c.IconFloor <= 0 {
		c.IconFloor = 100
	}
	if c.NextButton == "" {
		c.NextButton = `//*[@id='next-page-button']`
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Surface adapts a live viewer tab to the capture engine. It is the
// production implementation of capture.Surface.
type Surface struct {
	page *rod.Page
	cfg  SurfaceConfig
	js   string
}

// NewSurface wraps an open viewer page.
func NewSurface(page *rod.Page, cfg SurfaceConfig) *Surface {
	cfg.defaults()
	return &Surface{
		page: page,
		cfg:  cfg,
		js:   fmt.Sprintf(harvestJS, cfg.Root, cfg.IconFloor, cfg.IconFloor),
	}
}

// Candidates runs the classifier script against the live page. A script
// context torn down by an in-flight navigation is reported as
// capture.ErrSurfaceBusy so the poller retries instead of giving up.
func (s *Surface) Candidates(ctx context.Context) ([]capture.PageCandidate, error) {
	res, err := s.page.Context(ctx).Eval(s.js)
	if err != nil {
		if isContextDestroyed(err) {
			return nil, fmt.Errorf("browser: evaluate (%v): %w", err, capture.ErrSurfaceBusy)
		}
		return nil, fmt.Errorf("browser: evaluate: %w", err)
	}

	var out []capture.PageCandidate
	for _, item := range res.Value.Arr() {
		out = append(out, capture.PageCandidate{
			Fingerprint: item.Get("src").Str(),
			Width:       int(item.Get("width").Int()),
			Height:      int(item.Get("height").Int()),
			Kind:        capture.Kind(item.Get("kind").Str()),
		})
	}
	return out, nil
}

// WaitReady waits for the page load event, best effort.
func (s *Surface) WaitReady(ctx context.Context, timeout time.Duration) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.page.Context(waitCtx).WaitLoad(); err != nil {
		s.cfg.Logger.Debug("browser: load wait ended early", "error", err)
	}
}

// ClickNext clicks the dedicated next-page control. Errors when the control
// is absent, disabled, or the click fails; the engine falls back to a
// key-press in all of those cases.
func (s *Surface) ClickNext(ctx context.Context) error {
	el, err := s.page.Context(ctx).Timeout(findTimeout).ElementX(s.cfg.NextButton)
	if err != nil {
		return fmt.Errorf("browser: next control not found: %w", err)
	}
	if disabled, err := el.Property("disabled"); err == nil && disabled.Bool() {
		return fmt.Errorf("browser: next control disabled")
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("browser: click next: %w", err)
	}
	return nil
}

// PressNextKey sends the forward arrow key to the viewer.
func (s *Surface) PressNextKey(ctx context.Context) error {
	if err := s.page.Context(ctx).Keyboard.Press(input.ArrowRight); err != nil {
		return fmt.Errorf("browser: arrow key: %w", err)
	}
	return nil
}

// isContextDestroyed recognises the transient evaluate failures Chrome
// reports while the page is navigating.
func isContextDestroyed(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "context was destroyed") ||
		strings.Contains(msg, "cannot find context") ||
		strings.Contains(msg, "because of a navigation")
}

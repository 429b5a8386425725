// Package viewer drives the authenticated path from the newspaper portal to
// an open issue viewer: login, paper selection, and the viewer's own setup
// controls. Everything selector-shaped is configuration; portals move their
// markup around and the flow should survive a config edit, not a rebuild.
package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// Config describes one portal and the issue to open. Credentials are
// populated from the environment, never from the YAML file.
type Config struct {
	// PortalURL is the landing page listing available papers.
	PortalURL string `yaml:"portal_url"`

	// LoginLink is the XPath of the header login link. Optional: when the
	// portal redirects straight to the login form, the missing link is not
	// an error.
	LoginLink string `yaml:"login_link"`

	// UsernameField and PasswordField are CSS selectors of the login inputs.
	UsernameField string `yaml:"username_field"`
	PasswordField string `yaml:"password_field"`

	// PaperThumb is the XPath of the paper thumbnail that opens the issue
	// viewer in a new tab.
	PaperThumb string `yaml:"paper_thumb"`

	// SetupButtons are viewer controls clicked in order once the viewer tab
	// is open (e.g. dismissing an intro overlay, switching to page view).
	// Each click is best effort.
	SetupButtons []string `yaml:"setup_buttons"`

	// Settle is the pause after each interaction, giving the portal's
	// scripts time to react. Default: 2s.
	Settle time.Duration `yaml:"settle"`

	Username string `yaml:"-"`
	Password string `yaml:"-"`
}

func (c *Config) defaults() {
	if c.UsernameField == "" {
		c.UsernameField = "#username"
	}
	if c.PasswordField == "" {
		c.PasswordField = "#password"
	}
	if c.Settle <= 0 {
		c.Settle = 2 * time.Second
	}
}

// Per-step element lookup timeouts, matching how long each part of the
// portal is worth waiting for.
const (
	loginLinkTimeout = 15 * time.Second
	fieldTimeout     = 20 * time.Second
	thumbTimeout     = 20 * time.Second
	setupTimeout     = 20 * time.Second
)

// Flow executes the portal-to-viewer sequence.
type Flow struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Flow with defaults applied.
func New(cfg Config, logger *slog.Logger) *Flow {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Flow{cfg: cfg, logger: logger}
}

// Open runs the full sequence on an already-loaded portal page and returns
// the viewer tab, loaded and settled, ready for capture.
func (f *Flow) Open(ctx context.Context, portal *rod.Page) (*rod.Page, error) {
	if f.cfg.Username == "" || f.cfg.Password == "" {
		return nil, fmt.Errorf("viewer: missing credentials")
	}

	f.clickLoginLink(ctx, portal)

	if err := f.login(ctx, portal); err != nil {
		return nil, err
	}

	page, err := f.openPaper(ctx, portal)
	if err != nil {
		return nil, err
	}

	f.runSetup(ctx, page)

	// Give the viewer time to load the initial hi-res pages.
	f.pause(ctx, 2*f.cfg.Settle)
	return page, nil
}

// clickLoginLink follows the header login link when present. Some sessions
// land directly on the login form, so absence is only worth a log line.
func (f *Flow) clickLoginLink(ctx context.Context, page *rod.Page) {
	if f.cfg.LoginLink == "" {
		return
	}
	el, err := page.Context(ctx).Timeout(loginLinkTimeout).ElementX(f.cfg.LoginLink)
	if err != nil {
		f.logger.Info("viewer: login link not found, assuming login page", "error", err)
		return
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		f.logger.Warn("viewer: login link click failed", "error", err)
		return
	}
	f.pause(ctx, f.cfg.Settle)
}

// login fills the credential form and submits it with Enter.
func (f *Flow) login(ctx context.Context, page *rod.Page) error {
	user, err := page.Context(ctx).Timeout(fieldTimeout).Element(f.cfg.UsernameField)
	if err != nil {
		return fmt.Errorf("viewer: username field: %w", err)
	}
	if err := user.Input(f.cfg.Username); err != nil {
		return fmt.Errorf("viewer: fill username: %w", err)
	}

	pass, err := page.Context(ctx).Timeout(fieldTimeout).Element(f.cfg.PasswordField)
	if err != nil {
		return fmt.Errorf("viewer: password field: %w", err)
	}
	if err := pass.Input(f.cfg.Password); err != nil {
		return fmt.Errorf("viewer: fill password: %w", err)
	}

	if err := page.Keyboard.Press(input.Enter); err != nil {
		return fmt.Errorf("viewer: submit login: %w", err)
	}

	if err := page.Context(ctx).Timeout(fieldTimeout).WaitLoad(); err != nil {
		f.logger.Warn("viewer: post-login load wait", "error", err)
	}
	f.pause(ctx, f.cfg.Settle)
	f.logger.Info("viewer: login submitted")
	return nil
}

// openPaper clicks the paper thumbnail and adopts the viewer tab it opens.
func (f *Flow) openPaper(ctx context.Context, portal *rod.Page) (*rod.Page, error) {
	thumb, err := portal.Context(ctx).Timeout(thumbTimeout).ElementX(f.cfg.PaperThumb)
	if err != nil {
		return nil, fmt.Errorf("viewer: paper thumbnail: %w", err)
	}

	wait := portal.WaitOpen()
	if err := thumb.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, fmt.Errorf("viewer: open paper: %w", err)
	}
	page, err := wait()
	if err != nil {
		return nil, fmt.Errorf("viewer: viewer tab: %w", err)
	}

	if _, err := page.Activate(); err != nil {
		f.logger.Debug("viewer: activate tab", "error", err)
	}
	if err := page.Context(ctx).Timeout(thumbTimeout).WaitLoad(); err != nil {
		f.logger.Warn("viewer: viewer load wait", "error", err)
	}
	f.pause(ctx, f.cfg.Settle)
	f.logger.Info("viewer: issue viewer open")
	return page, nil
}

// runSetup clicks each configured viewer control in order. A missing control
// is logged and skipped: viewers vary their chrome between issues.
func (f *Flow) runSetup(ctx context.Context, page *rod.Page) {
	for _, xpath := range f.cfg.SetupButtons {
		el, err := page.Context(ctx).Timeout(setupTimeout).ElementX(xpath)
		if err != nil {
			f.logger.Info("viewer: setup control not found, continuing", "xpath", xpath)
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			f.logger.Warn("viewer: setup click failed", "xpath", xpath, "error", err)
			continue
		}
		f.pause(ctx, f.cfg.Settle)
	}
}

func (f *Flow) pause(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Package grab wires the full issue capture pipeline: browser lifecycle,
// portal login, the capture engine, the run journal, and PDF assembly.
package grab

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/chuachunmin/issuegrab/assemble"
	"github.com/chuachunmin/issuegrab/browser"
	"github.com/chuachunmin/issuegrab/capture"
	"github.com/chuachunmin/issuegrab/fetcher"
	"github.com/chuachunmin/issuegrab/journal"
	"github.com/chuachunmin/issuegrab/viewer"
)

// Runner executes one end-to-end capture.
type Runner struct {
	cfg    *Config
	logger *slog.Logger
}

// New creates a Runner.
func New(cfg *Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.ApplyDefaults()
	return &Runner{cfg: cfg, logger: logger}
}

// Run captures the issue and returns the path of the assembled PDF.
func (r *Runner) Run(ctx context.Context) (string, error) {
	if r.cfg.Viewer.PortalURL == "" {
		return "", fmt.Errorf("grab: portal_url not configured")
	}

	jrnl, err := journal.Open(r.cfg.Output.JournalPath)
	if err != nil {
		return "", fmt.Errorf("grab: open journal: %w", err)
	}
	defer jrnl.Close()

	runID, err := jrnl.StartRun(ctx)
	if err != nil {
		return "", fmt.Errorf("grab: start run: %w", err)
	}
	r.logger.Info("grab: run started", "run_id", runID)

	mgr := browser.NewManager(browser.Config{
		RemoteURL:    r.cfg.Browser.Remote,
		Headless:     r.cfg.Browser.Headless,
		WindowWidth:  r.cfg.Browser.WindowWidth,
		WindowHeight: r.cfg.Browser.WindowHeight,
		Logger:       r.logger,
	})
	if _, err := mgr.Start(ctx); err != nil {
		return "", fmt.Errorf("grab: start browser: %w", err)
	}
	defer mgr.Close()

	portal, err := browser.OpenTab(ctx, mgr, r.cfg.Viewer.PortalURL)
	if err != nil {
		return "", fmt.Errorf("grab: open portal: %w", err)
	}

	page, err := viewer.New(r.cfg.Viewer, r.logger).Open(ctx, portal)
	if err != nil {
		return "", fmt.Errorf("grab: open viewer: %w", err)
	}

	assets := fetcher.New(fetcher.WithLogger(r.logger))
	if err := assets.SyncCookies(page); err != nil {
		r.logger.Warn("grab: cookie sync failed, fetches may be unauthenticated", "error", err)
	}

	surfCfg := r.cfg.Surface
	surfCfg.Logger = r.logger
	surface := browser.NewSurface(page, surfCfg)

	store := &journalStore{
		inner: &capture.DiskStore{
			Dir:     r.cfg.Output.PagesDir,
			Fetcher: assets,
			Logger:  r.logger,
		},
		jrnl:   jrnl,
		logger: r.logger,
	}

	pages := capture.New(r.cfg.Capture, surface, store, r.logger).Run(ctx)
	if len(pages) == 0 {
		if err := jrnl.FinishRun(ctx, 0, ""); err != nil {
			r.logger.Warn("grab: finish run", "error", err)
		}
		return "", fmt.Errorf("grab: no pages captured")
	}

	outPath := filepath.Join(r.cfg.Output.OutDir, assemble.OutputName(time.Now()))
	if err := assemble.PDF(pages, outPath); err != nil {
		return "", fmt.Errorf("grab: assemble: %w", err)
	}

	if err := jrnl.FinishRun(ctx, len(pages), outPath); err != nil {
		r.logger.Warn("grab: finish run", "error", err)
	}

	r.logger.Info("grab: run complete", "run_id", runID, "pages", len(pages), "output", outPath)
	return outPath, nil
}

// journalStore decorates a capture.Store with journal bookkeeping. Journal
// failures are logged, never propagated: the artifact on disk is the source
// of truth.
type journalStore struct {
	inner  capture.Store
	jrnl   *journal.Journal
	logger *slog.Logger
	index  int
}

func (s *journalStore) Save(ctx context.Context, baseName string, cand capture.PageCandidate) (string, error) {
	path, err := s.inner.Save(ctx, baseName, cand)
	if err != nil {
		return "", err
	}
	s.index++
	if err := s.jrnl.RecordPage(ctx, s.index, cand, path); err != nil {
		s.logger.Warn("grab: journal record failed", "index", s.index, "error", err)
	}
	return path, nil
}

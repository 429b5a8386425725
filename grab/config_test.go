package grab

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFile(t *testing.T) {
	raw := `
browser:
  headless: true
viewer:
  portal_url: https://portal.example/papers
  login_link: "/html/body/header//a"
  paper_thumb: "//div[1]/a/img"
  settle: 500ms
surface:
  root: "#viewer"
  next_button: "//*[@id='next']"
capture:
  min_page_width: 600
  stabilize_timeout: 10s
output:
  pages_dir: /tmp/pages
`
	path := filepath.Join(t.TempDir(), "issuegrab.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !cfg.Browser.Headless {
		t.Error("Headless: got false, want true")
	}
	if cfg.Viewer.PortalURL != "https://portal.example/papers" {
		t.Errorf("PortalURL: got %q", cfg.Viewer.PortalURL)
	}
	if cfg.Viewer.Settle != 500*time.Millisecond {
		t.Errorf("Settle: got %v, want 500ms", cfg.Viewer.Settle)
	}
	if cfg.Surface.Root != "#viewer" {
		t.Errorf("Surface.Root: got %q", cfg.Surface.Root)
	}
	if cfg.Capture.MinPageWidth != 600 {
		t.Errorf("MinPageWidth: got %d, want 600", cfg.Capture.MinPageWidth)
	}
	if cfg.Output.PagesDir != "/tmp/pages" {
		t.Errorf("PagesDir: got %q", cfg.Output.PagesDir)
	}
	// Unset fields still get wiring defaults.
	if cfg.Output.OutDir != "output" {
		t.Errorf("OutDir default: got %q, want output", cfg.Output.OutDir)
	}
	if cfg.Output.JournalPath != "issuegrab.db" {
		t.Errorf("JournalPath default: got %q, want issuegrab.db", cfg.Output.JournalPath)
	}
}

func TestLoadCredentialsFromEnv(t *testing.T) {
	t.Setenv(EnvUsername, "lib-user")
	t.Setenv(EnvPassword, "lib-pass")

	cfg := DefaultConfig()
	if err := cfg.LoadCredentialsFromEnv(); err != nil {
		t.Fatalf("load credentials: %v", err)
	}
	if cfg.Viewer.Username != "lib-user" || cfg.Viewer.Password != "lib-pass" {
		t.Errorf("credentials not copied: %q/%q", cfg.Viewer.Username, cfg.Viewer.Password)
	}
}

func TestLoadCredentialsFromEnv_Missing(t *testing.T) {
	t.Setenv(EnvUsername, "")
	t.Setenv(EnvPassword, "")

	cfg := DefaultConfig()
	if err := cfg.LoadCredentialsFromEnv(); err == nil {
		t.Fatal("expected error with empty credentials")
	}
}

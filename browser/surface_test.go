package browser

import (
	"errors"
	"strings"
	"testing"

	"github.com/chuachunmin/issuegrab/capture"
)

var _ capture.Surface = (*Surface)(nil)

func TestHarvestScriptRendering(t *testing.T) {
	s := NewSurface(nil, SurfaceConfig{Root: "#viewer", IconFloor: 64})

	if !strings.Contains(s.js, `querySelector("#viewer")`) {
		t.Errorf("root selector not injected:\n%s", s.js)
	}
	if !strings.Contains(s.js, "width < 64 || height < 64") {
		t.Errorf("icon floor not injected:\n%s", s.js)
	}
	if strings.Contains(s.js, "%") {
		t.Errorf("unexpanded format verb left in script:\n%s", s.js)
	}
}

func TestSurfaceConfigDefaults(t *testing.T) {
	var cfg SurfaceConfig
	cfg.defaults()

	if cfg.Root != "#app" {
		t.Errorf("Root: got %q, want #app", cfg.Root)
	}
	if cfg.IconFloor != 100 {
		t.Errorf("IconFloor: got %d, want 100", cfg.IconFloor)
	}
	if cfg.NextButton == "" {
		t.Error("NextButton default missing")
	}
}

func TestIsContextDestroyed(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"Execution context was destroyed, most likely because of a navigation", true},
		{"Cannot find context with specified id", true},
		{"eval: ReferenceError: foo is not defined", false},
		{"net::ERR_CONNECTION_REFUSED", false},
	}
	for _, tt := range tests {
		if got := isContextDestroyed(errors.New(tt.msg)); got != tt.want {
			t.Errorf("isContextDestroyed(%q): got %v, want %v", tt.msg, got, tt.want)
		}
	}
}

package journal

import (
	"context"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/chuachunmin/issuegrab/capture"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRunLifecycle(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	runID, err := j.StartRun(ctx)
	if err != nil {
		t.Fatalf("start run: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run ID")
	}

	cand := capture.PageCandidate{Fingerprint: "data:image/png;base64,AAAA", Width: 1200, Height: 1600, Kind: capture.KindCanvas}
	for i := 1; i <= 3; i++ {
		if err := j.RecordPage(ctx, i, cand, "output_pages/page_00x.png"); err != nil {
			t.Fatalf("record page %d: %v", i, err)
		}
	}

	if err := j.FinishRun(ctx, 3, "output/20260831.pdf"); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	n, err := j.PageCount(ctx, runID)
	if err != nil {
		t.Fatalf("page count: %v", err)
	}
	if n != 3 {
		t.Errorf("page count: got %d, want 3", n)
	}
}

func TestRecordPage_RequiresRun(t *testing.T) {
	j := openTestJournal(t)
	err := j.RecordPage(context.Background(), 1, capture.PageCandidate{Fingerprint: "x"}, "p.png")
	if err == nil {
		t.Fatal("expected error before StartRun")
	}
}

func TestOpen_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "journal.db")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("open with nested path: %v", err)
	}
	j.Close()
}

package capture

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type stubFetcher struct {
	data []byte
	err  error
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.data, f.err
}

func dataURL(mediaType string, payload []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

func TestDiskStore_InlinePNG(t *testing.T) {
	payload := append([]byte{}, pngMagic...)
	store := &DiskStore{Dir: t.TempDir()}

	path, err := store.Save(context.Background(), "page_001", PageCandidate{
		Fingerprint: dataURL("image/png", payload),
		Kind:        KindCanvas,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Ext(path) != ".png" {
		t.Errorf("extension: got %q, want .png", filepath.Ext(path))
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("payload mismatch after round trip")
	}
}

func TestDiskStore_InlineJPEG(t *testing.T) {
	store := &DiskStore{Dir: t.TempDir()}

	path, err := store.Save(context.Background(), "page_002", PageCandidate{
		Fingerprint: dataURL("image/jpeg", []byte("jpegbytes")),
		Kind:        KindCanvas,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Ext(path) != ".jpg" {
		t.Errorf("extension: got %q, want .jpg", filepath.Ext(path))
	}
}

func TestDiskStore_FetchedPayloadSniffed(t *testing.T) {
	payload := append(append([]byte{}, jpegMagic...), []byte("rest")...)
	store := &DiskStore{
		Dir:     t.TempDir(),
		Fetcher: &stubFetcher{data: payload},
	}

	path, err := store.Save(context.Background(), "page_003", PageCandidate{
		Fingerprint: "https://viewer.example/pages/3",
		Kind:        KindImage,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Ext(path) != ".jpg" {
		t.Errorf("extension: got %q, want .jpg from sniffed magic", filepath.Ext(path))
	}
}

func TestDiskStore_UndeterminedTypeDefaultsByKind(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindImage, ".jpg"},
		{KindCanvas, ".png"},
	}
	for _, tt := range tests {
		store := &DiskStore{
			Dir:     t.TempDir(),
			Fetcher: &stubFetcher{data: []byte("no magic here")},
		}
		path, err := store.Save(context.Background(), "page_004", PageCandidate{
			Fingerprint: "https://viewer.example/pages/4",
			Kind:        tt.kind,
		})
		if err != nil {
			t.Fatalf("save %s: %v", tt.kind, err)
		}
		if filepath.Ext(path) != tt.want {
			t.Errorf("kind %s: extension got %q, want %q", tt.kind, filepath.Ext(path), tt.want)
		}
	}
}

func TestDiskStore_FetchErrorPropagates(t *testing.T) {
	store := &DiskStore{
		Dir:     t.TempDir(),
		Fetcher: &stubFetcher{err: errors.New("status 403")},
	}
	_, err := store.Save(context.Background(), "page_005", PageCandidate{
		Fingerprint: "https://viewer.example/pages/5",
		Kind:        KindImage,
	})
	if err == nil {
		t.Fatal("expected fetch error")
	}
}

func TestDiskStore_MalformedDataURL(t *testing.T) {
	store := &DiskStore{Dir: t.TempDir()}
	_, err := store.Save(context.Background(), "page_006", PageCandidate{
		Fingerprint: "data:image/png;base64", // no comma, no payload
		Kind:        KindCanvas,
	})
	if err == nil || !strings.Contains(err.Error(), "data URL") {
		t.Fatalf("got %v, want malformed data URL error", err)
	}
}

func TestDiskStore_NoFetcherForReferencedPayload(t *testing.T) {
	store := &DiskStore{Dir: t.TempDir()}
	_, err := store.Save(context.Background(), "page_007", PageCandidate{
		Fingerprint: "https://viewer.example/pages/7",
		Kind:        KindImage,
	})
	if err == nil {
		t.Fatal("expected error when no fetcher is configured")
	}
}

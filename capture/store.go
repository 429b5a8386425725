package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Store persists one candidate payload under a base name (no extension) and
// returns the stored file path.
type Store interface {
	Save(ctx context.Context, baseName string, cand PageCandidate) (string, error)
}

// AssetFetcher retrieves a referenced payload over the authenticated session.
// Implemented by fetcher.Client in production.
type AssetFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// DiskStore writes page payloads to Dir. Inline data URLs are decoded
// locally; anything else is fetched through the injected AssetFetcher. The
// file extension follows the payload's declared or sniffed media type,
// defaulting by candidate kind when undetermined.
type DiskStore struct {
	Dir     string
	Fetcher AssetFetcher
	Logger  *slog.Logger
}

// Save implements Store.
func (d *DiskStore) Save(ctx context.Context, baseName string, cand PageCandidate) (string, error) {
	var data []byte
	var ext string
	var err error

	if strings.HasPrefix(cand.Fingerprint, "data:image") {
		data, ext, err = decodeDataURL(cand.Fingerprint)
		if err != nil {
			return "", err
		}
	} else {
		if d.Fetcher == nil {
			return "", fmt.Errorf("store: no fetcher configured for %s payload", cand.Kind)
		}
		data, err = d.Fetcher.Fetch(ctx, cand.Fingerprint)
		if err != nil {
			return "", fmt.Errorf("store: fetch payload: %w", err)
		}
		ext = sniffExt(data)
	}

	if ext == "" {
		ext = defaultExt(cand.Kind)
	}

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("store: mkdir: %w", err)
	}
	path := filepath.Join(d.Dir, baseName+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("store: write %s: %w", path, err)
	}
	if d.Logger != nil {
		d.Logger.Debug("store: wrote payload", "file", filepath.Base(path), "size", len(data))
	}
	return path, nil
}

// decodeDataURL splits a data:image/...;base64,... URL into raw bytes and
// the extension implied by its media type.
func decodeDataURL(src string) ([]byte, string, error) {
	header, b64, ok := strings.Cut(src, ",")
	if !ok {
		return nil, "", fmt.Errorf("store: malformed data URL")
	}

	var ext string
	switch {
	case strings.HasPrefix(header, "data:image/png"):
		ext = ".png"
	case strings.HasPrefix(header, "data:image/jpeg"), strings.HasPrefix(header, "data:image/jpg"):
		ext = ".jpg"
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, "", fmt.Errorf("store: decode data URL: %w", err)
	}
	return data, ext, nil
}

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegMagic = []byte{0xff, 0xd8, 0xff}
)

// sniffExt recognises the payload's media type from magic bytes. Returns ""
// when the format is not one we persist.
func sniffExt(data []byte) string {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return ".png"
	case bytes.HasPrefix(data, jpegMagic):
		return ".jpg"
	}
	return ""
}

// defaultExt is the fallback when the media type cannot be determined:
// referenced images are usually JPEG, canvas exports are PNG.
func defaultExt(kind Kind) string {
	if kind == KindImage {
		return ".jpg"
	}
	return ".png"
}

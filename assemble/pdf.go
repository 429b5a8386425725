// Package assemble encodes an ordered list of page images into a single PDF,
// one page per image, preserving capture order.
package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// OutputName returns the issue PDF filename for a capture date: YYYYMMDD.pdf.
func OutputName(t time.Time) string {
	return t.Format("20060102") + ".pdf"
}

// PDF builds outPath from the image files. Order in is order out.
func PDF(imagePaths []string, outPath string) error {
	if len(imagePaths) == 0 {
		return fmt.Errorf("assemble: no images to encode")
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("assemble: mkdir: %w", err)
		}
	}

	if err := api.ImportImagesFile(imagePaths, outPath, nil, nil); err != nil {
		return fmt.Errorf("assemble: import images: %w", err)
	}
	return nil
}

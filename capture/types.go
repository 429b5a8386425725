// Package capture implements the incremental crawl/dedup/termination engine
// that drives an image-rendered document viewer. Each step stabilizes the
// rendering surface, classifies page-like elements, persists the ones not
// seen before, and tries to advance; the run ends when navigation stops
// revealing new content.
//
// The engine is strictly sequential: one goroutine, bounded waits, no locks.
// The surface it drives is injected (see Surface), so the whole state machine
// is testable against an in-memory stub.
package capture

// Kind distinguishes how a candidate's payload is retrieved.
type Kind string

const (
	// KindCanvas is an in-page rendered surface whose payload arrives inline
	// as a data URL exported by the classifier script.
	KindCanvas Kind = "canvas"
	// KindImage is a referenced image resource, fetched over the
	// authenticated session.
	KindImage Kind = "img"
)

// PageCandidate is one page-like visual element observed on the surface at a
// point in time. Fingerprint doubles as the payload reference: a data URL for
// canvases, an absolute URL for images. Identity is the fingerprint; element
// order on the surface carries no meaning.
type PageCandidate struct {
	Fingerprint string
	Width       int
	Height      int
	Kind        Kind
}

// filterByWidth keeps candidates rendered at least minWidth wide. The
// classifier script already dropped sub-100px icons; this is the page-size
// threshold that separates real pages from thumbnails and low-res
// placeholders.
func filterByWidth(cands []PageCandidate, minWidth int) []PageCandidate {
	var out []PageCandidate
	for _, cand := range cands {
		if cand.Width >= minWidth {
			out = append(out, cand)
		}
	}
	return out
}

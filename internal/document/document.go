// Package document imports PDF course documents and prepares their text
// for content generation.
package document

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoText is returned when a PDF has no extractable text at all, which
// usually means it is a scan.
var ErrNoText = errors.New("document has no extractable text")

// Page is the extracted text of one PDF page. Number is 1-based.
type Page struct {
	Number int
	Text   string
}

// Document is an imported PDF.
type Document struct {
	ID   string
	Name string
	Path string

	// PageCount counts every page in the PDF, including pages skipped
	// because they had no text.
	PageCount int
	Pages     []Page

	ImportedAt time.Time
}

// Text joins all page text with page markers.
func (d *Document) Text() string {
	var b strings.Builder
	for i, p := range d.Pages {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "--- Page %d ---\n", p.Number)
		b.WriteString(p.Text)
	}
	return b.String()
}

// PageText returns the text of page n, or false if that page had no text
// or does not exist.
func (d *Document) PageText(n int) (string, bool) {
	for _, p := range d.Pages {
		if p.Number == n {
			return p.Text, true
		}
	}
	return "", false
}

// WordCount counts whitespace-separated words across all pages.
func (d *Document) WordCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(strings.Fields(p.Text))
	}
	return n
}

// DefaultChunkSize is the chunk size used by Chunk when size is not positive.
const DefaultChunkSize = 6000

// Chunk splits text into rune-based chunks of at most size runes, each
// overlapping the previous one by overlap runes.
func Chunk(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	for i := 0; i < len(runes); i += size - overlap {
		end := min(i+size, len(runes))
		chunks = append(chunks, string(runes[i:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

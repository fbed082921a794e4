package document

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

// Config holds document import settings.
type Config struct {
	// MaxBytes rejects larger files. Zero means unlimited.
	MaxBytes int64
}

// DefaultConfig returns sensible defaults for document import.
func DefaultConfig() Config {
	return Config{
		MaxBytes: 100 << 20,
	}
}

// Importer extracts text from PDFs.
type Importer struct {
	cfg Config
	now func() time.Time
}

// NewImporter creates an Importer.
func NewImporter(cfg Config) *Importer {
	return &Importer{cfg: cfg, now: time.Now}
}

// Import reads the PDF at path.
func (im *Importer) Import(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	if im.cfg.MaxBytes > 0 {
		if st, err := f.Stat(); err == nil && st.Size() > im.cfg.MaxBytes {
			return nil, fmt.Errorf("pdf %s is %d bytes, limit is %d", path, st.Size(), im.cfg.MaxBytes)
		}
	}

	doc, err := im.extract(r, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if abs, err := filepath.Abs(path); err == nil {
		doc.Path = abs
	} else {
		doc.Path = path
	}
	return doc, nil
}

// ImportReader reads a PDF from r. name becomes the document name.
func (im *Importer) ImportReader(r io.Reader, name string) (*Document, error) {
	src := r
	if im.cfg.MaxBytes > 0 {
		src = io.LimitReader(r, im.cfg.MaxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if im.cfg.MaxBytes > 0 && int64(len(data)) > im.cfg.MaxBytes {
		return nil, fmt.Errorf("pdf %s exceeds %d bytes", name, im.cfg.MaxBytes)
	}

	pr, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf %s: %w", name, err)
	}
	return im.extract(pr, name)
}

func (im *Importer) extract(r *pdf.Reader, name string) (*Document, error) {
	total := r.NumPage()
	doc := &Document{
		ID:         uuid.New().String(),
		Name:       strings.TrimSuffix(name, filepath.Ext(name)),
		PageCount:  total,
		ImportedAt: im.now().UTC(),
	}

	for n := 1; n <= total; n++ {
		page := r.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		doc.Pages = append(doc.Pages, Page{Number: n, Text: text})
	}

	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoText)
	}
	return doc, nil
}

// Import reads the PDF at path with the default configuration.
func Import(path string) (*Document, error) {
	return NewImporter(DefaultConfig()).Import(path)
}

// ImportReader reads a PDF from r with the default configuration.
func ImportReader(r io.Reader, name string) (*Document, error) {
	return NewImporter(DefaultConfig()).ImportReader(r, name)
}

// Package export renders a single activity as a PDF or DOCX document and
// writes it where the host can pick it up.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"example.com/agenda/internal/domain"
	"example.com/agenda/internal/observability"
	"example.com/agenda/internal/share"
)

// Exporter writes exported documents into one directory.
type Exporter struct {
	dir    string
	sharer share.Sharer
	labels Labels
	now    func() time.Time
	logger *zap.Logger
}

// Option customises an Exporter.
type Option func(*Exporter)

// WithSharer sets the best-effort share hand-off.
func WithSharer(s share.Sharer) Option {
	return func(e *Exporter) { e.sharer = s }
}

// WithLocale selects document labels by BCP 47 tag.
func WithLocale(tag string) Option {
	return func(e *Exporter) { e.labels = LabelsFor(tag) }
}

// WithClock overrides the time stamped into documents.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Exporter) { e.logger = logger }
}

// New builds an Exporter writing into dir.
func New(dir string, opts ...Option) (*Exporter, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("export directory is required")
	}
	e := &Exporter{
		dir:    dir,
		sharer: share.Noop{},
		labels: english,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Render produces the document bytes without touching the filesystem.
func (e *Exporter) Render(a domain.Activity, format Format) ([]byte, error) {
	switch format {
	case FormatPDF:
		return renderPDF(a, e.labels, e.now())
	case FormatDOCX:
		return renderDOCX(a, e.labels)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
}

// FileName returns the name Export would write a for format.
func (e *Exporter) FileName(a domain.Activity, format Format) string {
	return FileName(a, format, e.labels.Fallback)
}

// Export renders a in the requested format, writes the file and offers it
// to the sharer. Share failures are logged and never returned.
func (e *Exporter) Export(ctx context.Context, a domain.Activity, format string) (string, error) {
	f, err := ParseFormat(format)
	if err != nil {
		observability.RecordExport("unsupported", err)
		return "", err
	}

	path, err := e.write(a, f)
	observability.RecordExport(string(f), err)
	if err != nil {
		e.logger.Error("export activity", zap.String("format", string(f)), zap.Error(err))
		return "", err
	}

	name := filepath.Base(path)
	if err := e.sharer.Share(ctx, share.Request{Title: name, Path: path, ContentType: f.ContentType()}); err != nil {
		observability.RecordShareFailure()
		e.logger.Warn("share exported file", zap.String("path", path), zap.Error(err))
	}
	return path, nil
}

func (e *Exporter) write(a domain.Activity, f Format) (string, error) {
	data, err := e.Render(a, f)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(e.dir, e.FileName(a, f))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

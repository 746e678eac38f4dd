package export

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"example.com/agenda/internal/domain"
)

// ErrUnsupportedFormat is returned for formats other than pdf and docx.
var ErrUnsupportedFormat = errors.New("unsupported export format, use 'pdf' or 'docx'")

// Format is a document type the exporter can produce.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// ParseFormat matches pdf or docx ignoring case.
func ParseFormat(value string) (Format, error) {
	switch {
	case strings.EqualFold(value, string(FormatPDF)):
		return FormatPDF, nil
	case strings.EqualFold(value, string(FormatDOCX)):
		return FormatDOCX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}

// FileName builds "<safe-title>-<YYYYMMDD><ext>" for an activity, or
// "<safe-title><ext>" when the activity has no date.
func FileName(a domain.Activity, f Format, fallback string) string {
	if a.Date.IsZero() {
		return SafeTitle(a.Title, fallback) + f.Extension()
	}
	return fmt.Sprintf("%s-%s%s", SafeTitle(a.Title, fallback), a.Date.Format("20060102"), f.Extension())
}

// SafeTitle splits title on characters that are invalid in file names on
// any common platform, and on whitespace, then joins the pieces with '_'.
func SafeTitle(title, fallback string) string {
	parts := strings.FieldsFunc(title, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(`<>:"/\|?*`, r)
	})
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, "_")
}

package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"example.com/agenda/internal/domain"
)

const (
	pdfMarginMM = 20.0
	pdfFont     = "Helvetica"
	pdfBodySize = 12.0
	pdfLineMM   = 6.0
)

func renderPDF(a domain.Activity, labels Labels, generated time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginMM, pdfMarginMM, pdfMarginMM)
	pdf.SetAutoPageBreak(true, pdfMarginMM)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(generated)
	pdf.SetModificationDate(generated)
	pdf.SetTitle(a.Title, true)

	// Core fonts are cp1252; accented titles need translating.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMarginMM + 5)
		pdf.SetFont(pdfFont, "", 9)
		pdf.SetTextColor(158, 158, 158)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("%s %s", labels.Generated, labels.Timestamp(generated))), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 20)
	pdf.SetTextColor(33, 150, 243)
	pdf.CellFormat(0, 10, tr(labels.Heading), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetTextColor(0, 0, 0)
	line := func(style, text string) {
		pdf.SetFont(pdfFont, style, pdfBodySize)
		pdf.MultiCell(0, pdfLineMM, tr(text), "", "L", false)
		pdf.Ln(4)
	}

	for _, f := range documentFields(a, labels) {
		line(f.style, f.text)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type field struct {
	style string
	text  string
}

// documentFields lists the body lines shared by every format.
func documentFields(a domain.Activity, labels Labels) []field {
	fields := []field{
		{style: "B", text: fmt.Sprintf("%s: %s", labels.Title, a.Title)},
		{text: fmt.Sprintf("%s: %s", labels.Date, labels.LongDate(a.Date))},
	}
	if strings.TrimSpace(a.Category) != "" {
		fields = append(fields, field{text: fmt.Sprintf("%s: %s", labels.Category, a.Category)})
	}
	fields = append(fields, field{style: "B", text: labels.Description + ":"})
	description := a.Description
	if strings.TrimSpace(description) == "" {
		description = labels.NoDescription
	}
	return append(fields, field{text: description})
}

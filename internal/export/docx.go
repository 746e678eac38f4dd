package export

import (
	"bytes"
	"fmt"

	"github.com/gomutex/godocx"

	"example.com/agenda/internal/domain"
)

func renderDOCX(a domain.Activity, labels Labels) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("create docx: %w", err)
	}
	if _, err := doc.AddHeading(labels.Heading, 1); err != nil {
		return nil, fmt.Errorf("add docx heading: %w", err)
	}
	for _, f := range documentFields(a, labels) {
		p := doc.AddParagraph("")
		p.AddText(f.text).Bold(f.style == "B")
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("render docx: %w", err)
	}
	return buf.Bytes(), nil
}

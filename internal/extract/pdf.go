package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFText extracts the text of every page in order. Pages without text, such
// as scanned pages, contribute nothing; a fully scanned file yields "".
func PDFText(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty pdf")
	}
	// the parser panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parse pdf failed: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf failed: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d failed: %w", i, err)
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		pages = append(pages, pageText)
	}
	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}

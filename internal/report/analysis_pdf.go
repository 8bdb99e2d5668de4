// Package report renders a stored document analysis as a printable PDF.
package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/Quick-Genius/Apna-Lawyer/internal/analysis"
)

type AnalysisReport struct {
	Title       string
	FileName    string
	UploadedAt  time.Time
	Status      string
	Analysis    analysis.Result
	GeneratedAt time.Time
}

const disclaimer = "This report was generated automatically and is not legal advice. Consult a qualified lawyer before acting on it."

// WriteAnalysisPDF renders r to w. Core fonts are used, so characters outside
// cp1252 are replaced.
func WriteAnalysisPDF(w io.Writer, r AnalysisReport) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title, true)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(r.Title), "", "L", false)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(90, 90, 90)
	meta := fmt.Sprintf("File: %s   Uploaded: %s   Analysis: %s", r.FileName, r.UploadedAt.Format("2006-01-02 15:04"), r.Status)
	pdf.MultiCell(0, 5, tr(meta), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)

	heading := func(text string) {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, tr(text), "B", 1, "L", false, 0, "")
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "", 10)
	}
	list := func(items []string) {
		if len(items) == 0 {
			pdf.MultiCell(0, 5, "None identified.", "", "L", false)
			return
		}
		for _, item := range items {
			pdf.MultiCell(0, 5, tr("- "+item), "", "L", false)
		}
	}

	a := r.Analysis
	heading("Document type")
	pdf.MultiCell(0, 5, tr(a.DocumentType), "", "L", false)
	heading("Summary")
	pdf.MultiCell(0, 5, tr(a.Summary), "", "L", false)
	heading("Key terms")
	list(a.KeyTerms)
	heading("Risks")
	list(a.Risks)

	heading("Explanations")
	terms := make([]string, 0, len(a.Explanations))
	for term := range a.Explanations {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		pdf.MultiCell(0, 5, "None provided.", "", "L", false)
	}
	for _, term := range terms {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(0, 5, tr(term), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(a.Explanations[term]), "", "L", false)
	}

	heading("Recommendations")
	list(a.Recommendations)

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, tr(disclaimer+" Generated "+r.GeneratedAt.Format(time.RFC1123)), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("render analysis pdf failed: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

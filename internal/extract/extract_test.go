package extract

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/stage"
)

type fakeOCR struct {
	text string
	err  error
	got  *image.RGBA
}

func (f *fakeOCR) Recognize(_ context.Context, img *image.RGBA) (string, error) {
	f.got = img
	return f.text, f.err
}

func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, p := range pages {
		doc.AddPage()
		if p != "" {
			doc.Cell(40, 10, p)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestExtractPDFPagesInOrder(t *testing.T) {
	data := buildPDF(t, "Rental", "", "Agreement")
	res := New(nil).Extract(context.Background(), bytes.NewReader(data), KindPDF)

	require.Equal(t, stage.StatusOK, res.Status)
	first := strings.Index(res.Value, "Rental")
	second := strings.Index(res.Value, "Agreement")
	assert.GreaterOrEqual(t, first, 0)
	assert.Greater(t, second, first)
	assert.Equal(t, strings.TrimSpace(res.Value), res.Value)
}

func TestExtractScannedPDFYieldsEmptyText(t *testing.T) {
	data := buildPDF(t, "", "")
	res := New(nil).Extract(context.Background(), bytes.NewReader(data), KindPDF)

	assert.Equal(t, stage.StatusOK, res.Status)
	assert.Equal(t, "", res.Value)
}

func TestExtractCorruptPDFDegrades(t *testing.T) {
	res := New(nil).Extract(context.Background(), strings.NewReader("%PDF-1.4 garbage"), KindPDF)

	assert.Equal(t, stage.StatusDegraded, res.Status)
	assert.True(t, strings.HasPrefix(res.Value, "Text extraction failed"))
	assert.NotEmpty(t, res.Reason)
}

func TestExtractImageNormalizesAndCleans(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.Set(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 0})
	ocr := &fakeOCR{text: "  This   is\n\n  a   करार \t text \n"}

	res := New(ocr).Extract(context.Background(), bytes.NewReader(pngBytes(t, src)), KindImage)

	require.Equal(t, stage.StatusOK, res.Status)
	assert.Equal(t, "This is a करार text", res.Value)
	require.NotNil(t, ocr.got)
	r, g, b, a := ocr.got.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})
}

func TestExtractImageEmptyOCR(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	res := New(&fakeOCR{text: "   "}).Extract(context.Background(), bytes.NewReader(pngBytes(t, img)), KindImage)

	assert.Equal(t, stage.StatusDegraded, res.Status)
	assert.Equal(t, NoImageText, res.Value)
}

func TestExtractImageEngineMissing(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	res := New(&fakeOCR{err: ErrEngineUnavailable}).Extract(context.Background(), bytes.NewReader(pngBytes(t, img)), KindImage)

	assert.Equal(t, stage.StatusDegraded, res.Status)
	assert.Equal(t, OCRUnavailable, res.Value)

	res = New(nil).Extract(context.Background(), bytes.NewReader(pngBytes(t, img)), KindImage)
	assert.Equal(t, OCRUnavailable, res.Value)
}

func TestExtractImageDecodeError(t *testing.T) {
	ocr := &fakeOCR{text: "unused"}
	res := New(ocr).Extract(context.Background(), strings.NewReader("not an image"), KindImage)

	assert.Equal(t, stage.StatusDegraded, res.Status)
	assert.Contains(t, res.Value, "Text extraction failed for this image")
	assert.Nil(t, ocr.got)
}

func TestExtractImageOCRError(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	res := New(&fakeOCR{err: errors.New("boom")}).Extract(context.Background(), bytes.NewReader(pngBytes(t, img)), KindImage)
	assert.Equal(t, stage.StatusDegraded, res.Status)
	assert.Contains(t, res.Value, "boom")
}

func TestDetectKind(t *testing.T) {
	assert.Equal(t, KindPDF, DetectKind("Lease.PDF"))
	assert.Equal(t, KindImage, DetectKind("scan.webp"))
	assert.Equal(t, KindImage, DetectKind("scan.JPEG"))
	assert.Equal(t, KindUnknown, DetectKind("notes.docx"))
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.7\n")))
	assert.False(t, IsPDF([]byte("PK\x03\x04")))
}

func TestTesseractWithoutBinary(t *testing.T) {
	engine := &TesseractEngine{languages: "eng+hin"}
	_, err := engine.Recognize(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1)))
	assert.ErrorIs(t, err, ErrEngineUnavailable)
	assert.False(t, engine.Available())
}

func TestLanguageHints(t *testing.T) {
	assert.Equal(t, []string{"en", "hi"}, languageHints("eng+hin"))
	assert.Equal(t, []string{"hi"}, languageHints("hin"))
	assert.Equal(t, []string{"en", "hi"}, languageHints(""))
	assert.Equal(t, []string{"en", "hi"}, languageHints("xyz"))
}

func TestDocumentAIRequestCarriesLanguageHints(t *testing.T) {
	engine, err := NewDocumentAIEngine(DocumentAIConfig{ProjectID: "p", ProcessorID: "ocr", Languages: "eng+hin"})
	require.NoError(t, err)

	req := engine.processRequest([]byte("png"))
	assert.Equal(t, "projects/p/locations/us/processors/ocr", req.GetName())
	assert.Equal(t, []byte("png"), req.GetRawDocument().GetContent())
	assert.Equal(t, []string{"en", "hi"}, req.GetProcessOptions().GetOcrConfig().GetHints().GetLanguageHints())
}

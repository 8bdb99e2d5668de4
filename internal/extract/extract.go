// Package extract turns uploaded PDFs and images into plain text.
//
// Extraction never blocks an upload: any failure is reported as a degraded
// stage.Result whose value is a readable placeholder that callers may store
// in place of the real text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/logger"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/stage"
)

type Kind string

const (
	KindPDF     Kind = "pdf"
	KindImage   Kind = "image"
	KindUnknown Kind = ""
)

const (
	NoImageText     = "No text could be extracted from the image."
	NoReadableText  = "No readable text found in the image."
	OCRUnavailable  = "Text extraction is unavailable: the OCR engine is not installed on the server."
	pdfFailedPrefix = "Text extraction failed for this PDF"
	imgFailedPrefix = "Text extraction failed for this image"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
	".tiff": {},
	".tif":  {},
	".webp": {},
}

// DetectKind classifies a file by extension.
func DetectKind(filename string) Kind {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".pdf" {
		return KindPDF
	}
	if _, ok := imageExtensions[ext]; ok {
		return KindImage
	}
	return KindUnknown
}

// IsImageExtension reports whether ext (with dot) is an accepted chat image.
func IsImageExtension(ext string) bool {
	_, ok := imageExtensions[strings.ToLower(ext)]
	return ok
}

// IsPDF checks the file signature.
func IsPDF(header []byte) bool {
	return bytes.HasPrefix(header, []byte("%PDF-"))
}

type Extractor struct {
	ocr OCREngine
}

// New builds an extractor. ocr may be nil, in which case image extraction
// degrades to OCRUnavailable.
func New(ocr OCREngine) *Extractor {
	return &Extractor{ocr: ocr}
}

func (e *Extractor) Extract(ctx context.Context, r io.Reader, kind Kind) stage.Result[string] {
	data, err := io.ReadAll(r)
	if err != nil {
		return e.degrade(ctx, kind, fmt.Errorf("read upload failed: %w", err))
	}

	switch kind {
	case KindPDF:
		text, err := PDFText(data)
		if err != nil {
			return e.degrade(ctx, kind, err)
		}
		return stage.OK(text)
	case KindImage:
		return e.extractImage(ctx, data)
	default:
		return stage.Failed("Unsupported file type for text extraction.", fmt.Errorf("unsupported kind %q", kind))
	}
}

func (e *Extractor) extractImage(ctx context.Context, data []byte) stage.Result[string] {
	if e.ocr == nil {
		return stage.Degraded(OCRUnavailable, ErrEngineUnavailable.Error())
	}
	img, err := decodeImage(data)
	if err != nil {
		return e.degrade(ctx, KindImage, err)
	}
	raw, err := e.ocr.Recognize(ctx, toRGB(img))
	if err != nil {
		if errors.Is(err, ErrEngineUnavailable) {
			return stage.Degraded(OCRUnavailable, err.Error())
		}
		return e.degrade(ctx, KindImage, err)
	}
	if strings.TrimSpace(raw) == "" {
		return stage.Degraded(NoImageText, "ocr returned no text")
	}
	cleaned := CleanOCRText(raw)
	if cleaned == "" {
		return stage.Degraded(NoReadableText, "ocr text was whitespace only")
	}
	return stage.OK(cleaned)
}

func (e *Extractor) degrade(ctx context.Context, kind Kind, err error) stage.Result[string] {
	logger.FromContext(ctx).Warn().Err(err).Str("kind", string(kind)).Msg("text extraction degraded")
	prefix := pdfFailedPrefix
	if kind == KindImage {
		prefix = imgFailedPrefix
	}
	return stage.Degraded(fmt.Sprintf("%s: %s", prefix, err.Error()), err.Error())
}

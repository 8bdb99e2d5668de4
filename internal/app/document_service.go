package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Quick-Genius/Apna-Lawyer/internal/extract"
	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/logger"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/stage"
	"github.com/Quick-Genius/Apna-Lawyer/internal/report"
	"github.com/Quick-Genius/Apna-Lawyer/internal/storage"
)

var (
	ErrDocumentNotFound     = errors.New("document not found")
	ErrDocumentNotProcessed = errors.New("document has not been analyzed yet")
	ErrUnsupportedFileType  = errors.New("only PDF files are allowed")
	ErrInvalidPDF           = errors.New("file is not a valid PDF")
	ErrInvalidDocumentType  = errors.New("invalid document type")
	ErrFileTooLarge         = errors.New("file exceeds the size limit")
	ErrEmptyFile            = errors.New("file is empty")
)

// NoPDFText is stored as the extracted text of a PDF whose pages carry no
// text layer.
const NoPDFText = "No extractable text was found in this PDF. It may be a scanned or image-only document."

const maxTitleLength = 255

type DocumentUpload struct {
	FileName     string
	Size         int64
	Content      io.Reader
	Title        string
	DocumentType string
	Description  string
}

type DocumentReport struct {
	FileName string
	Content  []byte
}

type DocumentService struct {
	documents DocumentStore
	store     storage.FileStore
	extractor TextExtractor
	analyzer  DocumentAnalyzer
	maxBytes  int64
}

func NewDocumentService(
	documents DocumentStore,
	store storage.FileStore,
	extractor TextExtractor,
	analyzer DocumentAnalyzer,
	maxBytes int64,
) *DocumentService {
	if maxBytes <= 0 {
		maxBytes = 20 << 20
	}
	return &DocumentService{
		documents: documents,
		store:     store,
		extractor: extractor,
		analyzer:  analyzer,
		maxBytes:  maxBytes,
	}
}

// Upload validates and stores a PDF, then extracts and analyzes it before
// returning. Extraction and analysis problems degrade the stored analysis;
// they never fail the upload.
func (s *DocumentService) Upload(ctx context.Context, owner model.Owner, in DocumentUpload) (*model.Document, error) {
	if !owner.Valid() || in.Content == nil {
		return nil, ErrInvalidInput
	}
	ext := strings.ToLower(filepath.Ext(in.FileName))
	if ext != ".pdf" {
		return nil, ErrUnsupportedFileType
	}
	docType := strings.TrimSpace(in.DocumentType)
	if docType == "" {
		docType = model.DocumentTypeOther
	}
	if !model.ValidDocumentType(docType) {
		return nil, ErrInvalidDocumentType
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(in.FileName), filepath.Ext(in.FileName))
	}
	if len([]rune(title)) > maxTitleLength {
		return nil, fmt.Errorf("%w: title is longer than %d characters", ErrInvalidInput, maxTitleLength)
	}

	data, err := readLimited(in.Content, in.Size, s.maxBytes)
	if err != nil {
		return nil, err
	}
	if !extract.IsPDF(data) {
		return nil, ErrInvalidPDF
	}

	key := fmt.Sprintf("documents/%s.pdf", uuid.NewString())
	ref, err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "application/pdf")
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		Ownership:    model.NewOwnership(owner),
		Title:        title,
		FileRef:      ref,
		FileName:     filepath.Base(in.FileName),
		ContentType:  "application/pdf",
		Size:         int64(len(data)),
		DocumentType: docType,
		Description:  strings.TrimSpace(in.Description),
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		if delErr := s.store.Delete(ctx, ref); delErr != nil {
			logger.FromContext(ctx).Warn().Err(delErr).Str("ref", ref).Msg("remove orphaned upload failed")
		}
		return nil, err
	}

	if err := s.process(ctx, doc, data); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) process(ctx context.Context, doc *model.Document, data []byte) error {
	log := logger.FromContext(ctx)

	text := s.extractor.Extract(ctx, bytes.NewReader(data), extract.KindPDF)
	stored, input := text.Value, text.Value
	switch {
	case !text.IsOK():
		input = ""
	case strings.TrimSpace(text.Value) == "":
		stored = NoPDFText
	}

	verdict := s.analyzer.Analyze(ctx, input)
	status := stage.Worst(text.Status, verdict.Status)

	if err := doc.SetAnalysis(model.DocumentAnalysis{
		ExtractedText: stored,
		LegalAnalysis: verdict.Value,
	}); err != nil {
		return err
	}
	doc.AnalysisStatus = string(status)
	doc.IsProcessed = true
	if err := s.documents.SaveAnalysis(ctx, doc); err != nil {
		return err
	}

	log.Info().
		Uint("document_id", doc.ID).
		Str("extraction", string(text.Status)).
		Str("analysis", string(verdict.Status)).
		Int("text_chars", len([]rune(input))).
		Msg("document processed")
	return nil
}

func (s *DocumentService) List(ctx context.Context, owner model.Owner) ([]model.Document, error) {
	if !owner.Valid() {
		return nil, ErrInvalidInput
	}
	return s.documents.ListByOwner(ctx, owner)
}

func (s *DocumentService) Get(ctx context.Context, owner model.Owner, id uint) (*model.Document, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil || !doc.OwnedBy(owner) {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// Report renders the stored analysis of a document as a PDF.
func (s *DocumentService) Report(ctx context.Context, owner model.Owner, id uint) (*DocumentReport, error) {
	doc, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	parsed, err := doc.ParsedAnalysis()
	if err != nil {
		return nil, err
	}
	if parsed == nil {
		return nil, ErrDocumentNotProcessed
	}

	var buf bytes.Buffer
	if err := report.WriteAnalysisPDF(&buf, report.AnalysisReport{
		Title:       doc.Title,
		FileName:    doc.FileName,
		UploadedAt:  doc.UploadedAt,
		Status:      doc.AnalysisStatus,
		Analysis:    parsed.LegalAnalysis,
		GeneratedAt: time.Now(),
	}); err != nil {
		return nil, err
	}
	return &DocumentReport{
		FileName: fmt.Sprintf("analysis-%d.pdf", doc.ID),
		Content:  buf.Bytes(),
	}, nil
}

// readLimited reads at most limit bytes. declared is the size reported by
// the client and is checked first so oversized uploads are not read.
func readLimited(r io.Reader, declared, limit int64) ([]byte, error) {
	if declared > limit {
		return nil, ErrFileTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload failed: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	return data, nil
}

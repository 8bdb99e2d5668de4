package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/Quick-Genius/Apna-Lawyer/internal/analysis"
)

const (
	DocumentTypeContract      = "contract"
	DocumentTypeAgreement     = "agreement"
	DocumentTypeLegalNotice   = "legal_notice"
	DocumentTypeCourtDocument = "court_document"
	DocumentTypeOther         = "other"
)

var documentTypes = map[string]struct{}{
	DocumentTypeContract:      {},
	DocumentTypeAgreement:     {},
	DocumentTypeLegalNotice:   {},
	DocumentTypeCourtDocument: {},
	DocumentTypeOther:         {},
}

func ValidDocumentType(t string) bool {
	_, ok := documentTypes[t]
	return ok
}

type Document struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Ownership    `gorm:"embedded"`
	Title        string `gorm:"size:255;not null" json:"title"`
	FileRef      string `gorm:"size:512;not null" json:"file_ref"`
	FileName     string `gorm:"size:255" json:"file_name"`
	ContentType  string `gorm:"size:128" json:"content_type"`
	Size         int64  `json:"size"`
	DocumentType string `gorm:"size:32;not null;default:other" json:"document_type"`
	Description  string `gorm:"type:text" json:"description"`
	// Analysis holds DocumentAnalysis; NULL until the document is processed.
	Analysis       datatypes.JSON `json:"analysis,omitempty"`
	AnalysisStatus string         `gorm:"size:16" json:"analysis_status,omitempty"`
	IsProcessed    bool           `gorm:"not null;default:false" json:"is_processed"`
	UploadedAt     time.Time      `gorm:"autoCreateTime" json:"uploaded_at"`
}

type DocumentAnalysis struct {
	ExtractedText string          `json:"extracted_text"`
	LegalAnalysis analysis.Result `json:"legal_analysis"`
}

func (d *Document) SetAnalysis(a DocumentAnalysis) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal document analysis failed: %w", err)
	}
	d.Analysis = datatypes.JSON(raw)
	return nil
}

// ParsedAnalysis returns nil when the document has not been analyzed.
func (d *Document) ParsedAnalysis() (*DocumentAnalysis, error) {
	if len(d.Analysis) == 0 {
		return nil, nil
	}
	var a DocumentAnalysis
	if err := json.Unmarshal(d.Analysis, &a); err != nil {
		return nil, fmt.Errorf("unmarshal document analysis failed: %w", err)
	}
	return &a, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *model.Document) error {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

// SaveAnalysis writes the analysis columns once processing is done.
func (r *DocumentRepository) SaveAnalysis(ctx context.Context, doc *model.Document) error {
	err := r.db.WithContext(ctx).Model(&model.Document{}).Where("id = ?", doc.ID).Updates(map[string]interface{}{
		"analysis":        doc.Analysis,
		"analysis_status": doc.AnalysisStatus,
		"is_processed":    doc.IsProcessed,
	}).Error
	if err != nil {
		return fmt.Errorf("save document analysis failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) ListByOwner(ctx context.Context, owner model.Owner) ([]model.Document, error) {
	var docs []model.Document
	if err := r.db.WithContext(ctx).Scopes(ownedBy(owner)).Omit("analysis").
		Order("uploaded_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// CreateNext assigns the next sequence number for the session and inserts
// the row. The session row is locked so concurrent uploads get distinct
// numbers; the unique index backs this up.
func (r *AttachmentRepository) CreateNext(ctx context.Context, att *model.ChatAttachment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session model.ChatSession
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&session, att.SessionID).Error; err != nil {
			return err
		}
		var maxSeq int
		if err := tx.Model(&model.ChatAttachment{}).Where("session_id = ?", att.SessionID).
			Select("COALESCE(MAX(seq), 0)").Scan(&maxSeq).Error; err != nil {
			return err
		}
		att.Seq = maxSeq + 1
		return tx.Create(att).Error
	})
	if err != nil {
		return fmt.Errorf("create attachment failed: %w", err)
	}
	return nil
}

func (r *AttachmentRepository) ListBySessionID(ctx context.Context, sessionID uint) ([]model.ChatAttachment, error) {
	var items []model.ChatAttachment
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("seq ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list attachments failed: %w", err)
	}
	return items, nil
}

func (r *AttachmentRepository) GetBySeq(ctx context.Context, sessionID uint, seq int) (*model.ChatAttachment, error) {
	var att model.ChatAttachment
	if err := r.db.WithContext(ctx).Where("session_id = ? AND seq = ?", sessionID, seq).First(&att).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attachment failed: %w", err)
	}
	return &att, nil
}

func (r *AttachmentRepository) Latest(ctx context.Context, sessionID uint) (*model.ChatAttachment, error) {
	var att model.ChatAttachment
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("seq DESC").First(&att).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest attachment failed: %w", err)
	}
	return &att, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *model.ChatSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("create session failed: %w", err)
	}
	return nil
}

func (r *SessionRepository) ListByOwner(ctx context.Context, owner model.Owner) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	if err := r.db.WithContext(ctx).Scopes(ownedBy(owner)).Order("updated_at DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions failed: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id uint) (*model.ChatSession, error) {
	var session model.ChatSession
	if err := r.db.WithContext(ctx).First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session failed: %w", err)
	}
	return &session, nil
}

// AttachDocument links a document only while the session has none. It
// reports false when another document is already attached.
func (r *SessionRepository) AttachDocument(ctx context.Context, sessionID, documentID uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.ChatSession{}).
		Where("id = ? AND document_id IS NULL", sessionID).
		Update("document_id", documentID)
	if result.Error != nil {
		return false, fmt.Errorf("attach document failed: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *SessionRepository) Touch(ctx context.Context, sessionID uint) error {
	if err := r.db.WithContext(ctx).Model(&model.ChatSession{}).Where("id = ?", sessionID).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error; err != nil {
		return fmt.Errorf("touch session failed: %w", err)
	}
	return nil
}

// Delete removes the session with its messages and attachment rows.
func (r *SessionRepository) Delete(ctx context.Context, sessionID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&model.ChatMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&model.ChatAttachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ChatSession{}, sessionID).Error
	})
	if err != nil {
		return fmt.Errorf("delete session failed: %w", err)
	}
	return nil
}

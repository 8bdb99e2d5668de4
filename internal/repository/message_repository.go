package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, message *model.ChatMessage) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("create message failed: %w", err)
	}
	return nil
}

// CreateBatch inserts messages in one transaction so a turn is never half
// persisted.
func (r *MessageRepository) CreateBatch(ctx context.Context, messages []*model.ChatMessage) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range messages {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create messages failed: %w", err)
	}
	return nil
}

// ListRecentBySessionID returns the last n messages in chronological order.
func (r *MessageRepository) ListRecentBySessionID(ctx context.Context, sessionID uint, n int) ([]model.ChatMessage, error) {
	if n <= 0 {
		return nil, nil
	}
	var messages []model.ChatMessage
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).
		Order("created_at DESC").Order("id DESC").Limit(n).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list recent messages failed: %w", err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

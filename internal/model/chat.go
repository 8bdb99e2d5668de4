package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type ChatSession struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	Ownership  `gorm:"embedded"`
	DocumentID *uint     `gorm:"index" json:"document_id"`
	Document   *Document `gorm:"constraint:OnDelete:SET NULL;" json:"document,omitempty"`
	Title      string    `gorm:"size:128;not null" json:"title"`
	// Context is free-form client state.
	Context   datatypes.JSON `json:"context,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (s *ChatSession) HasDocument() bool {
	return s.DocumentID != nil
}

// ChatMessage rows are append-only. Order within a session is created_at,
// then id.
type ChatMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SessionID  uint      `gorm:"not null;index:idx_message_session_created,priority:1" json:"session_id"`
	Role       string    `gorm:"size:16;not null" json:"role"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Confidence *int      `json:"confidence,omitempty"`
	CreatedAt  time.Time `gorm:"index:idx_message_session_created,priority:2" json:"created_at"`
}

// ChatAttachment is an image uploaded into a session. Seq starts at 1 and
// grows by one per session.
type ChatAttachment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   uint      `gorm:"not null;uniqueIndex:idx_attachment_session_seq,priority:1" json:"session_id"`
	Seq         int       `gorm:"not null;uniqueIndex:idx_attachment_session_seq,priority:2" json:"seq"`
	FileRef     string    `gorm:"size:512;not null" json:"file_ref"`
	FileName    string    `gorm:"size:255" json:"file_name"`
	ContentType string    `gorm:"size:128" json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

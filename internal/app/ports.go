package app

import (
	"context"
	"errors"
	"io"

	"github.com/Quick-Genius/Apna-Lawyer/internal/analysis"
	"github.com/Quick-Genius/Apna-Lawyer/internal/extract"
	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/stage"
	"github.com/Quick-Genius/Apna-Lawyer/internal/repository"
)

var ErrInvalidInput = errors.New("invalid input")

// Storage ports. The gorm repositories satisfy them; tests use mocks.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, session *model.ChatSession) error
	ListByOwner(ctx context.Context, owner model.Owner) ([]model.ChatSession, error)
	GetByID(ctx context.Context, id uint) (*model.ChatSession, error)
	AttachDocument(ctx context.Context, sessionID, documentID uint) (bool, error)
	Touch(ctx context.Context, sessionID uint) error
	Delete(ctx context.Context, sessionID uint) error
}

type MessageStore interface {
	Create(ctx context.Context, message *model.ChatMessage) error
	CreateBatch(ctx context.Context, messages []*model.ChatMessage) error
	ListRecentBySessionID(ctx context.Context, sessionID uint, n int) ([]model.ChatMessage, error)
}

type DocumentStore interface {
	Create(ctx context.Context, doc *model.Document) error
	SaveAnalysis(ctx context.Context, doc *model.Document) error
	GetByID(ctx context.Context, id uint) (*model.Document, error)
	ListByOwner(ctx context.Context, owner model.Owner) ([]model.Document, error)
}

type AttachmentStore interface {
	CreateNext(ctx context.Context, att *model.ChatAttachment) error
	ListBySessionID(ctx context.Context, sessionID uint) ([]model.ChatAttachment, error)
	GetBySeq(ctx context.Context, sessionID uint, seq int) (*model.ChatAttachment, error)
	Latest(ctx context.Context, sessionID uint) (*model.ChatAttachment, error)
}

type LawyerStore interface {
	List(ctx context.Context, f repository.LawyerFilter) ([]model.Lawyer, error)
	GetByID(ctx context.Context, id uint) (*model.Lawyer, error)
	Save(ctx context.Context, lawyer *model.Lawyer, languages []string) error
	Delete(ctx context.Context, id uint) error
	ListLanguages(ctx context.Context) ([]model.Language, error)
}

type ReviewStore interface {
	ListByLawyer(ctx context.Context, lawyerID uint) ([]model.Review, error)
	CreateAndRerate(ctx context.Context, review *model.Review) error
}

// HistoryCache fronts session transcripts. A nil cache disables caching.
type HistoryCache interface {
	GetHistory(ctx context.Context, sessionID uint) ([]model.ChatMessage, bool, error)
	SetHistory(ctx context.Context, sessionID uint, messages []model.ChatMessage) error
	Invalidate(ctx context.Context, sessionID uint) error
	DeleteHistory(ctx context.Context, sessionID uint) error
	IsDirty(ctx context.Context, sessionID uint) (bool, error)
}

// Pipeline ports.

type TextExtractor interface {
	Extract(ctx context.Context, r io.Reader, kind extract.Kind) stage.Result[string]
}

type DocumentAnalyzer interface {
	Analyze(ctx context.Context, text string) stage.Result[analysis.Result]
}

type LawyerSearcher interface {
	Search(q string, limit int) ([]uint, error)
	Put(lawyer *model.Lawyer) error
	Remove(id uint) error
}

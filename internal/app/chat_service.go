package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/logger"
)

var (
	ErrSessionNotFound         = errors.New("session not found")
	ErrMessageEmpty            = errors.New("message content is empty")
	ErrMessageTooLong          = errors.New("message content is too long")
	ErrMessageEnqueue          = errors.New("message enqueue failed")
	ErrReplyFailed             = errors.New("assistant reply failed")
	ErrDocumentAlreadyAttached = errors.New("session already has a document")
)

const (
	defaultSessionTitle = "New Chat"
	maxMessageLength    = 5000
	maxSessionTitle     = 128
	defaultHistoryLimit = 100
	// historyCacheSize is how many of the newest messages are loaded and
	// cached per session; smaller limits are served from that list.
	historyCacheSize = 200
)

type ChatService struct {
	sessions     SessionStore
	messages     MessageStore
	documents    DocumentStore
	sink         MessageSink
	historyCache HistoryCache
	orchestrator *ChatOrchestrator
	uploads      *DocumentService
	attachments  *AttachmentService
}

type CreateSessionInput struct {
	Owner      model.Owner
	Title      string
	DocumentID *uint
}

type SendMessageInput struct {
	Owner     model.Owner
	SessionID uint
	Content   string
	// ImageRef points at an uploaded image ("last", "2", ...) whose text is
	// appended to the message.
	ImageRef string
}

type SendMessageResult struct {
	UserMessage      *model.ChatMessage `json:"user_message,omitempty"`
	AssistantMessage *model.ChatMessage `json:"ai_response,omitempty"`
	Reply            Reply              `json:"reply"`
	SessionID        uint               `json:"session_id"`
}

type AttachDocumentResult struct {
	Document        *model.Document    `json:"document"`
	SystemMessage   *model.ChatMessage `json:"system_message"`
	AnalysisSummary string             `json:"analysis_summary"`
}

func NewChatService(
	sessions SessionStore,
	messages MessageStore,
	documents DocumentStore,
	sink MessageSink,
	historyCache HistoryCache,
	orchestrator *ChatOrchestrator,
	uploads *DocumentService,
	attachments *AttachmentService,
) *ChatService {
	return &ChatService{
		sessions:     sessions,
		messages:     messages,
		documents:    documents,
		sink:         sink,
		historyCache: historyCache,
		orchestrator: orchestrator,
		uploads:      uploads,
		attachments:  attachments,
	}
}

func (s *ChatService) CreateSession(ctx context.Context, input CreateSessionInput) (*model.ChatSession, error) {
	if !input.Owner.Valid() {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = defaultSessionTitle
	}
	if len([]rune(title)) > maxSessionTitle {
		return nil, fmt.Errorf("%w: title is longer than %d characters", ErrInvalidInput, maxSessionTitle)
	}

	session := &model.ChatSession{
		Ownership: model.NewOwnership(input.Owner),
		Title:     title,
	}
	if input.DocumentID != nil {
		doc, err := s.documents.GetByID(ctx, *input.DocumentID)
		if err != nil {
			return nil, err
		}
		if doc == nil || !doc.OwnedBy(input.Owner) {
			return nil, ErrDocumentNotFound
		}
		id := doc.ID
		session.DocumentID = &id
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *ChatService) ListSessions(ctx context.Context, owner model.Owner) ([]model.ChatSession, error) {
	if !owner.Valid() {
		return nil, ErrInvalidInput
	}
	return s.sessions.ListByOwner(ctx, owner)
}

func (s *ChatService) GetSession(ctx context.Context, owner model.Owner, sessionID uint) (*model.ChatSession, error) {
	return loadOwnedSession(ctx, s.sessions, owner, sessionID)
}

func (s *ChatService) DeleteSession(ctx context.Context, owner model.Owner, sessionID uint) error {
	if _, err := loadOwnedSession(ctx, s.sessions, owner, sessionID); err != nil {
		return err
	}

	var images []model.ChatAttachment
	if s.attachments != nil {
		var err error
		if images, err = s.attachments.attachments.ListBySessionID(ctx, sessionID); err != nil {
			return err
		}
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	if s.attachments != nil {
		s.attachments.purge(ctx, images)
	}
	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(ctx, sessionID)
	}
	return nil
}

// SendMessage asks the assistant for a reply. The turn is persisted only when
// the reply succeeds; otherwise the failed reply is returned together with
// ErrReplyFailed.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageResult, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrMessageEmpty
	}
	if len([]rune(content)) > maxMessageLength {
		return nil, ErrMessageTooLong
	}

	session, err := loadOwnedSession(ctx, s.sessions, input.Owner, input.SessionID)
	if err != nil {
		return nil, err
	}

	if ref := strings.TrimSpace(input.ImageRef); ref != "" {
		text, err := s.imageText(ctx, session.ID, ref)
		if err != nil {
			return nil, err
		}
		content += "\n\nExtracted Text from Image: " + text
	}

	recent, err := s.messages.ListRecentBySessionID(ctx, session.ID, historyWindow)
	if err != nil {
		return nil, err
	}
	documentContext, err := s.documentContext(ctx, session)
	if err != nil {
		return nil, err
	}

	askedAt := time.Now()
	reply := s.orchestrator.Respond(ctx, RespondInput{
		UserMessage:     content,
		DocumentContext: documentContext,
		History:         recent,
	})
	if !reply.Success {
		return &SendMessageResult{Reply: reply, SessionID: session.ID}, ErrReplyFailed
	}

	confidence := reply.Confidence
	userMessage := &model.ChatMessage{
		SessionID: session.ID,
		Role:      model.RoleUser,
		Content:   content,
		CreatedAt: askedAt,
	}
	assistantMessage := &model.ChatMessage{
		SessionID:  session.ID,
		Role:       model.RoleAssistant,
		Content:    reply.Content,
		Confidence: &confidence,
		CreatedAt:  time.Now(),
	}
	if err := s.persist(ctx, session.ID, userMessage, assistantMessage); err != nil {
		return nil, err
	}

	return &SendMessageResult{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		Reply:            reply,
		SessionID:        session.ID,
	}, nil
}

// History returns the newest limit messages of the session, oldest first.
func (s *ChatService) History(ctx context.Context, owner model.Owner, sessionID uint, limit int) ([]model.ChatMessage, error) {
	if _, err := loadOwnedSession(ctx, s.sessions, owner, sessionID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, sessionID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, sessionID); cacheErr == nil && hit {
				return trimMessages(cached, limit), nil
			}
		}
	}

	messages, err := s.messages.ListRecentBySessionID(ctx, sessionID, historyCacheSize)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, sessionID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, sessionID, messages)
		}
	}
	return trimMessages(messages, limit), nil
}

// AttachDocument runs the document pipeline on a PDF uploaded inside the
// session and links the result. A session holds at most one document.
func (s *ChatService) AttachDocument(ctx context.Context, owner model.Owner, sessionID uint, upload DocumentUpload) (*AttachDocumentResult, error) {
	session, err := loadOwnedSession(ctx, s.sessions, owner, sessionID)
	if err != nil {
		return nil, err
	}
	if session.HasDocument() {
		return nil, ErrDocumentAlreadyAttached
	}
	if upload.DocumentType == "" {
		upload.DocumentType = model.DocumentTypeContract
	}

	doc, err := s.uploads.Upload(ctx, owner, upload)
	if err != nil {
		return nil, err
	}
	attached, err := s.sessions.AttachDocument(ctx, session.ID, doc.ID)
	if err != nil {
		return nil, err
	}
	if !attached {
		logger.FromContext(ctx).Warn().Uint("session_id", session.ID).Uint("document_id", doc.ID).
			Msg("document uploaded but session was linked concurrently")
		return nil, ErrDocumentAlreadyAttached
	}

	notice := &model.ChatMessage{
		SessionID: session.ID,
		Role:      model.RoleSystem,
		Content:   fmt.Sprintf("Document '%s' has been uploaded and analyzed. You can now ask questions about this document.", doc.Title),
		CreatedAt: time.Now(),
	}
	if err := s.persist(ctx, session.ID, notice); err != nil {
		return nil, err
	}

	result := &AttachDocumentResult{Document: doc, SystemMessage: notice}
	if parsed, err := doc.ParsedAnalysis(); err == nil && parsed != nil {
		result.AnalysisSummary = parsed.LegalAnalysis.Summary
	}
	return result, nil
}

func (s *ChatService) persist(ctx context.Context, sessionID uint, messages ...*model.ChatMessage) error {
	if s.historyCache != nil {
		_ = s.historyCache.Invalidate(ctx, sessionID)
	}
	if err := s.sink.Persist(ctx, messages); err != nil {
		return err
	}
	if err := s.sessions.Touch(ctx, sessionID); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Uint("session_id", sessionID).Msg("touch session failed")
	}
	return nil
}

// documentContext returns the extracted text of the linked document, or ""
// when the session has no analyzed document.
func (s *ChatService) documentContext(ctx context.Context, session *model.ChatSession) (string, error) {
	if !session.HasDocument() {
		return "", nil
	}
	doc, err := s.documents.GetByID(ctx, *session.DocumentID)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", nil
	}
	parsed, err := doc.ParsedAnalysis()
	if err != nil || parsed == nil {
		return "", err
	}
	return parsed.ExtractedText, nil
}

func (s *ChatService) imageText(ctx context.Context, sessionID uint, ref string) (string, error) {
	if s.attachments == nil {
		return "", ErrAttachmentNotFound
	}
	att, err := s.attachments.Resolve(ctx, sessionID, ref)
	if err != nil {
		return "", err
	}
	res, err := s.attachments.recognize(ctx, att)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func loadOwnedSession(ctx context.Context, sessions SessionStore, owner model.Owner, sessionID uint) (*model.ChatSession, error) {
	if !owner.Valid() || sessionID == 0 {
		return nil, ErrInvalidInput
	}
	session, err := sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.OwnedBy(owner) {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// trimMessages keeps the last limit messages.
func trimMessages(messages []model.ChatMessage, limit int) []model.ChatMessage {
	if limit <= 0 || limit >= len(messages) {
		return messages
	}
	return messages[len(messages)-limit:]
}

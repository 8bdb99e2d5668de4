package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Quick-Genius/Apna-Lawyer/internal/app"
	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

type MockChatAPI struct {
	mock.Mock
}

func (m *MockChatAPI) CreateSession(ctx context.Context, input app.CreateSessionInput) (*model.ChatSession, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatSession), args.Error(1)
}

func (m *MockChatAPI) ListSessions(ctx context.Context, owner model.Owner) ([]model.ChatSession, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]model.ChatSession), args.Error(1)
}

func (m *MockChatAPI) GetSession(ctx context.Context, owner model.Owner, sessionID uint) (*model.ChatSession, error) {
	args := m.Called(ctx, owner, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatSession), args.Error(1)
}

func (m *MockChatAPI) DeleteSession(ctx context.Context, owner model.Owner, sessionID uint) error {
	args := m.Called(ctx, owner, sessionID)
	return args.Error(0)
}

func (m *MockChatAPI) SendMessage(ctx context.Context, input app.SendMessageInput) (*app.SendMessageResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.SendMessageResult), args.Error(1)
}

func (m *MockChatAPI) History(ctx context.Context, owner model.Owner, sessionID uint, limit int) ([]model.ChatMessage, error) {
	args := m.Called(ctx, owner, sessionID, limit)
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}

func (m *MockChatAPI) AttachDocument(ctx context.Context, owner model.Owner, sessionID uint, upload app.DocumentUpload) (*app.AttachDocumentResult, error) {
	args := m.Called(ctx, owner, sessionID, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.AttachDocumentResult), args.Error(1)
}

type MockAttachmentAPI struct {
	mock.Mock
}

func (m *MockAttachmentAPI) Store(ctx context.Context, owner model.Owner, sessionID uint, in app.ImageUpload) (*model.ChatAttachment, error) {
	args := m.Called(ctx, owner, sessionID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatAttachment), args.Error(1)
}

func (m *MockAttachmentAPI) List(ctx context.Context, owner model.Owner, sessionID uint) ([]model.ChatAttachment, error) {
	args := m.Called(ctx, owner, sessionID)
	return args.Get(0).([]model.ChatAttachment), args.Error(1)
}

func (m *MockAttachmentAPI) ExtractText(ctx context.Context, owner model.Owner, sessionID uint, seq int) (*app.OCRResult, error) {
	args := m.Called(ctx, owner, sessionID, seq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.OCRResult), args.Error(1)
}

type MockDocumentAPI struct {
	mock.Mock
}

func (m *MockDocumentAPI) Upload(ctx context.Context, owner model.Owner, in app.DocumentUpload) (*model.Document, error) {
	args := m.Called(ctx, owner, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentAPI) List(ctx context.Context, owner model.Owner) ([]model.Document, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentAPI) Get(ctx context.Context, owner model.Owner, id uint) (*model.Document, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentAPI) Report(ctx context.Context, owner model.Owner, id uint) (*app.DocumentReport, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.DocumentReport), args.Error(1)
}

type MockLawyerAPI struct {
	mock.Mock
}

func (m *MockLawyerAPI) List(ctx context.Context, q app.LawyerQuery) ([]model.Lawyer, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Lawyer), args.Error(1)
}

func (m *MockLawyerAPI) Get(ctx context.Context, id uint) (*model.Lawyer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lawyer), args.Error(1)
}

func (m *MockLawyerAPI) Create(ctx context.Context, userID uint, in app.LawyerInput) (*model.Lawyer, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lawyer), args.Error(1)
}

func (m *MockLawyerAPI) Update(ctx context.Context, userID, id uint, in app.LawyerInput) (*model.Lawyer, error) {
	args := m.Called(ctx, userID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lawyer), args.Error(1)
}

func (m *MockLawyerAPI) Delete(ctx context.Context, userID, id uint) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockLawyerAPI) Languages(ctx context.Context) ([]model.Language, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Language), args.Error(1)
}

func (m *MockLawyerAPI) ListReviews(ctx context.Context, lawyerID uint) ([]model.Review, error) {
	args := m.Called(ctx, lawyerID)
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockLawyerAPI) AddReview(ctx context.Context, userID, lawyerID uint, in app.ReviewInput) (*model.Review, error) {
	args := m.Called(ctx, userID, lawyerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

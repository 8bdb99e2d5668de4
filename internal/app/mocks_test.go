package app

import (
	"bytes"
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/Quick-Genius/Apna-Lawyer/internal/ai"
	"github.com/Quick-Genius/Apna-Lawyer/internal/analysis"
	"github.com/Quick-Genius/Apna-Lawyer/internal/extract"
	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/stage"
	"github.com/Quick-Genius/Apna-Lawyer/internal/repository"
	"github.com/Quick-Genius/Apna-Lawyer/internal/storage"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, session *model.ChatSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) ListByOwner(ctx context.Context, owner model.Owner) ([]model.ChatSession, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]model.ChatSession), args.Error(1)
}

func (m *MockSessionStore) GetByID(ctx context.Context, id uint) (*model.ChatSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatSession), args.Error(1)
}

func (m *MockSessionStore) AttachDocument(ctx context.Context, sessionID, documentID uint) (bool, error) {
	args := m.Called(ctx, sessionID, documentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionStore) Touch(ctx context.Context, sessionID uint) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSessionStore) Delete(ctx context.Context, sessionID uint) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type MockMessageStore struct {
	mock.Mock
}

func (m *MockMessageStore) Create(ctx context.Context, message *model.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageStore) CreateBatch(ctx context.Context, messages []*model.ChatMessage) error {
	args := m.Called(ctx, messages)
	return args.Error(0)
}

func (m *MockMessageStore) ListRecentBySessionID(ctx context.Context, sessionID uint, n int) ([]model.ChatMessage, error) {
	args := m.Called(ctx, sessionID, n)
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Create(ctx context.Context, doc *model.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentStore) SaveAnalysis(ctx context.Context, doc *model.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentStore) GetByID(ctx context.Context, id uint) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentStore) ListByOwner(ctx context.Context, owner model.Owner) ([]model.Document, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]model.Document), args.Error(1)
}

type MockAttachmentStore struct {
	mock.Mock
}

func (m *MockAttachmentStore) CreateNext(ctx context.Context, att *model.ChatAttachment) error {
	args := m.Called(ctx, att)
	return args.Error(0)
}

func (m *MockAttachmentStore) ListBySessionID(ctx context.Context, sessionID uint) ([]model.ChatAttachment, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]model.ChatAttachment), args.Error(1)
}

func (m *MockAttachmentStore) GetBySeq(ctx context.Context, sessionID uint, seq int) (*model.ChatAttachment, error) {
	args := m.Called(ctx, sessionID, seq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatAttachment), args.Error(1)
}

func (m *MockAttachmentStore) Latest(ctx context.Context, sessionID uint) (*model.ChatAttachment, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatAttachment), args.Error(1)
}

type MockLawyerStore struct {
	mock.Mock
}

func (m *MockLawyerStore) List(ctx context.Context, f repository.LawyerFilter) ([]model.Lawyer, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Lawyer), args.Error(1)
}

func (m *MockLawyerStore) GetByID(ctx context.Context, id uint) (*model.Lawyer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lawyer), args.Error(1)
}

func (m *MockLawyerStore) Save(ctx context.Context, lawyer *model.Lawyer, languages []string) error {
	args := m.Called(ctx, lawyer, languages)
	return args.Error(0)
}

func (m *MockLawyerStore) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLawyerStore) ListLanguages(ctx context.Context) ([]model.Language, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Language), args.Error(1)
}

type MockReviewStore struct {
	mock.Mock
}

func (m *MockReviewStore) ListByLawyer(ctx context.Context, lawyerID uint) ([]model.Review, error) {
	args := m.Called(ctx, lawyerID)
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockReviewStore) CreateAndRerate(ctx context.Context, review *model.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(q string, limit int) ([]uint, error) {
	args := m.Called(q, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockSearcher) Put(lawyer *model.Lawyer) error {
	args := m.Called(lawyer)
	return args.Error(0)
}

func (m *MockSearcher) Remove(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// recordingSink keeps every persisted turn.
type recordingSink struct {
	turns [][]*model.ChatMessage
	err   error
}

func (s *recordingSink) Persist(_ context.Context, messages []*model.ChatMessage) error {
	if s.err != nil {
		return s.err
	}
	s.turns = append(s.turns, messages)
	return nil
}

type stubExtractor struct {
	result stage.Result[string]
	kinds  []extract.Kind
}

func (s *stubExtractor) Extract(_ context.Context, r io.Reader, kind extract.Kind) stage.Result[string] {
	_, _ = io.Copy(io.Discard, r)
	s.kinds = append(s.kinds, kind)
	return s.result
}

type stubAnalyzer struct {
	result stage.Result[analysis.Result]
	inputs []string
}

func (s *stubAnalyzer) Analyze(_ context.Context, text string) stage.Result[analysis.Result] {
	s.inputs = append(s.inputs, text)
	return s.result
}

// memStore is an in-memory storage.FileStore.
type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (s *memStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[key] = data
	return key, nil
}

func (s *memStore) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	data, ok := s.objects[ref]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStore) Delete(_ context.Context, ref string) error {
	delete(s.objects, ref)
	return nil
}

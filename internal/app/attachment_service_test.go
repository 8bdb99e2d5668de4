package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Quick-Genius/Apna-Lawyer/internal/extract"
	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/stage"
)

func newAttachmentFixture() (*AttachmentService, *MockSessionStore, *MockAttachmentStore, *memStore, *stubExtractor) {
	sessions := new(MockSessionStore)
	atts := new(MockAttachmentStore)
	blobs := newMemStore()
	ext := &stubExtractor{result: stage.OK("नमस्ते Notice")}
	return NewAttachmentService(sessions, atts, blobs, ext, 16), sessions, atts, blobs, ext
}

func TestStoreImageAssignsSequence(t *testing.T) {
	svc, sessions, atts, blobs, ext := newAttachmentFixture()
	ctx := context.Background()
	sessions.On("GetByID", ctx, uint(1)).Return(aliceSession(1), nil)
	atts.On("CreateNext", ctx, mock.AnythingOfType("*model.ChatAttachment")).Run(func(args mock.Arguments) {
		args.Get(1).(*model.ChatAttachment).Seq = 3
	}).Return(nil)

	att, err := svc.Store(ctx, alice, 1, ImageUpload{FileName: "Notice.JPG", ContentType: "image/jpeg", Content: strings.NewReader("jpegdata")})
	require.NoError(t, err)

	assert.Equal(t, 3, att.Seq)
	assert.Equal(t, "Notice.JPG", att.FileName)
	assert.True(t, strings.HasPrefix(att.FileRef, "chat_images/1/"))
	assert.True(t, strings.HasSuffix(att.FileRef, ".jpg"))
	assert.Equal(t, []byte("jpegdata"), blobs.objects[att.FileRef])
	assert.Empty(t, ext.kinds, "storing must not run OCR")
}

func TestStoreImageRejectsBadInput(t *testing.T) {
	svc, sessions, atts, blobs, _ := newAttachmentFixture()
	ctx := context.Background()
	sessions.On("GetByID", ctx, uint(1)).Return(aliceSession(1), nil)

	_, err := svc.Store(ctx, alice, 1, ImageUpload{FileName: "doc.gif", Content: strings.NewReader("GIF89a")})
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = svc.Store(ctx, alice, 1, ImageUpload{FileName: "huge.png", Content: strings.NewReader(strings.Repeat("x", 17))})
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.Store(ctx, model.UserOwner(2), 1, ImageUpload{FileName: "a.png", Content: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Empty(t, blobs.objects)
	atts.AssertNotCalled(t, "CreateNext", mock.Anything, mock.Anything)
}

func TestExtractTextRunsOCR(t *testing.T) {
	svc, sessions, atts, blobs, ext := newAttachmentFixture()
	ctx := context.Background()
	blobs.objects["chat_images/1/n.png"] = []byte("png")
	sessions.On("GetByID", ctx, uint(1)).Return(aliceSession(1), nil)
	atts.On("GetBySeq", ctx, uint(1), 1).Return(&model.ChatAttachment{SessionID: 1, Seq: 1, FileRef: "chat_images/1/n.png"}, nil)
	atts.On("GetBySeq", ctx, uint(1), 2).Return(nil, nil)

	res, err := svc.ExtractText(ctx, alice, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "नमस्ते Notice", res.Text)
	assert.Equal(t, stage.StatusOK, res.Status)
	assert.Equal(t, []extract.Kind{extract.KindImage}, ext.kinds)

	_, err = svc.ExtractText(ctx, alice, 1, 2)
	assert.ErrorIs(t, err, ErrAttachmentNotFound)
}

func TestExtractTextMissingBlob(t *testing.T) {
	svc, sessions, atts, _, _ := newAttachmentFixture()
	ctx := context.Background()
	sessions.On("GetByID", ctx, uint(1)).Return(aliceSession(1), nil)
	atts.On("GetBySeq", ctx, uint(1), 1).Return(&model.ChatAttachment{Seq: 1, FileRef: "gone.png"}, nil)

	_, err := svc.ExtractText(ctx, alice, 1, 1)
	assert.ErrorIs(t, err, ErrAttachmentNotFound)
}

func TestResolveReferences(t *testing.T) {
	svc, _, atts, _, _ := newAttachmentFixture()
	ctx := context.Background()
	latest := &model.ChatAttachment{Seq: 3}
	second := &model.ChatAttachment{Seq: 2}
	atts.On("Latest", ctx, uint(1)).Return(latest, nil)
	atts.On("GetBySeq", ctx, uint(1), 2).Return(second, nil)
	atts.On("GetBySeq", ctx, uint(1), 9).Return(nil, nil)

	got, err := svc.Resolve(ctx, 1, "the LAST image")
	require.NoError(t, err)
	assert.Same(t, latest, got)

	got, err = svc.Resolve(ctx, 1, "latest")
	require.NoError(t, err)
	assert.Same(t, latest, got)

	got, err = svc.Resolve(ctx, 1, "image 2")
	require.NoError(t, err)
	assert.Same(t, second, got)

	_, err = svc.Resolve(ctx, 1, "9")
	assert.ErrorIs(t, err, ErrAttachmentNotFound)

	_, err = svc.Resolve(ctx, 1, "image 0")
	assert.ErrorIs(t, err, ErrAttachmentNotFound)

	_, err = svc.Resolve(ctx, 1, "that one")
	assert.ErrorIs(t, err, ErrAttachmentNotFound)
}

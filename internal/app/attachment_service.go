package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Quick-Genius/Apna-Lawyer/internal/extract"
	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/logger"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/stage"
	"github.com/Quick-Genius/Apna-Lawyer/internal/storage"
)

var (
	ErrAttachmentNotFound = errors.New("image not found")
	ErrUnsupportedImage   = errors.New("invalid image format")
)

var imageNumber = regexp.MustCompile(`(\d+)`)

type ImageUpload struct {
	FileName    string
	Size        int64
	ContentType string
	Content     io.Reader
}

type OCRResult struct {
	Attachment model.ChatAttachment `json:"attachment"`
	Text       string               `json:"extracted_text"`
	Status     stage.Status         `json:"status"`
}

type AttachmentService struct {
	sessions    SessionStore
	attachments AttachmentStore
	store       storage.FileStore
	extractor   TextExtractor
	maxBytes    int64
}

func NewAttachmentService(
	sessions SessionStore,
	attachments AttachmentStore,
	store storage.FileStore,
	extractor TextExtractor,
	maxBytes int64,
) *AttachmentService {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &AttachmentService{
		sessions:    sessions,
		attachments: attachments,
		store:       store,
		extractor:   extractor,
		maxBytes:    maxBytes,
	}
}

// Store saves an image into the session without running OCR.
func (s *AttachmentService) Store(ctx context.Context, owner model.Owner, sessionID uint, in ImageUpload) (*model.ChatAttachment, error) {
	if _, err := loadOwnedSession(ctx, s.sessions, owner, sessionID); err != nil {
		return nil, err
	}
	if in.Content == nil {
		return nil, ErrInvalidInput
	}
	ext := strings.ToLower(filepath.Ext(in.FileName))
	if !extract.IsImageExtension(ext) {
		return nil, ErrUnsupportedImage
	}
	data, err := readLimited(in.Content, in.Size, s.maxBytes)
	if err != nil {
		return nil, err
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("chat_images/%d/%s%s", sessionID, uuid.NewString(), ext)
	ref, err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, err
	}

	att := &model.ChatAttachment{
		SessionID:   sessionID,
		FileRef:     ref,
		FileName:    filepath.Base(in.FileName),
		ContentType: contentType,
		Size:        int64(len(data)),
	}
	if err := s.attachments.CreateNext(ctx, att); err != nil {
		if delErr := s.store.Delete(ctx, ref); delErr != nil {
			logger.FromContext(ctx).Warn().Err(delErr).Str("ref", ref).Msg("remove orphaned image failed")
		}
		return nil, err
	}
	return att, nil
}

func (s *AttachmentService) List(ctx context.Context, owner model.Owner, sessionID uint) ([]model.ChatAttachment, error) {
	if _, err := loadOwnedSession(ctx, s.sessions, owner, sessionID); err != nil {
		return nil, err
	}
	return s.attachments.ListBySessionID(ctx, sessionID)
}

// ExtractText runs OCR on the image with the given sequence number.
func (s *AttachmentService) ExtractText(ctx context.Context, owner model.Owner, sessionID uint, seq int) (*OCRResult, error) {
	if _, err := loadOwnedSession(ctx, s.sessions, owner, sessionID); err != nil {
		return nil, err
	}
	att, err := s.attachments.GetBySeq(ctx, sessionID, seq)
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, ErrAttachmentNotFound
	}
	return s.recognize(ctx, att)
}

// Resolve finds an image by a free-form reference: anything mentioning
// "last" or "latest", or a 1-based image number. The caller must already
// have checked access to the session.
func (s *AttachmentService) Resolve(ctx context.Context, sessionID uint, reference string) (*model.ChatAttachment, error) {
	ref := strings.ToLower(strings.TrimSpace(reference))

	var (
		att *model.ChatAttachment
		err error
	)
	switch {
	case strings.Contains(ref, "last") || strings.Contains(ref, "latest"):
		att, err = s.attachments.Latest(ctx, sessionID)
	case imageNumber.MatchString(ref):
		n, convErr := strconv.Atoi(imageNumber.FindString(ref))
		if convErr != nil || n < 1 {
			return nil, ErrAttachmentNotFound
		}
		att, err = s.attachments.GetBySeq(ctx, sessionID, n)
	default:
		return nil, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, ErrAttachmentNotFound
	}
	return att, nil
}

func (s *AttachmentService) recognize(ctx context.Context, att *model.ChatAttachment) (*OCRResult, error) {
	rc, err := s.store.Open(ctx, att.FileRef)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, err
	}
	defer rc.Close()

	res := s.extractor.Extract(ctx, rc, extract.KindImage)
	return &OCRResult{Attachment: *att, Text: res.Value, Status: res.Status}, nil
}

// purge removes the stored blobs of a deleted session. Failures are logged.
func (s *AttachmentService) purge(ctx context.Context, atts []model.ChatAttachment) {
	for _, att := range atts {
		if err := s.store.Delete(ctx, att.FileRef); err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.FromContext(ctx).Warn().Err(err).Str("ref", att.FileRef).Msg("remove session image failed")
		}
	}
}

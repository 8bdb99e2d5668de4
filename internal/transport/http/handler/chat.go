package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Quick-Genius/Apna-Lawyer/internal/app"
	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/middleware"
	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/response"
)

type ChatAPI interface {
	CreateSession(ctx context.Context, input app.CreateSessionInput) (*model.ChatSession, error)
	ListSessions(ctx context.Context, owner model.Owner) ([]model.ChatSession, error)
	GetSession(ctx context.Context, owner model.Owner, sessionID uint) (*model.ChatSession, error)
	DeleteSession(ctx context.Context, owner model.Owner, sessionID uint) error
	SendMessage(ctx context.Context, input app.SendMessageInput) (*app.SendMessageResult, error)
	History(ctx context.Context, owner model.Owner, sessionID uint, limit int) ([]model.ChatMessage, error)
	AttachDocument(ctx context.Context, owner model.Owner, sessionID uint, upload app.DocumentUpload) (*app.AttachDocumentResult, error)
}

type AttachmentAPI interface {
	Store(ctx context.Context, owner model.Owner, sessionID uint, in app.ImageUpload) (*model.ChatAttachment, error)
	List(ctx context.Context, owner model.Owner, sessionID uint) ([]model.ChatAttachment, error)
	ExtractText(ctx context.Context, owner model.Owner, sessionID uint, seq int) (*app.OCRResult, error)
}

type ChatHandler struct {
	chatService   ChatAPI
	attachService AttachmentAPI
}

type CreateSessionRequest struct {
	Title      string `json:"title" binding:"max=128"`
	DocumentID *uint  `json:"document_id"`
}

type SendMessageRequest struct {
	Message string `json:"message"`
	// ImageRef selects an uploaded image ("last", "2") whose text is added
	// to the message.
	ImageRef string `json:"image_ref" binding:"max=64"`
}

func NewChatHandler(chatService ChatAPI, attachService AttachmentAPI) *ChatHandler {
	return &ChatHandler{chatService: chatService, attachService: attachService}
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	session, err := h.chatService.CreateSession(c.Request.Context(), app.CreateSessionInput{
		Owner:      middleware.Owner(c),
		Title:      req.Title,
		DocumentID: req.DocumentID,
	})
	if err != nil {
		writeError(c, err, "create session failed")
		return
	}
	response.Created(c, session)
}

func (h *ChatHandler) ListSessions(c *gin.Context) {
	sessions, err := h.chatService.ListSessions(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		writeError(c, err, "list sessions failed")
		return
	}
	response.OK(c, sessions)
}

func (h *ChatHandler) GetSession(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	owner := middleware.Owner(c)
	session, err := h.chatService.GetSession(c.Request.Context(), owner, sessionID)
	if err != nil {
		writeError(c, err, "get session failed")
		return
	}
	messages, err := h.chatService.History(c.Request.Context(), owner, sessionID, 0)
	if err != nil {
		writeError(c, err, "get session failed")
		return
	}
	response.OK(c, gin.H{"session": session, "messages": messages})
}

func (h *ChatHandler) DeleteSession(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.chatService.DeleteSession(c.Request.Context(), middleware.Owner(c), sessionID); err != nil {
		writeError(c, err, "delete session failed")
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), app.SendMessageInput{
		Owner:     middleware.Owner(c),
		SessionID: sessionID,
		Content:   req.Message,
		ImageRef:  req.ImageRef,
	})
	if err != nil {
		if errors.Is(err, app.ErrReplyFailed) && result != nil {
			response.ErrorWithData(c, http.StatusBadGateway, response.CodeReplyFailed, result.Reply.Content, result)
			return
		}
		writeError(c, err, "send message failed")
		return
	}
	response.OK(c, result)
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid limit")
		return
	}

	messages, err := h.chatService.History(c.Request.Context(), middleware.Owner(c), sessionID, limit)
	if err != nil {
		writeError(c, err, "get history failed")
		return
	}
	response.OK(c, messages)
}

func (h *ChatHandler) AttachDocument(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	header, file, ok := formFile(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.chatService.AttachDocument(c.Request.Context(), middleware.Owner(c), sessionID, app.DocumentUpload{
		FileName:     header.Filename,
		Size:         header.Size,
		Content:      file,
		Title:        c.PostForm("title"),
		DocumentType: c.PostForm("document_type"),
		Description:  c.PostForm("description"),
	})
	if err != nil {
		writeError(c, err, "attach document failed")
		return
	}
	response.Created(c, result)
}

func (h *ChatHandler) UploadImage(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	header, file, ok := formFile(c)
	if !ok {
		return
	}
	defer file.Close()

	att, err := h.attachService.Store(c.Request.Context(), middleware.Owner(c), sessionID, app.ImageUpload{
		FileName:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	})
	if err != nil {
		writeError(c, err, "upload image failed")
		return
	}
	response.Created(c, att)
}

func (h *ChatHandler) ListImages(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	atts, err := h.attachService.List(c.Request.Context(), middleware.Owner(c), sessionID)
	if err != nil {
		writeError(c, err, "list images failed")
		return
	}
	response.OK(c, atts)
}

func (h *ChatHandler) ExtractImageText(c *gin.Context) {
	sessionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	seq, ok := pathID(c, "seq")
	if !ok {
		return
	}
	result, err := h.attachService.ExtractText(c.Request.Context(), middleware.Owner(c), sessionID, int(seq))
	if err != nil {
		writeError(c, err, "extract image text failed")
		return
	}
	response.OK(c, result)
}

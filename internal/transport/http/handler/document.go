package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Quick-Genius/Apna-Lawyer/internal/app"
	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/middleware"
	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/response"
)

type DocumentAPI interface {
	Upload(ctx context.Context, owner model.Owner, in app.DocumentUpload) (*model.Document, error)
	List(ctx context.Context, owner model.Owner) ([]model.Document, error)
	Get(ctx context.Context, owner model.Owner, id uint) (*model.Document, error)
	Report(ctx context.Context, owner model.Owner, id uint) (*app.DocumentReport, error)
}

type DocumentHandler struct {
	documents DocumentAPI
}

func NewDocumentHandler(documents DocumentAPI) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	header, file, ok := formFile(c)
	if !ok {
		return
	}
	defer file.Close()

	doc, err := h.documents.Upload(c.Request.Context(), middleware.Owner(c), app.DocumentUpload{
		FileName:     header.Filename,
		Size:         header.Size,
		Content:      file,
		Title:        c.PostForm("title"),
		DocumentType: c.PostForm("document_type"),
		Description:  c.PostForm("description"),
	})
	if err != nil {
		writeError(c, err, "upload document failed")
		return
	}
	response.Created(c, doc)
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		writeError(c, err, "list documents failed")
		return
	}
	response.OK(c, docs)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.documents.Get(c.Request.Context(), middleware.Owner(c), id)
	if err != nil {
		writeError(c, err, "get document failed")
		return
	}
	response.OK(c, doc)
}

func (h *DocumentHandler) Report(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rep, err := h.documents.Report(c.Request.Context(), middleware.Owner(c), id)
	if err != nil {
		writeError(c, err, "render report failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, rep.FileName))
	c.Data(http.StatusOK, "application/pdf", rep.Content)
}

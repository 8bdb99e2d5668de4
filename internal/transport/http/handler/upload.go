package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/response"
)

// formFile opens the multipart "file" field. The caller closes the file.
func formFile(c *gin.Context) (*multipart.FileHeader, multipart.File, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file is required")
		return nil, nil, false
	}
	f, err := header.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "read uploaded file failed")
		return nil, nil, false
	}
	return header, f, true
}

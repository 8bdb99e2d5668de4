package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Quick-Genius/Apna-Lawyer/internal/app"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/logger"
	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/response"
)

type errorMapping struct {
	err    error
	status int
	code   int
}

// errorTable maps service errors to responses; the first match wins.
var errorTable = []errorMapping{
	{app.ErrInvalidInput, http.StatusBadRequest, response.CodeBadRequest},
	{app.ErrMessageEmpty, http.StatusBadRequest, response.CodeBadRequest},
	{app.ErrMessageTooLong, http.StatusBadRequest, response.CodeBadRequest},
	{app.ErrInvalidDocumentType, http.StatusBadRequest, response.CodeBadRequest},
	{app.ErrEmptyFile, http.StatusBadRequest, response.CodeBadRequest},
	{app.ErrUnsupportedFileType, http.StatusBadRequest, response.CodeUnsupportedFile},
	{app.ErrInvalidPDF, http.StatusBadRequest, response.CodeUnsupportedFile},
	{app.ErrUnsupportedImage, http.StatusBadRequest, response.CodeUnsupportedFile},
	{app.ErrFileTooLarge, http.StatusBadRequest, response.CodeFileTooLarge},
	{app.ErrUsernameExists, http.StatusBadRequest, response.CodeUsernameExists},
	{app.ErrEmailExists, http.StatusBadRequest, response.CodeEmailExists},
	{app.ErrInvalidCredential, http.StatusUnauthorized, response.CodeInvalidCredentials},
	{app.ErrUserNotFound, http.StatusUnauthorized, response.CodeUnauthorized},
	{app.ErrForbidden, http.StatusForbidden, response.CodeForbidden},
	{app.ErrSessionNotFound, http.StatusNotFound, response.CodeSessionNotFound},
	{app.ErrDocumentNotFound, http.StatusNotFound, response.CodeDocumentNotFound},
	{app.ErrAttachmentNotFound, http.StatusNotFound, response.CodeImageNotFound},
	{app.ErrLawyerNotFound, http.StatusNotFound, response.CodeLawyerNotFound},
	{app.ErrDocumentNotProcessed, http.StatusConflict, response.CodeConflict},
	{app.ErrDocumentAlreadyAttached, http.StatusConflict, response.CodeDocumentAttached},
	{app.ErrReviewExists, http.StatusConflict, response.CodeReviewExists},
}

// writeError maps err to an envelope. Unknown errors are logged and hidden
// behind fallback.
func writeError(c *gin.Context, err error, fallback string) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			response.Error(c, m.status, m.code, err.Error())
			return
		}
	}
	logger.FromContext(c.Request.Context()).Error().Err(err).Msg(fallback)
	response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeOK                 = 0
	CodeBadRequest         = 40000
	CodeUsernameExists     = 40001
	CodeEmailExists        = 40002
	CodeFileTooLarge       = 40003
	CodeUnsupportedFile    = 40004
	CodeUnauthorized       = 40100
	CodeInvalidCredentials = 40101
	CodeForbidden          = 40300
	CodeNotFound           = 40400
	CodeSessionNotFound    = 40401
	CodeDocumentNotFound   = 40402
	CodeImageNotFound      = 40403
	CodeLawyerNotFound     = 40404
	CodeConflict           = 40900
	CodeDocumentAttached   = 40901
	CodeReviewExists       = 40902
	CodeTooManyRequests    = 42900
	CodeInternalServer     = 50000
	CodeReplyFailed        = 50201
)

type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Code:    CodeOK,
		Message: "ok",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Code:    CodeOK,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}

// ErrorWithData is used when a failed operation still has a body the client
// should show, such as a failed assistant reply.
func ErrorWithData(c *gin.Context, httpStatus, code int, message string, data interface{}) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Abort writes an error and stops the handler chain.
func Abort(c *gin.Context, httpStatus, code int, message string) {
	c.AbortWithStatusJSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}

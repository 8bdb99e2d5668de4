package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/middleware"
)

const testAccessKey = "client-key-1"

var anon = model.AnonymousOwner(testAccessKey)

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter resolves owners like the real API. A non-zero userID acts as
// an authenticated caller.
func newRouter(userID uint) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	}, middleware.ResolveOwner())
	return router
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.AccessKeyHeader, testAccessKey)
	return req
}

func multipartRequest(t *testing.T, path, fileName string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set(middleware.AccessKeyHeader, testAccessKey)
	return req
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func serve(t *testing.T, router *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var env envelope
	if w.Header().Get("Content-Type") != "application/pdf" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Quick-Genius/Apna-Lawyer/internal/app"
	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/middleware"
	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/response"
)

func lawyerRouter(lawyers *MockLawyerAPI, userID uint) *gin.Engine {
	h := NewLawyerHandler(lawyers)
	r := newRouter(userID)
	r.GET("/lawyers", h.List)
	r.GET("/lawyers/:id", h.Get)
	r.POST("/lawyers", h.Create)
	r.PUT("/lawyers/:id", h.Update)
	r.POST("/lawyers/:id/reviews", h.AddReview)
	return r
}

func TestListLawyersPassesFilters(t *testing.T) {
	lawyers := new(MockLawyerAPI)
	lawyers.On("List", mock.Anything, app.LawyerQuery{
		Specialization: "family", Location: "Mumbai", PricingType: "free_consultation", Search: "divorce",
	}).Return([]model.Lawyer{{ID: 1}}, nil)

	w, _ := serve(t, lawyerRouter(lawyers, 0), jsonRequest(t, http.MethodGet,
		"/lawyers?specialization=family&location=Mumbai&pricing_type=free_consultation&search=divorce", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	lawyers.AssertExpectations(t)
}

func TestListLawyersBadPricing(t *testing.T) {
	lawyers := new(MockLawyerAPI)
	lawyers.On("List", mock.Anything, mock.Anything).Return([]model.Lawyer(nil), app.ErrInvalidInput)

	w, _ := serve(t, lawyerRouter(lawyers, 0), jsonRequest(t, http.MethodGet, "/lawyers?pricing_type=barter", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateLawyerNeedsUser(t *testing.T) {
	lawyers := new(MockLawyerAPI)
	w, _ := serve(t, lawyerRouter(lawyers, 0), jsonRequest(t, http.MethodPost, "/lawyers", map[string]string{"name": "A"}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	lawyers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateForeignLawyerForbidden(t *testing.T) {
	lawyers := new(MockLawyerAPI)
	lawyers.On("Update", mock.Anything, uint(8), uint(2), mock.Anything).Return(nil, app.ErrForbidden)

	w, env := serve(t, lawyerRouter(lawyers, 8), jsonRequest(t, http.MethodPut, "/lawyers/2", map[string]string{"name": "A"}))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.CodeForbidden, env.Code)
}

func TestAddReviewConflict(t *testing.T) {
	lawyers := new(MockLawyerAPI)
	lawyers.On("AddReview", mock.Anything, uint(8), uint(2), app.ReviewInput{Rating: 5, Comment: "Great"}).
		Return(nil, app.ErrReviewExists)

	w, env := serve(t, lawyerRouter(lawyers, 8), jsonRequest(t, http.MethodPost, "/lawyers/2/reviews",
		map[string]interface{}{"rating": 5, "comment": "Great"}))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.CodeReviewExists, env.Code)
}

func TestUnknownErrorIsHidden(t *testing.T) {
	lawyers := new(MockLawyerAPI)
	lawyers.On("Get", mock.Anything, uint(1)).Return(nil, errors.New("dial tcp: connection refused"))

	w, env := serve(t, lawyerRouter(lawyers, 0), jsonRequest(t, http.MethodGet, "/lawyers/1", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "get lawyer failed", env.Message)
}

func TestAuthRoutesRejectBadToken(t *testing.T) {
	lawyers := new(MockLawyerAPI)
	h := NewLawyerHandler(lawyers)
	r := gin.New()
	r.POST("/lawyers", middleware.AuthJWT("secret"), h.Create)

	req := jsonRequest(t, http.MethodPost, "/lawyers", map[string]string{"name": "A"})
	req.Header.Set("Authorization", "Bearer not-a-token")
	w, env := serve(t, r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.CodeUnauthorized, env.Code)
}

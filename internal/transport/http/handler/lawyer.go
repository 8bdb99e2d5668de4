package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Quick-Genius/Apna-Lawyer/internal/app"
	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/middleware"
	"github.com/Quick-Genius/Apna-Lawyer/internal/transport/http/response"
)

type LawyerAPI interface {
	List(ctx context.Context, q app.LawyerQuery) ([]model.Lawyer, error)
	Get(ctx context.Context, id uint) (*model.Lawyer, error)
	Create(ctx context.Context, userID uint, in app.LawyerInput) (*model.Lawyer, error)
	Update(ctx context.Context, userID, id uint, in app.LawyerInput) (*model.Lawyer, error)
	Delete(ctx context.Context, userID, id uint) error
	Languages(ctx context.Context) ([]model.Language, error)
	ListReviews(ctx context.Context, lawyerID uint) ([]model.Review, error)
	AddReview(ctx context.Context, userID, lawyerID uint, in app.ReviewInput) (*model.Review, error)
}

type LawyerHandler struct {
	lawyers LawyerAPI
}

func NewLawyerHandler(lawyers LawyerAPI) *LawyerHandler {
	return &LawyerHandler{lawyers: lawyers}
}

func (h *LawyerHandler) List(c *gin.Context) {
	lawyers, err := h.lawyers.List(c.Request.Context(), app.LawyerQuery{
		Specialization: c.Query("specialization"),
		Location:       c.Query("location"),
		PricingType:    c.Query("pricing_type"),
		Search:         c.Query("search"),
	})
	if err != nil {
		writeError(c, err, "list lawyers failed")
		return
	}
	response.OK(c, lawyers)
}

func (h *LawyerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lawyer, err := h.lawyers.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "get lawyer failed")
		return
	}
	response.OK(c, lawyer)
}

func (h *LawyerHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	var in app.LawyerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	lawyer, err := h.lawyers.Create(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err, "create lawyer failed")
		return
	}
	response.Created(c, lawyer)
}

func (h *LawyerHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in app.LawyerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	lawyer, err := h.lawyers.Update(c.Request.Context(), userID, id, in)
	if err != nil {
		writeError(c, err, "update lawyer failed")
		return
	}
	response.OK(c, lawyer)
}

func (h *LawyerHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.lawyers.Delete(c.Request.Context(), userID, id); err != nil {
		writeError(c, err, "delete lawyer failed")
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

func (h *LawyerHandler) Languages(c *gin.Context) {
	langs, err := h.lawyers.Languages(c.Request.Context())
	if err != nil {
		writeError(c, err, "list languages failed")
		return
	}
	response.OK(c, langs)
}

func (h *LawyerHandler) ListReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviews, err := h.lawyers.ListReviews(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "list reviews failed")
		return
	}
	response.OK(c, reviews)
}

func (h *LawyerHandler) AddReview(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in app.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	review, err := h.lawyers.AddReview(c.Request.Context(), userID, id, in)
	if err != nil {
		writeError(c, err, "add review failed")
		return
	}
	response.Created(c, review)
}

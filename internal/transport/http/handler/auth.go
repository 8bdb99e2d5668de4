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

type AuthAPI interface {
	Register(ctx context.Context, input app.RegisterInput) (*app.AuthResult, error)
	Login(ctx context.Context, input app.LoginInput) (*app.AuthResult, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
}

type AuthHandler struct {
	authService AuthAPI
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email,max=128"`
	FullName string `json:"full_name" binding:"max=128"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type LoginRequest struct {
	// Username may also be the account email.
	Username string `json:"username" binding:"required,min=3,max=128"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

func NewAuthHandler(authService AuthAPI) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err, "register failed")
		return
	}
	response.Created(c, result)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err, "login failed")
		return
	}
	response.OK(c, result)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "fetch current user failed")
		return
	}
	response.OK(c, user)
}

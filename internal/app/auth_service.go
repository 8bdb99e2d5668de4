package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/pkg/jwtutil"
)

var (
	ErrUsernameExists    = errors.New("username already exists")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrUserNotFound      = errors.New("user not found")
)

const minPasswordLength = 8

type AuthService struct {
	users         UserStore
	jwtSecret     string
	jwtExpiration time.Duration
}

type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
}

type LoginInput struct {
	// Username accepts either the username or the email address.
	Username string
	Password string
}

type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func NewAuthService(users UserStore, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		users:         users,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if username == "" || email == "" || !strings.Contains(email, "@") || len(password) < minPasswordLength {
		return nil, ErrInvalidInput
	}

	existingByName, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existingByName != nil {
		return nil, ErrUsernameExists
	}

	existingByEmail, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingByEmail != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	var (
		user *model.User
		err  error
	)
	if strings.Contains(username, "@") {
		user, err = s.users.GetByEmail(ctx, strings.ToLower(username))
	} else {
		user, err = s.users.GetByUsername(ctx, username)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}
	return s.issue(user)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

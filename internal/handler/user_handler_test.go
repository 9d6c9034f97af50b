package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func setupAuthTest() (*gin.Engine, *MockUserRepository) {
	r := gin.New()
	repo := new(MockUserRepository)
	h := handler.NewUserHandler(repo, auth.NewTokenManager(testSecret, time.Hour), zap.NewNop())

	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.GET("/api/auth/user", middleware.JWTAuthMiddleware(testSecret), h.Me)
	return r, repo
}

func accountWithPassword(t *testing.T, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{ID: uuid.New(), Email: email, Name: "Ada", HashedPassword: string(hash)}
}

// decodeAuth проверяет, что токен выдан именно на этого пользователя
func decodeAuth(t *testing.T, resp *httptest.ResponseRecorder) handler.AuthResponse {
	t.Helper()
	var body handler.AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	subject, err := auth.NewTokenManager(testSecret, time.Hour).ParseToken(body.Token)
	require.NoError(t, err)
	assert.Equal(t, body.User.ID, subject)
	return body
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name      string
		body      gin.H
		prepare   func(repo *MockUserRepository)
		wantCode  int
		wantError string
	}{
		{
			name: "new account gets a token",
			body: gin.H{"name": "Ada", "email": "Ada@Example.com", "password": "secret1"},
			prepare: func(repo *MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, nil)
				repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Email == "ada@example.com" &&
						bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte("secret1")) == nil
				})).Return(nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "email taken",
			body: gin.H{"name": "Ada", "email": "ada@example.com", "password": "secret1"},
			prepare: func(repo *MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "ada@example.com").
					Return(&model.User{ID: uuid.New(), Email: "ada@example.com"}, nil)
			},
			wantCode:  http.StatusConflict,
			wantError: "User with this email already exists",
		},
		{
			name:      "password too short",
			body:      gin.H{"name": "Ada", "email": "ada@example.com", "password": "123"},
			wantCode:  http.StatusBadRequest,
			wantError: "Invalid input",
		},
		{
			name:      "malformed email",
			body:      gin.H{"name": "Ada", "email": "ada", "password": "secret1"},
			wantCode:  http.StatusBadRequest,
			wantError: "Invalid input",
		},
		{
			name: "storage failure",
			body: gin.H{"name": "Ada", "email": "ada@example.com", "password": "secret1"},
			prepare: func(repo *MockUserRepository) {
				repo.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, assert.AnError)
			},
			wantCode:  http.StatusInternalServerError,
			wantError: "DB error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := setupAuthTest()
			if tt.prepare != nil {
				tt.prepare(repo)
			}

			resp := doJSON(router, http.MethodPost, "/api/auth/register", tt.body)

			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorOf(t, resp))
			} else {
				body := decodeAuth(t, resp)
				assert.Equal(t, "ada@example.com", body.User.Email)
				assert.Equal(t, "Ada", body.User.Name)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	account := accountWithPassword(t, "ada@example.com", "secret1")

	tests := []struct {
		name     string
		body     gin.H
		found    *model.User
		wantCode int
	}{
		{"valid credentials", gin.H{"email": "ADA@example.com", "password": "secret1"}, account, http.StatusOK},
		{"wrong password", gin.H{"email": "ada@example.com", "password": "secret2"}, account, http.StatusUnauthorized},
		{"unknown account", gin.H{"email": "ada@example.com", "password": "secret1"}, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := setupAuthTest()
			repo.On("FindByEmail", mock.Anything, "ada@example.com").Return(tt.found, nil)

			resp := doJSON(router, http.MethodPost, "/api/auth/login", tt.body)

			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.wantCode == http.StatusOK {
				body := decodeAuth(t, resp)
				assert.Equal(t, account.ID.String(), body.User.ID)
			} else {
				// Ответ одинаковый, чтобы не раскрывать наличие аккаунта
				assert.Equal(t, "Invalid credentials", errorOf(t, resp))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestLogin_MissingPassword(t *testing.T) {
	router, repo := setupAuthTest()

	resp := doJSON(router, http.MethodPost, "/api/auth/login", gin.H{"email": "ada@example.com"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestMe(t *testing.T) {
	router, repo := setupAuthTest()
	account := &model.User{ID: uuid.New(), Email: "ada@example.com", Name: "Ada"}
	repo.On("GetByID", mock.Anything, account.ID).Return(account, nil)
	token, err := auth.NewTokenManager(testSecret, time.Hour).GenerateToken(account.ID.String())
	require.NoError(t, err)

	withToken := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	withToken.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, withToken)

	assert.Equal(t, http.StatusOK, resp.Code)
	var body handler.UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, handler.UserResponse{ID: account.ID.String(), Name: "Ada", Email: "ada@example.com"}, body)

	anonymous := httptest.NewRecorder()
	router.ServeHTTP(anonymous, httptest.NewRequest(http.MethodGet, "/api/auth/user", nil))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)
}

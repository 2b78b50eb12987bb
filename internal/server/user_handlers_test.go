package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cvhub/internal/config"
	"cvhub/internal/models"
	"cvhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newUserTestServer(userRepo *MockUserRepository, user *models.User) (*fiber.App, *Server) {
	app := fiber.New()
	s := &Server{
		config:   &config.Config{JWTSecret: "test_secret"},
		tokens:   testTokens(),
		userRepo: userRepo,
	}
	s.userService = service.NewUserService(userRepo)

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", user)
		c.Locals("userID", user.ID)
		return c.Next()
	})
	return app, s
}

func TestGetMyProfile(t *testing.T) {
	me := &models.User{ID: 1, Username: "me", Email: "me@example.com"}
	app, s := newUserTestServer(new(MockUserRepository), me)
	app.Get("/users/me", s.GetMyProfile)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var user map[string]any
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "me", user["username"])
	assert.NotContains(t, user, "password")
}

func TestUpdateMyProfile(t *testing.T) {
	hashed := mustHash(t, "OldPass123")

	me := func() *models.User {
		return &models.User{
			ID:        1,
			Username:  "me",
			Firstname: "Old",
			Lastname:  "Name",
			Email:     "me@example.com",
			Password:  hashed,
		}
	}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(repo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Rename only",
			body: map[string]string{"firstname": "New"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByID", mock.Anything, uint(1)).Return(me(), nil)
				repo.On("Update", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Password change with correct old password",
			body: map[string]string{"password": "NewPass123", "old_password": "OldPass123"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByID", mock.Anything, uint(1)).Return(me(), nil)
				repo.On("Update", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Password change with wrong old password",
			body: map[string]string{"password": "NewPass123", "old_password": "nope"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByID", mock.Anything, uint(1)).Return(me(), nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Username taken by someone else",
			body: map[string]string{"username": "taken"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByID", mock.Anything, uint(1)).Return(me(), nil)
				repo.On("GetByUsername", mock.Anything, "taken").Return(&models.User{ID: 2}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Email taken by someone else",
			body: map[string]string{"email": "other@example.com"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByID", mock.Anything, uint(1)).Return(me(), nil)
				repo.On("GetByEmail", mock.Anything, "other@example.com").Return(&models.User{ID: 2}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Invalid email",
			body: map[string]string{"email": "not-an-email"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByID", mock.Anything, uint(1)).Return(me(), nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			app, s := newUserTestServer(mockRepo, me())
			app.Put("/users/me", s.UpdateMyProfile)

			tt.mockSetup(mockRepo)
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPut, "/users/me", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestDeleteMyAccount(t *testing.T) {
	me := &models.User{ID: 1, Username: "me", Email: "me@example.com"}
	mockRepo := new(MockUserRepository)
	app, s := newUserTestServer(mockRepo, me)
	app.Delete("/users/me", s.DeleteMyAccount)

	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(me, nil)
	mockRepo.On("Delete", mock.Anything, uint(1)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/users/me", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockRepo.AssertCalled(t, "Delete", mock.Anything, uint(1))
}

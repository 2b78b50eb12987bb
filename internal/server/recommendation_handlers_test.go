package server

import (
	"bytes"
	"context"
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

// MockRecommendationRepository is a mock of the RecommendationRepository interface
type MockRecommendationRepository struct {
	mock.Mock
}

func (m *MockRecommendationRepository) GetByID(ctx context.Context, id uint) (*models.Recommendation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) Create(ctx context.Context, rec *models.Recommendation) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecommendationRepository) Update(ctx context.Context, rec *models.Recommendation) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecommendationRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecommendationRepository) ListByCV(ctx context.Context, cvID uint) ([]models.Recommendation, error) {
	args := m.Called(ctx, cvID)
	return args.Get(0).([]models.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.Recommendation, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).([]models.Recommendation), args.Error(1)
}

func newRecTestServer(recRepo *MockRecommendationRepository, cvRepo *MockCVRepository, user *models.User) (*fiber.App, *Server) {
	app := fiber.New()
	s := &Server{
		config:  &config.Config{JWTSecret: "test_secret"},
		tokens:  testTokens(),
		recRepo: recRepo,
		cvRepo:  cvRepo,
	}
	s.recService = service.NewRecommendationService(recRepo, cvRepo)

	if user != nil {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("user", user)
			c.Locals("userID", user.ID)
			return c.Next()
		})
	}
	return app, s
}

func TestCreateRecommendation(t *testing.T) {
	author := &models.User{ID: 2, Email: "author@example.com"}
	cv := &models.CV{ID: 10, OwnerID: 1, Visibility: models.VisibilityPublic}

	tests := []struct {
		name           string
		body           map[string]any
		mockSetup      func(recRepo *MockRecommendationRepository, cvRepo *MockCVRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]any{"cv_id": 10, "content": "Great colleague", "rating": 5},
			mockSetup: func(recRepo *MockRecommendationRepository, cvRepo *MockCVRepository) {
				cvRepo.On("GetByID", mock.Anything, uint(10)).Return(cv, nil)
				recRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Missing CV",
			body: map[string]any{"cv_id": 99, "content": "Great colleague", "rating": 5},
			mockSetup: func(recRepo *MockRecommendationRepository, cvRepo *MockCVRepository) {
				cvRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, models.NewNotFoundError("CV", 99))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Rating out of range",
			body:           map[string]any{"cv_id": 10, "content": "Meh", "rating": 6},
			mockSetup:      func(recRepo *MockRecommendationRepository, cvRepo *MockCVRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Rating zero",
			body:           map[string]any{"cv_id": 10, "content": "Meh", "rating": 0},
			mockSetup:      func(recRepo *MockRecommendationRepository, cvRepo *MockCVRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Empty content",
			body:           map[string]any{"cv_id": 10, "content": "", "rating": 3},
			mockSetup:      func(recRepo *MockRecommendationRepository, cvRepo *MockCVRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recRepo := new(MockRecommendationRepository)
			cvRepo := new(MockCVRepository)
			app, s := newRecTestServer(recRepo, cvRepo, author)
			app.Post("/recommendations", s.CreateRecommendation)

			tt.mockSetup(recRepo, cvRepo)
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/recommendations", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestCreateRecommendationSetsAuthorFromToken(t *testing.T) {
	author := &models.User{ID: 2, Email: "author@example.com"}
	recRepo := new(MockRecommendationRepository)
	cvRepo := new(MockCVRepository)
	app, s := newRecTestServer(recRepo, cvRepo, author)
	app.Post("/recommendations", s.CreateRecommendation)

	cvRepo.On("GetByID", mock.Anything, uint(10)).
		Return(&models.CV{ID: 10, OwnerID: 1, Visibility: models.VisibilityPublic}, nil)

	var created *models.Recommendation
	recRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.Recommendation)
		}).Return(nil)

	// A client-supplied author_id must be ignored.
	body, _ := json.Marshal(map[string]any{
		"cv_id": 10, "author_id": 999, "content": "Great colleague", "rating": 4,
	})
	req := httptest.NewRequest(http.MethodPost, "/recommendations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, uint(2), created.AuthorID)
}

func TestRecommendationMutationIsAuthorOnly(t *testing.T) {
	// CV 10 belongs to user 1; recommendation 5 on it was written by user 2.
	rec := &models.Recommendation{ID: 5, CVID: 10, AuthorID: 2, Content: "Solid work", Rating: 4}

	tests := []struct {
		name           string
		requester      *models.User
		method         string
		expectedStatus int
	}{
		{"Author can update", &models.User{ID: 2}, http.MethodPut, http.StatusOK},
		{"Author can delete", &models.User{ID: 2}, http.MethodDelete, http.StatusOK},
		{"CV owner cannot update", &models.User{ID: 1}, http.MethodPut, http.StatusForbidden},
		{"CV owner cannot delete", &models.User{ID: 1}, http.MethodDelete, http.StatusForbidden},
		{"Third party cannot delete", &models.User{ID: 3}, http.MethodDelete, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recRepo := new(MockRecommendationRepository)
			cvRepo := new(MockCVRepository)
			app, s := newRecTestServer(recRepo, cvRepo, tt.requester)
			app.Put("/recommendations/:id", s.UpdateRecommendation)
			app.Delete("/recommendations/:id", s.DeleteRecommendation)

			fresh := *rec
			recRepo.On("GetByID", mock.Anything, uint(5)).Return(&fresh, nil)
			recRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
			recRepo.On("Delete", mock.Anything, uint(5)).Return(nil)

			var req *http.Request
			if tt.method == http.MethodPut {
				body, _ := json.Marshal(map[string]any{"content": "Edited", "rating": 3})
				req = httptest.NewRequest(tt.method, "/recommendations/5", bytes.NewReader(body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, "/recommendations/5", nil)
			}

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusForbidden {
				recRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				recRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestGetCVRecommendations(t *testing.T) {
	requester := &models.User{ID: 3, Email: "reader@example.com"}

	t.Run("Success", func(t *testing.T) {
		recRepo := new(MockRecommendationRepository)
		cvRepo := new(MockCVRepository)
		app, s := newRecTestServer(recRepo, cvRepo, requester)
		app.Get("/cvs/:id/recommendations", s.GetCVRecommendations)

		cvRepo.On("GetByID", mock.Anything, uint(10)).
			Return(&models.CV{ID: 10, OwnerID: 1, Visibility: models.VisibilityPublic}, nil)
		recRepo.On("ListByCV", mock.Anything, uint(10)).Return([]models.Recommendation{
			{ID: 1, CVID: 10, AuthorID: 2, Content: "A", Rating: 5},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/cvs/10/recommendations", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Missing CV", func(t *testing.T) {
		recRepo := new(MockRecommendationRepository)
		cvRepo := new(MockCVRepository)
		app, s := newRecTestServer(recRepo, cvRepo, requester)
		app.Get("/cvs/:id/recommendations", s.GetCVRecommendations)

		cvRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, models.NewNotFoundError("CV", 99))

		req := httptest.NewRequest(http.MethodGet, "/cvs/99/recommendations", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetMyRecommendations(t *testing.T) {
	requester := &models.User{ID: 2, Email: "author@example.com"}
	recRepo := new(MockRecommendationRepository)
	app, s := newRecTestServer(recRepo, new(MockCVRepository), requester)
	app.Get("/recommendations/me", s.GetMyRecommendations)

	recRepo.On("ListByAuthor", mock.Anything, uint(2)).Return([]models.Recommendation{
		{ID: 1, CVID: 10, AuthorID: 2, Content: "A", Rating: 5},
		{ID: 2, CVID: 11, AuthorID: 2, Content: "B", Rating: 4},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/recommendations/me", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var recs []models.Recommendation
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&recs))
	assert.Len(t, recs, 2)
}

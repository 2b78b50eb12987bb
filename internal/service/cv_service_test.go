package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cvhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cvRepoStub is a stub for repository.CVRepository.
type cvRepoStub struct {
	getByIDFn     func(context.Context, uint) (*models.CV, error)
	createFn      func(context.Context, *models.CV) error
	updateFn      func(context.Context, *models.CV) error
	deleteFn      func(context.Context, uint) error
	listPublicFn  func(context.Context, int, int) ([]models.CV, error)
	listByOwnerFn func(context.Context, uint) ([]models.CV, error)
}

func (s *cvRepoStub) GetByID(ctx context.Context, id uint) (*models.CV, error) {
	return s.getByIDFn(ctx, id)
}
func (s *cvRepoStub) Create(ctx context.Context, cv *models.CV) error {
	return s.createFn(ctx, cv)
}
func (s *cvRepoStub) Update(ctx context.Context, cv *models.CV) error {
	return s.updateFn(ctx, cv)
}
func (s *cvRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *cvRepoStub) ListPublic(ctx context.Context, limit, offset int) ([]models.CV, error) {
	return s.listPublicFn(ctx, limit, offset)
}
func (s *cvRepoStub) ListByOwner(ctx context.Context, ownerID uint) ([]models.CV, error) {
	return s.listByOwnerFn(ctx, ownerID)
}

func noopCVRepo() *cvRepoStub {
	return &cvRepoStub{
		getByIDFn:     func(_ context.Context, _ uint) (*models.CV, error) { return &models.CV{}, nil },
		createFn:      func(_ context.Context, _ *models.CV) error { return nil },
		updateFn:      func(_ context.Context, _ *models.CV) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
		listPublicFn:  func(_ context.Context, _, _ int) ([]models.CV, error) { return nil, nil },
		listByOwnerFn: func(_ context.Context, _ uint) ([]models.CV, error) { return nil, nil },
	}
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestCVService_CreateCV_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCVService(noopCVRepo())
	ctx := context.Background()
	owner := &models.User{ID: 1}

	tests := []struct {
		name  string
		input CreateCVInput
	}{
		{
			name:  "empty title",
			input: CreateCVInput{Summary: "some summary"},
		},
		{
			name:  "title too long",
			input: CreateCVInput{Title: strings.Repeat("x", 201)},
		},
		{
			name:  "invalid visibility",
			input: CreateCVInput{Title: "CV", Visibility: "friends-only"},
		},
		{
			name:  "blank skill",
			input: CreateCVInput{Title: "CV", Skills: []string{"Go", ""}},
		},
		{
			name: "experience missing company",
			input: CreateCVInput{Title: "CV", Experiences: []models.Experience{
				{Position: "Dev", StartDate: "2020-01-01"},
			}},
		},
		{
			name: "experience bad date format",
			input: CreateCVInput{Title: "CV", Experiences: []models.Experience{
				{Company: "Acme", Position: "Dev", StartDate: "January 2020"},
			}},
		},
		{
			name: "experience end before start",
			input: CreateCVInput{Title: "CV", Experiences: []models.Experience{
				{Company: "Acme", Position: "Dev", StartDate: "2022-01-01", EndDate: "2020-01-01"},
			}},
		},
		{
			name: "education missing school",
			input: CreateCVInput{Title: "CV", Education: []models.Education{
				{Degree: "BSc", StartDate: "2012-09-01"},
			}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreateCV(ctx, owner, tc.input)
			assertValidationError(t, err)
		})
	}
}

func TestCVService_CreateCV_OwnerAndDefaults(t *testing.T) {
	t.Parallel()

	repo := noopCVRepo()
	var created *models.CV
	repo.createFn = func(_ context.Context, cv *models.CV) error {
		created = cv
		return nil
	}
	svc := NewCVService(repo)

	cv, err := svc.CreateCV(context.Background(), &models.User{ID: 42}, CreateCVInput{
		Title:  "Backend Engineer",
		Skills: []string{"Go"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), created.OwnerID)
	assert.Equal(t, models.VisibilityPublic, cv.Visibility)
}

func TestCVService_GetCV_Visibility(t *testing.T) {
	t.Parallel()

	privateCV := models.CV{ID: 5, OwnerID: 1, Visibility: models.VisibilityPrivate}
	publicCV := models.CV{ID: 6, OwnerID: 1, Visibility: models.VisibilityPublic}

	repo := noopCVRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.CV, error) {
		switch id {
		case 5:
			cv := privateCV
			return &cv, nil
		case 6:
			cv := publicCV
			return &cv, nil
		default:
			return nil, models.NewNotFoundError("CV", id)
		}
	}
	svc := NewCVService(repo)
	ctx := context.Background()

	t.Run("owner reads private", func(t *testing.T) {
		cv, err := svc.GetCV(ctx, 5, &models.User{ID: 1})
		require.NoError(t, err)
		assert.Equal(t, uint(5), cv.ID)
	})

	t.Run("non-owner denied private", func(t *testing.T) {
		_, err := svc.GetCV(ctx, 5, &models.User{ID: 2})
		assertForbiddenError(t, err)
	})

	t.Run("anonymous denied private", func(t *testing.T) {
		_, err := svc.GetCV(ctx, 5, nil)
		assertForbiddenError(t, err)
	})

	t.Run("anonymous reads public", func(t *testing.T) {
		cv, err := svc.GetCV(ctx, 6, nil)
		require.NoError(t, err)
		assert.Equal(t, uint(6), cv.ID)
	})

	t.Run("missing CV is not found, not forbidden", func(t *testing.T) {
		_, err := svc.GetCV(ctx, 99, &models.User{ID: 2})
		assertNotFoundError(t, err)
	})
}

func TestCVService_UpdateCV_PartialSemantics(t *testing.T) {
	t.Parallel()

	repo := noopCVRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.CV, error) {
		return &models.CV{
			ID:         id,
			OwnerID:    1,
			Title:      "Original",
			Summary:    "Original summary",
			Skills:     []string{"Go"},
			Visibility: models.VisibilityPublic,
		}, nil
	}
	var saved *models.CV
	repo.updateFn = func(_ context.Context, cv *models.CV) error {
		saved = cv
		return nil
	}
	svc := NewCVService(repo)

	newTitle := "Updated"
	newVisibility := models.VisibilityPrivate
	_, err := svc.UpdateCV(context.Background(), 5, &models.User{ID: 1}, UpdateCVInput{
		Title:      &newTitle,
		Visibility: &newVisibility,
	})
	require.NoError(t, err)

	// Provided fields overwrite; absent fields survive; owner never moves.
	assert.Equal(t, "Updated", saved.Title)
	assert.Equal(t, models.VisibilityPrivate, saved.Visibility)
	assert.Equal(t, "Original summary", saved.Summary)
	assert.Equal(t, []string{"Go"}, saved.Skills)
	assert.Equal(t, uint(1), saved.OwnerID)
}

func TestCVService_UpdateCV_OwnerOnly(t *testing.T) {
	t.Parallel()

	repo := noopCVRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.CV, error) {
		return &models.CV{ID: id, OwnerID: 1, Visibility: models.VisibilityPublic}, nil
	}
	updateCalled := false
	repo.updateFn = func(_ context.Context, _ *models.CV) error {
		updateCalled = true
		return nil
	}
	svc := NewCVService(repo)

	newTitle := "Hijacked"
	_, err := svc.UpdateCV(context.Background(), 5, &models.User{ID: 2}, UpdateCVInput{Title: &newTitle})
	assertForbiddenError(t, err)
	assert.False(t, updateCalled)
}

func TestCVService_DeleteCV_OwnerOnly(t *testing.T) {
	t.Parallel()

	repo := noopCVRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.CV, error) {
		return &models.CV{ID: id, OwnerID: 1, Visibility: models.VisibilityPrivate}, nil
	}
	deleteCalled := false
	repo.deleteFn = func(_ context.Context, _ uint) error {
		deleteCalled = true
		return nil
	}
	svc := NewCVService(repo)
	ctx := context.Background()

	err := svc.DeleteCV(ctx, 5, &models.User{ID: 2})
	assertForbiddenError(t, err)
	assert.False(t, deleteCalled)

	err = svc.DeleteCV(ctx, 5, &models.User{ID: 1})
	require.NoError(t, err)
	assert.True(t, deleteCalled)
}

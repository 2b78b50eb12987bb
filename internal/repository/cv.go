package repository

import (
	"context"
	"errors"

	"cvhub/internal/cache"
	"cvhub/internal/models"

	"gorm.io/gorm"
)

// CVRepository defines persistence operations for CVs.
type CVRepository interface {
	GetByID(ctx context.Context, id uint) (*models.CV, error)
	Create(ctx context.Context, cv *models.CV) error
	Update(ctx context.Context, cv *models.CV) error
	Delete(ctx context.Context, id uint) error
	// ListPublic returns public CVs, newest first.
	ListPublic(ctx context.Context, limit, offset int) ([]models.CV, error)
	// ListByOwner returns every CV owned by ownerID; an owner with no CVs
	// gets an empty slice, not an error.
	ListByOwner(ctx context.Context, ownerID uint) ([]models.CV, error)
}

type cvRepository struct {
	db *gorm.DB
}

// NewCVRepository returns a new CVRepository implementation.
func NewCVRepository(db *gorm.DB) CVRepository {
	return &cvRepository{db: db}
}

func (r *cvRepository) GetByID(ctx context.Context, id uint) (*models.CV, error) {
	var cv models.CV
	if err := r.db.WithContext(ctx).First(&cv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("CV", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &cv, nil
}

func (r *cvRepository) Create(ctx context.Context, cv *models.CV) error {
	if err := r.db.WithContext(ctx).Create(cv).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCV(ctx, cv.ID)
	return nil
}

func (r *cvRepository) Update(ctx context.Context, cv *models.CV) error {
	if err := r.db.WithContext(ctx).Save(cv).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCV(ctx, cv.ID)
	return nil
}

func (r *cvRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.CV{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("CV", id)
	}
	cache.InvalidateCV(ctx, id)
	return nil
}

func (r *cvRepository) ListPublic(ctx context.Context, limit, offset int) ([]models.CV, error) {
	cvs := []models.CV{}
	err := cache.Aside(ctx, cache.PublicCVsKey(limit, offset), &cvs, cache.PublicCVsTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("visibility = ?", models.VisibilityPublic).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&cvs).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cvs, nil
}

func (r *cvRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.CV, error) {
	cvs := []models.CV{}
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&cvs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return cvs, nil
}

package repository

import (
	"context"
	"errors"

	"cvhub/internal/models"

	"gorm.io/gorm"
)

// RecommendationRepository defines persistence operations for recommendations.
type RecommendationRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Recommendation, error)
	Create(ctx context.Context, rec *models.Recommendation) error
	Update(ctx context.Context, rec *models.Recommendation) error
	Delete(ctx context.Context, id uint) error
	ListByCV(ctx context.Context, cvID uint) ([]models.Recommendation, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Recommendation, error)
}

type recommendationRepository struct {
	db *gorm.DB
}

// NewRecommendationRepository returns a new RecommendationRepository implementation.
func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

func (r *recommendationRepository) GetByID(ctx context.Context, id uint) (*models.Recommendation, error) {
	var rec models.Recommendation
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recommendation", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &rec, nil
}

func (r *recommendationRepository) Create(ctx context.Context, rec *models.Recommendation) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *recommendationRepository) Update(ctx context.Context, rec *models.Recommendation) error {
	if err := r.db.WithContext(ctx).Save(rec).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *recommendationRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Recommendation{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Recommendation", id)
	}
	return nil
}

func (r *recommendationRepository) ListByCV(ctx context.Context, cvID uint) ([]models.Recommendation, error) {
	recs := []models.Recommendation{}
	if err := r.db.WithContext(ctx).
		Where("cv_id = ?", cvID).
		Order("created_at DESC").
		Find(&recs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return recs, nil
}

func (r *recommendationRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.Recommendation, error) {
	recs := []models.Recommendation{}
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&recs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return recs, nil
}

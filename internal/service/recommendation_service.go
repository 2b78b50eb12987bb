package service

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"cvhub/internal/middleware"
	"cvhub/internal/models"
	"cvhub/internal/policy"
	"cvhub/internal/repository"
)

// RecommendationService implements recommendation operations. Only the
// author of a recommendation may change or delete it; the owner of the CV
// it is attached to gets no special rights.
type RecommendationService struct {
	recRepo repository.RecommendationRepository
	cvRepo  repository.CVRepository
}

// NewRecommendationService returns a new RecommendationService.
func NewRecommendationService(recRepo repository.RecommendationRepository, cvRepo repository.CVRepository) *RecommendationService {
	return &RecommendationService{recRepo: recRepo, cvRepo: cvRepo}
}

// CreateRecommendationInput is the payload for leaving a recommendation on a
// CV. The author is always the authenticated user, never client input.
type CreateRecommendationInput struct {
	CVID    uint
	Content string
	Rating  int
}

// Validate checks the data shape of the input.
func (in CreateRecommendationInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.CVID, validation.Required),
		validation.Field(&in.Content, validation.Required, validation.Length(1, 5000)),
		validation.Field(&in.Rating, validation.Required, validation.Min(1), validation.Max(5)),
	)
	if err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

// UpdateRecommendationInput is the payload for a partial recommendation
// update. Nil fields keep their prior values.
type UpdateRecommendationInput struct {
	Content *string
	Rating  *int
}

// Validate checks the data shape of the provided fields.
func (in UpdateRecommendationInput) Validate() error {
	rules := []*validation.FieldRules{}
	if in.Content != nil {
		rules = append(rules, validation.Field(&in.Content, validation.Required, validation.Length(1, 5000)))
	}
	if in.Rating != nil {
		rules = append(rules, validation.Field(&in.Rating, validation.Required, validation.Min(1), validation.Max(5)))
	}
	if err := validation.ValidateStruct(&in, rules...); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

// Create leaves a recommendation on a CV. The referenced CV must exist at
// creation time; concurrent CV deletion can still leave a dangling
// reference, which is tolerated.
func (s *RecommendationService) Create(ctx context.Context, requester *models.User, in CreateRecommendationInput) (*models.Recommendation, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.cvRepo.GetByID(ctx, in.CVID); err != nil {
		return nil, err
	}

	rec := &models.Recommendation{
		CVID:     in.CVID,
		AuthorID: requester.ID,
		Content:  in.Content,
		Rating:   in.Rating,
	}
	if err := s.recRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get fetches a single recommendation.
func (s *RecommendationService) Get(ctx context.Context, id uint) (*models.Recommendation, error) {
	return s.recRepo.GetByID(ctx, id)
}

// ListByCV returns the recommendations on a CV. The CV must exist.
func (s *RecommendationService) ListByCV(ctx context.Context, cvID uint) ([]models.Recommendation, error) {
	if _, err := s.cvRepo.GetByID(ctx, cvID); err != nil {
		return nil, err
	}
	return s.recRepo.ListByCV(ctx, cvID)
}

// ListMine returns every recommendation authored by the requester.
func (s *RecommendationService) ListMine(ctx context.Context, requester *models.User) ([]models.Recommendation, error) {
	return s.recRepo.ListByAuthor(ctx, requester.ID)
}

// Update applies a partial update after confirming existence and authorship.
func (s *RecommendationService) Update(ctx context.Context, id uint, requester *models.User, in UpdateRecommendationInput) (*models.Recommendation, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.recRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutateRecommendation(rec, requester) {
		middleware.AuthzDenials.WithLabelValues("recommendation").Inc()
		return nil, models.NewForbiddenError("You are not authorized to update this recommendation")
	}

	if in.Content != nil {
		rec.Content = *in.Content
	}
	if in.Rating != nil {
		rec.Rating = *in.Rating
	}

	if err := s.recRepo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes a recommendation after confirming existence and authorship.
func (s *RecommendationService) Delete(ctx context.Context, id uint, requester *models.User) error {
	rec, err := s.recRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanMutateRecommendation(rec, requester) {
		middleware.AuthzDenials.WithLabelValues("recommendation").Inc()
		return models.NewForbiddenError("You are not authorized to delete this recommendation")
	}
	return s.recRepo.Delete(ctx, id)
}

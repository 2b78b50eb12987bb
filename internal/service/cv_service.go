// Package service contains the business logic between handlers and repositories.
package service

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"cvhub/internal/middleware"
	"cvhub/internal/models"
	"cvhub/internal/policy"
	"cvhub/internal/repository"
)

const dateLayout = "2006-01-02"

// CVService implements CV lifecycle operations with ownership enforcement.
type CVService struct {
	cvRepo repository.CVRepository
}

// NewCVService returns a new CVService.
func NewCVService(cvRepo repository.CVRepository) *CVService {
	return &CVService{cvRepo: cvRepo}
}

// CreateCVInput is the payload for creating a CV. The owner is never part of
// the input; it always comes from the authenticated user.
type CreateCVInput struct {
	Title       string
	Summary     string
	Skills      []string
	Experiences []models.Experience
	Education   []models.Education
	Visibility  models.Visibility
}

// Validate checks the data shape of the input.
func (in CreateCVInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Summary, validation.Length(0, 5000)),
		validation.Field(&in.Skills, validation.Each(validation.Required, validation.Length(1, 100))),
		validation.Field(&in.Visibility, validation.In(models.VisibilityPublic, models.VisibilityPrivate)),
	)
	if err != nil {
		return models.NewValidationError(err.Error())
	}
	for _, exp := range in.Experiences {
		if err := validateExperience(exp); err != nil {
			return models.NewValidationError("experience: " + err.Error())
		}
	}
	for _, edu := range in.Education {
		if err := validateEducation(edu); err != nil {
			return models.NewValidationError("education: " + err.Error())
		}
	}
	return nil
}

// UpdateCVInput is the payload for a partial CV update. Nil fields keep
// their prior values; the owner is immutable and not part of the input.
type UpdateCVInput struct {
	Title       *string
	Summary     *string
	Skills      *[]string
	Experiences *[]models.Experience
	Education   *[]models.Education
	Visibility  *models.Visibility
}

// Validate checks the data shape of the provided fields.
func (in UpdateCVInput) Validate() error {
	rules := []*validation.FieldRules{}
	if in.Title != nil {
		rules = append(rules, validation.Field(&in.Title, validation.Required, validation.Length(1, 200)))
	}
	if in.Summary != nil {
		rules = append(rules, validation.Field(&in.Summary, validation.Length(0, 5000)))
	}
	if in.Skills != nil {
		rules = append(rules, validation.Field(&in.Skills, validation.Each(validation.Required, validation.Length(1, 100))))
	}
	if in.Visibility != nil {
		rules = append(rules, validation.Field(&in.Visibility, validation.Required, validation.In(models.VisibilityPublic, models.VisibilityPrivate)))
	}
	if err := validation.ValidateStruct(&in, rules...); err != nil {
		return models.NewValidationError(err.Error())
	}
	if in.Experiences != nil {
		for _, exp := range *in.Experiences {
			if err := validateExperience(exp); err != nil {
				return models.NewValidationError("experience: " + err.Error())
			}
		}
	}
	if in.Education != nil {
		for _, edu := range *in.Education {
			if err := validateEducation(edu); err != nil {
				return models.NewValidationError("education: " + err.Error())
			}
		}
	}
	return nil
}

func validateExperience(e models.Experience) error {
	if err := validation.ValidateStruct(&e,
		validation.Field(&e.Company, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Position, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.StartDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&e.EndDate, validation.Date(dateLayout)),
		validation.Field(&e.Description, validation.Length(0, 2000)),
	); err != nil {
		return err
	}
	return validateDateOrder(e.StartDate, e.EndDate)
}

func validateEducation(e models.Education) error {
	if err := validation.ValidateStruct(&e,
		validation.Field(&e.School, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Degree, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.StartDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&e.EndDate, validation.Date(dateLayout)),
	); err != nil {
		return err
	}
	return validateDateOrder(e.StartDate, e.EndDate)
}

// validateDateOrder rejects an end date earlier than the start date. Both
// dates have already passed format validation; an empty end date means the
// entry is ongoing.
func validateDateOrder(start, end string) error {
	if end == "" {
		return nil
	}
	startAt, err := time.Parse(dateLayout, start)
	if err != nil {
		return err
	}
	endAt, err := time.Parse(dateLayout, end)
	if err != nil {
		return err
	}
	if endAt.Before(startAt) {
		return fmt.Errorf("end_date must not be before start_date")
	}
	return nil
}

// CreateCV creates a CV owned by the requester.
func (s *CVService) CreateCV(ctx context.Context, requester *models.User, in CreateCVInput) (*models.CV, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	cv := &models.CV{
		OwnerID:     requester.ID,
		Title:       in.Title,
		Summary:     in.Summary,
		Skills:      in.Skills,
		Experiences: in.Experiences,
		Education:   in.Education,
		Visibility:  visibility,
	}
	if err := s.cvRepo.Create(ctx, cv); err != nil {
		return nil, err
	}
	return cv, nil
}

// GetCV fetches a CV and enforces the read policy. Existence is confirmed
// before authorization: a missing CV is NotFound for everyone, an existing
// private CV is Forbidden for non-owners (authenticated or not).
func (s *CVService) GetCV(ctx context.Context, id uint, requester *models.User) (*models.CV, error) {
	cv, err := s.cvRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadCV(cv, requester) {
		middleware.AuthzDenials.WithLabelValues("cv").Inc()
		return nil, models.NewForbiddenError("You are not authorized to view this CV")
	}
	return cv, nil
}

// ListPublicCVs returns the public CV listing.
func (s *CVService) ListPublicCVs(ctx context.Context, limit, offset int) ([]models.CV, error) {
	return s.cvRepo.ListPublic(ctx, limit, offset)
}

// ListMyCVs returns every CV owned by the requester, public or private.
func (s *CVService) ListMyCVs(ctx context.Context, requester *models.User) ([]models.CV, error) {
	return s.cvRepo.ListByOwner(ctx, requester.ID)
}

// UpdateCV applies a partial update to a CV after confirming existence and
// ownership. Omitted fields keep their prior values; OwnerID never changes.
func (s *CVService) UpdateCV(ctx context.Context, id uint, requester *models.User, in UpdateCVInput) (*models.CV, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	cv, err := s.cvRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutateCV(cv, requester) {
		middleware.AuthzDenials.WithLabelValues("cv").Inc()
		return nil, models.NewForbiddenError("You are not authorized to update this CV")
	}

	if in.Title != nil {
		cv.Title = *in.Title
	}
	if in.Summary != nil {
		cv.Summary = *in.Summary
	}
	if in.Skills != nil {
		cv.Skills = *in.Skills
	}
	if in.Experiences != nil {
		cv.Experiences = *in.Experiences
	}
	if in.Education != nil {
		cv.Education = *in.Education
	}
	if in.Visibility != nil {
		cv.Visibility = *in.Visibility
	}

	if err := s.cvRepo.Update(ctx, cv); err != nil {
		return nil, err
	}
	return cv, nil
}

// DeleteCV deletes a CV after confirming existence and ownership.
// Recommendations referencing the CV are left in place (dangling references
// are tolerated, matching account deletion).
func (s *CVService) DeleteCV(ctx context.Context, id uint, requester *models.User) error {
	cv, err := s.cvRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanMutateCV(cv, requester) {
		middleware.AuthzDenials.WithLabelValues("cv").Inc()
		return models.NewForbiddenError("You are not authorized to delete this CV")
	}
	return s.cvRepo.Delete(ctx, id)
}

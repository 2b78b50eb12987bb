package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"cvhub/internal/middleware"
	"cvhub/internal/models"
	"cvhub/internal/policy"
	"cvhub/internal/repository"
	"cvhub/internal/validation"
)

// UserService implements account profile operations.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateProfileInput is a partial profile update. Empty fields keep their
// prior values. Changing the password requires OldPassword to match the
// stored hash; the other fields need no proof.
type UpdateProfileInput struct {
	Username    string
	Firstname   string
	Lastname    string
	Email       string
	Password    string
	OldPassword string
}

// GetUser fetches a user by id.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies a partial update to the requester's own profile.
// Username and email uniqueness are re-checked against other users before
// saving; the database's unique indexes remain the backstop.
func (s *UserService) UpdateProfile(ctx context.Context, requester *models.User, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, requester.ID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" && in.Username != user.Username {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		existing, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, models.NewConflictError("Username already taken")
		}
		user.Username = in.Username
	}
	if in.Email != "" && in.Email != user.Email {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		existing, err := s.userRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, models.NewConflictError("Email already taken")
		}
		user.Email = in.Email
	}
	if in.Firstname != "" {
		if err := validation.ValidateName("firstname", in.Firstname); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Firstname = in.Firstname
	}
	if in.Lastname != "" {
		if err := validation.ValidateName("lastname", in.Lastname); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Lastname = in.Lastname
	}

	if in.Password != "" {
		// Changing the password requires proof of the current one.
		if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.OldPassword)); cmpErr != nil {
			middleware.AuthFailures.WithLabelValues("password_proof").Inc()
			return nil, models.NewUnauthorizedError("Current password is incorrect")
		}
		if err := validation.ValidatePassword(in.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, models.NewInternalError(hashErr)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the target account. Deletion is self-service only;
// the target's CVs and recommendations are intentionally left behind
// (reads of those surface a missing owner, which callers tolerate).
func (s *UserService) DeleteAccount(ctx context.Context, targetID uint, requester *models.User) error {
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteUser(target, requester) {
		middleware.AuthzDenials.WithLabelValues("user").Inc()
		return models.NewForbiddenError("You are not authorized to delete this user")
	}
	return s.userRepo.Delete(ctx, targetID)
}

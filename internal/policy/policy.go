// Package policy contains the pure authorization decisions for the platform.
// Every function here is side-effect free: callers confirm the resource
// exists first, then ask the policy whether the requester may act on it.
package policy

import (
	"cvhub/internal/models"
)

// CanReadCV reports whether requester may read cv. Public CVs are readable
// by anyone, including unauthenticated requesters (nil). Private CVs are
// readable by their owner only.
func CanReadCV(cv *models.CV, requester *models.User) bool {
	if cv.Visibility == models.VisibilityPublic {
		return true
	}
	return requester != nil && requester.ID == cv.OwnerID
}

// CanMutateCV reports whether requester may update or delete cv. Mutation is
// owner-only regardless of visibility.
func CanMutateCV(cv *models.CV, requester *models.User) bool {
	return requester != nil && requester.ID == cv.OwnerID
}

// CanMutateRecommendation reports whether requester may update or delete rec.
// Only the recommendation's author qualifies; the owner of the CV it is
// attached to has no mutation rights over it.
func CanMutateRecommendation(rec *models.Recommendation, requester *models.User) bool {
	return requester != nil && requester.ID == rec.AuthorID
}

// CanDeleteUser reports whether requester may delete the target account.
// Deletion is self-service only; there is no admin override.
func CanDeleteUser(target *models.User, requester *models.User) bool {
	return requester != nil && target != nil && requester.ID == target.ID
}

package reconcile

import (
	"context"

	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/repositories"
)

// match returns the contacts sharing either identifier, oldest first.
func match(ctx context.Context, repo *repositories.ContactRepository, identity models.Identity) ([]models.Contact, error) {
	return repo.FindMatches(ctx, identity.Email, identity.PhoneNumber)
}

package reconcile

import (
	"context"
	"time"

	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/repositories"
)

// introducesNew reports whether identity carries an email or phone number not yet held by any member.
func introducesNew(members []models.Contact, identity models.Identity) bool {
	return (identity.Email.Usable() && !hasEmail(members, identity.Email.V)) ||
		(identity.PhoneNumber.Usable() && !hasPhone(members, identity.PhoneNumber.V))
}

func hasEmail(members []models.Contact, email string) bool {
	for _, c := range members {
		if c.Email.Is(email) {
			return true
		}
	}
	return false
}

func hasPhone(members []models.Contact, phone string) bool {
	for _, c := range members {
		if c.PhoneNumber.Is(phone) {
			return true
		}
	}
	return false
}

func (e *Engine) createPrimary(ctx context.Context, repo *repositories.ContactRepository, identity models.Identity, now time.Time) (*models.Contact, error) {
	c := models.NewPrimary(identity.Email, identity.PhoneNumber, now)
	if err := repo.Insert(ctx, c); err != nil {
		return nil, err
	}
	e.logger.Debug("created primary", "id", c.ID)
	return c, nil
}

// createSecondary links a new row carrying both supplied identifiers to primaryID.
func (e *Engine) createSecondary(ctx context.Context, repo *repositories.ContactRepository, identity models.Identity, primaryID int64, now time.Time) (*models.Contact, error) {
	c := models.NewSecondary(identity.Email, identity.PhoneNumber, primaryID, now)
	if err := repo.Insert(ctx, c); err != nil {
		return nil, err
	}
	e.logger.Debug("created secondary", "id", c.ID, "primary", primaryID)
	return c, nil
}

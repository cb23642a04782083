package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/repositories"
	"github.com/desertthunder/recon/internal/shared"
)

// primaryIDs collects the distinct cluster roots referenced by contacts, in first-seen order.
func primaryIDs(contacts []models.Contact) []int64 {
	seen := make(map[int64]struct{}, len(contacts))
	ids := make([]int64, 0, len(contacts))
	for _, c := range contacts {
		id := c.PrimaryID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// canonical picks the oldest primary in members, breaking createdAt ties by the smaller id.
func canonical(members []models.Contact) (models.Contact, bool) {
	var (
		best  models.Contact
		found bool
	)
	for _, c := range members {
		if !c.IsPrimary() {
			continue
		}
		if !found || older(c, best) {
			best, found = c, true
		}
	}
	return best, found
}

func older(a, b models.Contact) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// resolve loads every cluster touched by matches and merges them into the one with the oldest primary.
//
// The other primaries become secondaries of the canonical one and their children are re-pointed at it,
// so no linkedId chain is ever longer than one hop.
func (e *Engine) resolve(ctx context.Context, repo *repositories.ContactRepository, matches []models.Contact, now time.Time) (models.Contact, error) {
	roots := primaryIDs(matches)

	members, err := repo.FindCluster(ctx, roots)
	if err != nil {
		return models.Contact{}, err
	}

	primary, ok := canonical(members)
	if !ok {
		return models.Contact{}, fmt.Errorf("%w: no primary among clusters %v", shared.ErrInvariantViolation, roots)
	}

	var demoted []int64
	for _, c := range members {
		if c.IsPrimary() && c.ID != primary.ID {
			demoted = append(demoted, c.ID)
		}
	}
	if len(demoted) == 0 {
		return primary, nil
	}

	if _, err := repo.DemoteToSecondary(ctx, demoted, primary.ID, now); err != nil {
		return models.Contact{}, err
	}
	moved, err := repo.Reparent(ctx, demoted, primary.ID, now)
	if err != nil {
		return models.Contact{}, err
	}

	e.logger.Info("merged clusters", "primary", primary.ID, "demoted", demoted, "reparented", moved)
	return primary, nil
}

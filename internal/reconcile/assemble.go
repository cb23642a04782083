package reconcile

import (
	"fmt"
	"sort"

	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/shared"
)

// assemble builds the public view of a single cluster.
//
// members must hold exactly one primary. Emails and phone numbers list the primary's value first, then
// each secondary's in creation order, without duplicates or absent values.
func assemble(members []models.Contact) (*models.ClusterView, error) {
	ordered := make([]models.Contact, len(members))
	copy(ordered, members)
	sort.SliceStable(ordered, func(i, j int) bool { return older(ordered[i], ordered[j]) })

	var (
		primary   models.Contact
		primaries int
	)
	secondaries := make([]models.Contact, 0, len(ordered))
	for _, c := range ordered {
		if c.IsPrimary() {
			primary = c
			primaries++
			continue
		}
		secondaries = append(secondaries, c)
	}
	if primaries != 1 {
		return nil, fmt.Errorf("%w: cluster has %d primaries", shared.ErrInvariantViolation, primaries)
	}

	view := &models.ClusterView{
		PrimaryContactID:    primary.ID,
		Emails:              []string{},
		PhoneNumbers:        []string{},
		SecondaryContactIDs: make([]int64, 0, len(secondaries)),
	}

	emails := newCollector(&view.Emails)
	phones := newCollector(&view.PhoneNumbers)
	emails.add(primary.Email)
	phones.add(primary.PhoneNumber)

	for _, s := range secondaries {
		if s.PrimaryID() != primary.ID {
			return nil, fmt.Errorf("%w: contact %d links to %d, not %d", shared.ErrInvariantViolation, s.ID, s.PrimaryID(), primary.ID)
		}
		emails.add(s.Email)
		phones.add(s.PhoneNumber)
		view.SecondaryContactIDs = append(view.SecondaryContactIDs, s.ID)
	}

	return view, nil
}

// collector appends usable values to a slice once each.
type collector struct {
	out  *[]string
	seen map[string]struct{}
}

func newCollector(out *[]string) *collector {
	return &collector{out: out, seen: make(map[string]struct{})}
}

func (c *collector) add(v models.Optional) {
	if !v.Usable() {
		return
	}
	if _, ok := c.seen[v.V]; ok {
		return
	}
	c.seen[v.V] = struct{}{}
	*c.out = append(*c.out, v.V)
}

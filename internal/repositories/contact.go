package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"

	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/shared"
)

const contactsTable = "contacts"

var contactColumns = []string{
	"id", "email", "phone_number", "linked_id", "link_precedence", "created_at", "updated_at", "deleted_at",
}

// ContactRepository persists [models.Contact] rows.
type ContactRepository struct {
	q Querier
}

// NewContactRepository creates a new [ContactRepository] bound to q.
func NewContactRepository(q Querier) *ContactRepository {
	return &ContactRepository{q: q}
}

func (r *ContactRepository) selectContacts() *sqlbuilder.SelectBuilder {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(contactColumns...)
	sb.From(contactsTable)
	return sb
}

// FindMatches returns every live contact whose email equals email or whose phone number equals phone,
// oldest first. Absent or empty identifiers never match.
func (r *ContactRepository) FindMatches(ctx context.Context, email, phone models.Optional) ([]models.Contact, error) {
	sb := r.selectContacts()

	var match []string
	if email.Usable() {
		match = append(match, sb.Equal("email", email.V))
	}
	if phone.Usable() {
		match = append(match, sb.Equal("phone_number", phone.V))
	}
	if len(match) == 0 {
		return []models.Contact{}, nil
	}

	sb.Where(sb.Or(match...), sb.IsNull("deleted_at"))
	sb.OrderBy("created_at", "id").Asc()

	query, args := sb.Build()
	contacts := []models.Contact{}
	if err := r.q.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, persistenceError("find matching contacts", err)
	}
	return contacts, nil
}

// FindCluster returns the live members of the clusters rooted at primaryIDs: the roots themselves
// and every contact linked to one of them, oldest first.
func (r *ContactRepository) FindCluster(ctx context.Context, primaryIDs []int64) ([]models.Contact, error) {
	if len(primaryIDs) == 0 {
		return []models.Contact{}, nil
	}

	sb := r.selectContacts()
	ids := sqlbuilder.Flatten(primaryIDs)
	sb.Where(
		sb.Or(sb.In("id", ids...), sb.In("linked_id", ids...)),
		sb.IsNull("deleted_at"),
	)
	sb.OrderBy("created_at", "id").Asc()

	query, args := sb.Build()
	contacts := []models.Contact{}
	if err := r.q.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, persistenceError("load cluster", err)
	}
	return contacts, nil
}

// Insert stores c and sets its ID from the generated key.
func (r *ContactRepository) Insert(ctx context.Context, c *models.Contact) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvariantViolation, err)
	}

	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()

	ib := sqlbuilder.SQLite.NewInsertBuilder()
	ib.InsertInto(contactsTable)
	ib.Cols("email", "phone_number", "linked_id", "link_precedence", "created_at", "updated_at")
	ib.Values(c.Email, c.PhoneNumber, c.LinkedID, string(c.LinkPrecedence), c.CreatedAt, c.UpdatedAt)

	query, args := ib.Build()
	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return persistenceError("insert contact", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return persistenceError("read inserted contact id", err)
	}
	c.ID = id
	return nil
}

// DemoteToSecondary turns the primaries in ids into secondaries of primaryID.
//
// Returns the number of rows changed.
func (r *ContactRepository) DemoteToSecondary(ctx context.Context, ids []int64, primaryID int64, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	ub := sqlbuilder.SQLite.NewUpdateBuilder()
	ub.Update(contactsTable)
	ub.Set(
		ub.Assign("link_precedence", string(models.Secondary)),
		ub.Assign("linked_id", primaryID),
		ub.Assign("updated_at", now.UTC()),
	)
	ub.Where(
		ub.In("id", sqlbuilder.Flatten(ids)...),
		ub.NotEqual("id", primaryID),
		ub.IsNull("deleted_at"),
	)

	return r.exec(ctx, "demote primaries", ub)
}

// Reparent points every secondary linked to one of fromIDs at primaryID instead.
//
// Returns the number of rows changed.
func (r *ContactRepository) Reparent(ctx context.Context, fromIDs []int64, primaryID int64, now time.Time) (int64, error) {
	if len(fromIDs) == 0 {
		return 0, nil
	}

	ub := sqlbuilder.SQLite.NewUpdateBuilder()
	ub.Update(contactsTable)
	ub.Set(
		ub.Assign("linked_id", primaryID),
		ub.Assign("updated_at", now.UTC()),
	)
	ub.Where(
		ub.In("linked_id", sqlbuilder.Flatten(fromIDs)...),
		ub.NotEqual("id", primaryID),
		ub.IsNull("deleted_at"),
	)

	return r.exec(ctx, "re-parent secondaries", ub)
}

func (r *ContactRepository) exec(ctx context.Context, op string, b sqlbuilder.Builder) (int64, error) {
	query, args := b.Build()
	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, persistenceError(op, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, persistenceError(op, err)
	}
	return n, nil
}

// Get retrieves a live contact by ID.
func (r *ContactRepository) Get(ctx context.Context, id int64) (*models.Contact, error) {
	sb := r.selectContacts()
	sb.Where(sb.Equal("id", id), sb.IsNull("deleted_at"))

	query, args := sb.Build()
	var contact models.Contact
	if err := r.q.GetContext(ctx, &contact, query, args...); err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: %d", shared.ErrContactNotFound, id)
		}
		return nil, persistenceError("get contact", err)
	}
	return &contact, nil
}

// ListPrimaries returns live primary contacts oldest first. A non-positive limit returns every primary.
func (r *ContactRepository) ListPrimaries(ctx context.Context, limit, offset int) ([]models.Contact, error) {
	sb := r.selectContacts()
	sb.Where(sb.Equal("link_precedence", string(models.Primary)), sb.IsNull("deleted_at"))
	sb.OrderBy("created_at", "id").Asc()
	if limit > 0 {
		sb.Limit(limit)
		if offset > 0 {
			sb.Offset(offset)
		}
	}

	query, args := sb.Build()
	contacts := []models.Contact{}
	if err := r.q.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, persistenceError("list primaries", err)
	}
	return contacts, nil
}

// CountPrimaries returns the number of live clusters.
func (r *ContactRepository) CountPrimaries(ctx context.Context) (int, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From(contactsTable)
	sb.Where(sb.Equal("link_precedence", string(models.Primary)), sb.IsNull("deleted_at"))

	query, args := sb.Build()
	var count int
	if err := r.q.GetContext(ctx, &count, query, args...); err != nil {
		return 0, persistenceError("count primaries", err)
	}
	return count, nil
}

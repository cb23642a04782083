package models

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// LinkPrecedence is the role of a contact within its cluster.
type LinkPrecedence string

const (
	Primary   LinkPrecedence = "primary"
	Secondary LinkPrecedence = "secondary"
)

// Valid reports whether p is a known precedence.
func (p LinkPrecedence) Valid() bool {
	return p == Primary || p == Secondary
}

// Contact is a single stored observation of an email and/or phone number.
//
// Secondaries reference their primary directly through LinkedID; chains are never stored.
type Contact struct {
	ID             int64          `db:"id"`
	Email          Optional       `db:"email"`
	PhoneNumber    Optional       `db:"phone_number"`
	LinkedID       sql.NullInt64  `db:"linked_id"`
	LinkPrecedence LinkPrecedence `db:"link_precedence"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      sql.NullTime   `db:"deleted_at"`
}

// NewPrimary creates an unsaved primary contact.
func NewPrimary(email, phone Optional, now time.Time) *Contact {
	return &Contact{
		Email:          email.Compact(),
		PhoneNumber:    phone.Compact(),
		LinkPrecedence: Primary,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NewSecondary creates an unsaved secondary contact linked to primaryID.
func NewSecondary(email, phone Optional, primaryID int64, now time.Time) *Contact {
	return &Contact{
		Email:          email.Compact(),
		PhoneNumber:    phone.Compact(),
		LinkedID:       sql.NullInt64{Int64: primaryID, Valid: true},
		LinkPrecedence: Secondary,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (c Contact) Key() int64         { return c.ID }
func (c Contact) Created() time.Time { return c.CreatedAt }
func (c Contact) Updated() time.Time { return c.UpdatedAt }

// IsPrimary reports whether the contact is the root of its cluster.
func (c Contact) IsPrimary() bool {
	return c.LinkPrecedence == Primary
}

// PrimaryID returns the id of the cluster root this contact belongs to.
func (c Contact) PrimaryID() int64 {
	if c.IsPrimary() || !c.LinkedID.Valid {
		return c.ID
	}
	return c.LinkedID.Int64
}

// Validate checks the link invariants of a single row.
func (c Contact) Validate() error {
	if !c.LinkPrecedence.Valid() {
		return fmt.Errorf("invalid link precedence %q", c.LinkPrecedence)
	}
	if !c.Email.Usable() && !c.PhoneNumber.Usable() {
		return fmt.Errorf("contact requires an email or phone number")
	}
	switch c.LinkPrecedence {
	case Primary:
		if c.LinkedID.Valid {
			return fmt.Errorf("primary contact %d must not be linked", c.ID)
		}
	case Secondary:
		if !c.LinkedID.Valid {
			return fmt.Errorf("secondary contact %d must be linked to a primary", c.ID)
		}
		if c.ID != 0 && c.LinkedID.Int64 == c.ID {
			return fmt.Errorf("contact %d cannot link to itself", c.ID)
		}
	}
	return nil
}

// contactJSON is the wire shape of a [Contact].
type contactJSON struct {
	ID             int64          `json:"id"`
	Email          Optional       `json:"email"`
	PhoneNumber    Optional       `json:"phoneNumber"`
	LinkedID       *int64         `json:"linkedId"`
	LinkPrecedence LinkPrecedence `json:"linkPrecedence"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      *time.Time     `json:"deletedAt"`
}

func (c Contact) MarshalJSON() ([]byte, error) {
	out := contactJSON{
		ID:             c.ID,
		Email:          c.Email,
		PhoneNumber:    c.PhoneNumber,
		LinkPrecedence: c.LinkPrecedence,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	if c.LinkedID.Valid {
		id := c.LinkedID.Int64
		out.LinkedID = &id
	}
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		out.DeletedAt = &t
	}
	return json.Marshal(out)
}

func (c *Contact) UnmarshalJSON(data []byte) error {
	var in contactJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.LinkPrecedence != "" && !in.LinkPrecedence.Valid() {
		return fmt.Errorf("invalid link precedence %q", in.LinkPrecedence)
	}

	*c = Contact{
		ID:             in.ID,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		LinkPrecedence: in.LinkPrecedence,
		CreatedAt:      in.CreatedAt,
		UpdatedAt:      in.UpdatedAt,
	}
	if in.LinkedID != nil {
		c.LinkedID = sql.NullInt64{Int64: *in.LinkedID, Valid: true}
	}
	if in.DeletedAt != nil {
		c.DeletedAt = sql.NullTime{Time: *in.DeletedAt, Valid: true}
	}
	return nil
}

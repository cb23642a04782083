package models

import (
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestOptional(t *testing.T) {
	t.Run("Usable", func(t *testing.T) {
		tc := []struct {
			name string
			opt  Optional
			want bool
		}{
			{name: "absent", opt: None(), want: false},
			{name: "present but empty", opt: Some(""), want: false},
			{name: "present", opt: Some("a@x.com"), want: true},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if got := tt.opt.Usable(); got != tt.want {
					t.Errorf("Usable() = %v, want %v", got, tt.want)
				}
			})
		}
	})

	t.Run("Empty and absent are distinct", func(t *testing.T) {
		empty := Some("")
		if _, ok := empty.Get(); !ok {
			t.Error("expected empty value to be present")
		}
		if _, ok := None().Get(); ok {
			t.Error("expected None to be absent")
		}
		if empty.Compact().Valid {
			t.Error("expected Compact to drop empty value")
		}
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := json.Marshal(struct {
			A Optional `json:"a"`
			B Optional `json:"b"`
		}{A: Some("x"), B: None()})
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != `{"a":"x","b":null}` {
			t.Errorf("unexpected JSON: %s", data)
		}

		var out struct {
			A Optional `json:"a"`
			B Optional `json:"b"`
		}
		if err := json.Unmarshal([]byte(`{"a":"","b":null}`), &out); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if !out.A.Valid || out.A.V != "" {
			t.Errorf("expected present empty string, got %+v", out.A)
		}
		if out.B.Valid {
			t.Error("expected null to decode as absent")
		}
	})
}

func TestContact(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("NewPrimary", func(t *testing.T) {
		c := NewPrimary(Some("a@x.com"), Some(""), now)
		if !c.IsPrimary() {
			t.Error("expected primary precedence")
		}
		if c.PhoneNumber.Valid {
			t.Error("expected empty phone number to be stored as absent")
		}
		if err := c.Validate(); err != nil {
			t.Errorf("unexpected validation error: %v", err)
		}
	})

	t.Run("NewSecondary", func(t *testing.T) {
		c := NewSecondary(Some("a@x.com"), Some("111"), 7, now)
		c.ID = 9
		if c.IsPrimary() {
			t.Error("expected secondary precedence")
		}
		if c.PrimaryID() != 7 {
			t.Errorf("expected primary id 7, got %d", c.PrimaryID())
		}
		if err := c.Validate(); err != nil {
			t.Errorf("unexpected validation error: %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			contact Contact
		}{
			{name: "unknown precedence", contact: Contact{Email: Some("a"), LinkPrecedence: "tertiary"}},
			{name: "no identifiers", contact: Contact{LinkPrecedence: Primary}},
			{name: "linked primary", contact: Contact{Email: Some("a"), LinkPrecedence: Primary, LinkedID: sql.NullInt64{Int64: 1, Valid: true}}},
			{name: "unlinked secondary", contact: Contact{Email: Some("a"), LinkPrecedence: Secondary}},
			{name: "self link", contact: Contact{ID: 3, Email: Some("a"), LinkPrecedence: Secondary, LinkedID: sql.NullInt64{Int64: 3, Valid: true}}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if err := tt.contact.Validate(); err == nil {
					t.Error("expected validation error")
				}
			})
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		c := NewSecondary(None(), Some("111"), 1, now)
		c.ID = 2

		data, err := json.Marshal(c)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		for _, want := range []string{`"id":2`, `"email":null`, `"phoneNumber":"111"`, `"linkedId":1`, `"linkPrecedence":"secondary"`, `"deletedAt":null`} {
			if !strings.Contains(string(data), want) {
				t.Errorf("expected %s in %s", want, data)
			}
		}
	})

	t.Run("UnmarshalJSON", func(t *testing.T) {
		in := NewSecondary(Some("a@x.com"), None(), 1, now)
		in.ID = 2

		data, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		var out Contact
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if out.ID != 2 || !out.Email.Is("a@x.com") || out.PhoneNumber.Valid {
			t.Errorf("identifiers not restored: %+v", out)
		}
		if !out.LinkedID.Valid || out.LinkedID.Int64 != 1 || out.LinkPrecedence != Secondary {
			t.Errorf("link not restored: %+v", out)
		}
		if !out.CreatedAt.Equal(now) || out.DeletedAt.Valid {
			t.Errorf("timestamps not restored: %+v", out)
		}

		if err := json.Unmarshal([]byte(`{"id":1,"linkPrecedence":"boss"}`), &out); err == nil {
			t.Error("expected error for unknown link precedence")
		}
	})
}

func TestIdentity(t *testing.T) {
	if !NewIdentity("", "").Empty() {
		t.Error("expected identity with empty strings to be empty")
	}
	if NewIdentity("", "123").Empty() {
		t.Error("expected identity with phone number to be non-empty")
	}

	id := Identity{Email: Some(""), PhoneNumber: Some("1")}.Compact()
	if id.Email.Valid {
		t.Error("expected Compact to drop empty email")
	}
}

func TestClusterPrimary(t *testing.T) {
	c := &Cluster{Contacts: []Contact{
		{ID: 2, LinkPrecedence: Secondary},
		{ID: 1, LinkPrecedence: Primary},
	}}

	p, ok := c.Primary()
	if !ok || p.ID != 1 {
		t.Errorf("expected primary 1, got %d (ok=%v)", p.ID, ok)
	}

	if _, ok := (&Cluster{}).Primary(); ok {
		t.Error("expected no primary in empty cluster")
	}
}

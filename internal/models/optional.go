package models

import (
	"bytes"
	"database/sql"
	"encoding/json"
)

// Optional is a string identifier that may be absent.
//
// A present-but-empty value is distinct from an absent one. Callers that only care whether a value
// can be matched on should use [Optional.Usable].
type Optional struct {
	sql.Null[string]
}

// Some returns a present [Optional] holding v.
func Some(v string) Optional {
	return Optional{sql.Null[string]{V: v, Valid: true}}
}

// None returns an absent [Optional].
func None() Optional {
	return Optional{}
}

// Get returns the value and whether it is present.
func (o Optional) Get() (string, bool) {
	return o.V, o.Valid
}

// Usable reports whether the value is present and non-empty.
func (o Optional) Usable() bool {
	return o.Valid && o.V != ""
}

// Is reports whether the value is present and equal to s.
func (o Optional) Is(s string) bool {
	return o.Valid && o.V == s
}

// Compact returns o if it is usable and [None] otherwise.
func (o Optional) Compact() Optional {
	if o.Usable() {
		return o
	}
	return None()
}

func (o Optional) String() string {
	if !o.Valid {
		return "<absent>"
	}
	return o.V
}

func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.V)
}

func (o *Optional) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*o = Some(s)
	return nil
}

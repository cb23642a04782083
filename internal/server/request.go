package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/desertthunder/recon/internal/models"
)

var validate = validator.New()

// IdentifyRequest is the body of POST /identify.
//
// phoneNumber may arrive as a JSON string or number; numbers keep their literal text.
type IdentifyRequest struct {
	Email       string `json:"email" validate:"required_without=PhoneNumber"`
	PhoneNumber string `json:"phoneNumber" validate:"required_without=Email"`
}

func (r *IdentifyRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Email       *string         `json:"email"`
		PhoneNumber json.RawMessage `json:"phoneNumber"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	phone, err := phoneString(raw.PhoneNumber)
	if err != nil {
		return err
	}

	r.PhoneNumber = phone
	r.Email = ""
	if raw.Email != nil {
		r.Email = *raw.Email
	}
	return nil
}

func phoneString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("phoneNumber must be a string or number")
	}
	return n.String(), nil
}

// Validate reports whether at least one identifier is present.
func (r IdentifyRequest) Validate() error {
	return validate.Struct(r)
}

// Identity converts the request into the engine's input.
func (r IdentifyRequest) Identity() models.Identity {
	return models.NewIdentity(r.Email, r.PhoneNumber)
}

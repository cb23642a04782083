package models

// Identity is one observed (email, phone number) pair submitted for reconciliation.
type Identity struct {
	Email       Optional
	PhoneNumber Optional
}

// NewIdentity builds an [Identity] from raw strings, treating empty strings as absent.
func NewIdentity(email, phone string) Identity {
	return Identity{Email: Some(email).Compact(), PhoneNumber: Some(phone).Compact()}
}

// Empty reports whether neither identifier can be matched on.
func (i Identity) Empty() bool {
	return !i.Email.Usable() && !i.PhoneNumber.Usable()
}

// Compact drops identifiers that are present but empty.
func (i Identity) Compact() Identity {
	return Identity{Email: i.Email.Compact(), PhoneNumber: i.PhoneNumber.Compact()}
}

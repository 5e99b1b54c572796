package types

import "time"

// User represents a registered account. Any user that owns at least one
// Property acts as a host.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Email is the unique login address of the user.
	Email string `json:"email_address" db:"email_address"`

	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// The plaintext is never persisted.
	PasswordHash string `json:"-" db:"password_hash"`

	// Postal address.
	HouseNumber string `json:"house_number" db:"house_number"`
	StreetName  string `json:"street_name" db:"street_name"`
	Country     string `json:"country" db:"country"`
	PostCode    string `json:"post_code" db:"post_code"`

	// CreatedAt is the timestamp when the account was registered.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FullName joins first and last name for display.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

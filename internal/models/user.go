package models

import "time"

// Location is a last-known position. Both coordinates are always set together.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// User represents a user account in the system.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Location     *Location `json:"location,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the client-safe summary returned after login.
type PublicUser struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Location *Location `json:"location,omitempty"`
}

// Public strips the user down to its client-safe fields.
func (u User) Public() PublicUser {
	return PublicUser{Name: u.Name, Email: u.Email, Location: u.Location}
}

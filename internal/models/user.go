package models

import "time"

// User is the authenticated account as seen by the client. It carries only
// what the session token exposes; account management lives on the server.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Preferences is the flat profile record kept in the local store. It is
// independent of authentication and never leaves the device.
type Preferences struct {
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	EmailAlerts bool      `json:"emailAlerts"`
	WhatsApp    bool      `json:"whatsapp"`
	Notes       string    `json:"notes"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

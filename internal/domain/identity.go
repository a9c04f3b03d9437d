package domain

import "time"

// Identity is the signed-in principal. It only lives for the process lifetime.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Admin       bool   `json:"admin,omitempty"`
}

// Contact is the phone number a user registered for SMS alerts.
type Contact struct {
	UserID    string    `json:"userId"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// Package model defines domain entities for the application.
package model

// AuthUser is the normalized representation of a user returned by the
// identity provider. Every provider response is converted into this shape
// at the client boundary so the rest of the gateway depends on exactly
// one representation.
type AuthUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	UserMetadata map[string]any `json:"user_metadata"`
}

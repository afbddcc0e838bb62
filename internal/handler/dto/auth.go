// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/medireminder/medireminder/internal/model"

// SignupRequest represents the request body for signing up.
// Identifier is an email or a phone number.
type SignupRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	FullName   string `json:"full_name,omitempty"`
	Username   string `json:"username,omitempty"`
	DOB        string `json:"dob,omitempty"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// AuthResponse represents a successful signup or login.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        model.AuthUser `json:"user"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Package models defines client-side data models of the jobhub session core.
package models

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// UserID is the backend identifier of an account. Backends send it either as
// a JSON string or a JSON number; both decode to the same string form.
type UserID string

func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = UserID(n.String())
	return nil
}

// User is the account record returned by the backend and persisted under
// the auth_user key.
type User struct {
	ID        UserID   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Role      string   `json:"role"`            // currently active role
	Roles     []string `json:"roles,omitempty"` // roles the account is entitled to
}

// DisplayName joins first and last name, falling back to the email.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Session is the authenticated identity plus its credential token.
type Session struct {
	User
	Token string `json:"-"`
}

// HasRole reports whether the account may act as role. Accounts without an
// explicit role set are entitled only to their active role.
func (s *Session) HasRole(role string) bool {
	if role == "" {
		return false
	}
	if len(s.Roles) == 0 {
		return s.Role == role
	}
	return slices.Contains(s.Roles, role)
}

// Clone returns a deep copy so callers cannot alias store-owned slices.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Roles = slices.Clone(s.Roles)
	return &c
}

// PendingVerification is a registration awaiting OTP confirmation.
type PendingVerification struct {
	Email        string    `json:"email"`
	Password     string    `json:"password"`
	DisplayName  string    `json:"displayName"`
	Role         string    `json:"role,omitempty"`
	RequestedAt  time.Time `json:"requestedAt"`
	LastResendAt time.Time `json:"lastResendAt,omitempty"`
}

// LastSentAt is the reference point of the resend cooldown.
func (p *PendingVerification) LastSentAt() time.Time {
	if p.LastResendAt.After(p.RequestedAt) {
		return p.LastResendAt
	}
	return p.RequestedAt
}

// RegisterRequest carries the sign-up form fields sent to the backend.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role,omitempty"`
}

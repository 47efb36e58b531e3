package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserID_AcceptsStringAndNumber(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"email":"a@b.com"}`), &u))
	assert.Equal(t, UserID("42"), u.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"u-7"}`), &u))
	assert.Equal(t, UserID("u-7"), u.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":null}`), &u))
	assert.Equal(t, UserID(""), u.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"id":true}`), &u))
}

func TestSession_HasRole(t *testing.T) {
	single := &Session{User: User{Role: "work"}}
	assert.True(t, single.HasRole("work"))
	assert.False(t, single.HasRole("hire"))
	assert.False(t, single.HasRole(""))

	multi := &Session{User: User{Role: "work", Roles: []string{"work", "hire"}}}
	assert.True(t, multi.HasRole("hire"))
	assert.False(t, multi.HasRole("admin"))
}

func TestSession_CloneDoesNotAlias(t *testing.T) {
	s := &Session{User: User{Roles: []string{"work", "hire"}}, Token: "t"}
	c := s.Clone()
	c.Roles[0] = "admin"

	assert.Equal(t, "work", s.Roles[0])
	assert.Equal(t, "t", c.Token)
	assert.Nil(t, (*Session)(nil).Clone())
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{FirstName: "Ada", LastName: "Lovelace"}.DisplayName())
	assert.Equal(t, "a@b.com", User{Email: "a@b.com"}.DisplayName())
}

func TestPendingVerification_LastSentAt(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &PendingVerification{RequestedAt: t0}
	assert.Equal(t, t0, p.LastSentAt())

	p.LastResendAt = t0.Add(time.Minute)
	assert.Equal(t, t0.Add(time.Minute), p.LastSentAt())
}

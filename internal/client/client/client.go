package client

import (
	"context"

	"github.com/dmitrijs2005/jobhub/internal/client/models"
)

// Client is the backend API consumed by the session core.
//
// Login and VerifyOTP return the session granted by the server. VerifyOTP
// returns a nil session when the backend confirms the code without issuing
// a token.
type Client interface {
	Close() error
	Register(ctx context.Context, req models.RegisterRequest) error
	Login(ctx context.Context, email, password string) (*models.Session, error)
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*models.Session, error)
	Logout(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

// TokenSource yields the bearer token to attach to outbound requests, or ""
// when there is no session.
type TokenSource func(ctx context.Context) string

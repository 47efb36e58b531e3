// Package services contains application services for the jobhub client.
// This file defines the authentication service: register with OTP
// verification, login, logout, role switching and session restore.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobhub/internal/client/client"
	"github.com/dmitrijs2005/jobhub/internal/client/events"
	"github.com/dmitrijs2005/jobhub/internal/client/models"
	"github.com/dmitrijs2005/jobhub/internal/client/timer"
	"github.com/dmitrijs2005/jobhub/internal/common"
	"github.com/dmitrijs2005/jobhub/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// EventSource tags events published by the auth service.
const EventSource = "auth"

// LogoutNotice is shown to the user after a non-silent logout.
const LogoutNotice = "You have been signed out."

const defaultLogoutTimeout = 10 * time.Second

// AuthService defines the session lifecycle operations.
//
// Contract:
//   - Register: create an account on the server, persist it as a pending
//     verification and send the OTP.
//   - Login: exchange credentials for a persisted Session.
//   - Logout: clear the Session; the server is notified in the background.
//   - SwitchActiveRole: change the active role among the entitled ones.
//   - CurrentSession: read the Session.
//   - Restore: drop a persisted Session whose token has expired.
//   - Ping: check server liveness.
//   - Wait: block until background logout notifications are done.
//   - Close: Wait and release the underlying client.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) error
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Logout(ctx context.Context, silent bool) error
	SwitchActiveRole(ctx context.Context, role string) (*models.Session, error)
	CurrentSession(ctx context.Context) (*models.Session, error)
	Restore(ctx context.Context) (*models.Session, error)
	Ping(ctx context.Context) error
	Wait()
	Close(ctx context.Context) error
}

// SessionStore is the part of the credential store the service uses.
type SessionStore interface {
	Session(ctx context.Context) (*models.Session, error)
	SetSession(ctx context.Context, s *models.Session) error
	ClearSession(ctx context.Context) error
	SetPendingVerification(ctx context.Context, p *models.PendingVerification) error
	ClearPendingVerification(ctx context.Context) error
}

// Verifier starts the OTP step after a registration.
type Verifier interface {
	BeginVerification(ctx context.Context, email string) error
	Reset()
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(ctx context.Context, msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, msg string)

func (f NotifierFunc) Notify(ctx context.Context, msg string) { f(ctx, msg) }

// authService is the concrete AuthService backed by a remote Client and the
// credential store.
type authService struct {
	client        client.Client
	store         SessionStore
	verifier      Verifier
	bus           events.Publisher[events.Event]
	notifier      Notifier
	clock         timer.Clock
	logger        logging.Logger
	logoutTimeout time.Duration

	inflight sync.WaitGroup
}

// Option customizes the auth service.
type Option func(*authService)

func WithNotifier(n Notifier) Option {
	return func(a *authService) { a.notifier = n }
}

func WithClock(c timer.Clock) Option {
	return func(a *authService) { a.clock = c }
}

func WithLogger(l logging.Logger) Option {
	return func(a *authService) { a.logger = l }
}

// WithLogoutTimeout bounds the background logout notification.
func WithLogoutTimeout(d time.Duration) Option {
	return func(a *authService) { a.logoutTimeout = d }
}

// NewAuthService constructs an AuthService bound to the given API client,
// credential store, OTP verifier and activity bus.
func NewAuthService(c client.Client, store SessionStore, verifier Verifier, bus events.Publisher[events.Event], opts ...Option) AuthService {
	a := &authService{
		client:        c,
		store:         store,
		verifier:      verifier,
		bus:           bus,
		notifier:      NotifierFunc(func(context.Context, string) {}),
		clock:         timer.System{},
		logger:        logging.Discard(),
		logoutTimeout: defaultLogoutTimeout,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Register discards any earlier pending verification, creates the account
// on the server and, on success, persists the new pending verification and
// sends the OTP. Server rejections are returned verbatim and leave nothing
// pending. A failed OTP send is returned too, but the pending verification
// is kept so the send can be retried.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := common.ValidateEmail(req.Email); err != nil {
		return err
	}

	a.verifier.Reset()
	if err := a.store.ClearPendingVerification(ctx); err != nil {
		return fmt.Errorf("discard previous registration: %w", err)
	}

	if err := a.client.Register(ctx, req); err != nil {
		a.logger.Warn(ctx, "registration rejected", "email", req.Email, "error", err)
		return err
	}

	pending := &models.PendingVerification{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		RequestedAt: a.clock.Now(),
	}
	if err := a.store.SetPendingVerification(ctx, pending); err != nil {
		return fmt.Errorf("persist pending verification: %w", err)
	}
	a.logger.Info(ctx, "registration pending verification", "email", req.Email)

	return a.verifier.BeginVerification(ctx, req.Email)
}

// Login exchanges credentials for a Session. Nothing is persisted on failure.
func (a *authService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if err := common.ValidateEmail(email); err != nil {
		return nil, err
	}

	sess, err := a.client.Login(ctx, email, password)
	if err != nil {
		a.logger.Warn(ctx, "login failed", "email", email, "error", err)
		return nil, err
	}

	if err := a.store.SetSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	a.logger.Info(ctx, "user authenticated", "user_id", string(sess.ID), "role", sess.Role)
	a.bus.Publish(events.Event{Kind: events.KindUserAuthenticated, Source: EventSource, At: a.clock.Now()})
	return sess.Clone(), nil
}

// Logout clears the Session. When a token exists the server is notified in
// the background and its answer is only logged. Logging out without a
// Session is a no-op. silent suppresses the user notice only.
func (a *authService) Logout(ctx context.Context, silent bool) error {
	sess, err := a.store.Session(ctx)
	if err != nil {
		a.logger.Warn(ctx, "could not read session before logout", "error", err)
	}

	if sess != nil && sess.Token != "" {
		a.notifyServer(ctx, sess.Token)
	}

	if err := a.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	if sess != nil {
		a.logger.Info(ctx, "user signed out", "user_id", string(sess.ID), "silent", silent)
		if !silent {
			a.notifier.Notify(ctx, LogoutNotice)
		}
	}
	return nil
}

func (a *authService) notifyServer(ctx context.Context, token string) {
	a.inflight.Add(1)
	go func() {
		defer a.inflight.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.logoutTimeout)
		defer cancel()

		if err := a.client.Logout(ctx, token); err != nil {
			a.logger.Warn(ctx, "logout notification failed", "error", err)
		}
	}()
}

// SwitchActiveRole makes role the active role of the Session.
func (a *authService) SwitchActiveRole(ctx context.Context, role string) (*models.Session, error) {
	sess, err := a.store.Session(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, common.ErrNotAuthenticated
	}
	if !sess.HasRole(role) {
		return nil, fmt.Errorf("%w: %q", common.ErrRoleNotEntitled, role)
	}
	if sess.Role == role {
		return sess, nil
	}

	updated := sess.Clone()
	updated.Role = role
	if err := a.store.SetSession(ctx, updated); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	a.logger.Info(ctx, "active role switched", "user_id", string(sess.ID), "from", sess.Role, "to", role)
	return updated, nil
}

func (a *authService) CurrentSession(ctx context.Context) (*models.Session, error) {
	return a.store.Session(ctx)
}

// Restore returns the persisted Session, clearing it first when its token is
// a JWT whose exp claim lies in the past. Opaque tokens are kept as is.
func (a *authService) Restore(ctx context.Context) (*models.Session, error) {
	sess, err := a.store.Session(ctx)
	if err != nil || sess == nil {
		return nil, err
	}

	exp, ok := tokenExpiry(sess.Token)
	if !ok || exp.After(a.clock.Now()) {
		return sess, nil
	}

	a.logger.Info(ctx, "persisted session expired", "user_id", string(sess.ID), "exp", exp)
	if err := a.store.ClearSession(ctx); err != nil {
		return nil, fmt.Errorf("clear expired session: %w", err)
	}
	return nil, nil
}

// tokenExpiry reads the exp claim of a JWT without verifying its signature.
// The client never holds the signing key; the server stays the authority.
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Wait() {
	a.inflight.Wait()
}

// Close waits for background notifications and releases the client.
func (a *authService) Close(ctx context.Context) error {
	a.Wait()
	return a.client.Close()
}

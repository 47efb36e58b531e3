// Package credentials is the single source of truth for who is signed in.
//
// The Store persists the Session and the PendingVerification in the local
// key-value storage and announces every change on the activity bus. A change
// is always committed to storage before its signal is published, so a
// listener that reads the store from its handler sees the new value.
package credentials

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/jobhub/internal/client/events"
	"github.com/dmitrijs2005/jobhub/internal/client/models"
	"github.com/dmitrijs2005/jobhub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobhub/internal/client/timer"
	"github.com/dmitrijs2005/jobhub/internal/common"
	"github.com/dmitrijs2005/jobhub/internal/cryptox"
	"github.com/dmitrijs2005/jobhub/internal/dbx"
	"github.com/dmitrijs2005/jobhub/internal/logging"
)

// EventSource tags events published by the Store.
const EventSource = "store"

const (
	deviceSecretSize = 32
	pendingSalt      = "jobhub/pending-verification/v1"
)

var (
	ErrNotInitialized = fmt.Errorf("%w: credential store not initialized", common.ErrInvalidState)
	ErrClosed         = fmt.Errorf("%w: credential store closed", common.ErrInvalidState)
)

// Store persists credentials and publishes change signals.
type Store struct {
	db      *sql.DB
	dialect dbx.Dialect
	repo    metadata.Repository
	bus     events.Publisher[events.Event]
	clock   timer.Clock
	logger  logging.Logger
	ownsDB  bool

	mu     sync.RWMutex
	key    []byte
	closed bool
}

// Option customizes a Store.
type Option func(*Store)

// WithClock sets the clock used to timestamp events.
func WithClock(c timer.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the Store logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a Store over an already migrated database. The caller keeps
// ownership of db. Init must be called before pending verifications are used.
func New(db *sql.DB, dialect dbx.Dialect, bus events.Publisher[events.Event], opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: dialect,
		repo:    metadata.NewSQLRepository(db, dialect),
		bus:     bus,
		clock:   timer.System{},
		logger:  logging.Discard(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open opens (and migrates) the storage at dsn and returns an initialized
// Store that owns the database handle.
func Open(ctx context.Context, dsn string, bus events.Publisher[events.Event], opts ...Option) (*Store, error) {
	db, dialect, err := metadata.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	s := New(db, dialect, bus, opts...)
	s.ownsDB = true
	if err := s.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Init loads the per-install device secret, creating it on first use, and
// derives the key sealing pending verifications.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.key != nil {
		return nil
	}

	secret, err := s.repo.Get(ctx, common.KeyDeviceSecret)
	if err != nil {
		return fmt.Errorf("load device secret: %w", err)
	}
	if len(secret) == 0 {
		secret = common.GenerateRandByteArray(deviceSecretSize)
		if err := s.repo.Set(ctx, common.KeyDeviceSecret, secret); err != nil {
			return fmt.Errorf("store device secret: %w", err)
		}
		s.logger.Info(ctx, "device secret created")
	}

	s.key = cryptox.DeriveKey(secret, []byte(pendingSalt))
	common.WipeByteArray(secret)
	return nil
}

// Close releases the sealing key and, when the Store opened the database
// itself, the database handle. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.key != nil {
		common.WipeByteArray(s.key)
		s.key = nil
	}
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

// Subscribe registers l for store signals and every other bus event.
func (s *Store) Subscribe(l events.Listener[events.Event]) events.Handle {
	return s.bus.Subscribe(l)
}

// Unsubscribe removes a listener registered with Subscribe.
func (s *Store) Unsubscribe(h events.Handle) {
	s.bus.Unsubscribe(h)
}

func (s *Store) emit(kind events.Kind) {
	s.bus.Publish(events.Event{Kind: kind, Source: EventSource, At: s.clock.Now()})
}

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// inTx runs fn with a repository bound to a single transaction.
func (s *Store) inTx(ctx context.Context, fn func(r metadata.Repository) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(metadata.NewSQLRepository(tx, s.dialect))
	})
}

// getFirst returns the first non-empty value among keys.
func (s *Store) getFirst(ctx context.Context, keys ...string) ([]byte, error) {
	for _, k := range keys {
		v, err := s.repo.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if len(v) > 0 {
			return v, nil
		}
	}
	return nil, nil
}

// Session returns the persisted session or nil. A missing token means no
// session, whatever else is stored.
func (s *Store) Session(ctx context.Context) (*models.Session, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	token, err := s.getFirst(ctx, common.KeyAuthToken, common.KeyLegacyToken)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if len(token) == 0 {
		return nil, nil
	}

	raw, err := s.getFirst(ctx, common.KeyAuthUser, common.KeyLegacyUser)
	if err != nil {
		return nil, fmt.Errorf("read user: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.logger.Warn(ctx, "stored user record is unreadable", "error", err)
		return nil, nil
	}
	return &models.Session{User: u, Token: string(token)}, nil
}

// Token returns the persisted token or "".
func (s *Store) Token(ctx context.Context) string {
	sess, err := s.Session(ctx)
	if err != nil || sess == nil {
		return ""
	}
	return sess.Token
}

// SetSession atomically replaces the persisted session and then publishes
// session-changed.
func (s *Store) SetSession(ctx context.Context, sess *models.Session) error {
	if sess == nil {
		return s.ClearSession(ctx)
	}
	if sess.Token == "" {
		return fmt.Errorf("%w: session without token", common.ErrValidation)
	}
	if err := s.checkOpen(); err != nil {
		return err
	}

	user, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	token := []byte(sess.Token)

	err = s.inTx(ctx, func(r metadata.Repository) error {
		for key, value := range map[string][]byte{
			common.KeyAuthUser:    user,
			common.KeyLegacyUser:  user,
			common.KeyAuthToken:   token,
			common.KeyLegacyToken: token,
		} {
			if err := r.Set(ctx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.logger.Info(ctx, "session stored", "user_id", string(sess.ID), "role", sess.Role)
	s.emit(events.KindSessionChanged)
	return nil
}

// ClearSession removes the persisted session and publishes session-changed,
// also when there was nothing to remove.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	err := s.inTx(ctx, func(r metadata.Repository) error {
		for _, key := range []string{
			common.KeyAuthUser, common.KeyAuthToken, common.KeyLegacyUser, common.KeyLegacyToken,
		} {
			if err := r.Delete(ctx, key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.logger.Info(ctx, "session cleared")
	s.emit(events.KindSessionChanged)
	return nil
}

// sealKey returns a copy of the sealing key, so Close can wipe its own
// copy while a Seal or Open is still running.
func (s *Store) sealKey() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.key == nil {
		return nil, ErrNotInitialized
	}
	return bytes.Clone(s.key), nil
}

// PendingVerification returns the registration awaiting OTP confirmation,
// or nil.
func (s *Store) PendingVerification(ctx context.Context) (*models.PendingVerification, error) {
	key, err := s.sealKey()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	blob, err := s.repo.Get(ctx, common.KeyPendingVerification)
	if err != nil {
		return nil, fmt.Errorf("read pending verification: %w", err)
	}
	if len(blob) == 0 {
		return nil, nil
	}

	var p models.PendingVerification
	if err := cryptox.Open(blob, key, &p); err != nil {
		return nil, fmt.Errorf("open pending verification: %w", err)
	}
	return &p, nil
}

// PendingEmail returns the email of the pending verification without
// unsealing it, or "".
func (s *Store) PendingEmail(ctx context.Context) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	v, err := s.repo.Get(ctx, common.KeyPendingVerificationEmail)
	if err != nil {
		return "", fmt.Errorf("read pending email: %w", err)
	}
	return string(v), nil
}

// SetPendingVerification replaces the pending verification and then
// publishes pending-changed.
func (s *Store) SetPendingVerification(ctx context.Context, p *models.PendingVerification) error {
	if p == nil {
		return s.ClearPendingVerification(ctx)
	}
	key, err := s.sealKey()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	blob, err := cryptox.Seal(p, key)
	if err != nil {
		return fmt.Errorf("seal pending verification: %w", err)
	}

	err = s.inTx(ctx, func(r metadata.Repository) error {
		if err := r.Set(ctx, common.KeyPendingVerification, blob); err != nil {
			return err
		}
		return r.Set(ctx, common.KeyPendingVerificationEmail, []byte(p.Email))
	})
	if err != nil {
		return fmt.Errorf("persist pending verification: %w", err)
	}

	s.emit(events.KindPendingChanged)
	return nil
}

// ClearPendingVerification removes the pending verification and publishes
// pending-changed.
func (s *Store) ClearPendingVerification(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	err := s.inTx(ctx, func(r metadata.Repository) error {
		return errors.Join(
			r.Delete(ctx, common.KeyPendingVerification),
			r.Delete(ctx, common.KeyPendingVerificationEmail),
		)
	})
	if err != nil {
		return fmt.Errorf("clear pending verification: %w", err)
	}

	s.emit(events.KindPendingChanged)
	return nil
}

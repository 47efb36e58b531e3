// Package otp drives the one-time passcode step of registration: sending
// the code, verifying it and resending it after a cooldown.
package otp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobhub/internal/client/events"
	"github.com/dmitrijs2005/jobhub/internal/client/models"
	"github.com/dmitrijs2005/jobhub/internal/client/timer"
	"github.com/dmitrijs2005/jobhub/internal/common"
	"github.com/dmitrijs2005/jobhub/internal/logging"
)

// DefaultCooldown is the resend cooldown used when none is configured.
const DefaultCooldown = 30 * time.Second

const tick = time.Second

// ErrClosed is returned by a Machine after Close.
var ErrClosed = fmt.Errorf("%w: otp machine closed", common.ErrInvalidState)

// API is the part of the backend the machine talks to.
type API interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*models.Session, error)
}

// Store is the part of the credential store the machine reads and writes.
type Store interface {
	PendingVerification(ctx context.Context) (*models.PendingVerification, error)
	SetPendingVerification(ctx context.Context, p *models.PendingVerification) error
	ClearPendingVerification(ctx context.Context) error
	SetSession(ctx context.Context, s *models.Session) error
}

// Machine is the OTP verification state machine. It is safe for concurrent
// use; status listeners run without the machine lock held.
type Machine struct {
	api      API
	store    Store
	clock    timer.Clock
	cooldown time.Duration
	logger   logging.Logger
	ticker   *timer.Slot
	status   *events.Bus[Status]

	mu        sync.Mutex
	phase     Phase
	email     string
	code      string
	errMsg    string
	sentAt    time.Time // last successful send, zero before the first one
	resending bool
	attempt   uint64 // bumped by Begin, Reset and Close; stale results are dropped
	closed    bool
}

// Option customizes a Machine.
type Option func(*Machine)

func WithClock(c timer.Clock) Option {
	return func(m *Machine) { m.clock = c }
}

// WithCooldown sets the resend cooldown. Negative values are treated as 0.
func WithCooldown(d time.Duration) Option {
	return func(m *Machine) { m.cooldown = max(d, 0) }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// New creates an idle Machine.
func New(api API, store Store, opts ...Option) *Machine {
	m := &Machine{
		api:      api,
		store:    store,
		clock:    timer.System{},
		cooldown: DefaultCooldown,
		logger:   logging.Discard(),
		status:   events.New[Status](),
	}
	for _, o := range opts {
		o(m)
	}
	m.ticker = timer.NewSlot(m.clock)
	return m
}

// Subscribe registers l for status changes.
func (m *Machine) Subscribe(l events.Listener[Status]) events.Handle {
	return m.status.Subscribe(l)
}

// Unsubscribe removes a listener registered with Subscribe.
func (m *Machine) Unsubscribe(h events.Handle) {
	m.status.Unsubscribe(h)
}

// Status returns the current snapshot.
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Status {
	remaining := m.remainingLocked()
	return Status{
		Phase:             m.phase,
		Email:             m.email,
		Code:              m.code,
		Err:               m.errMsg,
		CooldownRemaining: remaining,
		CanResend:         m.phase == AwaitingCode && remaining == 0 && !m.resending,
	}
}

func (m *Machine) remainingLocked() time.Duration {
	if m.sentAt.IsZero() {
		return 0
	}
	return max(m.cooldown-m.clock.Now().Sub(m.sentAt), 0)
}

func (m *Machine) publish() {
	m.status.Publish(m.Status())
}

// armTickerLocked schedules the next cooldown tick on a whole-second
// boundary of the remaining time. It does nothing once the cooldown is over.
func (m *Machine) armTickerLocked() {
	remaining := m.remainingLocked()
	if remaining <= 0 {
		m.ticker.Cancel()
		return
	}
	next := remaining % tick
	if next == 0 {
		next = tick
	}
	m.ticker.Schedule(next, m.onTick)
}

func (m *Machine) onTick() {
	m.mu.Lock()
	if m.closed || m.phase != AwaitingCode {
		m.mu.Unlock()
		return
	}
	m.armTickerLocked()
	m.mu.Unlock()

	m.publish()
}

// BeginVerification sends a code to email. It is rejected while another
// send or verification is in flight. On success the machine awaits the code
// and the resend cooldown starts; on failure it lands in SendFailed with the
// error message exposed and no cooldown.
func (m *Machine) BeginVerification(ctx context.Context, email string) error {
	if err := common.ValidateEmail(email); err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.phase.InFlight() {
		phase := m.phase
		m.mu.Unlock()
		return fmt.Errorf("%w: verification is %s", common.ErrInvalidState, phase)
	}
	m.ticker.Cancel()
	m.attempt++
	attempt := m.attempt
	m.phase = Sending
	m.email = email
	m.code = ""
	m.errMsg = ""
	m.sentAt = time.Time{}
	m.resending = false
	m.mu.Unlock()
	m.publish()

	err := m.api.SendOTP(ctx, email)

	m.mu.Lock()
	if attempt != m.attempt {
		m.mu.Unlock()
		return err
	}
	if err != nil {
		m.phase = SendFailed
		m.errMsg = common.Message(err)
		m.mu.Unlock()
		m.logger.Warn(ctx, "otp send failed", "email", email, "error", err)
		m.publish()
		return err
	}
	m.phase = AwaitingCode
	m.sentAt = m.clock.Now()
	m.armTickerLocked()
	m.mu.Unlock()

	m.logger.Info(ctx, "otp sent", "email", email)
	m.publish()
	return nil
}

// Resume picks up a pending verification persisted by an earlier run. The
// cooldown continues from the last recorded send. It reports whether the
// machine now awaits a code.
func (m *Machine) Resume(ctx context.Context) (bool, error) {
	p, err := m.store.PendingVerification(ctx)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false, ErrClosed
	}
	if m.phase != Idle {
		ok := m.phase == AwaitingCode
		m.mu.Unlock()
		return ok, nil
	}
	m.attempt++
	m.phase = AwaitingCode
	m.email = p.Email
	m.sentAt = p.LastSentAt()
	m.armTickerLocked()
	m.mu.Unlock()

	m.publish()
	return true, nil
}

// SubmitCode verifies code against the backend. Malformed codes are
// rejected without a network call. A rejected code clears the code buffer
// and returns to AwaitingCode; the pending verification is kept.
func (m *Machine) SubmitCode(ctx context.Context, code string) error {
	if err := common.ValidateOTPCode(code); err != nil {
		return err
	}
	if err := m.expect(AwaitingCode); err != nil {
		return err
	}

	p, err := m.store.PendingVerification(ctx)
	if err != nil {
		return err
	}
	if p == nil {
		return common.ErrNoPending
	}

	m.mu.Lock()
	if err := m.expectLocked(AwaitingCode); err != nil {
		m.mu.Unlock()
		return err
	}
	m.ticker.Cancel()
	attempt := m.attempt
	email := m.email
	m.phase = Verifying
	m.code = code
	m.errMsg = ""
	m.mu.Unlock()
	m.publish()

	sess, err := m.api.VerifyOTP(ctx, email, code)
	if err == nil && sess != nil {
		err = m.store.SetSession(ctx, sess)
	}
	if err != nil {
		m.mu.Lock()
		if attempt == m.attempt {
			m.phase = AwaitingCode
			m.code = ""
			m.errMsg = common.Message(err)
			m.armTickerLocked()
		}
		m.mu.Unlock()
		m.logger.Warn(ctx, "otp verification failed", "email", email, "error", err)
		m.publish()
		return err
	}

	if err := m.store.ClearPendingVerification(ctx); err != nil {
		m.logger.Warn(ctx, "failed to clear pending verification", "error", err)
	}

	m.mu.Lock()
	if attempt == m.attempt {
		m.phase = Verified
		m.code = ""
		m.sentAt = time.Time{}
	}
	m.mu.Unlock()

	m.logger.Info(ctx, "otp verified", "email", email, "session", sess != nil)
	m.publish()
	return nil
}

// Resend sends a fresh code. It is only allowed while awaiting a code with
// the cooldown elapsed. Success restarts the cooldown; failure keeps the
// machine awaiting a code with the error exposed and resend still allowed.
func (m *Machine) Resend(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.phase != AwaitingCode || m.resending {
		m.mu.Unlock()
		return fmt.Errorf("%w: nothing to resend", common.ErrInvalidState)
	}
	if m.remainingLocked() > 0 {
		m.mu.Unlock()
		return common.ErrCooldownActive
	}
	m.resending = true
	m.errMsg = ""
	attempt := m.attempt
	email := m.email
	m.mu.Unlock()
	m.publish()

	err := m.api.SendOTP(ctx, email)

	m.mu.Lock()
	m.resending = false
	if attempt != m.attempt || m.phase != AwaitingCode {
		m.mu.Unlock()
		return err
	}
	if err != nil {
		m.errMsg = common.Message(err)
		m.mu.Unlock()
		m.logger.Warn(ctx, "otp resend failed", "email", email, "error", err)
		m.publish()
		return err
	}
	now := m.clock.Now()
	m.sentAt = now
	m.armTickerLocked()
	m.mu.Unlock()

	m.recordResend(ctx, email, now)
	m.logger.Info(ctx, "otp resent", "email", email)
	m.publish()
	return nil
}

func (m *Machine) recordResend(ctx context.Context, email string, at time.Time) {
	p, err := m.store.PendingVerification(ctx)
	if err != nil || p == nil || p.Email != email {
		return
	}
	p.LastResendAt = at
	if err := m.store.SetPendingVerification(ctx, p); err != nil {
		m.logger.Warn(ctx, "failed to record resend time", "error", err)
	}
}

// Reset abandons the current attempt and returns to Idle. Results of calls
// still in flight are dropped.
func (m *Machine) Reset() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.ticker.Cancel()
	m.attempt++
	m.phase = Idle
	m.email = ""
	m.code = ""
	m.errMsg = ""
	m.sentAt = time.Time{}
	m.resending = false
	m.mu.Unlock()

	m.publish()
}

// Close cancels the cooldown ticker and drops all status listeners.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.attempt++
	m.ticker.Cancel()
	m.mu.Unlock()

	m.status.Close()
}

func (m *Machine) expect(p Phase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expectLocked(p)
}

func (m *Machine) expectLocked(p Phase) error {
	if m.closed {
		return ErrClosed
	}
	if m.phase != p {
		return fmt.Errorf("%w: verification is %s", common.ErrInvalidState, m.phase)
	}
	return nil
}

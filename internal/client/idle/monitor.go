// Package idle signs the user out after a period without activity.
//
// While a session exists the Monitor keeps two deadlines measured from the
// last observed activity: a warning at T-W and a forced logout at T. Activity
// moves both deadlines. Once the warning is showing, only an explicit
// acknowledgement does.
package idle

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobhub/internal/client/events"
	"github.com/dmitrijs2005/jobhub/internal/client/models"
	"github.com/dmitrijs2005/jobhub/internal/client/timer"
	"github.com/dmitrijs2005/jobhub/internal/logging"
)

// Defaults for the idle budget and the warning lead. The warning is shown
// for the last second only.
const (
	DefaultTimeout = 180000 * time.Millisecond
	DefaultWarning = 1000 * time.Millisecond
)

// Phase is the state of the monitor.
type Phase int

const (
	Inactive Phase = iota // no session
	Watching
	Warning
)

func (p Phase) String() string {
	switch p {
	case Inactive:
		return "inactive"
	case Watching:
		return "watching"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Status is a snapshot of the monitor. The deadlines are zero while
// Inactive.
type Status struct {
	Phase    Phase
	WarnAt   time.Time
	LogoutAt time.Time
}

// SessionSource reports whether someone is signed in.
type SessionSource interface {
	Session(ctx context.Context) (*models.Session, error)
}

// Logouter performs the forced logout.
type Logouter interface {
	Logout(ctx context.Context, silent bool) error
}

// Monitor is the idle timeout state machine.
type Monitor struct {
	bus      events.Publisher[events.Event]
	sessions SessionSource
	auth     Logouter
	clock    timer.Clock
	timeout  time.Duration
	warning  time.Duration
	logger   logging.Logger

	warnSlot   *timer.Slot
	logoutSlot *timer.Slot
	status     *events.Bus[Status]

	mu       sync.Mutex
	ctx      context.Context
	phase    Phase
	warnAt   time.Time
	logoutAt time.Time
	handle   events.Handle
	started  bool
	closed   bool
}

// Option customizes a Monitor.
type Option func(*Monitor)

func WithClock(c timer.Clock) Option {
	return func(m *Monitor) { m.clock = c }
}

// WithTimeout sets the idle budget T.
func WithTimeout(d time.Duration) Option {
	return func(m *Monitor) { m.timeout = d }
}

// WithWarning sets the warning lead W. The warning is raised at T-W.
func WithWarning(d time.Duration) Option {
	return func(m *Monitor) { m.warning = d }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Monitor) { m.logger = l }
}

// New creates an inactive Monitor. Out of range warnings are clamped to
// [0, T].
func New(bus events.Publisher[events.Event], sessions SessionSource, auth Logouter, opts ...Option) *Monitor {
	m := &Monitor{
		bus:      bus,
		sessions: sessions,
		auth:     auth,
		clock:    timer.System{},
		timeout:  DefaultTimeout,
		warning:  DefaultWarning,
		logger:   logging.Discard(),
		status:   events.New[Status](),
		ctx:      context.Background(),
	}
	for _, o := range opts {
		o(m)
	}
	m.warning = min(max(m.warning, 0), m.timeout)
	m.warnSlot = timer.NewSlot(m.clock)
	m.logoutSlot = timer.NewSlot(m.clock)
	return m
}

// Subscribe registers l for status changes.
func (m *Monitor) Subscribe(l events.Listener[Status]) events.Handle {
	return m.status.Subscribe(l)
}

// Unsubscribe removes a listener registered with Subscribe.
func (m *Monitor) Unsubscribe(h events.Handle) {
	m.status.Unsubscribe(h)
}

// Status returns the current snapshot.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Monitor) snapshotLocked() Status {
	return Status{Phase: m.phase, WarnAt: m.warnAt, LogoutAt: m.logoutAt}
}

func (m *Monitor) publish(s Status) {
	m.status.Publish(s)
}

// Start subscribes to the activity bus and activates the monitor if a
// session already exists. ctx is used for the store reads and the forced
// logout. Start is a no-op on a started or closed monitor.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started || m.closed {
		m.mu.Unlock()
		return nil
	}
	m.started = true
	m.ctx = ctx
	m.mu.Unlock()

	h := m.bus.Subscribe(m.onEvent)

	m.mu.Lock()
	m.handle = h
	m.mu.Unlock()

	return m.syncSession(ctx)
}

// syncSession activates or deactivates the monitor to match the store.
func (m *Monitor) syncSession(ctx context.Context) error {
	sess, err := m.sessions.Session(ctx)
	if err != nil {
		m.logger.Warn(ctx, "idle monitor could not read session", "error", err)
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	changed := false
	switch {
	case sess == nil && m.phase != Inactive:
		m.deactivateLocked()
		changed = true
	case sess != nil && m.phase == Inactive:
		m.armLocked()
		changed = true
	case sess != nil && m.phase == Watching:
		m.armLocked()
		changed = true
	}
	st := m.snapshotLocked()
	m.mu.Unlock()

	if changed {
		m.logger.Debug(ctx, "idle monitor synced", "phase", st.Phase.String())
		m.publish(st)
	}
	return nil
}

func (m *Monitor) onEvent(e events.Event) {
	switch e.Kind {
	case events.KindSessionChanged:
		m.mu.Lock()
		ctx := m.ctx
		m.mu.Unlock()
		_ = m.syncSession(ctx)
	case events.KindActivityObserved:
		m.mu.Lock()
		if m.closed || m.phase != Watching {
			m.mu.Unlock()
			return
		}
		m.armLocked()
		st := m.snapshotLocked()
		m.mu.Unlock()
		m.publish(st)
	}
}

// armLocked (re)starts both deadlines from now. Each Slot cancels its
// previous timer before arming the new one.
func (m *Monitor) armLocked() {
	now := m.clock.Now()
	m.phase = Watching
	m.warnAt = now.Add(m.timeout - m.warning)
	m.logoutAt = now.Add(m.timeout)
	m.warnSlot.Schedule(m.timeout-m.warning, m.onWarn)
	m.logoutSlot.Schedule(m.timeout, m.onLogout)
}

func (m *Monitor) deactivateLocked() {
	m.warnSlot.Cancel()
	m.logoutSlot.Cancel()
	m.phase = Inactive
	m.warnAt = time.Time{}
	m.logoutAt = time.Time{}
}

func (m *Monitor) onWarn() {
	m.mu.Lock()
	if m.closed || m.phase != Watching {
		m.mu.Unlock()
		return
	}
	m.phase = Warning
	st := m.snapshotLocked()
	ctx := m.ctx
	m.mu.Unlock()

	m.logger.Info(ctx, "idle warning raised", "logout_at", st.LogoutAt)
	m.publish(st)
}

func (m *Monitor) onLogout() {
	m.mu.Lock()
	if m.closed || m.phase == Inactive {
		m.mu.Unlock()
		return
	}
	m.deactivateLocked()
	st := m.snapshotLocked()
	ctx := m.ctx
	m.mu.Unlock()

	m.logger.Info(ctx, "idle timeout reached, signing out")
	m.publish(st)

	if err := m.auth.Logout(ctx, false); err != nil {
		m.logger.Error(ctx, "idle logout failed", "error", err)
		_ = m.syncSession(ctx)
	}
}

// Acknowledge dismisses the warning and restarts both deadlines from now.
// It reports whether a warning was showing.
func (m *Monitor) Acknowledge() bool {
	m.mu.Lock()
	if m.closed || m.phase != Warning {
		m.mu.Unlock()
		return false
	}
	m.armLocked()
	st := m.snapshotLocked()
	m.mu.Unlock()

	m.publish(st)
	return true
}

// Close unsubscribes from the activity bus and cancels both timers. A timer
// that fires afterwards does nothing.
func (m *Monitor) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.deactivateLocked()
	h := m.handle
	started := m.started
	m.mu.Unlock()

	if started {
		m.bus.Unsubscribe(h)
	}
	m.status.Close()
}

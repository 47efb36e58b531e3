package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/jobhub/internal/client/client"
	"github.com/dmitrijs2005/jobhub/internal/client/config"
	"github.com/dmitrijs2005/jobhub/internal/client/credentials"
	"github.com/dmitrijs2005/jobhub/internal/client/events"
	"github.com/dmitrijs2005/jobhub/internal/client/idle"
	"github.com/dmitrijs2005/jobhub/internal/client/otp"
	"github.com/dmitrijs2005/jobhub/internal/client/services"
	"github.com/dmitrijs2005/jobhub/internal/client/timer"
	"github.com/dmitrijs2005/jobhub/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	clock       timer.Clock
	bus         *events.ActivityBus
	store       *credentials.Store
	authService services.AuthService
	otp         *otp.Machine
	idle        *idle.Monitor
	reader      *bufio.Reader
	out         io.Writer

	mu         sync.Mutex
	mode       Mode
	canResend  bool
	lastWarned time.Time
}

// NewApp opens local storage and the backend client described by c and
// wires the session core on top of them.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	bus := events.NewActivityBus()

	store, err := credentials.Open(ctx, c.DatabaseDSN, bus, credentials.WithLogger(logger))
	if err != nil {
		logger.Error(ctx, "error initializing storage", "dsn", c.DatabaseDSN, "error", err)
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout,
		client.WithLogger(logger),
		client.WithTokenSource(store.Token),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return newApp(c, logger, timer.System{}, bus, store, apiClient, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, logger logging.Logger, clock timer.Clock, bus *events.ActivityBus,
	store *credentials.Store, apiClient client.Client, reader *bufio.Reader, out io.Writer) *App {

	a := &App{
		config: c,
		logger: logger,
		clock:  clock,
		bus:    bus,
		store:  store,
		reader: reader,
		out:    out,
	}

	a.otp = otp.New(apiClient, store,
		otp.WithClock(clock),
		otp.WithCooldown(c.OTPResendCooldown),
		otp.WithLogger(logger),
	)
	a.authService = services.NewAuthService(apiClient, store, a.otp, bus,
		services.WithClock(clock),
		services.WithLogger(logger),
		services.WithNotifier(a),
		services.WithLogoutTimeout(c.RequestTimeout),
	)
	a.idle = idle.New(bus, store, a.authService,
		idle.WithClock(clock),
		idle.WithTimeout(c.IdleTimeout),
		idle.WithWarning(c.IdleWarning),
		idle.WithLogger(logger),
	)

	a.otp.Subscribe(a.onOTPStatus)
	a.idle.Subscribe(a.onIdleStatus)
	return a
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
		printlnFn(fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) getMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Run restores the previous session, starts the idle monitor and the
// connectivity watcher, and serves the REPL until the user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.Close(ctx)

	if _, err := a.authService.Restore(ctx); err != nil {
		a.logger.Warn(ctx, "could not restore session", "error", err)
	}
	if ok, err := a.otp.Resume(ctx); err != nil {
		a.logger.Warn(ctx, "could not resume verification", "error", err)
	} else if ok {
		printlnFn(fmt.Sprintf("Verification pending for %s. Enter: verify <code>", a.otp.Status().Email))
	}
	if err := a.idle.Start(ctx); err != nil {
		return err
	}

	printlnFn("Welcome to jobhub CLI (type 'help' for commands)")

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
		return nil
	})
	g.Go(func() error {
		defer cancel()
		runREPL(ctx, a, a.getStatus, a.reader)
		return nil
	})
	return g.Wait()
}

// Close stops the session core and releases storage and network resources.
func (a *App) Close(ctx context.Context) {
	a.idle.Close()
	a.otp.Close()
	if err := a.authService.Close(ctx); err != nil {
		a.logger.Warn(ctx, "closing api client", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn(ctx, "closing storage", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	s, err := a.store.Session(context.Background())
	return err == nil && s != nil
}

// Activity reports user input to the idle monitor.
func (a *App) Activity(source string) {
	a.bus.Publish(events.Event{Kind: events.KindActivityObserved, Source: source, At: a.clock.Now()})
}

// Notify prints messages from the session core.
func (a *App) Notify(_ context.Context, msg string) {
	printlnFn(msg)
}

func (a *App) onIdleStatus(s idle.Status) {
	if s.Phase != idle.Warning {
		return
	}
	a.mu.Lock()
	dup := a.lastWarned.Equal(s.LogoutAt)
	a.lastWarned = s.LogoutAt
	a.mu.Unlock()
	if dup {
		return
	}

	left := s.LogoutAt.Sub(a.clock.Now()).Round(time.Second)
	printlnFn(fmt.Sprintf("You will be signed out in %s due to inactivity. Type 'ok' to stay signed in.", left))
}

func (a *App) onOTPStatus(s otp.Status) {
	a.mu.Lock()
	became := s.CanResend && !a.canResend
	a.canResend = s.CanResend
	a.mu.Unlock()

	if became {
		printlnFn("You can request a new code with 'resend'.")
	}
}

// StartOnlineStatusWatcher pings the backend every interval and switches
// the connectivity mode accordingly. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

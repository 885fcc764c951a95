package guard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// SessionClient is the guard's only network boundary: the liveness ping and
// the server-side logout call.
type SessionClient interface {
	// Ping confirms the authenticated session is still valid server-side.
	Ping(ctx context.Context) error

	// Logout invalidates the server-side session.
	Logout(ctx context.Context) error
}

// Config holds the guard's two timing windows. The ping interval must be much
// shorter than the idle timeout so a server-side revocation is detected well
// before the idle timer would have fired anyway.
type Config struct {
	// IdleTimeout is the inactivity window after which the guard logs out.
	IdleTimeout time.Duration

	// PingInterval is the cadence of liveness pings while the user is active.
	PingInterval time.Duration
}

// ErrNotArmed is returned when the guard is asked to act while disarmed.
var ErrNotArmed = errors.New("session guard is not armed")

// ActivityGuard owns the idle-timeout and liveness-ping timers for one
// authenticated session. At most one of each timer is live at a time.
// All methods are safe for concurrent use.
type ActivityGuard struct {
	cfg    Config
	clock  Clock
	timers TimerFactory
	client SessionClient
	logger *slog.Logger

	// onLoggedOut performs the local cleanup (clear cached identity, return
	// to the login surface). It runs at most once per armed session, even
	// when the server-side logout call fails.
	onLoggedOut func()

	mu           sync.Mutex
	armed        bool
	loggedOut    bool
	lastActivity time.Time
	idleTimer    Timer
	pingTimer    Timer
	ctx          context.Context
}

// New creates a disarmed ActivityGuard.
func New(cfg Config, clock Clock, timers TimerFactory, client SessionClient, onLoggedOut func(), logger *slog.Logger) *ActivityGuard {
	return &ActivityGuard{
		cfg:         cfg,
		clock:       clock,
		timers:      timers,
		client:      client,
		onLoggedOut: onLoggedOut,
		logger:      logger,
	}
}

// Arm starts both timers for a newly authenticated session. Arming an
// already-armed guard is a no-op.
func (g *ActivityGuard) Arm(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.armed {
		return
	}

	g.armed = true
	g.loggedOut = false
	g.ctx = ctx
	g.lastActivity = g.clock.Now()
	g.idleTimer = g.timers.AfterFunc(g.cfg.IdleTimeout, g.onIdleTimeout)
	g.pingTimer = g.timers.AfterFunc(g.cfg.PingInterval, g.onPingTick)

	g.logger.Debug("session guard armed",
		slog.Duration("idle_timeout", g.cfg.IdleTimeout),
		slog.Duration("ping_interval", g.cfg.PingInterval),
	)
}

// Disarm cancels both timers. No callback scheduled before the call may fire
// after it returns has taken effect.
func (g *ActivityGuard) Disarm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.disarmLocked()
}

// disarmLocked stops both timers. Caller must hold g.mu.
func (g *ActivityGuard) disarmLocked() {
	if !g.armed {
		return
	}

	g.armed = false
	if g.idleTimer != nil {
		g.idleTimer.Stop()
		g.idleTimer = nil
	}
	if g.pingTimer != nil {
		g.pingTimer.Stop()
		g.pingTimer = nil
	}

	g.logger.Debug("session guard disarmed")
}

// RecordActivity notes a user interaction and pushes the idle deadline out to
// now + IdleTimeout. Ignored while disarmed.
func (g *ActivityGuard) RecordActivity() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.armed {
		return
	}

	g.lastActivity = g.clock.Now()
	g.idleTimer.Reset(g.cfg.IdleTimeout)
}

// Armed reports whether the guard currently holds live timers.
func (g *ActivityGuard) Armed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.armed
}

// onIdleTimeout fires when the inactivity window elapses with no recorded
// interaction.
func (g *ActivityGuard) onIdleTimeout() {
	g.logger.Info("idle timeout elapsed, logging out")
	g.Logout()
}

// onPingTick fires once per ping interval. An interaction newer than one
// interval ago earns a liveness ping; a rejected or failed ping means the
// server already considers the session dead, so the guard logs out instead
// of retrying.
func (g *ActivityGuard) onPingTick() {
	g.mu.Lock()
	if !g.armed {
		g.mu.Unlock()

		return
	}

	active := g.clock.Now().Sub(g.lastActivity) < g.cfg.PingInterval
	ctx := g.ctx
	g.mu.Unlock()

	if active {
		if err := g.client.Ping(ctx); err != nil {
			g.logger.Warn("liveness ping rejected, logging out", slog.Any("error", err))
			g.Logout()

			return
		}
	}

	g.mu.Lock()
	if g.armed && g.pingTimer != nil {
		g.pingTimer.Reset(g.cfg.PingInterval)
	}
	g.mu.Unlock()
}

// Logout tears the session down. It is idempotent: concurrent triggers (idle
// timeout and a failed ping racing) produce a single cleanup. Local cleanup
// runs even when the server-side call fails.
func (g *ActivityGuard) Logout() {
	g.mu.Lock()
	if g.loggedOut {
		g.mu.Unlock()

		return
	}

	g.loggedOut = true
	ctx := g.ctx
	g.disarmLocked()
	g.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	if err := g.client.Logout(ctx); err != nil {
		g.logger.Warn("server-side logout failed, local cleanup proceeds", slog.Any("error", err))
	}

	if g.onLoggedOut != nil {
		g.onLoggedOut()
	}
}

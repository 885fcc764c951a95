package guard

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScheduler drives a fake clock and fires pending timers in deadline
// order, so tests never sleep on the wall clock.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	sched    *fakeScheduler
	deadline time.Time
	fn       func()
	stopped  bool
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)}
}

func (s *fakeScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.now
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &fakeTimer{sched: s, deadline: s.now.Add(d), fn: fn}
	s.timers = append(s.timers, t)

	return t
}

// Advance moves the clock forward, firing each due timer at its own deadline.
// Callbacks run without the scheduler lock so they may stop or reset timers.
func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)

	for {
		var next *fakeTimer
		for _, t := range s.timers {
			if t.stopped || t.deadline.After(target) {
				continue
			}
			if next == nil || t.deadline.Before(next.deadline) {
				next = t
			}
		}
		if next == nil {
			break
		}

		s.now = next.deadline
		next.stopped = true
		s.mu.Unlock()
		next.fn()
		s.mu.Lock()
	}

	s.now = target
	s.mu.Unlock()
}

func (t *fakeTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()

	wasPending := !t.stopped
	t.stopped = true

	return wasPending
}

func (t *fakeTimer) Reset(d time.Duration) bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()

	wasPending := !t.stopped
	t.stopped = false
	t.deadline = t.sched.now.Add(d)

	return wasPending
}

// stubSessionClient counts calls and returns configured errors.
type stubSessionClient struct {
	mu         sync.Mutex
	pingErr    error
	logoutErr  error
	pingCalls  int
	logoutCalls int
}

func (c *stubSessionClient) Ping(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pingCalls++

	return c.pingErr
}

func (c *stubSessionClient) Logout(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logoutCalls++

	return c.logoutErr
}

func (c *stubSessionClient) counts() (pings, logouts int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pingCalls, c.logoutCalls
}

type guardHarness struct {
	sched    *fakeScheduler
	client   *stubSessionClient
	guard    *ActivityGuard
	mu       sync.Mutex
	cleanups int
}

func newGuardHarness(cfg Config) *guardHarness {
	h := &guardHarness{
		sched:  newFakeScheduler(),
		client: &stubSessionClient{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.guard = New(cfg, h.sched, h.sched, h.client, h.onLoggedOut, logger)

	return h
}

func (h *guardHarness) onLoggedOut() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleanups++
}

func (h *guardHarness) cleanupCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.cleanups
}

var testConfig = Config{
	IdleTimeout:  20 * time.Minute,
	PingInterval: time.Minute,
}

func TestIdleTimeoutFiresExactlyOnce(t *testing.T) {
	t.Parallel()

	h := newGuardHarness(testConfig)
	h.guard.Arm(context.Background())

	h.sched.Advance(30 * time.Minute)

	_, logouts := h.client.counts()
	assert.Equal(t, 1, logouts, "idle timeout must log out exactly once, not per tick")
	assert.Equal(t, 1, h.cleanupCount())
	assert.False(t, h.guard.Armed())
}

func TestActivityResetsIdleDeadline(t *testing.T) {
	t.Parallel()

	h := newGuardHarness(testConfig)
	h.guard.Arm(context.Background())

	// Interaction just before the window elapses pushes the deadline out.
	h.sched.Advance(testConfig.IdleTimeout - time.Millisecond)
	h.guard.RecordActivity()

	h.sched.Advance(2 * time.Minute)
	_, logouts := h.client.counts()
	require.Zero(t, logouts, "original deadline must not fire after activity")

	// The full window after the last interaction still logs out.
	h.sched.Advance(testConfig.IdleTimeout)
	_, logouts = h.client.counts()
	assert.Equal(t, 1, logouts)
}

func TestDisarmCancelsBothTimers(t *testing.T) {
	t.Parallel()

	h := newGuardHarness(testConfig)
	h.guard.Arm(context.Background())

	h.sched.Advance(10 * time.Minute)
	h.guard.Disarm()
	h.sched.Advance(time.Hour)

	pings, logouts := h.client.counts()
	assert.Zero(t, logouts, "no stale callback may fire after teardown")
	assert.Zero(t, pings)
	assert.Zero(t, h.cleanupCount())
}

func TestPingSentOnlyWhileActive(t *testing.T) {
	t.Parallel()

	h := newGuardHarness(testConfig)
	h.guard.Arm(context.Background())

	// No interaction: ticks pass without pinging.
	h.sched.Advance(3 * time.Minute)
	pings, _ := h.client.counts()
	require.Zero(t, pings)

	// A fresh interaction mid-interval earns a ping on the next tick.
	h.sched.Advance(30 * time.Second)
	h.guard.RecordActivity()
	h.sched.Advance(30 * time.Second)
	pings, _ = h.client.counts()
	assert.Equal(t, 1, pings)
}

func TestRejectedPingLogsOutImmediately(t *testing.T) {
	t.Parallel()

	h := newGuardHarness(testConfig)
	h.client.pingErr = errors.New("401 session revoked")
	h.guard.Arm(context.Background())

	h.sched.Advance(30 * time.Second)
	h.guard.RecordActivity()
	h.sched.Advance(30 * time.Second)

	pings, logouts := h.client.counts()
	assert.Equal(t, 1, pings)
	assert.Equal(t, 1, logouts)
	assert.Equal(t, 1, h.cleanupCount())
	assert.False(t, h.guard.Armed())

	// No further pings after logout.
	h.sched.Advance(10 * time.Minute)
	pings, _ = h.client.counts()
	assert.Equal(t, 1, pings)
}

func TestLogoutIsIdempotent(t *testing.T) {
	t.Parallel()

	h := newGuardHarness(testConfig)
	h.guard.Arm(context.Background())

	h.guard.Logout()
	h.guard.Logout()

	_, logouts := h.client.counts()
	assert.Equal(t, 1, logouts)
	assert.Equal(t, 1, h.cleanupCount())
}

func TestLogoutCleansUpLocallyWhenServerCallFails(t *testing.T) {
	t.Parallel()

	h := newGuardHarness(testConfig)
	h.client.logoutErr = errors.New("network unreachable")
	h.guard.Arm(context.Background())

	h.guard.Logout()

	assert.Equal(t, 1, h.cleanupCount(), "local cleanup must run even when the server call fails")
	assert.False(t, h.guard.Armed())
}

func TestRearmAfterLogout(t *testing.T) {
	t.Parallel()

	h := newGuardHarness(testConfig)
	h.guard.Arm(context.Background())
	h.guard.Logout()

	h.guard.Arm(context.Background())
	require.True(t, h.guard.Armed())

	h.sched.Advance(testConfig.IdleTimeout)
	_, logouts := h.client.counts()
	assert.Equal(t, 2, logouts, "a re-armed session gets its own idle timeout")
}

func TestRecordActivityWhileDisarmedIsNoop(t *testing.T) {
	t.Parallel()

	h := newGuardHarness(testConfig)
	h.guard.RecordActivity()

	h.sched.Advance(time.Hour)
	pings, logouts := h.client.counts()
	assert.Zero(t, pings)
	assert.Zero(t, logouts)
}

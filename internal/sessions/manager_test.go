package sessions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/feedback-survey/internal/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestManager_CreateGetDelete(t *testing.T) {
	var counts []int
	m := NewManager(Config{}, nil, WithCountHook(func(n int) { counts = append(counts, n) }))
	defer m.Stop()

	id, session := m.Create()
	require.NotNil(t, session)
	assert.Equal(t, 1, m.Count())

	got, err := m.Get(id)
	require.NoError(t, err)
	assert.Same(t, session, got)

	_, err = m.Get(uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, m.Delete(id))
	assert.ErrorIs(t, m.Delete(id), ErrSessionNotFound)
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, []int{1, 0}, counts)
}

func TestManager_FactoryReceivesID(t *testing.T) {
	var seen uuid.UUID
	m := NewManager(Config{}, func(id uuid.UUID) *survey.Session {
		seen = id
		return survey.NewSession(nil)
	})

	id, _ := m.Create()
	assert.Equal(t, id, seen)
}

func TestManager_SweepExpiresIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	var expired []uuid.UUID
	m := NewManager(Config{TTL: 30 * time.Minute}, nil,
		WithClock(clock.Now),
		WithExpireHook(func(id uuid.UUID) { expired = append(expired, id) }))

	stale, _ := m.Create()
	clock.Advance(20 * time.Minute)
	fresh, _ := m.Create()
	clock.Advance(15 * time.Minute)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, []uuid.UUID{stale}, expired)

	_, err := m.Get(stale)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(fresh)
	assert.NoError(t, err)
}

func TestManager_SweepKeepsSubmittingSessions(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	release := make(chan struct{})
	submitter := survey.SubmitFunc(func(context.Context, survey.Record) error {
		<-release
		return nil
	})
	m := NewManager(Config{TTL: time.Minute}, func(uuid.UUID) *survey.Session {
		return survey.NewSession(submitter)
	}, WithClock(clock.Now))

	id, session := m.Create()
	for _, f := range survey.RequiredFieldIDs() {
		value := "3"
		if f == survey.FieldScheduleTimeliness {
			value = "no"
		}
		require.NoError(t, session.SetField(f, value))
	}
	require.NoError(t, session.Advance())
	require.NoError(t, session.Advance())

	done := make(chan error, 1)
	go func() { done <- session.RequestSubmit(context.Background()) }()
	require.Eventually(t, func() bool { return session.State() == survey.StateSubmitting }, time.Second, time.Millisecond)

	clock.Advance(time.Hour)
	assert.Equal(t, 0, m.Sweep())
	_, err := m.Get(id)
	assert.NoError(t, err)

	close(release)
	require.NoError(t, <-done)
}

func TestManager_SweeperGoroutine(t *testing.T) {
	m := NewManager(Config{TTL: time.Nanosecond, CleanupInterval: 10 * time.Millisecond}, nil)
	defer m.Stop()

	m.Create()
	assert.Eventually(t, func() bool { return m.Count() == 0 }, time.Second, 5*time.Millisecond)

	m.Stop()
	m.Stop()
}

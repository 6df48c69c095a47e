package interfaces

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	mu     sync.Mutex
	rounds int
	err    error
}

func (s *countingSweeper) Sweep(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds++
	return 2, s.err
}

func (s *countingSweeper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rounds
}

type fakeLock struct {
	mu       sync.Mutex
	busy     bool
	held     bool
	unlocked int
}

func (l *fakeLock) Lock(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy {
		return errors.New("lock held by another instance")
	}
	l.held = true
	return nil
}

func (l *fakeLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	l.unlocked++
	return nil
}

func TestRunOnceSweepsUnderLock(t *testing.T) {
	sweeper := &countingSweeper{}
	lock := &fakeLock{}
	s := NewReminderScheduler(sweeper, lock, time.Minute)

	assert.Equal(t, 2, s.RunOnce(context.Background()))
	assert.Equal(t, 1, sweeper.count())
	assert.False(t, lock.held)
	assert.Equal(t, 1, lock.unlocked)

	sweeper.err = errors.New("db down")
	s.RunOnce(context.Background())
	assert.Equal(t, 2, lock.unlocked, "lock must be released after a failed sweep")
}

func TestRunOnceSkipsWhenLockBusy(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewReminderScheduler(sweeper, &fakeLock{busy: true}, time.Minute)

	assert.Zero(t, s.RunOnce(context.Background()))
	assert.Zero(t, sweeper.count())
}

func TestRunStopsWithContext(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewReminderScheduler(sweeper, &fakeLock{}, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return sweeper.count() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

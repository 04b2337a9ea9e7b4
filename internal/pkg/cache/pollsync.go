package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	ErrJobNotFound      = errors.New("sync job not found")
	ErrDuplicateJob     = errors.New("sync job already registered")
	ErrNoValueAvailable = errors.New("no value available yet")
)

// FetchFunc loads a fresh value for a sync job.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Job describes one periodically refreshed cache key.
type Job struct {
	Key   string
	TTL   time.Duration
	Every time.Duration
	Fetch FetchFunc
}

type jobState struct {
	Job

	mu         sync.Mutex
	lastGood   interface{}
	lastGoodAt time.Time
	hasValue   bool
}

// Syncer drives background re-fetches on fixed per-key intervals and keeps
// the last good value around across transient fetch failures. Reads prefer
// stale-but-present data over no data.
type Syncer struct {
	cache *Cache
	cron  *cron.Cron

	mu   sync.Mutex
	jobs map[string]*jobState
}

// NewSyncer creates a syncer over the given cache.
func NewSyncer(c *Cache) *Syncer {
	return &Syncer{
		cache: c,
		cron:  cron.New(),
		jobs:  make(map[string]*jobState),
	}
}

// Register schedules a job. Must be called before Start for the first run
// to be scheduled; registering twice for the same key is an error.
func (s *Syncer) Register(job Job) error {
	if job.Key == "" || job.Fetch == nil || job.Every <= 0 || job.TTL <= 0 {
		return fmt.Errorf("invalid sync job %q", job.Key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Key]; exists {
		return ErrDuplicateJob
	}

	state := &jobState{Job: job}
	s.jobs[job.Key] = state

	schedule := fmt.Sprintf("@every %s", job.Every)
	if _, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.refresh(context.Background(), state); err != nil {
			log.Printf("⚠️ Sync refresh failed for %s: %v", state.Key, err)
		}
	}); err != nil {
		delete(s.jobs, job.Key)
		return err
	}

	return nil
}

// Start launches the scheduler and primes every registered job once.
func (s *Syncer) Start() {
	s.mu.Lock()
	states := make([]*jobState, 0, len(s.jobs))
	for _, state := range s.jobs {
		states = append(states, state)
	}
	s.mu.Unlock()

	for _, state := range states {
		if _, err := s.refresh(context.Background(), state); err != nil {
			log.Printf("⚠️ Initial sync failed for %s: %v", state.Key, err)
		}
	}

	s.cron.Start()
	log.Printf("🔄 PollSync started (%d jobs)", len(states))
}

// Stop halts the scheduler and waits for running refreshes to finish.
func (s *Syncer) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 PollSync stopped")
}

// Refresh force-fetches a key immediately, bypassing the TTL check, and on
// success resets the TTL window. Used for user-triggered manual refresh.
func (s *Syncer) Refresh(ctx context.Context, key string) (interface{}, error) {
	state, err := s.state(key)
	if err != nil {
		return nil, err
	}
	return s.refresh(ctx, state)
}

// Value returns the freshest data available for key: the live cache entry
// when the TTL has not lapsed, otherwise the last good fetched value. The
// returned time is when that data was fetched.
func (s *Syncer) Value(key string) (interface{}, time.Time, error) {
	state, err := s.state(key)
	if err != nil {
		return nil, time.Time{}, err
	}

	if v, ok := s.cache.Get(key); ok {
		at, _ := s.cache.LastUpdated(key)
		return v, at, nil
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	if !state.hasValue {
		return nil, time.Time{}, ErrNoValueAvailable
	}
	return state.lastGood, state.lastGoodAt, nil
}

func (s *Syncer) state(key string) (*jobState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.jobs[key]
	if !ok {
		return nil, ErrJobNotFound
	}
	return state, nil
}

// refresh fetches one job. On failure the cache entry and last good value
// are left untouched so readers keep seeing the previous data.
func (s *Syncer) refresh(ctx context.Context, state *jobState) (interface{}, error) {
	value, err := state.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(state.Key, value, state.TTL)

	state.mu.Lock()
	state.lastGood = value
	state.lastGoodAt = time.Now()
	state.hasValue = true
	state.mu.Unlock()

	return value, nil
}

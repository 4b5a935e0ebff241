package library

import (
	"context"
	"sync"
)

// Source says where a snapshot's data came from.
type Source int

const (
	SourceNone     Source = iota // nothing loaded yet
	SourceRemote                 // last fetch succeeded
	SourceFallback               // sample data substituted for a failed fetch
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceFallback:
		return "sample data"
	default:
		return "not loaded"
	}
}

// snapshot holds the single current version of one listing. Starting a load
// cancels the load before it, and only the newest load may commit.
type snapshot[T any] struct {
	mu     sync.Mutex
	value  T
	source Source
	gen    uint64
	cancel context.CancelFunc
}

// begin cancels any in-flight load and returns the context and generation
// for a new one.
func (s *snapshot[T]) begin(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.gen++
	return ctx, s.gen
}

// commit replaces the value if gen is still the newest load.
func (s *snapshot[T]) commit(gen uint64, v T, src Source) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.value, s.source = v, src
	s.finishLocked()
	return true
}

// finish releases the load's context without touching the value.
func (s *snapshot[T]) finish(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.finishLocked()
	return true
}

func (s *snapshot[T]) finishLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// seed sets an initial value when nothing has been loaded.
func (s *snapshot[T]) seed(v T, src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == SourceNone {
		s.value, s.source = v, src
	}
}

func (s *snapshot[T]) get() (T, Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.source
}

package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps counters in process memory. Expired windows are swept
// periodically until Close is called.
type MemoryStore struct {
	mu         sync.Mutex
	data       map[string]*window
	gcInterval time.Duration
	now        func() time.Time
	stopCh     chan struct{}
	closeOnce  sync.Once
}

type window struct {
	count     int64
	expiresAt time.Time
}

func NewMemoryStore(gcInterval time.Duration) *MemoryStore {
	if gcInterval <= 0 {
		gcInterval = 10 * time.Minute
	}
	s := &MemoryStore{
		data:       make(map[string]*window),
		gcInterval: gcInterval,
		now:        time.Now,
		stopCh:     make(chan struct{}),
	}
	go s.gc()
	return s
}

func (s *MemoryStore) Increment(ctx context.Context, key string, d time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.data[key]
	if !ok || !now.Before(w.expiresAt) {
		w = &window{expiresAt: now.Add(d)}
		s.data[key] = w
	}
	w.count++
	return w.count, w.expiresAt, nil
}

func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() { close(s.stopCh) })
	return nil
}

func (s *MemoryStore) gc() {
	ticker := time.NewTicker(s.gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, w := range s.data {
		if !now.Before(w.expiresAt) {
			delete(s.data, k)
		}
	}
}

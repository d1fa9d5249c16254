package middleware

import (
	"bytes"
	"net/http"
	"sync"
	"time"
)

// IdempotencyStore records responses keyed by the Idempotency-Key header
// so retried batch commits replay the original outcome instead of
// double-booking equipment.
type IdempotencyStore interface {
	Get(key string) (*StoredResponse, bool)
	Set(key string, resp *StoredResponse)
}

type StoredResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	StoredAt   time.Time
}

type InMemoryIdempotencyStore struct {
	mu      sync.RWMutex
	entries map[string]*StoredResponse
	ttl     time.Duration
	done    chan struct{}
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		entries: make(map[string]*StoredResponse),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

// Stop terminates the background cleanup goroutine.
func (s *InMemoryIdempotencyStore) Stop() {
	close(s.done)
}

func (s *InMemoryIdempotencyStore) Get(key string) (*StoredResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(resp.StoredAt) > s.ttl {
		return nil, false
	}
	return resp, true
}

func (s *InMemoryIdempotencyStore) Set(key string, resp *StoredResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = resp
}

func (s *InMemoryIdempotencyStore) cleanupLoop() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			for key, resp := range s.entries {
				if time.Since(resp.StoredAt) > s.ttl {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

// responseCapture buffers the handler's response so it can be stored
// for replay.
type responseCapture struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rc *responseCapture) WriteHeader(code int) {
	rc.statusCode = code
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency replays stored responses for repeated Idempotency-Key
// values on mutating requests. Requests without the header pass through.
func Idempotency(store IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if stored, ok := store.Get(key); ok {
				for name, values := range stored.Header {
					for _, v := range values {
						w.Header().Add(name, v)
					}
				}
				w.Header().Set("X-Idempotency-Replay", "true")
				w.WriteHeader(stored.StatusCode)
				_, _ = w.Write(stored.Body)
				return
			}

			capture := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(capture, r)

			// Only successful outcomes are replayable. A failed commit
			// should be retried for real.
			if capture.statusCode < 500 {
				store.Set(key, &StoredResponse{
					StatusCode: capture.statusCode,
					Header:     w.Header().Clone(),
					Body:       capture.body.Bytes(),
					StoredAt:   time.Now(),
				})
			}
		})
	}
}

package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"
)

// IdempotencyStore caches responses of mutating requests by their
// Idempotency-Key header so retries replay the original response instead of
// re-executing the handler.
type IdempotencyStore struct {
	mu       sync.RWMutex
	entries  map[string]*idempotencyEntry
	ttl      time.Duration
	stopChan chan struct{}
}

type idempotencyEntry struct {
	status    int
	header    http.Header
	body      []byte
	expiresAt time.Time
	inFlight  bool
	done      chan struct{}
}

// IdempotencyConfig holds configuration for the idempotency store
type IdempotencyConfig struct {
	TTL     time.Duration // how long to keep results (default 24h)
	Cleanup time.Duration // cleanup interval (default 1h)
}

// NewIdempotencyStore creates a new idempotency store and starts its
// cleanup loop
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = time.Hour
	}

	store := &IdempotencyStore{
		entries:  make(map[string]*idempotencyEntry),
		ttl:      cfg.TTL,
		stopChan: make(chan struct{}),
	}

	go store.cleanupLoop(cfg.Cleanup)

	return store
}

// Stop stops the cleanup goroutine
func (s *IdempotencyStore) Stop() {
	close(s.stopChan)
}

func (s *IdempotencyStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupExpired()
		case <-s.stopChan:
			return
		}
	}
}

func (s *IdempotencyStore) cleanupExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if !e.inFlight && now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// begin claims the key. It returns the cached entry when one exists, or nil
// when the caller should execute the request.
func (s *IdempotencyStore) begin(key string) (*idempotencyEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		if e.inFlight || time.Now().Before(e.expiresAt) {
			return e, true
		}
		// Expired entry; reclaim.
	}

	s.entries[key] = &idempotencyEntry{
		inFlight: true,
		done:     make(chan struct{}),
	}
	return nil, false
}

func (s *IdempotencyStore) finish(key string, status int, header http.Header, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return
	}
	e.status = status
	e.header = header.Clone()
	e.body = body
	e.expiresAt = time.Now().Add(s.ttl)
	e.inFlight = false
	close(e.done)
}

// scopedKey mixes the request method, path, and user into the key so the
// same client key cannot replay across endpoints or users.
func scopedKey(r *http.Request, key string) string {
	h := sha256.Sum256([]byte(r.Method + "\x00" + r.URL.Path + "\x00" + GetUserID(r.Context()) + "\x00" + key))
	return hex.EncodeToString(h[:])
}

// recordingWriter buffers the response so it can be cached
type recordingWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	rw.buf.Write(b)
	return rw.ResponseWriter.Write(b)
}

// Idempotency returns a middleware that replays cached responses for
// requests bearing an Idempotency-Key header. Requests without the header
// pass through untouched. Concurrent duplicates wait for the original to
// finish, then replay its response.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("Idempotency-Key")
			if key == "" || (r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch && r.Method != http.MethodDelete) {
				next.ServeHTTP(w, r)
				return
			}

			sk := scopedKey(r, key)

			entry, cached := store.begin(sk)
			if cached {
				if entry.inFlight {
					<-entry.done
				}
				replay(w, entry)
				return
			}

			rw := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			store.finish(sk, rw.status, rw.Header(), rw.buf.Bytes())
		})
	}
}

func replay(w http.ResponseWriter, e *idempotencyEntry) {
	for k, vals := range e.header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Idempotent-Replay", "true")
	w.WriteHeader(e.status)
	_, _ = io.Copy(w, bytes.NewReader(e.body))
}

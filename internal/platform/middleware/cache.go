package middleware

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// CacheStore is the backend for the read-path response cache.
type CacheStore interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
	Clear()
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryCacheStore is a thread-safe in-process CacheStore with lazy
// expiration.
type InMemoryCacheStore struct {
	entries map[string]*cacheEntry
	mu      sync.RWMutex
}

func NewInMemoryCacheStore() *InMemoryCacheStore {
	return &InMemoryCacheStore{entries: make(map[string]*cacheEntry)}
}

// Get returns a cached value, deleting and missing on expired entries.
func (s *InMemoryCacheStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}
	return entry.data, true
}

func (s *InMemoryCacheStore) Set(key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &cacheEntry{data: value, expiresAt: time.Now().Add(ttl)}
}

func (s *InMemoryCacheStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func (s *InMemoryCacheStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*cacheEntry)
}

// StartCleanup periodically sweeps expired entries until ctx is cancelled.
func (s *InMemoryCacheStore) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				now := time.Now()
				for k, v := range s.entries {
					if now.After(v.expiresAt) {
						delete(s.entries, k)
					}
				}
				s.mu.Unlock()
			}
		}
	}()
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bufferedWriter struct {
	writer     http.ResponseWriter
	buf        *bytes.Buffer
	statusCode int
}

func (w *bufferedWriter) Header() http.Header         { return w.writer.Header() }
func (w *bufferedWriter) Write(b []byte) (int, error) { return w.buf.Write(b) }
func (w *bufferedWriter) WriteHeader(code int)        { w.statusCode = code }

// ResponseCache serves successful GET responses from the store for ttl.
// Any non-GET request through the same middleware clears the cache, so a
// cached list never outlives a write by more than one round trip.
func ResponseCache(store CacheStore, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodGet {
				err := next(c)
				if err == nil && c.Response().Status < 400 {
					store.Clear()
				}
				return err
			}

			key := cacheKey(req.URL.Path, req.URL.RawQuery)
			if raw, ok := store.Get(key); ok {
				var cached cachedResponse
				if json.Unmarshal(raw, &cached) == nil {
					return c.Blob(cached.Status, cached.ContentType, cached.Body)
				}
				store.Delete(key)
			}

			res := c.Response()
			origWriter := res.Writer
			buf := &bufferedWriter{writer: origWriter, buf: &bytes.Buffer{}, statusCode: http.StatusOK}
			res.Writer = buf

			err := next(c)
			res.Writer = origWriter
			if err != nil {
				return err
			}

			body := buf.buf.Bytes()
			if buf.statusCode < 400 {
				raw, merr := json.Marshal(cachedResponse{
					Status:      buf.statusCode,
					ContentType: res.Header().Get(echo.HeaderContentType),
					Body:        body,
				})
				if merr == nil {
					store.Set(key, raw, ttl)
				}
			}

			origWriter.WriteHeader(buf.statusCode)
			if len(body) > 0 {
				if _, werr := origWriter.Write(body); werr != nil {
					return werr
				}
			}
			return nil
		}
	}
}

func cacheKey(path, query string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(path+"?"+query)))
}

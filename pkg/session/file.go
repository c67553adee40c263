package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/canvaskit/pkg/cache"
	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
)

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves the session of the named diagram.
	// Returns nil, nil if the session doesn't exist.
	Get(ctx context.Context, name string) (*Session, error)

	// Set stores a session under its name.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored sessions, sorted.
	List(ctx context.Context) ([]string, error)
}

// =============================================================================
// File store
// =============================================================================

// FileStore is a file-based session store for the CLI.
// Sessions are stored as JSON files in a config directory.
type FileStore struct {
	mu       sync.RWMutex
	baseDir  string
	registry diagram.Registry
	opts     Options
}

// NewFileStore creates a new file-based session store.
// If baseDir is empty, defaults to ~/.config/canvaskit/sessions/
func NewFileStore(baseDir string, registry diagram.Registry, opts Options) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "canvaskit", "sessions")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, registry: registry, opts: opts}, nil
}

func (s *FileStore) sessionPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

func (s *FileStore) Get(ctx context.Context, name string) (*Session, error) {
	if err := errors.ValidateDiagramName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.sessionPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return Decode(data, s.registry, s.opts)
}

func (s *FileStore) Set(ctx context.Context, sess *Session) error {
	if err := errors.ValidateDiagramName(sess.Name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := sess.Encode()
	if err != nil {
		return err
	}

	// Write through a temp file so a crash never leaves half a session.
	path := s.sessionPath(sess.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateDiagramName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.sessionPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read session dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	slices.Sort(names)
	return names, nil
}

// Cleanup removes sessions not updated within maxAge, and session files
// that can no longer be decoded. It returns the names removed.
func (s *FileStore) Cleanup(ctx context.Context, maxAge time.Duration) ([]string, error) {
	names, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	var removed []string
	for _, name := range names {
		path := s.sessionPath(name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		sess, err := Decode(data, s.registry, s.opts)
		if err == nil && sess.UpdatedAt.After(cutoff) {
			continue
		}
		if os.Remove(path) == nil {
			removed = append(removed, name)
		}
	}
	return removed, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for session files.
func (s *FileStore) Path() string {
	return s.baseDir
}

// =============================================================================
// Cache store
// =============================================================================

// CacheStore keeps sessions in a [cache.Cache], which lets several
// machines edit the same diagrams through Redis. Entries expire
// after TTL of inactivity.
type CacheStore struct {
	cache    cache.Cache
	prefix   string
	ttl      time.Duration
	registry diagram.Registry
	opts     Options
}

// DefaultTTL is how long an untouched session survives in a CacheStore.
const DefaultTTL = 30 * 24 * time.Hour

// NewCacheStore returns a store over c. Keys are "<prefix>session:<name>".
// A ttl of zero means [DefaultTTL].
func NewCacheStore(c cache.Cache, prefix string, ttl time.Duration, registry diagram.Registry, opts Options) *CacheStore {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &CacheStore{cache: c, prefix: prefix, ttl: ttl, registry: registry, opts: opts}
}

func (s *CacheStore) key(name string) string { return s.prefix + "session:" + name }

func (s *CacheStore) indexKey() string { return s.prefix + "sessions" }

func (s *CacheStore) Get(ctx context.Context, name string) (*Session, error) {
	if err := errors.ValidateDiagramName(name); err != nil {
		return nil, err
	}
	data, ok, err := s.cache.Get(ctx, s.key(name))
	if err != nil || !ok {
		return nil, err
	}
	return Decode(data, s.registry, s.opts)
}

func (s *CacheStore) Set(ctx context.Context, sess *Session) error {
	if err := errors.ValidateDiagramName(sess.Name); err != nil {
		return err
	}
	data, err := sess.Encode()
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, s.key(sess.Name), data, s.ttl); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return s.updateIndex(ctx, func(names []string) []string {
		if slices.Contains(names, sess.Name) {
			return names
		}
		return append(names, sess.Name)
	})
}

func (s *CacheStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateDiagramName(name); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, s.key(name)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return s.updateIndex(ctx, func(names []string) []string {
		return slices.DeleteFunc(names, func(n string) bool { return n == name })
	})
}

// List returns the indexed sessions that have not expired.
func (s *CacheStore) List(ctx context.Context) ([]string, error) {
	names, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	live := names[:0]
	for _, name := range names {
		if _, ok, err := s.cache.Get(ctx, s.key(name)); err == nil && ok {
			live = append(live, name)
		}
	}
	slices.Sort(live)
	return live, nil
}

// The index is a newline-separated name list. It is advisory: List
// drops names whose entries have expired.
func (s *CacheStore) index(ctx context.Context) ([]string, error) {
	data, ok, err := s.cache.Get(ctx, s.indexKey())
	if err != nil {
		return nil, fmt.Errorf("read session index: %w", err)
	}
	if !ok || len(data) == 0 {
		return nil, nil
	}
	return strings.Split(string(data), "\n"), nil
}

func (s *CacheStore) updateIndex(ctx context.Context, fn func([]string) []string) error {
	names, err := s.index(ctx)
	if err != nil {
		return err
	}
	names = fn(names)
	if err := s.cache.Set(ctx, s.indexKey(), []byte(strings.Join(names, "\n")), 0); err != nil {
		return fmt.Errorf("write session index: %w", err)
	}
	return nil
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*CacheStore)(nil)
)

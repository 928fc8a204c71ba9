package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
)

// FileStore keeps one JSON file per session under a directory. Writes go
// through a temporary file and a rename, so a crashed host never leaves a
// half-written session behind.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file store in dir.
// If dir is empty, defaults to ~/.config/degreetree/sessions/
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "degreetree", "sessions")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// path returns the file for id. IDs that could escape the directory are
// rejected; UUIDs always pass.
func (s *FileStore) path(id string) (string, bool) {
	if apperrors.ValidateTreeID(id) != nil {
		return "", false
	}
	return filepath.Join(s.dir, id+".json"), true
}

func (s *FileStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	path, ok := s.path(sessionID)
	if !ok {
		return nil, notFound(sessionID)
	}

	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("read session %q: %w", sessionID, err)
	}

	sess, err := decode(data)
	if err != nil {
		return nil, err
	}
	if sess.IsExpired() {
		_ = s.Delete(ctx, sessionID)
		return nil, expired(sessionID)
	}
	return sess, nil
}

func (s *FileStore) Set(ctx context.Context, sess *Session) error {
	path, ok := s.path(sess.ID)
	if !ok {
		return fmt.Errorf("session id: %w", apperrors.ValidateTreeID(sess.ID))
	}
	data, err := encode(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".session-*")
	if err != nil {
		return fmt.Errorf("write session %q: %w", sess.ID, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session %q: %w", sess.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write session %q: %w", sess.ID, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write session %q: %w", sess.ID, err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, sessionID string) error {
	path, ok := s.path(sessionID)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session %q: %w", sessionID, err)
	}
	return nil
}

// Cleanup removes expired and unreadable session files.
func (s *FileStore) Cleanup(ctx context.Context) error {
	_, err := s.Sweep(ctx)
	return err
}

// Sweep removes expired and unreadable session files and returns how many
// it removed. It stops early when ctx is done.
func (s *FileStore) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read session dir: %w", err)
	}

	removed := 0
	var errs []error
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if sess, err := decode(data); err == nil && !sess.IsExpired() {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

func (s *FileStore) Close() error { return nil }

// Dir returns the directory holding the session files.
func (s *FileStore) Dir() string { return s.dir }

var _ Store = (*FileStore)(nil)

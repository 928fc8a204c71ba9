// Package session stores per-viewer camera state for the HTTP API.
//
// A viewer session pins a tree, a viewport and a camera snapshot. Hosts
// without long-lived controllers load the snapshot, restore a
// [camera.Controller], apply one event and save the new snapshot.
//
// Storage backends implement [Store]:
//   - [MemoryStore]: in-process, for development and tests
//   - [FileStore]: JSON files, for a single long-running host
//   - [RedisStore]: shared storage for multi-instance servers
//
// # Usage
//
//	sess := session.New("uw-cse", 800, 320, session.DefaultTTL)
//	sess.SetCamera(ctrl.State())
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	unlock := locker.Lock(sess.ID)
//	defer unlock()
//	sess, err := store.Get(ctx, sess.ID)
//	if errors.Is(err, session.ErrExpired) {
//	    // Start over
//	}
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/degreetree/pkg/camera"
	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/graph"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = apperrors.New(apperrors.ErrCodeSessionNotFound, "session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = apperrors.New(apperrors.ErrCodeSessionExpired, "session expired")
)

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// Session is one viewer's camera over one tree.
type Session struct {
	ID     string        `json:"id"`
	TreeID string        `json:"tree_id"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Camera *graph.Camera `json:"camera,omitempty"`
	// Fingerprint identifies the node set the camera was saved against.
	Fingerprint string    `json:"fingerprint,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// New creates a session with a random ID and no camera snapshot yet.
func New(treeID string, width, height float64, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		TreeID:    treeID,
		Width:     width,
		Height:    height,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session's lifetime to ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// CameraState returns the stored camera snapshot.
// A session without a snapshot yields the zero State.
func (s *Session) CameraState() camera.State {
	return camera.Parse(s.Camera)
}

// SetCamera stores a camera snapshot.
func (s *Session) SetCamera(st camera.State) {
	s.Camera = st.Export()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session doesn't exist and ErrExpired if
	// it exists but has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session until its ExpiresAt.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// encode and decode are the stored form shared by the file and Redis
// backends.
func encode(sess *Session) ([]byte, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*Session, error) {
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &sess, nil
}

func notFound(id string) error {
	return fmt.Errorf("session %q: %w", id, ErrNotFound)
}

func expired(id string) error {
	return fmt.Errorf("session %q: %w", id, ErrExpired)
}

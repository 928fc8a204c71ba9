package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/degreetree/pkg/camera"
	apperrors "github.com/matzehuels/degreetree/pkg/errors"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestNew(t *testing.T) {
	s := New("uw-cse", 800, 320, time.Hour)
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", s.ID, err)
	}
	if s.TreeID != "uw-cse" || s.Width != 800 || s.Height != 320 {
		t.Errorf("New = %+v", s)
	}
	if s.IsExpired() {
		t.Error("fresh session should not be expired")
	}
	if s.Camera != nil {
		t.Error("fresh session should have no camera snapshot")
	}
	if New("t", 1, 1, time.Hour).ID == s.ID {
		t.Error("session IDs should be unique")
	}
}

func TestCameraSnapshot(t *testing.T) {
	s := New("t", 800, 320, time.Hour)
	if got := s.CameraState(); got != (camera.State{}) {
		t.Errorf("CameraState without snapshot = %+v, want zero", got)
	}

	want := camera.State{OffsetX: 360, OffsetY: -100, Scale: 1.5, FocusedID: "cse123"}
	s.SetCamera(want)
	if got := s.CameraState(); got != want {
		t.Errorf("CameraState = %+v, want %+v", got, want)
	}
}

func TestTouch(t *testing.T) {
	s := New("t", 1, 1, -time.Minute)
	if !s.IsExpired() {
		t.Fatal("session with negative ttl should be expired")
	}
	s.Touch(time.Hour)
	if s.IsExpired() {
		t.Error("Touch should extend the session")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close()

			sess := New("uw-cse", 800, 320, time.Hour)
			sess.SetCamera(camera.State{OffsetX: 1, OffsetY: 2, Scale: 1, FocusedID: "a"})
			if err := st.Set(ctx, sess); err != nil {
				t.Fatalf("Set: %v", err)
			}

			got, err := st.Get(ctx, sess.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.TreeID != sess.TreeID || got.Width != sess.Width {
				t.Errorf("Get = %+v, want %+v", got, sess)
			}
			if got.CameraState() != sess.CameraState() {
				t.Errorf("camera = %+v, want %+v", got.CameraState(), sess.CameraState())
			}

			if err := st.Delete(ctx, sess.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := st.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Delete err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreMissingAndExpired(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Get(ctx, uuid.NewString())
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("missing err = %v, want ErrNotFound", err)
			}
			if apperrors.GetCode(err) != apperrors.ErrCodeSessionNotFound {
				t.Errorf("missing code = %q", apperrors.GetCode(err))
			}

			old := New("t", 1, 1, -time.Second)
			if err := st.Set(ctx, old); err != nil {
				t.Fatalf("Set: %v", err)
			}
			_, err = st.Get(ctx, old.ID)
			if !errors.Is(err, ErrExpired) {
				t.Errorf("expired err = %v, want ErrExpired", err)
			}
			if apperrors.GetCode(err) != apperrors.ErrCodeSessionExpired {
				t.Errorf("expired code = %q", apperrors.GetCode(err))
			}
			// Expired sessions are dropped on read.
			if _, err := st.Get(ctx, old.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("second read err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreCleanup(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			live := New("t", 1, 1, time.Hour)
			dead := New("t", 1, 1, -time.Second)
			for _, s := range []*Session{live, dead} {
				if err := st.Set(ctx, s); err != nil {
					t.Fatal(err)
				}
			}
			if err := st.Cleanup(ctx); err != nil {
				t.Fatalf("Cleanup: %v", err)
			}
			if _, err := st.Get(ctx, live.ID); err != nil {
				t.Errorf("live session lost: %v", err)
			}
			if _, err := st.Get(ctx, dead.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("dead session err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	sess := New("t", 1, 1, time.Hour)
	sess.SetCamera(camera.State{Scale: 1, FocusedID: "a"})
	if err := st.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}
	sess.Camera.FocusedID = "mutated"

	got, _ := st.Get(ctx, sess.ID)
	if got.Camera.FocusedID != "a" {
		t.Errorf("stored camera changed through caller: %q", got.Camera.FocusedID)
	}
	if st.Len() != 1 {
		t.Errorf("Len = %d, want 1", st.Len())
	}
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	ctx := context.Background()
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Get(ctx, "../secret"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(../secret) err = %v, want ErrNotFound", err)
	}
	bad := New("t", 1, 1, time.Hour)
	bad.ID = "../secret"
	if err := st.Set(ctx, bad); err == nil {
		t.Error("Set with path-like ID should fail")
	}
}

func TestFileStoreSweep(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	live := New("t", 1, 1, time.Hour)
	for _, s := range []*Session{live, New("t", 1, 1, -time.Second), New("t", 1, 1, -time.Minute)} {
		if err := st.Set(ctx, s); err != nil {
			t.Fatal(err)
		}
	}
	for name, body := range map[string]string{
		"corrupt.json":     "{",
		".session-partial": "{",
		"notes.txt":        "keep",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	n, err := st.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 3 {
		t.Errorf("Sweep removed %d files, want 3", n)
	}

	entries, _ := os.ReadDir(dir)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{".session-partial", "notes.txt", live.ID + ".json"}
	if len(names) != len(want) {
		t.Fatalf("left %v, want %v", names, want)
	}
	for _, w := range want {
		if _, err := os.Stat(filepath.Join(dir, w)); err != nil {
			t.Errorf("%s removed: %v", w, err)
		}
	}
}

func TestLockerSerializes(t *testing.T) {
	l := NewLocker()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		overlap bool
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("s1")
			defer unlock()

			mu.Lock()
			active++
			if active > 1 {
				overlap = true
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if overlap {
		t.Error("two holders of the same session lock overlapped")
	}
	if l.Len() != 0 {
		t.Errorf("Len after all unlocks = %d, want 0", l.Len())
	}
}

func TestLockerIndependentSessions(t *testing.T) {
	l := NewLocker()
	unlockA := l.Lock("a")
	done := make(chan struct{})
	go func() {
		unlock := l.Lock("b")
		unlock()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind lock on a")
	}
	unlockA()
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, Options{})
	if err != nil {
		t.Fatalf("Open(default): %v", err)
	}
	if _, ok := st.(*MemoryStore); !ok {
		t.Errorf("Open(default) = %T, want *MemoryStore", st)
	}
	if _, err := Open(ctx, Options{Backend: "etcd"}); apperrors.GetCode(err) != apperrors.ErrCodeInvalidConfig {
		t.Errorf("Open(etcd) err = %v, want INVALID_CONFIG", err)
	}
}

func TestRedisStoreKeys(t *testing.T) {
	st := NewRedisStoreFromClient(nil, "")
	if got := st.key("abc"); got != DefaultRedisPrefix+"abc" {
		t.Errorf("key = %q", got)
	}
	st = NewRedisStoreFromClient(nil, "x:")
	if got := st.key("abc"); got != "x:abc" {
		t.Errorf("key with prefix = %q", got)
	}
}

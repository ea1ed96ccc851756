package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"trivia-client/internal/domain"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	store := NewSessionStore(path)

	if _, ok, err := store.Get(ctx); ok || err != nil {
		t.Fatalf("missing file should read as logged out, ok=%v err=%v", ok, err)
	}

	want := domain.Session{Token: "tok", Role: "user", UserID: "u1"}
	if err := store.Set(ctx, want); err != nil {
		t.Fatalf("set: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600, got %o", perm)
	}

	got, ok, err := NewSessionStore(path).Get(ctx)
	if err != nil || !ok || got != want {
		t.Fatalf("expected %+v, got %+v ok=%v err=%v", want, got, ok, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected session file removed, err=%v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second clear should be a no-op: %v", err)
	}
}

func TestSessionStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := os.WriteFile(path, []byte("token: [unclosed"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := NewSessionStore(path).Get(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

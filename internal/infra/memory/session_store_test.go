package memory

import (
	"context"
	"testing"

	"trivia-client/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	if _, ok, err := store.Get(ctx); ok || err != nil {
		t.Fatalf("expected empty store, ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, domain.Session{Token: "tok", Role: "admin"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := store.Get(ctx)
	if err != nil || !ok || got.Token != "tok" || !got.IsAdmin() {
		t.Fatalf("expected stored admin session, got %+v ok=%v err=%v", got, ok, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := store.Get(ctx); ok {
		t.Fatalf("expected session removed")
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clearing an empty store should not fail: %v", err)
	}
}

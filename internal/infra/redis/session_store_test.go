package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"trivia-client/internal/domain"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSessionStore(newClient(mr), "", time.Minute)

	if _, ok, err := store.Get(ctx); ok || err != nil {
		t.Fatalf("expected no session, ok=%v err=%v", ok, err)
	}

	err = store.Set(ctx, domain.Session{Token: "tok", Role: domain.RoleAdmin, UserID: "u1"})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("trivia:session:default") {
		t.Fatalf("expected redis key to be set")
	}
	if got := mr.HGet("trivia:session:default", "userRole"); got != domain.RoleAdmin {
		t.Fatalf("expected role field, got %q", got)
	}
	if ttl := mr.TTL("trivia:session:default"); ttl != time.Minute {
		t.Fatalf("expected ttl, got %v", ttl)
	}

	got, ok, err := store.Get(ctx)
	if err != nil || !ok || got.Token != "tok" || got.UserID != "u1" {
		t.Fatalf("unexpected session %+v ok=%v err=%v", got, ok, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if mr.Exists("trivia:session:default") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestSessionStoreExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSessionStore(newClient(mr), "cli", time.Minute)
	_ = store.Set(ctx, domain.Session{Token: "tok"})

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := store.Get(ctx); ok {
		t.Fatalf("expected session to expire with the key")
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

package logger

import "testing"

func TestSanitizeRedactsSecrets(t *testing.T) {
	kv := sanitizeKVs([]interface{}{
		"sessionToken", "abc",
		"Authorization", "Bearer abc",
		"category", "history",
		"raw", "eyJhbGciOiJIUzI1NiJ9.eyJyb2xlIjoiYWRtaW4ifQ.c2ln",
		"dangling",
	})
	if kv[1] != "[REDACTED]" || kv[3] != "[REDACTED]" {
		t.Fatalf("expected token and authorization redacted, got %v", kv)
	}
	if kv[5] != "history" {
		t.Fatalf("expected plain value kept, got %v", kv[5])
	}
	if kv[7] != "[REDACTED]" {
		t.Fatalf("expected jwt-looking value redacted, got %v", kv[7])
	}
	if len(kv) != 9 || kv[8] != "dangling" {
		t.Fatalf("expected dangling key preserved, got %v", kv)
	}
}

func TestNopLogger(t *testing.T) {
	l, err := New("nop")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.With("k", "v").Info("ignored", "password", "x")
}

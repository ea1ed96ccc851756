package http

import (
	"errors"
	"sync"
	"testing"
	"time"

	"trivia-client/internal/logger"
)

func TestOutboxDeliversInOrder(t *testing.T) {
	var (
		mu  sync.Mutex
		got []string
	)
	out := newOutbox(func(msg outboundMessage[any]) error {
		mu.Lock()
		got = append(got, msg.Type)
		mu.Unlock()
		return nil
	}, logger.Nop())

	for _, typ := range []string{"ready", "question", "complete"} {
		if !out.send(outboundMessage[any]{Type: typ}) {
			t.Fatalf("send %s: writer stopped early", typ)
		}
	}
	out.close()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 || got[0] != "ready" || got[2] != "complete" {
		t.Fatalf("unexpected writes %v", got)
	}
}

func TestOutboxSendDoesNotBlockAfterWriteError(t *testing.T) {
	out := newOutbox(func(outboundMessage[any]) error {
		return errors.New("broken pipe")
	}, logger.Nop())

	stopped := make(chan int, 1)
	go func() {
		for i := 0; i < 10*outboxSize; i++ {
			if !out.send(outboundMessage[any]{Type: "question"}) {
				stopped <- i
				return
			}
		}
		stopped <- -1
	}()

	select {
	case i := <-stopped:
		if i < 0 {
			t.Fatalf("send kept succeeding after the writer failed")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("send blocked after the writer failed")
	}

	done := make(chan struct{})
	go func() {
		out.close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("close blocked after the writer failed")
	}
}

package http

import (
	"trivia-client/internal/logger"
)

const outboxSize = 16

// outbox serialises writes to one socket on a dedicated goroutine. The
// writer stops at its first error; later sends report false instead of
// blocking on a channel nobody drains.
type outbox struct {
	ch   chan outboundMessage[any]
	done chan struct{}
}

func newOutbox(write func(outboundMessage[any]) error, log *logger.Logger) *outbox {
	o := &outbox{
		ch:   make(chan outboundMessage[any], outboxSize),
		done: make(chan struct{}),
	}
	go func() {
		defer close(o.done)
		for msg := range o.ch {
			if err := write(msg); err != nil {
				log.Warn("ws write error", "error", err)
				return
			}
		}
	}()
	return o
}

// send queues msg and reports whether the writer is still running.
func (o *outbox) send(msg outboundMessage[any]) bool {
	select {
	case <-o.done:
		return false
	default:
	}
	select {
	case o.ch <- msg:
		return true
	case <-o.done:
		return false
	}
}

// close flushes queued messages and waits for the writer to exit.
func (o *outbox) close() {
	close(o.ch)
	<-o.done
}

package event

import (
	"context"
	"log"
	"time"
)

// Listener consumes events in a background goroutine and hands them to a
// handler. Delivery is at-least-once and best-effort; a handler panic is the
// handler's problem, not the engine's.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	cancel    context.CancelFunc
}

// NewListener creates a listener over the publisher's queue.
func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	return &Listener[T]{publisher: publisher, handler: handler}
}

// Start launches the consume loop.
func (l *Listener[T]) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	go func() {
		for {
			event, err := l.publisher.Consume(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				log.Printf("event listener: consume failed: %v", err)
				// back off so a broken queue cannot spin the loop
				time.Sleep(10 * time.Millisecond)
				continue
			}
			if event == nil {
				// polling vendors return nil on an empty queue
				time.Sleep(10 * time.Millisecond)
				continue
			}
			l.handler(event)
		}
	}()
}

// Stop terminates the consume loop.
func (l *Listener[T]) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
}

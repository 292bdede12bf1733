package event

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/govindrajpootecosoul/trackflow/service/messaging"
)

// brokenQueue fails every consume, like an fs queue over an unreachable
// journal.
type brokenQueue struct {
	consumes atomic.Int64
}

func (q *brokenQueue) Publish(context.Context, *Event[TaskData]) error {
	return nil
}

func (q *brokenQueue) Consume(context.Context) (messaging.Message[Event[TaskData]], error) {
	q.consumes.Add(1)
	return nil, errors.New("journal unreachable")
}

func TestListenerBacksOffOnConsumeError(t *testing.T) {
	queue := &brokenQueue{}
	listener := NewListener[TaskData](NewPublisher[TaskData](queue), func(*Event[TaskData]) {
		t.Error("no event should be delivered")
	})
	listener.Start()
	defer listener.Stop()

	time.Sleep(100 * time.Millisecond)

	// with a 10ms backoff the loop polls ~10 times in 100ms; without it
	// consume counts run into the thousands
	assert.Less(t, queue.consumes.Load(), int64(50))
	assert.Positive(t, queue.consumes.Load())
}

package event

import "time"

// Kind labels a workflow event.
type Kind string

const (
	TaskCreated     Kind = "TaskCreated"
	TaskUpdated     Kind = "TaskUpdated"
	TaskDeleted     Kind = "TaskDeleted"
	ReviewRequested Kind = "ReviewRequested"
	ReviewAccepted  Kind = "ReviewAccepted"
	ReviewCancelled Kind = "ReviewCancelled"
	ReviewResolved  Kind = "ReviewResolved"
)

// Context identifies the subject and actor of an event.
type Context struct {
	Kind    Kind   `json:"kind"`
	TaskID  string `json:"taskID"`
	ActorID string `json:"actorID"`
}

// Event is the envelope delivered to listeners. Data carries the event
// payload; for task events it is the task rendered as a generic map.
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

// NewEvent creates an event envelope.
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}

// TaskData is the payload shape of task events.
type TaskData = map[string]interface{}

package events

import (
	"context"
	"time"
)

type Type string

const (
	BootcampCreated Type = "bootcamp.created"
	BootcampUpdated Type = "bootcamp.updated"
	BootcampDeleted Type = "bootcamp.deleted"
	CourseCreated   Type = "course.created"
	CourseUpdated   Type = "course.updated"
	CourseDeleted   Type = "course.deleted"
	ReviewCreated   Type = "review.created"
	ReviewUpdated   Type = "review.updated"
	ReviewDeleted   Type = "review.deleted"
)

// Event announces a change to a resource.
type Event struct {
	Type       Type      `json:"type"`
	ResourceID string    `json:"resourceId"`
	ActorID    string    `json:"actorId"`
	OccurredAt time.Time `json:"occurredAt"`
}

func New(t Type, resourceID, actorID string) Event {
	return Event{Type: t, ResourceID: resourceID, ActorID: actorID, OccurredAt: time.Now().UTC()}
}

// Publisher delivers events. Delivery is best effort; callers log failures
// and carry on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

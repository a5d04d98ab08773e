package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	domainEvents "bootcamp-directory/internal/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	topic   string
	qos     byte
	payload []byte
}

type fakeBroker struct {
	messages []sent
	err      error
}

func (f *fakeBroker) Publish(ctx context.Context, topic string, qos byte, _ bool, payload []byte) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	f.messages = append(f.messages, sent{topic: topic, qos: qos, payload: payload})
	return f.err
}

func TestMQTTPublisher_Publish(t *testing.T) {
	b := &fakeBroker{}
	pub := NewMQTTPublisher(b, "devcamper/events")

	ev := domainEvents.New(domainEvents.BootcampCreated, "5d713995b721c3bb38c1f5d0", "5c8a1d5b0190b214360dc031")
	require.NoError(t, pub.Publish(context.Background(), ev))

	require.Len(t, b.messages, 1)
	assert.Equal(t, "devcamper/events/bootcamp.created", b.messages[0].topic)
	assert.Equal(t, byte(1), b.messages[0].qos)

	var decoded domainEvents.Event
	require.NoError(t, json.Unmarshal(b.messages[0].payload, &decoded))
	assert.Equal(t, ev.ResourceID, decoded.ResourceID)
	assert.Equal(t, ev.ActorID, decoded.ActorID)
}

func TestMQTTPublisher_PropagatesError(t *testing.T) {
	pub := NewMQTTPublisher(&fakeBroker{err: errors.New("offline")}, "t")

	err := pub.Publish(context.Background(), domainEvents.New(domainEvents.ReviewDeleted, "r", "u"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review.deleted")
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Publish(context.Background(), domainEvents.Event{}))
}

package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_SubscribePublish(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("user-1")
	defer cleanup()

	assert.Equal(t, 1, hub.SubscriberCount("user-1"))

	hub.Publish("user-1", Event{Event: "attendance.reviewed", Data: "rec-1"})

	got := <-ch
	assert.Equal(t, "attendance.reviewed", got.Event)
	assert.Equal(t, "rec-1", got.Data)
}

func TestHub_PublishToUnknownUserDoesNotBlock(t *testing.T) {
	hub := NewHub()
	hub.Publish("ghost", Event{Event: "noop"})
	assert.Equal(t, 0, hub.SubscriberCount("ghost"))
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("user-2")
	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("user-2"))
}

func TestHub_PublishToMany(t *testing.T) {
	hub := NewHub()

	ch1, c1 := hub.Subscribe("pm-1")
	defer c1()
	ch2, c2 := hub.Subscribe("pm-2")
	defer c2()

	hub.PublishToMany([]string{"pm-1", "pm-2"}, Event{Event: "leave.approved"})

	e1 := <-ch1
	e2 := <-ch2
	assert.Equal(t, "pm-1", e1.UserID)
	assert.Equal(t, "pm-2", e2.UserID)
}

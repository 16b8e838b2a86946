// Copyright 2024 The Drashta Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hub

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vamsi200/Drashta/pkg/drashta/events"
	"github.com/vamsi200/Drashta/pkg/drashta/journal"
)

func authMessage(n int) Message {
	return Message{Cursor: journal.Cursor(fmt.Sprintf("cur%d", n)), Event: events.Event{
		Service:   events.ServiceSshd,
		EventType: events.EventType{Category: events.CategoryAuth, Subtype: events.AuthFailure},
		Data:      events.Data{{Key: "n", Value: fmt.Sprint(n)}},
	}}
}

func recv(t *testing.T, sub *Subscription) Message {
	t.Helper()
	select {
	case msg, ok := <-sub.Events():
		require.True(t, ok, "subscription channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Message{}
	}
}

// Two subscribers on the service topic and one on all.events all see
// the same event.
func TestFanOut(t *testing.T) {
	h := New(0)
	a := h.Subscribe("sshd.events")
	b := h.Subscribe("sshd.events")
	all := h.Subscribe(events.AllEventsTopic)

	h.Publish("sshd.events", authMessage(1))

	for _, sub := range []*Subscription{a, b, all} {
		msg := recv(t, sub)
		n, _ := msg.Event.Data.Get("n")
		assert.Equal(t, "1", n)
	}
}

func TestPerTopicOrderPreserved(t *testing.T) {
	h := New(16)
	sub := h.Subscribe("sshd.events")
	for i := 1; i <= 10; i++ {
		h.Publish("sshd.events", authMessage(i))
	}
	for i := 1; i <= 10; i++ {
		msg := recv(t, sub)
		n, _ := msg.Event.Data.Get("n")
		assert.Equal(t, fmt.Sprint(i), n)
	}
}

// A stalled subscriber with capacity 4 that misses 10 events reads #7
// next: the oldest undelivered events are dropped, never the newest.
func TestLaggingSubscriberDropsOldest(t *testing.T) {
	h := New(4)
	sub := h.Subscribe("sshd.events")
	for i := 1; i <= 10; i++ {
		h.Publish("sshd.events", authMessage(i))
	}

	msg := recv(t, sub)
	n, _ := msg.Event.Data.Get("n")
	assert.Equal(t, "7", n)
	assert.Equal(t, uint64(6), sub.Lag())

	for i := 8; i <= 10; i++ {
		msg = recv(t, sub)
		n, _ = msg.Event.Data.Get("n")
		assert.Equal(t, fmt.Sprint(i), n)
	}
}

// Publishing never blocks, with or without subscribers, stalled or not.
func TestPublishNeverBlocks(t *testing.T) {
	h := New(2)
	h.Subscribe("sshd.events") // stalled: never read from

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			h.Publish("sshd.events", authMessage(i))
		}
		// Zero-subscriber topic accepts publishes too.
		for i := 0; i < 100; i++ {
			h.Publish("kernel.events", authMessage(i))
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publisher blocked")
	}
}

// all.events carries the union of every per-service topic.
func TestAllEventsIsUnion(t *testing.T) {
	h := New(16)
	all := h.Subscribe(events.AllEventsTopic)

	h.Publish("sshd.events", authMessage(1))
	h.Publish("kernel.events", authMessage(2))
	h.Publish("sudo.events", authMessage(3))

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		msg := recv(t, all)
		n, _ := msg.Event.Data.Get("n")
		seen[n] = true
	}
	assert.Equal(t, map[string]bool{"1": true, "2": true, "3": true}, seen)
}

// Publishing directly to all.events must not double-deliver.
func TestPublishToAllEventsNotDuplicated(t *testing.T) {
	h := New(16)
	all := h.Subscribe(events.AllEventsTopic)
	h.Publish(events.AllEventsTopic, authMessage(1))
	recv(t, all)
	select {
	case msg := <-all.Events():
		t.Fatalf("unexpected duplicate event: %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannelAndIsIdempotent(t *testing.T) {
	h := New(0)
	sub := h.Subscribe("sshd.events")
	require.Equal(t, 1, h.SubscriberCount("sshd.events"))

	h.Unsubscribe(sub)
	assert.Equal(t, 0, h.SubscriberCount("sshd.events"))
	_, ok := <-sub.Events()
	assert.False(t, ok)

	h.Unsubscribe(sub) // second call is a no-op

	// The topic still exists and swallows publishes.
	h.Publish("sshd.events", authMessage(1))
}

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

// Package hub implements the per-topic broadcast fan-out that sits
// between the classifier pipeline and live SSE subscribers: a bounded,
// drop-oldest-on-overflow hub safe for concurrent publish and
// subscribe, with topics created lazily on first use.
package hub

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vamsi200/Drashta/pkg/drashta/events"
	"github.com/vamsi200/Drashta/pkg/drashta/journal"
)

// DefaultBufferSize bounds how many events a lagging subscriber can
// fall behind before the hub starts dropping its oldest unread event.
const DefaultBufferSize = 256

// Message is what flows through a topic: the classified Event plus the
// journal cursor of the entry it came from, so the live SSE path can
// follow each log frame with that entry's cursor frame.
type Message struct {
	Event  events.Event
	Cursor journal.Cursor
}

// Hub fans Events out to every Subscription on a topic. It never
// blocks a publisher on a slow subscriber: when a subscriber's buffer
// is full, the hub drops that subscriber's oldest unread event to make
// room for the new one rather than stalling or disconnecting it.
type Hub struct {
	mu         sync.RWMutex
	topics     map[string]map[uuid.UUID]*Subscription
	bufferSize int
}

// New builds an empty Hub. bufSize <= 0 uses DefaultBufferSize.
func New(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Hub{
		topics:     make(map[string]map[uuid.UUID]*Subscription),
		bufferSize: bufSize,
	}
}

// Subscribe creates a new Subscription on topic, creating the topic
// lazily if this is its first subscriber.
func (h *Hub) Subscribe(topic string) *Subscription {
	sub := newSubscription(topic, h.bufferSize)
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[uuid.UUID]*Subscription)
		h.topics[topic] = subs
	}
	subs[sub.ID] = sub
	return sub
}

// Unsubscribe removes sub from its topic and closes its channel. Safe
// to call more than once. The topic itself is kept even once empty;
// topics survive for the server's lifetime, so a zero-subscriber
// topic still accepts (and discards) publishes.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[sub.Topic]
	if !ok {
		return
	}
	if _, present := subs[sub.ID]; !present {
		return
	}
	delete(subs, sub.ID)
	close(sub.ch)
}

// Publish delivers msg to every subscriber of topic, and separately to
// every subscriber of events.AllEventsTopic, the synthetic fan-in
// topic. A full subscriber buffer drops that subscriber's oldest
// unread event rather than blocking the publisher.
func (h *Hub) Publish(topic string, msg Message) {
	h.publishTo(topic, msg)
	if topic != events.AllEventsTopic {
		h.publishTo(events.AllEventsTopic, msg)
	}
}

func (h *Hub) publishTo(topic string, msg Message) {
	// Delivery runs under the read lock so Unsubscribe, which takes the
	// write lock before closing a channel, can never close one mid-send.
	// deliver never blocks, so the lock is only held briefly.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.topics[topic] {
		deliver(sub, msg)
	}
}

func deliver(sub *Subscription, msg Message) {
	select {
	case sub.ch <- msg:
		return
	default:
	}
	// Buffer full: drop the oldest unread event, then retry once. If
	// another goroutine drained concurrently the retry still succeeds;
	// if the buffer refilled in between, the new event is counted
	// dropped too and we move on rather than looping indefinitely.
	select {
	case <-sub.ch:
		sub.lag.Inc()
	default:
	}
	select {
	case sub.ch <- msg:
	default:
		sub.lag.Inc()
	}
}

// SubscriberCount returns the number of active subscribers on topic,
// for diagnostics and tests.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

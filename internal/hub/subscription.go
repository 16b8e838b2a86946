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
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Subscription is one live consumer of a topic, owning one bounded
// receive channel into the broadcast hub. Its lifetime is bounded by
// the HTTP connection it serves.
type Subscription struct {
	ID    uuid.UUID
	Topic string

	ch  chan Message
	lag *atomic.Uint64
}

func newSubscription(topic string, bufSize int) *Subscription {
	return &Subscription{
		ID:    uuid.New(),
		Topic: topic,
		ch:    make(chan Message, bufSize),
		lag:   atomic.NewUint64(0),
	}
}

// Events returns the channel of delivered messages. The channel is
// closed when the Subscription is cancelled.
func (s *Subscription) Events() <-chan Message {
	return s.ch
}

// Lag returns the number of events dropped for this subscriber because
// it could not keep up with its topic's publish rate. A lagging reader
// is dropped-from, never disconnected.
func (s *Subscription) Lag() uint64 {
	return s.lag.Load()
}

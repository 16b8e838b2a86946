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

package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vamsi200/Drashta/pkg/drashta/events"
)

// heartbeatInterval is how often an idle /live connection gets a
// keepalive comment frame so intermediaries don't time it out.
const heartbeatInterval = 30 * time.Second

// handleLive implements GET /live: a long-lived SSE stream from the
// Hub for the requested topic. The send loop never blocks on the
// subscriber's own buffer (a lagging reader loses messages, it never
// backpressures the hub), and it ends only when the client
// disconnects.
func (s *Server) handleLive() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventName := c.Query("event_name")
		if eventName == "" {
			c.String(http.StatusBadRequest, "event_name is required")
			return
		}
		if !events.IsKnownTopic(eventName) {
			c.String(http.StatusNotFound, "unknown event_name: "+eventName)
			return
		}

		sub := s.hub.Subscribe(eventName)
		defer s.hub.Unsubscribe(sub)

		prepareSSE(c)
		c.Status(http.StatusOK)
		c.Writer.Flush()

		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		ctx := c.Request.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Events():
				if !ok {
					return
				}
				writeLogFrame(c, msg.Event)
				// Each live log frame is followed by the cursor of its
				// own journal entry, so a reconnecting client can resume
				// pagination from the last event it saw.
				if msg.Cursor != "" {
					writeCursorFrame(c, msg.Cursor)
				}
			case <-ticker.C:
				writeHeartbeat(c)
			}
		}
	}
}

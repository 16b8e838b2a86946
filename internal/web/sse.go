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
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/vamsi200/Drashta/pkg/drashta/events"
	"github.com/vamsi200/Drashta/pkg/drashta/journal"
)

// cursorFrame is the payload of an "event: cursor" SSE frame.
type cursorFrame struct {
	Cursor journal.Cursor `json:"cursor"`
}

// prepareSSE sets the response headers every query and /live route
// shares: SSE content type and open CORS for browser consumption.
func prepareSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")
}

// writeLogFrame emits one "event: log" frame for ev via sse.Encode,
// which JSON-encodes the payload through Event's JSON tags and the
// MarshalJSON methods of its EventType, Data and RawMsg fields. A
// write error means the client went away; the caller's next write or
// the request context will notice.
func writeLogFrame(c *gin.Context, ev events.Event) {
	sse.Encode(c.Writer, sse.Event{Event: "log", Data: ev})
	c.Writer.Flush()
}

// writeCursorFrame emits an "event: cursor" frame. Callers must not
// call this when cursor is empty: an empty Cursor signals
// end-of-stream, which clients detect by the frame's absence.
func writeCursorFrame(c *gin.Context, cursor journal.Cursor) {
	sse.Encode(c.Writer, sse.Event{Event: "cursor", Data: cursorFrame{Cursor: cursor}})
	c.Writer.Flush()
}

// writeHeartbeat emits the raw SSE comment frame that keeps idle
// /live connections alive through intermediaries. A comment frame has
// no event/data fields, so it bypasses sse.Encode entirely.
func writeHeartbeat(c *gin.Context) {
	c.Writer.WriteString(": keepalive\n\n")
	c.Writer.Flush()
}

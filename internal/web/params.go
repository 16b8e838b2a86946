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
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vamsi200/Drashta/internal/query"
	"github.com/vamsi200/Drashta/pkg/drashta/events"
	"github.com/vamsi200/Drashta/pkg/drashta/journal"
)

// webError is a client error the handler can return directly to the
// caller as a 4xx with a short plain-text body.
type webError struct {
	err  string
	code int
}

func (w *webError) Error() string {
	return w.err
}

func badRequest(msg string) *webError {
	return &webError{err: msg, code: http.StatusBadRequest}
}

// parseQueryRequest parses and validates the query parameters shared
// by /drain, /older and /previous into a query.Request. cursorRequired
// controls whether a missing cursor is a 400 (/older and /previous
// cannot page without one).
func parseQueryRequest(c *gin.Context, cursorRequired bool) (query.Request, string, *webError) {
	eventName := c.Query("event_name")
	if eventName == "" {
		return query.Request{}, "", badRequest("event_name is required")
	}
	if !events.IsKnownTopic(eventName) {
		return query.Request{}, "", &webError{err: "unknown event_name: " + eventName, code: http.StatusNotFound}
	}
	service, _ := events.ServiceFromTopic(eventName) // ok=false for all.events: empty Service means "no filter"

	cursor := c.Query("cursor")
	if cursorRequired && cursor == "" {
		return query.Request{}, "", badRequest("cursor is required")
	}

	limit := journal.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return query.Request{}, "", badRequest("limit must be a positive integer")
		}
		limit = n
	}
	limit = journal.ClampLimit(limit)

	req := query.Request{
		Service: service,
		Cursor:  journal.Cursor(cursor),
		Limit:   limit,
		Message: c.Query("query"),
	}
	if types, ok := c.GetQueryArray("event_type"); ok {
		req.EventTypes = types
	}

	if raw := c.Query("timestamp_from"); raw != "" {
		t, err := query.ParseTimestamp(raw)
		if err != nil {
			return query.Request{}, "", badRequest("could not parse timestamp_from: " + err.Error())
		}
		req.TimestampFrom = &t
	}
	if raw := c.Query("timestamp_to"); raw != "" {
		t, err := query.ParseTimestamp(raw)
		if err != nil {
			return query.Request{}, "", badRequest("could not parse timestamp_to: " + err.Error())
		}
		req.TimestampTo = &t
	}

	return req, eventName, nil
}

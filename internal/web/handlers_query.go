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
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vamsi200/Drashta/internal/query"
)

// queryTimeout is the implementation-defined hard ceiling on a
// historical walk, so a runaway journal scan cannot pin a request
// goroutine forever.
const queryTimeout = 30 * time.Second

type queryFunc func(ctx context.Context, req query.Request) (query.Result, error)

// handleQuery is the shared body of /drain, /older and /previous: parse
// params, run the engine call, stream the log frames and the trailing
// cursor frame. Each route supplies its own engine method and whether
// a cursor query parameter is required.
func (s *Server) handleQuery(cursorRequired bool, run func(*query.Engine) queryFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, _, werr := parseQueryRequest(c, cursorRequired)
		if werr != nil {
			c.String(werr.code, werr.err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), queryTimeout)
		defer cancel()

		result, err := run(s.engine)(ctx, req)
		if err != nil {
			s.log.Error("query failed", zap.Error(err))
			c.String(http.StatusInternalServerError, "internal error")
			return
		}

		prepareSSE(c)
		c.Status(http.StatusOK)
		for _, ev := range result.Events {
			writeLogFrame(c, ev)
		}
		// No cursor frame on empty results or end-of-stream; its absence
		// is how clients detect there is nothing further to page to.
		if result.Cursor != "" {
			writeCursorFrame(c, result.Cursor)
		}
	}
}

func (s *Server) handleDrain() gin.HandlerFunc {
	return s.handleQuery(false, func(e *query.Engine) queryFunc { return e.Drain })
}

func (s *Server) handleOlder() gin.HandlerFunc {
	return s.handleQuery(true, func(e *query.Engine) queryFunc { return e.Older })
}

func (s *Server) handlePrevious() gin.HandlerFunc {
	return s.handleQuery(true, func(e *query.Engine) queryFunc { return e.Previous })
}

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
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

// gzipResponseWriter wraps gin's ResponseWriter so writes go through a
// gzip.Writer instead of straight to the socket. Only installed on
// the historical query routes (/drain, /older, /previous); /live is
// never wrapped since an SSE stream isn't something a gzip.Writer's
// internal buffering can be allowed to delay.
type gzipResponseWriter struct {
	gin.ResponseWriter
	gz *gzip.Writer
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.gz.Write(b)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	return w.gz.Write([]byte(s))
}

// Flush flushes the gzip writer's internal buffer before flushing the
// underlying connection, so a mid-stream Flush (as every SSE frame
// write triggers) actually reaches the client instead of sitting in
// gzip's buffer until Close.
func (w *gzipResponseWriter) Flush() {
	w.gz.Flush()
	w.ResponseWriter.Flush()
}

// gzipQueryResponses is gin middleware compressing a query route's
// response body when the client advertises gzip support, grounded on
// bureau-foundation/bureau's dependency on klauspost/compress for the
// gzip implementation itself.
func gzipQueryResponses() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}
		gz, err := gzip.NewWriterLevel(c.Writer, gzip.BestSpeed)
		if err != nil {
			c.Next()
			return
		}
		defer gz.Close()

		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")
		c.Writer.Header().Del("Content-Length")
		c.Writer = &gzipResponseWriter{ResponseWriter: c.Writer, gz: gz}
		c.Next()
	}
}

var _ http.ResponseWriter = (*gzipResponseWriter)(nil)

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

// Package web is the HTTP/SSE serving layer: the route table, query
// parameter parsing, SSE framing, and the per-subscriber send loop for
// /live.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vamsi200/Drashta/internal/hub"
	"github.com/vamsi200/Drashta/internal/query"
)

// readHeaderTimeout bounds how long a client may dawdle over its
// request headers. There is deliberately no overall write timeout:
// /live streams live as long as the TCP connection does.
const readHeaderTimeout = 10 * time.Second

// DefaultPort is the TCP port the server binds when none is given.
const DefaultPort = 3200

// Server is the Drashta HTTP server.
type Server struct {
	engine *query.Engine
	hub    *hub.Hub
	log    *zap.Logger

	port   int
	appDir string
}

// NewServer wires the route table over the query engine and hub.
// port <= 0 uses DefaultPort; appDir is the optional static UI bundle
// served under /app (empty disables the route).
func NewServer(engine *query.Engine, h *hub.Hub, log *zap.Logger, port int, appDir string) *Server {
	if port <= 0 {
		port = DefaultPort
	}
	return &Server{engine: engine, hub: h, log: log, port: port, appDir: appDir}
}

// Handler builds the gin route table. Exposed separately from Serve so
// tests can drive it through httptest without binding a socket.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetTrustedProxies(nil)

	queries := r.Group("/", gzipQueryResponses())
	queries.GET("/drain", s.handleDrain())
	queries.GET("/older", s.handleOlder())
	queries.GET("/previous", s.handlePrevious())

	// /live is never behind the gzip middleware: a long-lived SSE
	// stream must not sit in a compressor's buffer.
	r.GET("/live", s.handleLive())

	if s.appDir != "" {
		r.Static("/app", s.appDir)
	}
	return r
}

// Serve binds 0.0.0.0:<port> and serves until ctx is cancelled, then
// shuts down draining in-flight requests. A bind failure returns
// immediately so the process can exit non-zero.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		// Request contexts derive from ctx so cancelling it also ends
		// every in-flight /live stream; Shutdown alone would wait on
		// them forever.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.log.Info("listening", zap.Int("port", s.port))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

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

// Package di assembles the event pipeline: journal reader, classifier
// router, broadcast hub, query engine, live pipeline and HTTP server,
// in one dig container so cmd/drashta stays a thin flag shell.
package di

import (
	"errors"

	"go.uber.org/dig"
	"go.uber.org/zap"

	internalClassify "github.com/vamsi200/Drashta/internal/classify"
	"github.com/vamsi200/Drashta/internal/hub"
	"github.com/vamsi200/Drashta/internal/journald"
	"github.com/vamsi200/Drashta/internal/pipeline"
	"github.com/vamsi200/Drashta/internal/query"
	"github.com/vamsi200/Drashta/internal/web"
	"github.com/vamsi200/Drashta/pkg/drashta/classify"
	"github.com/vamsi200/Drashta/pkg/drashta/journal"
)

// errNotReloadable guards the --rules-dir path against a Router
// implementation without hot-swap support.
var errNotReloadable = errors.New("di: classifier router does not support rule reload")

// Config is everything the CLI layer decides; see cmd/drashta for the
// flags each field comes from.
type Config struct {
	// Port is the HTTP listen port; 0 means the default (3200).
	Port int
	// AppDir serves the static UI bundle under /app when non-empty.
	AppDir string
	// RulesDir enables classifier rule hot reload over YAML overlays
	// in this directory when non-empty.
	RulesDir string
	// JournalDir reads journal files from a directory instead of the
	// host's default journal when non-empty.
	JournalDir string
	// HubBuffer is the per-subscriber event buffer capacity; <= 0 uses
	// the hub's default.
	HubBuffer int
}

// NewContainer wires every component. Nothing is constructed until the
// caller Invokes; construction errors (journal open failure above all)
// surface from the Invoke call.
func NewContainer(cfg Config, logger *zap.Logger) (*dig.Container, error) {
	c := dig.New()
	providers := []any{
		func() Config { return cfg },
		func() *zap.Logger { return logger },
		func(log *zap.Logger) (journal.Reader, error) {
			return journald.New(log, journald.Options{Dir: cfg.JournalDir})
		},
		func() classify.Router { return internalClassify.NewRouter() },
		func() *hub.Hub { return hub.New(cfg.HubBuffer) },
		query.NewEngine,
		pipeline.NewLive,
		func(e *query.Engine, h *hub.Hub, log *zap.Logger) *web.Server {
			return web.NewServer(e, h, log, cfg.Port, cfg.AppDir)
		},
	}
	if cfg.RulesDir != "" {
		providers = append(providers, func(router classify.Router, log *zap.Logger) (*internalClassify.Loader, error) {
			reloadable, ok := router.(internalClassify.Reloadable)
			if !ok {
				return nil, errNotReloadable
			}
			return internalClassify.NewLoader(cfg.RulesDir, reloadable, log)
		})
	}
	for _, p := range providers {
		if err := c.Provide(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

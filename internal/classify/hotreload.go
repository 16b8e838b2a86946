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

package classify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	cls "github.com/vamsi200/Drashta/pkg/drashta/classify"
	"github.com/vamsi200/Drashta/pkg/drashta/events"
)

// Reloadable is implemented by a Router that supports swapping one
// service's rule table at runtime. The public Router contract in
// pkg/drashta/classify stays hot-reload-agnostic; this is an internal
// capability only the --rules-dir watcher uses.
type Reloadable interface {
	Reload(service events.Service, table cls.Table) error
}

// overlayFile is the YAML shape of one service's overlay: a full
// replacement table, not a patch. A changed file swaps that service's
// classifier table atomically.
type overlayFile struct {
	Fallback string        `yaml:"fallback"`
	Rules    []overlayRule `yaml:"rules"`
}

type overlayRule struct {
	Subtype  string            `yaml:"subtype"`
	Category string            `yaml:"category"`
	Pattern  string            `yaml:"pattern"`
	Captures map[string]string `yaml:"captures"`
}

var servicesByLowerName = buildServicesByLowerName()

func buildServicesByLowerName() map[string]events.Service {
	all := []events.Service{
		events.ServiceSshd, events.ServiceSudo, events.ServiceLogin, events.ServiceKernel,
		events.ServiceConfigChange, events.ServicePkgManager, events.ServiceFirewalld,
		events.ServiceNetworkManager, events.ServiceSystem,
	}
	m := make(map[string]events.Service, len(all))
	for _, s := range all {
		m[strings.ToLower(string(s))] = s
	}
	return m
}

// Loader watches a directory of per-service YAML rule overlays
// ("<lowercased-service>.yaml") and hot-swaps the matching service's
// table on a Reloadable whenever a file is created or written.
type Loader struct {
	dir     string
	router  Reloadable
	log     *zap.Logger
	watcher *fsnotify.Watcher
}

// NewLoader opens dir, which must already exist, for watching. It does
// not read any overlay file or apply any change until Run is called.
func NewLoader(dir string, router Reloadable, log *zap.Logger) (*Loader, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("classify: hot reload: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("classify: hot reload: watch %s: %w", dir, err)
	}
	return &Loader{dir: dir, router: router, log: log, watcher: w}, nil
}

// Run loads every overlay file already present in the directory, then
// blocks applying subsequent writes until ctx is cancelled.
func (l *Loader) Run(ctx context.Context) error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("classify: hot reload: read %s: %w", l.dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			l.load(filepath.Join(l.dir, e.Name()))
		}
	}
	for {
		select {
		case <-ctx.Done():
			return l.watcher.Close()
		case ev, ok := <-l.watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				l.load(ev.Name)
			}
		case err, ok := <-l.watcher.Errors:
			if !ok {
				return nil
			}
			l.log.Warn("classify: hot reload watcher error", zap.Error(err))
		}
	}
}

func (l *Loader) load(path string) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	service, ok := servicesByLowerName[strings.ToLower(name)]
	if !ok {
		l.log.Warn("classify: hot reload: file name matches no known service, ignoring", zap.String("path", path))
		return
	}
	b, err := os.ReadFile(path)
	if err != nil {
		l.log.Warn("classify: hot reload: read failed", zap.String("path", path), zap.Error(err))
		return
	}
	var overlay overlayFile
	if err := yaml.Unmarshal(b, &overlay); err != nil {
		l.log.Warn("classify: hot reload: invalid YAML, table unchanged", zap.String("path", path), zap.Error(err))
		return
	}
	table, err := buildTable(service, overlay)
	if err != nil {
		l.log.Warn("classify: hot reload: invalid rule table, table unchanged", zap.String("path", path), zap.Error(err))
		return
	}
	if err := l.router.Reload(service, table); err != nil {
		l.log.Warn("classify: hot reload: swap failed", zap.String("path", path), zap.Error(err))
		return
	}
	l.log.Info("classify: reloaded rule table", zap.String("service", string(service)), zap.String("path", path))
}

func buildTable(service events.Service, overlay overlayFile) (cls.Table, error) {
	category := categoryFor(service)
	fallback := events.Subtype(overlay.Fallback)
	if fallback == "" {
		fallback = events.OtherSubtype(category)
	}
	rules := make([]cls.Rule, 0, len(overlay.Rules))
	for i, r := range overlay.Rules {
		pattern, err := regexp.Compile(r.Pattern)
		if err != nil {
			return cls.Table{}, fmt.Errorf("rule %d (%s): %w", i, r.Subtype, err)
		}
		rules = append(rules, cls.Rule{
			Subtype:  events.Subtype(r.Subtype),
			Category: events.Category(r.Category),
			Pattern:  pattern,
			Captures: r.Captures,
		})
	}
	return cls.Table{Category: category, Fallback: fallback, Rules: rules}, nil
}

func categoryFor(service events.Service) events.Category {
	switch service {
	case events.ServiceSshd, events.ServiceSudo, events.ServiceLogin:
		return events.CategoryAuth
	case events.ServiceKernel:
		return events.CategoryKernel
	case events.ServiceConfigChange:
		return events.CategoryConfig
	case events.ServicePkgManager:
		return events.CategoryPackage
	case events.ServiceFirewalld:
		return events.CategoryFirewall
	case events.ServiceNetworkManager:
		return events.CategoryNetwork
	default:
		return events.CategorySystem
	}
}

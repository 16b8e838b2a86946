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

// Package query implements the Historical Query Engine: it turns a
// drain/older/previous request into journal.Reader range calls,
// classifies each RawRecord, and applies the filters the Reader
// itself can't express (event_type, timestamp_from/to).
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/vamsi200/Drashta/pkg/drashta/classify"
	"github.com/vamsi200/Drashta/pkg/drashta/events"
	"github.com/vamsi200/Drashta/pkg/drashta/journal"
)

// ErrUnknownService is returned when event_name names no known
// service; the HTTP layer maps it to a 404.
var ErrUnknownService = fmt.Errorf("query: unknown event_name")

// Request is one historical query, already parsed and validated by
// the HTTP layer.
type Request struct {
	Service       events.Service // empty means "all services"
	Cursor        journal.Cursor
	Limit         int
	Message       string
	EventTypes    []string // bare Subtype or "Category::Subtype"; OR'd together
	TimestampFrom *time.Time
	TimestampTo   *time.Time
}

// Result is one page of classified Events plus the cursor the client
// should pass back in to continue paging.
type Result struct {
	Events []events.Event
	Cursor journal.Cursor
}

// Engine is the Historical Query Engine.
type Engine struct {
	reader journal.Reader
	router classify.Router
}

func NewEngine(reader journal.Reader, router classify.Router) *Engine {
	return &Engine{reader: reader, router: router}
}

// Drain implements GET /drain: the initial view, walking backward from
// the tail (cursor = "") up to req.Limit entries.
func (e *Engine) Drain(ctx context.Context, req Request) (Result, error) {
	req.Cursor = ""
	return e.older(ctx, req)
}

// Older implements GET /older: continue paging backward from
// req.Cursor.
func (e *Engine) Older(ctx context.Context, req Request) (Result, error) {
	return e.older(ctx, req)
}

// Previous implements GET /previous: page forward from req.Cursor, then
// reverses the result so the client always sees newest-at-top, the
// same visual order as /drain and /older.
func (e *Engine) Previous(ctx context.Context, req Request) (Result, error) {
	svcFilter, err := e.serviceFilter(req.Service)
	if err != nil {
		return Result{}, err
	}
	page, err := e.reader.RangeNewer(ctx, req.Cursor, req.Limit, journal.Query{
		Services: svcFilter,
		Message:  req.Message,
	})
	if err != nil {
		return Result{}, err
	}
	result, err := e.classifyAndFilter(page, req)
	if err != nil {
		return Result{}, err
	}
	reverseEvents(result.Events)
	return result, nil
}

func reverseEvents(evs []events.Event) {
	for i, j := 0, len(evs)-1; i < j; i, j = i+1, j-1 {
		evs[i], evs[j] = evs[j], evs[i]
	}
}

func (e *Engine) older(ctx context.Context, req Request) (Result, error) {
	svcFilter, err := e.serviceFilter(req.Service)
	if err != nil {
		return Result{}, err
	}
	page, err := e.reader.RangeOlder(ctx, req.Cursor, req.Limit, journal.Query{
		Services: svcFilter,
		Message:  req.Message,
	})
	if err != nil {
		return Result{}, err
	}
	return e.classifyAndFilter(page, req)
}

// serviceFilter validates req's event_name and turns it into the
// journal-level filter the Reader pushes down as field matches, so a
// walk spends its limit on qualifying records. The definitive service
// match still happens in classifyAndFilter after classification: the
// pushdown is only as precise as the identifier sets, and the System
// catch-all has no identifier set at all.
func (e *Engine) serviceFilter(service events.Service) (journal.ServiceFilter, error) {
	if service == "" {
		return nil, nil
	}
	if !isKnownService(service) {
		return nil, ErrUnknownService
	}
	return journal.NewServiceFilter(string(service)), nil
}

func isKnownService(s events.Service) bool {
	switch s {
	case events.ServiceSshd, events.ServiceSudo, events.ServiceLogin, events.ServiceKernel,
		events.ServiceConfigChange, events.ServicePkgManager, events.ServiceFirewalld,
		events.ServiceNetworkManager, events.ServiceSystem:
		return true
	default:
		return false
	}
}

// classifyAndFilter classifies every RawRecord in page, then applies
// the service/event_type/timestamp filters classification makes
// possible.
func (e *Engine) classifyAndFilter(page journal.Page, req Request) (Result, error) {
	out := make([]events.Event, 0, len(page.Records))
	for _, rec := range page.Records {
		ev := e.classify(rec)
		if req.Service != "" && ev.Service != req.Service {
			continue
		}
		if !matchesEventTypes(ev, req.EventTypes) {
			continue
		}
		if !matchesTimeRange(ev, req.TimestampFrom, req.TimestampTo) {
			continue
		}
		out = append(out, ev)
	}
	return Result{Events: out, Cursor: page.Cursor}, nil
}

func (e *Engine) classify(rec journal.RawRecord) events.Event {
	return Classify(e.router, rec)
}

func matchesEventTypes(ev events.Event, want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		if ev.MatchesSubtype(w) {
			return true
		}
	}
	return false
}

func matchesTimeRange(ev events.Event, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	t, err := time.ParseInLocation("Jan _2 15:04:05", ev.Timestamp, time.Local)
	if err != nil {
		return true // unparsable timestamp: never excluded by a range filter
	}
	// The syslog form carries no year; assume the current one, like
	// every syslog consumer has to.
	t = t.AddDate(time.Now().Year(), 0, 0)
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

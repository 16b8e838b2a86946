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

// Package journald implements pkg/drashta/journal.Reader against the
// local systemd journal via sdjournal, the native journal API binding.
package journald

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/sdjournal"
	"go.uber.org/zap"

	"github.com/vamsi200/Drashta/internal/classify"
	"github.com/vamsi200/Drashta/pkg/drashta/events"
	"github.com/vamsi200/Drashta/pkg/drashta/journal"
)

// waitTimeout bounds each Wait() call in Tail's poll loop so ctx
// cancellation is observed promptly even while the journal is idle.
const waitTimeout = 1 * time.Second

// Options configures where the reader looks for journal files. The
// zero value reads the host's default journal.
type Options struct {
	// Dir reads journal files from a directory instead of the local
	// system journal (exported journals, containers bind-mounting
	// another host's /var/log/journal).
	Dir string
}

// reader is the sdjournal-backed journal.Reader.
type reader struct {
	log  *zap.Logger
	opts Options
}

// New opens the local systemd journal for reading. Running unprivileged
// restricts visibility to the caller's own journal entries; membership
// in systemd-journal (or equivalent) is required for full coverage.
// The probe open fails fast here so a missing or unreadable journal is
// a startup error, not a per-request one.
func New(log *zap.Logger, opts Options) (journal.Reader, error) {
	r := &reader{log: log, opts: opts}
	j, err := r.openJournal()
	if err != nil {
		return nil, err
	}
	j.Close()
	return r, nil
}

// openJournal opens a fresh handle scoped to one call. sdjournal
// handles are not safe for concurrent Next/Previous/seek calls from
// multiple goroutines, so every Reader method opens its own.
func (r *reader) openJournal() (*sdjournal.Journal, error) {
	var j *sdjournal.Journal
	var err error
	if r.opts.Dir != "" {
		j, err = sdjournal.NewJournalFromDir(r.opts.Dir)
	} else {
		j, err = sdjournal.NewJournal()
	}
	if err != nil {
		return nil, FatalError{Err: err}
	}
	return j, nil
}

// Close is a no-op: every other Reader method opens and closes its own
// sdjournal handle, scoped to that one call, since concurrent
// Next/Previous/seek calls on a shared handle are not safe.
func (r *reader) Close() error {
	return nil
}

// Tail implements journal.Reader.Tail: seeks to the current tail and
// streams every new entry to out until ctx is cancelled, retrying
// transient journal errors with bounded, jittered backoff and
// resuming from the last cursor observed before the failure.
func (r *reader) Tail(ctx context.Context, out chan<- journal.RawRecord) error {
	j, err := r.openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.SeekTail(); err != nil {
		return FatalError{Err: err}
	}
	// SeekTail positions past the last entry; one Next() call is needed
	// before the first Wait() to establish the read pointer.
	if _, err := j.Next(); err != nil {
		return FatalError{Err: err}
	}

	backoff := newBackoff()
	var lastCursor journal.Cursor

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		status := j.Wait(waitTimeout)
		if status == sdjournal.SD_JOURNAL_NOP {
			continue
		}

		rec, more, err := r.readNext(j)
		if err != nil {
			if isFatal(err) {
				return FatalError{Err: err}
			}
			r.log.Warn("tail: retrying after journal error", zap.Error(TransientJournalError{Err: err}))
			if lastCursor != "" {
				if serr := j.SeekCursor(string(lastCursor)); serr != nil {
					r.log.Warn("tail: seek to last cursor failed after transient error", zap.Error(serr))
				} else {
					j.Next()
				}
			}
			if !backoff.sleep(ctx) {
				return nil
			}
			continue
		}
		backoff.reset()
		if !more {
			continue
		}
		lastCursor = rec.Cursor
		select {
		case out <- rec:
		case <-ctx.Done():
			return nil
		}
	}
}

// readNext advances one entry forward and lifts it to a RawRecord.
// more is false when there was nothing new to read (status 0).
func (r *reader) readNext(j *sdjournal.Journal) (journal.RawRecord, bool, error) {
	n, err := j.Next()
	if err != nil {
		return journal.RawRecord{}, false, err
	}
	if n == 0 {
		return journal.RawRecord{}, false, nil
	}
	return entryToRecord(j)
}

func entryToRecord(j *sdjournal.Journal) (journal.RawRecord, bool, error) {
	entry, err := j.GetEntry()
	if err != nil {
		return journal.RawRecord{}, false, err
	}
	cursor, err := j.GetCursor()
	if err != nil {
		return journal.RawRecord{}, false, err
	}
	return journal.RawRecord{Fields: entry.Fields, Cursor: journal.Cursor(cursor)}, true, nil
}

// RangeOlder implements journal.Reader.RangeOlder: positions at cursor
// (or the tail, when cursor is empty) and walks backward collecting up
// to limit entries strictly older than cursor, newest-first.
func (r *reader) RangeOlder(ctx context.Context, cursor journal.Cursor, limit int, q journal.Query) (journal.Page, error) {
	j, err := r.openJournal()
	if err != nil {
		return journal.Page{}, err
	}
	defer j.Close()

	if err := applyMatches(j, q); err != nil {
		return journal.Page{}, err
	}

	if cursor == "" {
		if err := j.SeekTail(); err != nil {
			return journal.Page{}, FatalError{Err: err}
		}
	} else {
		if err := j.SeekCursor(string(cursor)); err != nil {
			return journal.Page{}, FatalError{Err: err}
		}
		// SeekCursor leaves the read pointer such that the next Previous()
		// call may land on the cursor entry itself; consume it first so
		// the walk below is strictly older than cursor.
		if n, err := j.Next(); err != nil {
			return journal.Page{}, FatalError{Err: err}
		} else if n > 0 {
			if match, _ := j.TestCursor(string(cursor)); !match {
				// Next() overshot past cursor (entry no longer present);
				// step back once so Previous() below starts from the right place.
				j.Previous()
			}
		}
	}

	limit = journal.ClampLimit(limit)
	records := make([]journal.RawRecord, 0, limit)
	// The cursor of the last record appended is the caller's
	// continuation point. It stays empty only when the batch is empty:
	// a partial page still ends somewhere the client can page on from.
	var last journal.Cursor
	for len(records) < limit {
		n, err := j.Previous()
		if err != nil {
			return journal.Page{}, FatalError{Err: err}
		}
		if n == 0 {
			break
		}
		rec, ok, err := entryToRecord(j)
		if err != nil {
			return journal.Page{}, err
		}
		if !ok {
			break
		}
		if !matchesQuery(rec, q) {
			continue
		}
		records = append(records, rec)
		last = rec.Cursor
	}
	return journal.Page{Records: records, Cursor: last}, nil
}

// RangeNewer implements journal.Reader.RangeNewer: positions at cursor
// and walks forward collecting up to limit entries strictly newer than
// cursor, oldest-first (chronological).
func (r *reader) RangeNewer(ctx context.Context, cursor journal.Cursor, limit int, q journal.Query) (journal.Page, error) {
	j, err := r.openJournal()
	if err != nil {
		return journal.Page{}, err
	}
	defer j.Close()

	if err := applyMatches(j, q); err != nil {
		return journal.Page{}, err
	}

	if cursor == "" {
		if err := j.SeekHead(); err != nil {
			return journal.Page{}, FatalError{Err: err}
		}
	} else {
		if err := j.SeekCursor(string(cursor)); err != nil {
			return journal.Page{}, FatalError{Err: err}
		}
		if n, err := j.Next(); err != nil {
			return journal.Page{}, FatalError{Err: err}
		} else if n > 0 {
			if match, _ := j.TestCursor(string(cursor)); !match {
				j.Previous()
			}
		}
	}

	limit = journal.ClampLimit(limit)
	records := make([]journal.RawRecord, 0, limit)
	var last journal.Cursor
	for len(records) < limit {
		n, err := j.Next()
		if err != nil {
			return journal.Page{}, FatalError{Err: err}
		}
		if n == 0 {
			break
		}
		rec, ok, err := entryToRecord(j)
		if err != nil {
			return journal.Page{}, err
		}
		if !ok {
			break
		}
		if !matchesQuery(rec, q) {
			continue
		}
		records = append(records, rec)
		last = rec.Cursor
	}
	return journal.Page{Records: records, Cursor: last}, nil
}

// applyMatches installs sdjournal field-match filters for q.Services,
// so a range walk spends its limit on qualifying records instead of
// scanning every entry and filtering afterward. Each expression goes
// in its own disjunction group: journald ORs matches on the same
// field but ANDs across fields, and these identifier/unit/transport
// matches must all be alternatives. The substring-over-MESSAGE filter,
// which the match grammar can't express, stays in matchesQuery; the
// definitive by-classified-service filter still runs in the query
// engine, since pushdown is only as precise as the identifier sets
// (ServiceSystem in particular has none and scans unfiltered).
func applyMatches(j *sdjournal.Journal, q journal.Query) error {
	exprs := make([]string, 0, 4)
	services := make([]string, 0, len(q.Services))
	for svc := range q.Services {
		services = append(services, svc)
	}
	sort.Strings(services)
	for _, svc := range services {
		exprs = append(exprs, classify.JournalMatches(events.Service(svc))...)
	}
	for i, expr := range exprs {
		if i > 0 {
			if err := j.AddDisjunction(); err != nil {
				return FatalError{Err: err}
			}
		}
		if err := j.AddMatch(expr); err != nil {
			return FatalError{Err: err}
		}
	}
	return nil
}

// matchesQuery applies the substring-over-MESSAGE filter.
func matchesQuery(rec journal.RawRecord, q journal.Query) bool {
	if q.Message == "" {
		return true
	}
	return strings.Contains(rec.Get(journal.FieldMessage), q.Message)
}

func isFatal(err error) bool {
	var fatal FatalError
	return errors.As(err, &fatal)
}

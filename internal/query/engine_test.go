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

package query

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vamsi200/Drashta/internal/classify"
	"github.com/vamsi200/Drashta/pkg/drashta/journal"
)

// fakeReader serves range reads from an in-memory, oldest-first slice
// of records, honoring the strictly-older/strictly-newer cursor rules
// and the empty-cursor end-of-stream contract. Cursors are arbitrary
// distinguishable tokens, which is all the engine may assume.
type fakeReader struct {
	records []journal.RawRecord // oldest first
}

func (f *fakeReader) indexOf(cursor journal.Cursor) int {
	for i, r := range f.records {
		if r.Cursor == cursor {
			return i
		}
	}
	return -1
}

func (f *fakeReader) Tail(ctx context.Context, out chan<- journal.RawRecord) error {
	<-ctx.Done()
	return nil
}

func (f *fakeReader) RangeOlder(ctx context.Context, cursor journal.Cursor, limit int, q journal.Query) (journal.Page, error) {
	limit = journal.ClampLimit(limit)
	start := len(f.records) - 1
	if cursor != "" {
		i := f.indexOf(cursor)
		if i < 0 {
			return journal.Page{}, fmt.Errorf("fake: unknown cursor %q", cursor)
		}
		start = i - 1
	}
	page := journal.Page{}
	for i := start; i >= 0 && len(page.Records) < limit; i-- {
		if !matches(f.records[i], q) {
			continue
		}
		page.Records = append(page.Records, f.records[i])
		page.Cursor = f.records[i].Cursor
	}
	return page, nil
}

func (f *fakeReader) RangeNewer(ctx context.Context, cursor journal.Cursor, limit int, q journal.Query) (journal.Page, error) {
	limit = journal.ClampLimit(limit)
	start := 0
	if cursor != "" {
		i := f.indexOf(cursor)
		if i < 0 {
			return journal.Page{}, fmt.Errorf("fake: unknown cursor %q", cursor)
		}
		start = i + 1
	}
	page := journal.Page{}
	for i := start; i < len(f.records) && len(page.Records) < limit; i++ {
		if !matches(f.records[i], q) {
			continue
		}
		page.Records = append(page.Records, f.records[i])
		page.Cursor = f.records[i].Cursor
	}
	return page, nil
}

func (f *fakeReader) Close() error { return nil }

// matches mirrors the real reader's pushdown: the service filter and
// the MESSAGE substring are both applied before a record costs any of
// the walk's limit.
func matches(rec journal.RawRecord, q journal.Query) bool {
	if q.Message != "" && !strings.Contains(rec.Get(journal.FieldMessage), q.Message) {
		return false
	}
	if len(q.Services) > 0 {
		svc, _ := classify.NewRouter().Route(rec.Get(journal.FieldSyslogIdentifier), rec.Get(journal.FieldSystemdUnit))
		if !q.Services.Allows(string(svc)) {
			return false
		}
	}
	return true
}

func sshdRecord(cursor, message string, ts time.Time) journal.RawRecord {
	return journal.RawRecord{
		Cursor: journal.Cursor(cursor),
		Fields: map[string]string{
			journal.FieldMessage:          message,
			journal.FieldSyslogIdentifier: "sshd",
			journal.FieldRealtimeUsec:     fmt.Sprint(ts.UnixMicro()),
		},
	}
}

func testEngine(records ...journal.RawRecord) *Engine {
	return NewEngine(&fakeReader{records: records}, classify.NewRouter())
}

var t0 = time.Date(2024, 10, 12, 14, 3, 22, 0, time.Local)

func threeSshdRecords() []journal.RawRecord {
	return []journal.RawRecord{
		sshdRecord("c1", "Failed password for root from 1.2.3.4 port 55123 ssh2", t0),
		sshdRecord("c2", "Failed password for admin from 5.6.7.8 port 40000 ssh2", t0.Add(time.Second)),
		sshdRecord("c3", "Accepted publickey for deploy from 9.9.9.9 port 22222 ssh2", t0.Add(2*time.Second)),
	}
}

// Drain returns the newest records first, ending at the oldest one,
// whose cursor is the continuation point.
func TestDrainFirstPage(t *testing.T) {
	e := testEngine(threeSshdRecords()...)
	res, err := e.Drain(context.Background(), Request{Service: "Sshd", Limit: 10})
	require.NoError(t, err)

	require.Len(t, res.Events, 3)
	u0, _ := res.Events[0].Data.Get("user")
	u1, _ := res.Events[1].Data.Get("user")
	u2, _ := res.Events[2].Data.Get("user")
	assert.Equal(t, []string{"deploy", "admin", "root"}, []string{u0, u1, u2})
	assert.Equal(t, journal.Cursor("c1"), res.Cursor)
}

// Paging older past the oldest record yields nothing and no cursor.
func TestOlderPastEndOfStream(t *testing.T) {
	e := testEngine(threeSshdRecords()...)
	res, err := e.Older(context.Background(), Request{Service: "Sshd", Cursor: "c1", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Events)
	assert.Empty(t, res.Cursor)
}

// Older is exclusive of the cursor entry itself.
func TestOlderIsExclusiveOfCursor(t *testing.T) {
	e := testEngine(threeSshdRecords()...)
	res, err := e.Older(context.Background(), Request{Service: "Sshd", Cursor: "c3", Limit: 1})
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	u, _ := res.Events[0].Data.Get("user")
	assert.Equal(t, "admin", u)
	assert.Equal(t, journal.Cursor("c2"), res.Cursor)
}

// Previous fetches forward then reverses, so the client still sees
// newest-first; its cursor is the newest entry of the batch.
func TestPreviousReversesAndReturnsNewestCursor(t *testing.T) {
	e := testEngine(threeSshdRecords()...)
	res, err := e.Previous(context.Background(), Request{Service: "Sshd", Cursor: "c1", Limit: 2})
	require.NoError(t, err)

	require.Len(t, res.Events, 2)
	u0, _ := res.Events[0].Data.Get("user")
	u1, _ := res.Events[1].Data.Get("user")
	assert.Equal(t, []string{"deploy", "admin"}, []string{u0, u1})
	assert.Equal(t, journal.Cursor("c3"), res.Cursor)
}

// A contiguity check across the older/newer boundary: walking older
// from the tail, then newer from the oldest entry returned, covers the
// journal exactly once with no duplicates at the boundary.
func TestOlderThenNewerRoundTrip(t *testing.T) {
	records := make([]journal.RawRecord, 0, 6)
	for i := 0; i < 6; i++ {
		records = append(records, sshdRecord(fmt.Sprintf("c%d", i),
			fmt.Sprintf("Failed password for u%d from 1.2.3.4 port 22 ssh2", i),
			t0.Add(time.Duration(i)*time.Second)))
	}
	e := testEngine(records...)

	older, err := e.Drain(context.Background(), Request{Service: "Sshd", Limit: 3})
	require.NoError(t, err)
	require.Equal(t, journal.Cursor("c3"), older.Cursor)

	newer, err := e.Previous(context.Background(), Request{Service: "Sshd", Cursor: older.Cursor, Limit: 10})
	require.NoError(t, err)

	// The newer page begins exactly one entry past c3: no gap, and the
	// boundary entry itself is never repeated.
	require.Len(t, newer.Events, 2)
	oldest, _ := newer.Events[len(newer.Events)-1].Data.Get("user")
	assert.Equal(t, "u4", oldest)
	for _, ev := range newer.Events {
		u, _ := ev.Data.Get("user")
		assert.NotEqual(t, "u3", u, "boundary entry duplicated")
	}
}

func TestServiceFilterDropsForeignRecords(t *testing.T) {
	records := threeSshdRecords()
	records = append(records, journal.RawRecord{
		Cursor: "c4",
		Fields: map[string]string{
			journal.FieldMessage:          "alice : TTY=pts/0 ; PWD=/home/alice ; USER=root ; COMMAND=/usr/bin/id",
			journal.FieldSyslogIdentifier: "sudo",
			journal.FieldRealtimeUsec:     fmt.Sprint(t0.Add(3 * time.Second).UnixMicro()),
		},
	})
	e := testEngine(records...)

	res, err := e.Drain(context.Background(), Request{Service: "Sshd", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, res.Events, 3, "the sudo record must be filtered out")

	res, err = e.Drain(context.Background(), Request{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, res.Events, 4, "no service filter sees everything")
}

func TestUnknownServiceRejected(t *testing.T) {
	e := testEngine(threeSshdRecords()...)
	_, err := e.Drain(context.Background(), Request{Service: "Bogus", Limit: 10})
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestEventTypeFilter(t *testing.T) {
	e := testEngine(threeSshdRecords()...)

	res, err := e.Drain(context.Background(), Request{Service: "Sshd", Limit: 10, EventTypes: []string{"Failure"}})
	require.NoError(t, err)
	assert.Len(t, res.Events, 2)

	res, err = e.Drain(context.Background(), Request{Service: "Sshd", Limit: 10, EventTypes: []string{"Auth::Success"}})
	require.NoError(t, err)
	assert.Len(t, res.Events, 1)

	// Multiple values OR together.
	res, err = e.Drain(context.Background(), Request{Service: "Sshd", Limit: 10, EventTypes: []string{"Success", "Failure"}})
	require.NoError(t, err)
	assert.Len(t, res.Events, 3)
}

func TestTimestampRangeFilter(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	e := testEngine(
		sshdRecord("c1", "Failed password for old from 1.2.3.4 port 22 ssh2", now.Add(-2*time.Hour)),
		sshdRecord("c2", "Failed password for new from 1.2.3.4 port 22 ssh2", now),
	)

	from := now.Add(-time.Hour)
	to := now.Add(time.Hour)
	res, err := e.Drain(context.Background(), Request{Service: "Sshd", Limit: 10, TimestampFrom: &from, TimestampTo: &to})
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	u, _ := res.Events[0].Data.Get("user")
	assert.Equal(t, "new", u)
}

func TestMessageSubstringFilter(t *testing.T) {
	e := testEngine(threeSshdRecords()...)
	res, err := e.Drain(context.Background(), Request{Service: "Sshd", Limit: 10, Message: "Accepted"})
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	u, _ := res.Events[0].Data.Get("user")
	assert.Equal(t, "deploy", u)
}

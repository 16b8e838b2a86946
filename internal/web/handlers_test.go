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
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vamsi200/Drashta/internal/classify"
	"github.com/vamsi200/Drashta/internal/hub"
	"github.com/vamsi200/Drashta/internal/query"
	"github.com/vamsi200/Drashta/pkg/drashta/events"
	"github.com/vamsi200/Drashta/pkg/drashta/journal"
)

// fakeReader mirrors the journal contract over an in-memory
// oldest-first slice; cursors are arbitrary distinguishable tokens.
type fakeReader struct {
	records []journal.RawRecord
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
		page.Records = append(page.Records, f.records[i])
		page.Cursor = f.records[i].Cursor
	}
	return page, nil
}

func (f *fakeReader) Close() error { return nil }

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

var t0 = time.Date(2024, 10, 12, 14, 3, 22, 0, time.Local)

func testServer(records ...journal.RawRecord) (*Server, *hub.Hub) {
	h := hub.New(0)
	engine := query.NewEngine(&fakeReader{records: records}, classify.NewRouter())
	return NewServer(engine, h, zap.NewNop(), 0, ""), h
}

// frame is one parsed SSE frame.
type frame struct {
	event string
	data  string
}

func parseFrames(t *testing.T, body string) []frame {
	t.Helper()
	var frames []frame
	for _, block := range strings.Split(body, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		var f frame
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event:"):
				f.event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				f.data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			}
		}
		frames = append(frames, f)
	}
	return frames
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestDrainEmitsNewestFirstWithTrailingCursor(t *testing.T) {
	s, _ := testServer(
		sshdRecord("c1", "Failed password for root from 1.2.3.4 port 55123 ssh2", t0),
		sshdRecord("c2", "Failed password for admin from 5.6.7.8 port 40000 ssh2", t0.Add(time.Second)),
		sshdRecord("c3", "Accepted publickey for deploy from 9.9.9.9 port 22222 ssh2", t0.Add(2*time.Second)),
	)

	w := get(t, s, "/drain?event_name=sshd.events&limit=10")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	frames := parseFrames(t, w.Body.String())
	require.Len(t, frames, 4)

	subtypes := make([]string, 0, 3)
	for _, f := range frames[:3] {
		require.Equal(t, "log", f.event)
		var ev events.Event
		require.NoError(t, json.Unmarshal([]byte(f.data), &ev))
		subtypes = append(subtypes, string(ev.EventType.Subtype))
	}
	assert.Equal(t, []string{"Success", "Failure", "Failure"}, subtypes)

	require.Equal(t, "cursor", frames[3].event)
	var cf struct {
		Cursor string `json:"cursor"`
	}
	require.NoError(t, json.Unmarshal([]byte(frames[3].data), &cf))
	assert.Equal(t, "c1", cf.Cursor)
}

// Continuing older past the last record: connected, empty body, no
// cursor frame — how clients detect end-of-stream.
func TestOlderEndOfStream(t *testing.T) {
	s, _ := testServer(
		sshdRecord("c1", "Failed password for root from 1.2.3.4 port 55123 ssh2", t0),
	)
	w := get(t, s, "/older?event_name=sshd.events&cursor=c1&limit=10")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
	assert.Empty(t, parseFrames(t, w.Body.String()))
}

func TestPreviousCursorIsNewestOfBatch(t *testing.T) {
	s, _ := testServer(
		sshdRecord("c1", "Failed password for root from 1.2.3.4 port 55123 ssh2", t0),
		sshdRecord("c2", "Failed password for admin from 5.6.7.8 port 40000 ssh2", t0.Add(time.Second)),
		sshdRecord("c3", "Accepted publickey for deploy from 9.9.9.9 port 22222 ssh2", t0.Add(2*time.Second)),
	)
	w := get(t, s, "/previous?event_name=sshd.events&cursor=c1&limit=10")
	require.Equal(t, http.StatusOK, w.Code)

	frames := parseFrames(t, w.Body.String())
	require.Len(t, frames, 3)
	last := frames[len(frames)-1]
	require.Equal(t, "cursor", last.event)
	assert.Contains(t, last.data, `"c3"`)
}

func TestClientErrors(t *testing.T) {
	s, _ := testServer()
	for _, tc := range []struct {
		target string
		want   int
	}{
		{"/drain", http.StatusBadRequest}, // missing event_name
		{"/drain?event_name=bogus.events", http.StatusNotFound},
		{"/older?event_name=sshd.events", http.StatusBadRequest}, // missing cursor
		{"/previous?event_name=sshd.events", http.StatusBadRequest},
		{"/drain?event_name=sshd.events&limit=nope", http.StatusBadRequest},
		{"/drain?event_name=sshd.events&limit=-5", http.StatusBadRequest},
		{"/drain?event_name=sshd.events&timestamp_from=never", http.StatusBadRequest},
		{"/live?event_name=bogus.events", http.StatusNotFound},
		{"/live", http.StatusBadRequest},
	} {
		w := get(t, s, tc.target)
		assert.Equal(t, tc.want, w.Code, "GET %s", tc.target)
	}
}

func TestDrainGzipWhenAccepted(t *testing.T) {
	s, _ := testServer(
		sshdRecord("c1", "Failed password for root from 1.2.3.4 port 55123 ssh2", t0),
	)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/drain?event_name=sshd.events", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)

	frames := parseFrames(t, string(body))
	require.Len(t, frames, 2)
	assert.Equal(t, "log", frames[0].event)
	assert.Equal(t, "cursor", frames[1].event)
}

// Two /live subscribers on the service topic and one on all.events all
// see a published event, in publish order.
func TestLiveFanOut(t *testing.T) {
	s, h := testServer()
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	open := func(topic string) (*bufio.Reader, func()) {
		ctx, cancel := context.WithCancel(context.Background())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/live?event_name="+topic, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return bufio.NewReader(resp.Body), func() {
			cancel()
			resp.Body.Close()
		}
	}

	a, closeA := open("sshd.events")
	defer closeA()
	b, closeB := open("sshd.events")
	defer closeB()
	all, closeAll := open("all.events")
	defer closeAll()

	waitFor := func(topic string, n int) {
		deadline := time.Now().Add(5 * time.Second)
		for h.SubscriberCount(topic) < n {
			if time.Now().After(deadline) {
				t.Fatalf("timed out waiting for %d subscribers on %s", n, topic)
			}
			time.Sleep(5 * time.Millisecond)
		}
	}
	waitFor("sshd.events", 2)
	waitFor("all.events", 1)

	h.Publish("sshd.events", hub.Message{
		Cursor: "c42",
		Event: events.Event{
			Timestamp: "Oct 12 14:03:22",
			Service:   events.ServiceSshd,
			EventType: events.EventType{Category: events.CategoryAuth, Subtype: events.AuthFailure},
			RawMsg:    events.PlainMsg("x"),
		},
	})

	for name, r := range map[string]*bufio.Reader{"a": a, "b": b, "all": all} {
		f := readFrame(t, r)
		assert.Equal(t, "log", f.event, "subscriber %s", name)
		assert.Contains(t, f.data, `"Sshd"`, "subscriber %s", name)

		// The log frame's own cursor follows it.
		f = readFrame(t, r)
		assert.Equal(t, "cursor", f.event, "subscriber %s", name)
		assert.Contains(t, f.data, `"c42"`, "subscriber %s", name)
	}
}

// frameLines holds the one background line-reader goroutine for a
// given *bufio.Reader so repeated readFrame calls on the same reader
// share a single consumer instead of racing to read from it.
var (
	frameLinesMu sync.Mutex
	frameLines   = map[*bufio.Reader]chan string{}
)

func linesFor(r *bufio.Reader) chan string {
	frameLinesMu.Lock()
	defer frameLinesMu.Unlock()
	if ch, ok := frameLines[r]; ok {
		return ch
	}
	ch := make(chan string)
	frameLines[r] = ch
	go func() {
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				close(ch)
				return
			}
			ch <- line
		}
	}()
	return ch
}

// readFrame reads lines until one complete SSE frame has been seen.
func readFrame(t *testing.T, r *bufio.Reader) frame {
	t.Helper()
	var f frame
	deadline := time.After(5 * time.Second)
	lines := linesFor(r)
	for {
		select {
		case <-deadline:
			t.Fatal("timed out reading SSE frame")
		case line, ok := <-lines:
			if !ok {
				t.Fatal("stream closed mid-frame")
			}
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event:"):
				f.event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				f.data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			case line == "" && f.event != "":
				return f
			}
		}
	}
}

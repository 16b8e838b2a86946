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
	"sort"
	"strconv"
	"time"

	"github.com/vamsi200/Drashta/pkg/drashta/classify"
	"github.com/vamsi200/Drashta/pkg/drashta/events"
	"github.com/vamsi200/Drashta/pkg/drashta/journal"
)

// transportField is the journal field that identifies kernel ring
// buffer entries, which carry no SYSLOG_IDENTIFIER/_SYSTEMD_UNIT of
// their own.
const transportField = "_TRANSPORT"

// Classify routes rec to its service classifier and fills in the
// human-readable timestamp. It is the one place both the Tail
// consumer (internal/pipeline, the live path) and the Historical
// Query Engine turn a RawRecord into an Event, so the two paths can
// never classify a record differently.
func Classify(router classify.Router, rec journal.RawRecord) events.Event {
	var classifier classify.Classifier
	if transport := rec.Get(transportField); transport != "" {
		if _, c, ok := router.RouteTransport(transport); ok {
			classifier = c
		}
	}
	if classifier == nil {
		_, classifier = router.Route(rec.Get(journal.FieldSyslogIdentifier), rec.Get(journal.FieldSystemdUnit))
	}
	ev := classifier.Classify(rec.Get(journal.FieldMessage), structuredData(rec))
	ev.Timestamp = formatTimestamp(rec)
	return ev
}

// structuredData collects rec's fields, sorted by key, when the record
// carries no MESSAGE of its own (some audit/kernel entries are
// key-value only); the classifier carries them in Event.RawMsg as the
// Structured form. Otherwise it returns nil so the classifier uses the
// Plain form.
func structuredData(rec journal.RawRecord) events.Data {
	if rec.Get(journal.FieldMessage) != "" {
		return nil
	}
	if len(rec.Fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(rec.Fields))
	for k := range rec.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	data := make(events.Data, 0, len(keys))
	for _, k := range keys {
		data = append(data, events.KV{Key: k, Value: rec.Fields[k]})
	}
	return data
}

// formatTimestamp derives the syslog-form "Jan _2 15:04:05" timestamp
// from __REALTIME_TIMESTAMP (microseconds since epoch), in the host's
// local timezone.
func formatTimestamp(rec journal.RawRecord) string {
	usec, err := strconv.ParseInt(rec.Get(journal.FieldRealtimeUsec), 10, 64)
	if err != nil {
		return ""
	}
	return time.UnixMicro(usec).Local().Format("Jan _2 15:04:05")
}

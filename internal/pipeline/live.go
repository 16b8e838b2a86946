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

// Package pipeline runs the live half of the event DAG: the one
// long-lived journal tail, classification, and publication into the
// broadcast hub. Historical queries bypass this entirely and go through
// internal/query.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/vamsi200/Drashta/internal/hub"
	"github.com/vamsi200/Drashta/internal/query"
	"github.com/vamsi200/Drashta/pkg/drashta/classify"
	"github.com/vamsi200/Drashta/pkg/drashta/journal"
)

// tailBuffer decouples the journal tail goroutine from classification:
// a burst of journal entries queues here instead of stalling the
// reader's drain loop mid-burst.
const tailBuffer = 128

// Live owns the single long-lived tail task; the journal is read by
// exactly one goroutine for the life of the process. Each record it
// reads is classified once and published to its service topic; the
// hub duplicates it onto all.events.
type Live struct {
	reader journal.Reader
	router classify.Router
	hub    *hub.Hub
	log    *zap.Logger
}

func NewLive(reader journal.Reader, router classify.Router, h *hub.Hub, log *zap.Logger) *Live {
	return &Live{reader: reader, router: router, hub: h, log: log}
}

// Run blocks pumping the tail into the hub until ctx is cancelled or
// the reader fails fatally. Transient journal errors never reach here;
// the reader retries those internally.
func (l *Live) Run(ctx context.Context) error {
	records := make(chan journal.RawRecord, tailBuffer)
	errc := make(chan error, 1)
	go func() {
		errc <- l.reader.Tail(ctx, records)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if err != nil {
				l.log.Error("journal tail terminated", zap.Error(err))
			}
			return err
		case rec := <-records:
			ev := query.Classify(l.router, rec)
			l.hub.Publish(ev.Service.Topic(), hub.Message{Event: ev, Cursor: rec.Cursor})
		}
	}
}

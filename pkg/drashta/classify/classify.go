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

// Package classify defines the contract for turning a RawRecord into a
// structured Event: a table of named, ordered, regex-based rules per
// service, and a Router that dispatches a record to the right table.
package classify

import (
	"regexp"

	"github.com/vamsi200/Drashta/pkg/drashta/events"
)

// Rule is one named classification rule. Pattern is matched against
// MESSAGE; Captures maps the pattern's named capture groups to the
// Event.Data keys they should be lifted into. A capture group that
// fails to match contributes nothing to Data.
//
// Category overrides the Table's default category for this rule only.
// Every classifier except System is single-category and leaves this
// empty; System is the generic catch-all for identifiers that match
// none of the other eight services, and some of the messages that
// land there (useradd/groupadd/passwd output) belong to the User
// category rather than System, so its rules carry per-rule overrides.
type Rule struct {
	Subtype  events.Subtype
	Category events.Category
	Pattern  *regexp.Regexp
	Captures map[string]string // capture group name -> data key
}

// Table is one service's ordered rule list plus its fallback. Rule
// order is significant: classification is first-match-wins, so more
// specific rules must precede generic ones.
type Table struct {
	Category Category
	Rules    []Rule
	Fallback events.Subtype
}

// Category is a type alias kept local to this package so rule tables
// read naturally (classify.Category rather than events.Category) while
// staying the exact same closed set defined in pkg/drashta/events.
type Category = events.Category

// Classifier turns one RawRecord's MESSAGE (plus any already-extracted
// fields) into an Event. It is a pure function of its input: no I/O,
// no unbounded allocation, deterministic.
type Classifier interface {
	Classify(message string, structured events.Data) events.Event
}

// tableClassifier is the generic, table-driven Classifier
// implementation every service classifier is built from.
type tableClassifier struct {
	service  events.Service
	category Category
	table    Table
}

// NewClassifier builds a Classifier from a rule Table for service.
func NewClassifier(service events.Service, table Table) Classifier {
	return &tableClassifier{service: service, category: table.Category, table: table}
}

// Classify implements first-match-wins dispatch over the table's rules,
// falling back to table.Fallback when nothing matches, so a record is
// never silently dropped.
func (c *tableClassifier) Classify(message string, structured events.Data) events.Event {
	for _, rule := range c.table.Rules {
		m := rule.Pattern.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		names := rule.Pattern.SubexpNames()
		data := make(events.Data, 0, len(rule.Captures))
		for i, name := range names {
			if i == 0 || name == "" {
				continue
			}
			key, ok := rule.Captures[name]
			if !ok {
				continue
			}
			if m[i] == "" {
				continue
			}
			data = append(data, events.KV{Key: key, Value: m[i]})
		}
		category := c.category
		if rule.Category != "" {
			category = rule.Category
		}
		return c.build(category, rule.Subtype, data, structured, message)
	}
	return c.build(c.category, c.table.Fallback, nil, structured, message)
}

func (c *tableClassifier) build(category events.Category, subtype events.Subtype, data events.Data, structured events.Data, message string) events.Event {
	raw := events.PlainMsg(message)
	if len(structured) > 0 {
		raw = events.StructuredMsg(structured)
	}
	return events.Event{
		Service: c.service,
		EventType: events.EventType{
			Category: category,
			Subtype:  subtype,
		},
		Data:   data,
		RawMsg: raw,
	}
}

// Router dispatches a RawRecord to the classifier for its service,
// based on SYSLOG_IDENTIFIER with _SYSTEMD_UNIT as fallback. An
// unrecognized identifier routes to the generic System classifier.
type Router interface {
	Route(syslogIdentifier, systemdUnit string) (events.Service, Classifier)

	// RouteTransport handles records that carry no SYSLOG_IDENTIFIER or
	// _SYSTEMD_UNIT at all — kernel ring buffer entries, identified only
	// by the journal's _TRANSPORT field. ok is false for any transport
	// Route should handle instead.
	RouteTransport(transport string) (events.Service, Classifier, bool)
}

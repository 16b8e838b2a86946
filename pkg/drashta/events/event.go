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

// Package events defines Drashta's canonical classified Event and the
// closed Category/Subtype taxonomy it is built from. This is the wire
// contract clients depend on.
package events

import "strings"

// Service names the eight systemd services Drashta classifies records
// from. The value is also the PascalCase wire form.
type Service string

const (
	ServiceSshd           Service = "Sshd"
	ServiceSudo           Service = "Sudo"
	ServiceLogin          Service = "Login"
	ServiceKernel         Service = "Kernel"
	ServiceConfigChange   Service = "ConfigChange"
	ServicePkgManager     Service = "PkgManager"
	ServiceFirewalld      Service = "Firewalld"
	ServiceNetworkManager Service = "NetworkManager"

	// ServiceSystem is the Router's catch-all for any
	// SYSLOG_IDENTIFIER/_SYSTEMD_UNIT matching none of the eight named
	// services above (see the Route method in internal/classify). It is a
	// ninth service, not in the named set above, with its own topic
	// (system.events).
	ServiceSystem Service = "System"
)

// Topic returns the per-service topic name: "{service.lowercased}.events".
func (s Service) Topic() string {
	return strings.ToLower(string(s)) + ".events"
}

// AllEventsTopic is the synthetic topic that fans in every Event
// regardless of service.
const AllEventsTopic = "all.events"

// AllServices lists every Service the Router can return, including
// ServiceSystem. Used to validate an event_name and to build the
// reverse topic->Service lookup.
var AllServices = []Service{
	ServiceSshd, ServiceSudo, ServiceLogin, ServiceKernel,
	ServiceConfigChange, ServicePkgManager, ServiceFirewalld,
	ServiceNetworkManager, ServiceSystem,
}

var topicToService = func() map[string]Service {
	m := make(map[string]Service, len(AllServices))
	for _, s := range AllServices {
		m[s.Topic()] = s
	}
	return m
}()

// ServiceFromTopic is the inverse of Service.Topic: it resolves
// "sshd.events" back to ServiceSshd, or reports ok=false for
// AllEventsTopic (which names no single service) or any unknown topic.
func ServiceFromTopic(topic string) (Service, bool) {
	s, ok := topicToService[topic]
	return s, ok
}

// IsKnownTopic reports whether topic is either AllEventsTopic or one
// of the per-service topics in AllServices, i.e. a valid event_name.
func IsKnownTopic(topic string) bool {
	if topic == AllEventsTopic {
		return true
	}
	_, ok := topicToService[topic]
	return ok
}

// Category is the top-level classification of an Event. The set is
// closed and stable between releases.
type Category string

const (
	CategoryAuth     Category = "Auth"
	CategoryUser     Category = "User"
	CategoryPackage  Category = "Package"
	CategoryNetwork  Category = "Network"
	CategoryFirewall Category = "Firewall"
	CategoryKernel   Category = "Kernel"
	CategoryConfig   Category = "Config"
	CategorySystem   Category = "System"
)

// Subtype is an enumerated symbol within a Category. Values are just
// the bare symbol name ("Failure", "Other", ...); see Subtypes for the
// closed per-category sets.
type Subtype string

// EventType is the tagged {Category, Subtype} variant. It marshals as
// the single-key object {"<Category>": "<Subtype>"} so clients can
// match on both levels.
type EventType struct {
	Category Category
	Subtype  Subtype
}

// KV is one key/value pair of Event.Data, kept as a slice rather than a
// map so that field order in the JSON wire form matches the order the
// classifier lifted the fields in.
type KV struct {
	Key   string
	Value string
}

// Data is an ordered mapping from classifier-lifted field name to
// value, e.g. {user: "root", remote_host: "1.2.3.4"}.
type Data []KV

// Get returns the first value for key, and whether it was present.
func (d Data) Get(key string) (string, bool) {
	for _, kv := range d {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// RawMsgKind discriminates the two RawMsg variants.
type RawMsgKind string

const (
	RawMsgPlain      RawMsgKind = "Plain"
	RawMsgStructured RawMsgKind = "Structured"
)

// RawMsg is either the raw MESSAGE line (Plain) or, when the journal
// record carried structured fields beyond MESSAGE, that structured
// data (Structured). It marshals as {"type": <kind>, "value": <...>}.
type RawMsg struct {
	Kind       RawMsgKind
	Plain      string
	Structured Data
}

func PlainMsg(text string) RawMsg {
	return RawMsg{Kind: RawMsgPlain, Plain: text}
}

func StructuredMsg(fields Data) RawMsg {
	return RawMsg{Kind: RawMsgStructured, Structured: fields}
}

// Event is the canonical classified record as it appears on the wire.
type Event struct {
	Timestamp string    `json:"timestamp"`
	Service   Service   `json:"service"`
	EventType EventType `json:"event_type"`
	Data      Data      `json:"data"`
	RawMsg    RawMsg    `json:"raw_msg"`
}

// MatchesSubtype reports whether name equals either the bare Subtype
// ("Failure") or the full "Category::Subtype" form ("Auth::Failure"),
// the two spellings an event_type filter accepts.
func (e Event) MatchesSubtype(name string) bool {
	if name == string(e.EventType.Subtype) {
		return true
	}
	full := string(e.EventType.Category) + "::" + string(e.EventType.Subtype)
	return name == full
}

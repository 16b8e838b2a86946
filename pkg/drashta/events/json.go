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

package events

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON renders EventType as the single-key tagged-variant
// object {"<Category>": "<Subtype>"}.
func (t EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[Subtype]Subtype{Subtype(t.Category): t.Subtype})
}

// UnmarshalJSON parses the single-key {"<Category>": "<Subtype>"} form.
func (t *EventType) UnmarshalJSON(b []byte) error {
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("events: event_type must have exactly one key, got %d", len(m))
	}
	for k, v := range m {
		t.Category = Category(k)
		t.Subtype = Subtype(v)
	}
	return nil
}

// MarshalJSON renders Data as a JSON object, preserving key order.
func (d Data) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object into Data. Go's encoding/json
// does not preserve object key order on decode, so round-tripping
// through UnmarshalJSON does not guarantee the original order; this is
// only used in tests that don't depend on order.
func (d *Data) UnmarshalJSON(b []byte) error {
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	out := make(Data, 0, len(m))
	for k, v := range m {
		out = append(out, KV{Key: k, Value: v})
	}
	*d = out
	return nil
}

type rawMsgWire struct {
	Type  RawMsgKind      `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON renders RawMsg as {"type": "Plain"|"Structured", "value": ...}.
func (m RawMsg) MarshalJSON() ([]byte, error) {
	var value json.RawMessage
	var err error
	switch m.Kind {
	case RawMsgStructured:
		value, err = m.Structured.MarshalJSON()
	default:
		value, err = json.Marshal(m.Plain)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(rawMsgWire{Type: m.Kind, Value: value})
}

// UnmarshalJSON parses the {"type", "value"} form back into RawMsg.
func (m *RawMsg) UnmarshalJSON(b []byte) error {
	var wire rawMsgWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	m.Kind = wire.Type
	switch wire.Type {
	case RawMsgStructured:
		return json.Unmarshal(wire.Value, &m.Structured)
	default:
		m.Kind = RawMsgPlain
		return json.Unmarshal(wire.Value, &m.Plain)
	}
}

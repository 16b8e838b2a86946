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
	"time"

	"github.com/araddon/dateparse"
)

// ParseTimestamp parses a user-supplied timestamp_from/timestamp_to
// value permissively (RFC3339, or any format dateparse recognizes)
// rather than requiring one exact layout; the web UI's date picker
// does not emit one fixed format.
func ParseTimestamp(s string) (time.Time, error) {
	return dateparse.ParseLocal(s)
}

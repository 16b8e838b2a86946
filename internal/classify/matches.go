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

package classify

import (
	"sort"

	"github.com/vamsi200/Drashta/pkg/drashta/events"
)

// JournalMatches returns the journal field match expressions
// ("FIELD=value", OR'd together) that select service's records, so the
// reader can push the filter down into the journal and spend its limit
// on qualifying entries only. The expressions are derived from the
// same routing table Route dispatches on, so pushdown and
// classification can never disagree about which daemon a record
// belongs to.
//
// ServiceSystem returns nil: it is the catch-all for records matching
// none of the named services, which no positive match set can express.
// Callers fall back to an unfiltered walk with post-classification
// filtering for it.
func JournalMatches(service events.Service) []string {
	var out []string
	add := func(field string, values map[string]struct{}) {
		for v := range values {
			out = append(out, field+"="+v)
		}
	}
	for _, sm := range routingTable {
		if sm.service != service {
			continue
		}
		add("SYSLOG_IDENTIFIER", sm.identifiers)
		add("_SYSTEMD_UNIT", sm.units)
	}
	switch service {
	case events.ServicePkgManager:
		add("SYSLOG_IDENTIFIER", pkgManagerIdentifiers)
	case events.ServiceKernel:
		out = append(out, "_TRANSPORT=kernel")
	}
	sort.Strings(out)
	return out
}

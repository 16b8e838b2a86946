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
	"regexp"

	cls "github.com/vamsi200/Drashta/pkg/drashta/classify"
	"github.com/vamsi200/Drashta/pkg/drashta/events"
)

// systemRules are the System category's own generic rules: no service
// this catch-all table sees belongs to it by name, only by exclusion.
var systemRules = []cls.Rule{
	{
		Subtype:  events.SystemError,
		Pattern:  regexp.MustCompile(`(?i)\berror\b:?\s*(?P<detail>.+)`),
		Captures: map[string]string{"detail": "detail"},
	},
	{
		Subtype:  events.SystemWarning,
		Pattern:  regexp.MustCompile(`(?i)\bwarning\b:?\s*(?P<detail>.+)`),
		Captures: map[string]string{"detail": "detail"},
	},
	{
		Subtype:  events.SystemInfo,
		Pattern:  regexp.MustCompile(`(?i)\binfo\b:?\s*(?P<detail>.+)`),
		Captures: map[string]string{"detail": "detail"},
	},
}

// systemTable is the Router's fallback classifier for any
// SYSLOG_IDENTIFIER/_SYSTEMD_UNIT that matches none of the eight named
// services. Its rule list is userChangeRules (each carrying its own
// Category override to User) followed by the generic System rules, so
// a useradd/groupadd/passwd record is classified as User before the
// generic Info/Warning/Error rules ever get a chance to shadow it.
var systemTable = cls.Table{
	Category: events.CategorySystem,
	Fallback: events.SystemOther,
	Rules:    append(append([]cls.Rule{}, userChangeRules...), systemRules...),
}

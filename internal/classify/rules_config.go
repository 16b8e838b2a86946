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

// configChangeTable classifies cronie's scheduled-task daemon (the
// system's closest analogue to a config-change audit trail: every
// cron invocation is a scheduled configuration action taking effect).
var configChangeTable = cls.Table{
	Category: events.CategoryConfig,
	Fallback: events.ConfigOther,
	Rules: []cls.Rule{
		{
			Subtype:  events.ConfigCmdRun,
			Pattern:  regexp.MustCompile(`^\(\s*(?P<user>\S+)\s*\)\s*CMD\s*\((?P<cron_cmd>.+)\)$`),
			Captures: map[string]string{"user": "user", "cron_cmd": "cron_cmd"},
		},
		{
			Subtype:  events.ConfigCronReload,
			Pattern:  regexp.MustCompile(`^\(\s*(?P<user>\S+)\s*\)\s*RELOAD\s*\((?P<cron_reload>.+)\)$`),
			Captures: map[string]string{"user": "user", "cron_reload": "cron_reload"},
		},
		{
			Subtype:  events.ConfigFailure,
			Pattern:  regexp.MustCompile(`^\(\s*(?P<user>\S+)\s*\)\s*BAD COMMAND\s*\((?P<cron_cmd>.+)\)$`),
			Captures: map[string]string{"user": "user", "cron_cmd": "cron_cmd"},
		},
		{
			Subtype:  events.ConfigFailure,
			Pattern:  regexp.MustCompile(`^\(\s*(?P<user>\S+)\s*\)\s*BAD MINUTE\s*\((?P<cron_cmd>.+)\)$`),
			Captures: map[string]string{"user": "user", "cron_cmd": "cron_cmd"},
		},
		{
			Subtype:  events.ConfigFailure,
			Pattern:  regexp.MustCompile(`^\(\s*(?P<user>\S+)\s*\)\s*ERROR\s*\((?P<cron_cmd>.+)\)$`),
			Captures: map[string]string{"user": "user", "cron_cmd": "cron_cmd"},
		},
		{
			Subtype:  events.ConfigFailure,
			Pattern:  regexp.MustCompile(`^\(\s*(?P<user>\S+)\s*\)\s*DENIED\s*\((?P<cron_cmd>.+)\)$`),
			Captures: map[string]string{"user": "user", "cron_cmd": "cron_cmd"},
		},
		{
			Subtype:  events.ConfigSessionOpened,
			Pattern:  regexp.MustCompile(`^pam_unix\(crond:session\): session opened for user (?P<user>\S+).*\buid=(?P<uid>\d+)`),
			Captures: map[string]string{"user": "user", "uid": "uid"},
		},
		{
			Subtype:  events.ConfigSessionOpened,
			Pattern:  regexp.MustCompile(`^pam_unix\(crond:session\): session opened for user (?P<user>\S+)`),
			Captures: map[string]string{"user": "user"},
		},
		{
			Subtype:  events.ConfigSessionClosed,
			Pattern:  regexp.MustCompile(`^pam_unix\(crond:session\): session closed for user (?P<user>\S+)`),
			Captures: map[string]string{"user": "user"},
		},
	},
}

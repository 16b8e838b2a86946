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

// sshdTable classifies OpenSSH server daemon log lines.
var sshdTable = cls.Table{
	Category: events.CategoryAuth,
	Fallback: events.AuthOther,
	Rules: []cls.Rule{
		{
			Subtype: events.AuthSuccess,
			Pattern: regexp.MustCompile(`^Accepted (?P<method>\S+) for (?P<user>\S+) from (?P<remote_host>\S+) port (?P<port>\d+)`),
			Captures: map[string]string{
				"method": "method", "user": "user", "remote_host": "remote_host", "port": "port",
			},
		},
		{
			Subtype: events.AuthFailure,
			Pattern: regexp.MustCompile(`^Failed (?P<method>\S+) for (?P<user>\S+) from (?P<remote_host>\S+) port (?P<port>\d+)`),
			Captures: map[string]string{
				"method": "method", "user": "user", "remote_host": "remote_host", "port": "port",
			},
		},
		{
			Subtype:  events.AuthTooManyAuthFailures,
			Pattern:  regexp.MustCompile(`^Disconnecting authenticating user (?P<user>\S+) (?P<remote_host>\S+) port (?P<port>\d+): Too many authentication failures`),
			Captures: map[string]string{"user": "user", "remote_host": "remote_host", "port": "port"},
		},
		{
			Subtype:  events.AuthSessionOpened,
			Pattern:  regexp.MustCompile(`^pam_unix\(sshd:session\): session opened for user (?P<user>\S+)`),
			Captures: map[string]string{"user": "user"},
		},
		{
			Subtype:  events.AuthSessionClosed,
			Pattern:  regexp.MustCompile(`^pam_unix\(sshd:session\): session closed for user (?P<user>\S+)`),
			Captures: map[string]string{"user": "user"},
		},
		{
			Subtype:  events.AuthConnectionClosed,
			Pattern:  regexp.MustCompile(`^Connection closed by (?:authenticating user (?P<user>\S+) )?(?P<remote_host>\S+) port (?P<port>\d+)`),
			Captures: map[string]string{"user": "user", "remote_host": "remote_host", "port": "port"},
		},
		{
			Subtype:  events.AuthConnectionClosed,
			Pattern:  regexp.MustCompile(`^Received disconnect from (?P<remote_host>\S+) port (?P<port>\d+)`),
			Captures: map[string]string{"remote_host": "remote_host", "port": "port"},
		},
		{
			Subtype:  events.AuthWarning,
			Pattern:  regexp.MustCompile(`^(?i)warning:\s*(?P<detail>.+)$`),
			Captures: map[string]string{"detail": "detail"},
		},
	},
}

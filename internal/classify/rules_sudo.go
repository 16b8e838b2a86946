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

// sudoTable classifies su/sudo privilege-escalation attempts.
var sudoTable = cls.Table{
	Category: events.CategoryAuth,
	Fallback: events.AuthOther,
	Rules: []cls.Rule{
		{
			Subtype:  events.AuthNotInSudoers,
			Pattern:  regexp.MustCompile(`^\s*(?P<user>\S+) is not in the sudoers file`),
			Captures: map[string]string{"user": "user"},
		},
		{
			Subtype:  events.AuthAuthFailure,
			Pattern:  regexp.MustCompile(`^(?P<user>\S+)\s*:\s*(?P<tty_info>\d+ incorrect password attempts?;.*?)\s*COMMAND=(?P<command>.+)$`),
			Captures: map[string]string{"user": "user", "tty_info": "tty_info", "command": "command"},
		},
		{
			Subtype: events.AuthSuccess,
			Pattern: regexp.MustCompile(`^\s*(?P<user>\S+)\s*:\s*TTY=(?P<tty>\S+)\s*;\s*PWD=(?P<pwd>\S+)\s*;\s*USER=(?P<target_user>\S+)\s*;\s*COMMAND=(?P<command>.+)$`),
			Captures: map[string]string{
				"user": "user", "tty": "tty", "pwd": "pwd", "target_user": "target_user", "command": "command",
			},
		},
		{
			Subtype:  events.AuthIncorrectPassword,
			Pattern:  regexp.MustCompile(`^(?P<user>\S+)\s*:\s*(?P<n>\d+) incorrect password attempt`),
			Captures: map[string]string{"user": "user", "n": "n"},
		},
		{
			Subtype:  events.AuthSessionOpened,
			Pattern:  regexp.MustCompile(`^pam_unix\(su:session\): session opened for user (?P<target_user>\S+)`),
			Captures: map[string]string{"target_user": "target_user"},
		},
		{
			Subtype:  events.AuthSessionClosed,
			Pattern:  regexp.MustCompile(`^pam_unix\(su:session\): session closed for user (?P<target_user>\S+)`),
			Captures: map[string]string{"target_user": "target_user"},
		},
		{
			Subtype:  events.AuthAuthError,
			Pattern:  regexp.MustCompile(`^(?P<user>\S+)\s*:\s*(?P<n>\d+) incorrect password attempts?; TTY=(?P<tty>\S+)\s*;\s*PWD=(?P<pwd>\S+)\s*;\s*USER=root\s*;\s*COMMAND=(?P<command>.+)$`),
			Captures: map[string]string{"user": "user", "n": "n", "tty": "tty", "pwd": "pwd", "command": "command"},
		},
	},
}

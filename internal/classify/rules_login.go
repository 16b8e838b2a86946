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

// loginTable classifies the login(1) local-session program.
var loginTable = cls.Table{
	Category: events.CategoryAuth,
	Fallback: events.AuthOther,
	Rules: []cls.Rule{
		{
			Subtype:  events.AuthAccountExpired,
			Pattern:  regexp.MustCompile(`^FAILED LOGIN .* FOR (?P<user>\S+), account expired`),
			Captures: map[string]string{"user": "user"},
		},
		{
			Subtype:  events.AuthNologinRefused,
			Pattern:  regexp.MustCompile(`^FAILED LOGIN .* FOR (?P<user>\S+), user not allowed|nologin`),
			Captures: map[string]string{"user": "user"},
		},
		{
			Subtype:  events.AuthFailure,
			Pattern:  regexp.MustCompile(`^FAILED LOGIN \((?P<attempt>\d+)\) on '(?P<tty>[^']+)' FOR '(?P<user>[^']+)', (?P<reason>.+)$`),
			Captures: map[string]string{"attempt": "attempt", "tty": "tty", "user": "user", "reason": "reason"},
		},
		{
			Subtype:  events.AuthSuccess,
			Pattern:  regexp.MustCompile(`^ROOT LOGIN|LOGIN ON (?P<tty>\S+) BY (?P<user>\S+)`),
			Captures: map[string]string{"tty": "tty", "user": "user"},
		},
		{
			Subtype:  events.AuthSessionOpened,
			Pattern:  regexp.MustCompile(`^pam_unix\(login:session\): session opened for user (?P<user>\S+)`),
			Captures: map[string]string{"user": "user"},
		},
		{
			Subtype:  events.AuthSessionClosed,
			Pattern:  regexp.MustCompile(`^pam_unix\(login:session\): session closed for user (?P<user>\S+)`),
			Captures: map[string]string{"user": "user"},
		},
	},
}

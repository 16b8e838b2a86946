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

// userChangeRules classifies useradd/groupadd/usermod/groupmod/passwd
// output. These records never carry a _SYSTEMD_UNIT or SYSLOG_IDENTIFIER
// of their own daemon (useradd and friends are one-shot CLI tools, not
// services), so the Router sends them through the System classifier;
// this rule set is appended there rather than given its own Table. Each
// rule's Category overrides System's default to events.CategoryUser.
var userChangeRules = []cls.Rule{
	{
		Subtype:  events.UserNewUser,
		Category: events.CategoryUser,
		Pattern:  regexp.MustCompile(`^new user:\s*name=(?P<name>\S+),\s*UID=(?P<uid>\d+),\s*GID=(?P<gid>\d+),\s*home=(?P<home>\S+),\s*shell=(?P<shell>\S+)`),
		Captures: map[string]string{"name": "name", "uid": "uid", "gid": "gid", "home": "home", "shell": "shell"},
	},
	{
		Subtype:  events.UserNewGroup,
		Category: events.CategoryUser,
		Pattern:  regexp.MustCompile(`^new group:\s*name=(?P<name>\S+),\s*GID=(?P<gid>\d+)`),
		Captures: map[string]string{"name": "name", "gid": "gid"},
	},
	{
		Subtype:  events.UserNewGroup,
		Category: events.CategoryUser,
		Pattern:  regexp.MustCompile(`^group added to (?:/etc/group|/etc/gshadow):\s*name=(?P<name>\S+)`),
		Captures: map[string]string{"name": "name"},
	},
	{
		Subtype:  events.UserDeleteUser,
		Category: events.CategoryUser,
		Pattern:  regexp.MustCompile(`^delete user '(?P<user>[^']+)'`),
		Captures: map[string]string{"user": "user"},
	},
	{
		Subtype:  events.UserDeleteUser,
		Category: events.CategoryUser,
		Pattern:  regexp.MustCompile(`^removing home directory '(?P<home>[^']+)'`),
		Captures: map[string]string{"home": "home"},
	},
	{
		Subtype:  events.UserDeleteUser,
		Category: events.CategoryUser,
		Pattern:  regexp.MustCompile(`^removing user '(?P<user>[^']+)'.* from .*mail spool`),
		Captures: map[string]string{"user": "user"},
	},
	{
		Subtype:  events.UserDeleteGroup,
		Category: events.CategoryUser,
		Pattern:  regexp.MustCompile(`^removing group '(?P<group>[^']+)'`),
		Captures: map[string]string{"group": "group"},
	},
	{
		Subtype:  events.UserModifyUser,
		Category: events.CategoryUser,
		Pattern:  regexp.MustCompile(`^change user '(?P<user>[^']+)'`),
		Captures: map[string]string{"user": "user"},
	},
	{
		Subtype:  events.UserModifyGroup,
		Category: events.CategoryUser,
		Pattern:  regexp.MustCompile(`^change group '(?P<group>[^']+)'`),
		Captures: map[string]string{"group": "group"},
	},
	{
		Subtype:  events.UserPasswdChange,
		Category: events.CategoryUser,
		Pattern:  regexp.MustCompile(`^password changed for (?P<user>\S+)`),
		Captures: map[string]string{"user": "user"},
	},
	{
		Subtype:  events.UserPasswdChange,
		Category: events.CategoryUser,
		Pattern:  regexp.MustCompile(`^pam_unix\(passwd:chauthtok\): password changed for (?P<user>\S+)`),
		Captures: map[string]string{"user": "user"},
	},
}

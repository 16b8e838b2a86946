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

// firewalldTable classifies firewalld.service log lines. There is no
// upstream parser to follow here; rules are written against firewalld's
// actual, stable log message shapes.
var firewalldTable = cls.Table{
	Category: events.CategoryFirewall,
	Fallback: events.FirewallOther,
	Rules: []cls.Rule{
		{
			Subtype:  events.FirewallServiceStarted,
			Pattern:  regexp.MustCompile(`(?i)^firewalld - dynamic firewall daemon started`),
			Captures: map[string]string{},
		},
		{
			Subtype:  events.FirewallServiceStopped,
			Pattern:  regexp.MustCompile(`(?i)^\s*Shutting down firewalld`),
			Captures: map[string]string{},
		},
		{
			Subtype:  events.FirewallConfigReloaded,
			Pattern:  regexp.MustCompile(`(?i)reloaded?\s*$|^Reloading\b`),
			Captures: map[string]string{},
		},
		{
			Subtype:  events.FirewallZoneChanged,
			Pattern:  regexp.MustCompile(`ZONE_CHANGE:\s*(?P<zone>\S+)\s*\((?P<interface>[^)]+)\)`),
			Captures: map[string]string{"zone": "zone", "interface": "interface"},
		},
		{
			Subtype:  events.FirewallServiceModified,
			Pattern:  regexp.MustCompile(`SERVICE_(?:ADD|REMOVE):\s*'(?P<service>[^']+)'.*zone='(?P<zone>[^']+)'`),
			Captures: map[string]string{"service": "service", "zone": "zone"},
		},
		{
			Subtype:  events.FirewallPortModified,
			Pattern:  regexp.MustCompile(`PORT_(?:ADD|REMOVE):\s*'(?P<port>[^']+)'.*zone='(?P<zone>[^']+)'`),
			Captures: map[string]string{"port": "port", "zone": "zone"},
		},
		{
			Subtype:  events.FirewallRuleApplied,
			Pattern:  regexp.MustCompile(`RICH_RULE_(?:ADD|REMOVE):\s*'(?P<rule>[^']+)'.*zone='(?P<zone>[^']+)'`),
			Captures: map[string]string{"rule": "rule", "zone": "zone"},
		},
		{
			Subtype:  events.FirewallIptablesCommand,
			Pattern:  regexp.MustCompile(`(?P<table_cmd>ip(?:6)?tables|nft)\s+(?P<args>.+)`),
			Captures: map[string]string{"table_cmd": "table_cmd", "args": "args"},
		},
		{
			Subtype:  events.FirewallInterfaceBinding,
			Pattern:  regexp.MustCompile(`INTERFACE_(?:ADD|REMOVE):\s*'(?P<interface>[^']+)'.*zone='(?P<zone>[^']+)'`),
			Captures: map[string]string{"interface": "interface", "zone": "zone"},
		},
		{
			Subtype:  events.FirewallCommandFailed,
			Pattern:  regexp.MustCompile(`(?i)COMMAND_FAILED:\s*(?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.FirewallOperationStatus,
			Pattern:  regexp.MustCompile(`(?i)^(?P<detail>set_default_zone|default zone.*)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.FirewallModuleMessage,
			Pattern:  regexp.MustCompile(`(?i)nf_conntrack|kernel module '(?P<module>[^']+)'`),
			Captures: map[string]string{"module": "module"},
		},
		{
			Subtype:  events.FirewallDBusMessage,
			Pattern:  regexp.MustCompile(`org\.fedoraproject\.FirewallD1`),
			Captures: map[string]string{},
		},
		{
			Subtype:  events.FirewallWarning,
			Pattern:  regexp.MustCompile(`(?i)^WARNING:\s*(?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.FirewallError,
			Pattern:  regexp.MustCompile(`(?i)^ERROR:\s*(?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.FirewallInfo,
			Pattern:  regexp.MustCompile(`(?i)^INFO:\s*(?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
	},
}

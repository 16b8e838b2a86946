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

// networkManagerTable classifies NetworkManager.service log lines.
// There is no upstream parser to follow here; rules are written against
// NetworkManager's actual, stable log message shapes.
var networkManagerTable = cls.Table{
	Category: events.CategoryNetwork,
	Fallback: events.NetworkOther,
	Rules: []cls.Rule{
		{
			Subtype:  events.NetworkConnectionActivated,
			Pattern:  regexp.MustCompile(`<info>\s*\[.*\] device \((?P<device>\S+)\): Activation: successful, device activated`),
			Captures: map[string]string{"device": "device"},
		},
		{
			Subtype:  events.NetworkConnectionDeactivated,
			Pattern:  regexp.MustCompile(`<info>\s*\[.*\] device \((?P<device>\S+)\): state change: .*-> disconnected`),
			Captures: map[string]string{"device": "device"},
		},
		{
			Subtype:  events.NetworkConnectionAttempt,
			Pattern:  regexp.MustCompile(`<info>\s*\[.*\] Activation \((?P<device>\S+)\) starting connection '(?P<connection>[^']+)'`),
			Captures: map[string]string{"device": "device", "connection": "connection"},
		},
		{
			Subtype:  events.NetworkDhcpLease,
			Pattern:  regexp.MustCompile(`dhcp\d? \((?P<device>\S+)\): address (?P<ip_address>\S+)`),
			Captures: map[string]string{"device": "device", "ip_address": "ip_address"},
		},
		{
			Subtype:  events.NetworkIpConfig,
			Pattern:  regexp.MustCompile(`policy: set '(?P<connection>[^']+)' \(\S+\) as default for IPv[46] routing and DNS`),
			Captures: map[string]string{"connection": "connection"},
		},
		{
			Subtype:  events.NetworkDeviceAdded,
			Pattern:  regexp.MustCompile(`device \((?P<device>\S+)\): new (?P<device_type>\S+) device`),
			Captures: map[string]string{"device": "device", "device_type": "device_type"},
		},
		{
			Subtype:  events.NetworkDeviceRemoved,
			Pattern:  regexp.MustCompile(`device \((?P<device>\S+)\): released from master device`),
			Captures: map[string]string{"device": "device"},
		},
		{
			Subtype:  events.NetworkWifiAssociationSuccess,
			Pattern:  regexp.MustCompile(`device \((?P<device>\S+)\): supplicant interface state: .*-> completed`),
			Captures: map[string]string{"device": "device"},
		},
		{
			Subtype:  events.NetworkWifiAuthFailure,
			Pattern:  regexp.MustCompile(`device \((?P<device>\S+)\): Activation: \(wifi\) association took too long|4-Way Handshake failed`),
			Captures: map[string]string{"device": "device"},
		},
		{
			Subtype:  events.NetworkWifiScan,
			Pattern:  regexp.MustCompile(`device \((?P<device>\S+)\): request wifi scan`),
			Captures: map[string]string{"device": "device"},
		},
		{
			Subtype:  events.NetworkStateChange,
			Pattern:  regexp.MustCompile(`device \((?P<device>\S+)\): state change: (?P<from_state>\S+) -> (?P<to_state>\S+)`),
			Captures: map[string]string{"device": "device", "from_state": "from_state", "to_state": "to_state"},
		},
		{
			Subtype:  events.NetworkPolicyChange,
			Pattern:  regexp.MustCompile(`policy: (?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.NetworkDnsConfig,
			Pattern:  regexp.MustCompile(`dns-mgr: (?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.NetworkVpnEvent,
			Pattern:  regexp.MustCompile(`vpn-connection\[\S+,(?P<connection>[^]]+)\]: (?P<detail>.+)`),
			Captures: map[string]string{"connection": "connection", "detail": "detail"},
		},
		{
			Subtype:  events.NetworkAgentRequest,
			Pattern:  regexp.MustCompile(`agent-manager: req\[\S+,(?P<connection>[^]]+)\]: (?P<detail>.+)`),
			Captures: map[string]string{"connection": "connection", "detail": "detail"},
		},
		{
			Subtype:  events.NetworkConnectivityCheck,
			Pattern:  regexp.MustCompile(`device \((?P<device>\S+)\): connectivity changed to (?P<state>\S+)`),
			Captures: map[string]string{"device": "device", "state": "state"},
		},
		{
			Subtype:  events.NetworkDispatcherEvent,
			Pattern:  regexp.MustCompile(`dispatcher: (?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.NetworkLinkEvent,
			Pattern:  regexp.MustCompile(`device \((?P<device>\S+)\): link (?P<state>connected|disconnected)`),
			Captures: map[string]string{"device": "device", "state": "state"},
		},
		{
			Subtype:  events.NetworkAuditEvent,
			Pattern:  regexp.MustCompile(`<warn>\s*\[.*\]\s*audit: (?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.NetworkVirtualDeviceEvent,
			Pattern:  regexp.MustCompile(`device \((?P<device>\S+)\): (?:bridge|bond|team|vlan) member`),
			Captures: map[string]string{"device": "device"},
		},
		{
			Subtype:  events.NetworkSystemdEvent,
			Pattern:  regexp.MustCompile(`systemd-resolved: (?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.NetworkWarning,
			Pattern:  regexp.MustCompile(`<warn>\s*\[.*\]\s*(?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.NetworkError,
			Pattern:  regexp.MustCompile(`<error>\s*\[.*\]\s*(?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
	},
}

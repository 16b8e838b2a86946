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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cls "github.com/vamsi200/Drashta/pkg/drashta/classify"
	"github.com/vamsi200/Drashta/pkg/drashta/events"
)

func TestRouteByIdentifier(t *testing.T) {
	r := NewRouter()
	for _, tc := range []struct {
		identifier string
		unit       string
		want       events.Service
	}{
		{"sshd", "", events.ServiceSshd},
		{"", "sshd.service", events.ServiceSshd},
		{"sudo", "", events.ServiceSudo},
		{"su", "", events.ServiceSudo},
		{"login", "", events.ServiceLogin},
		{"", "firewalld.service", events.ServiceFirewalld},
		{"", "NetworkManager.service", events.ServiceNetworkManager},
		{"crond", "", events.ServiceConfigChange},
		{"kernel", "", events.ServiceKernel},
		{"pacman", "", events.ServicePkgManager},
		{"dnf", "", events.ServicePkgManager},
		{"some-random-daemon", "whatever.service", events.ServiceSystem},
		{"", "", events.ServiceSystem},
	} {
		svc, classifier := r.Route(tc.identifier, tc.unit)
		assert.Equal(t, tc.want, svc, "identifier=%q unit=%q", tc.identifier, tc.unit)
		assert.NotNil(t, classifier)
	}
}

func TestRouteTransportKernel(t *testing.T) {
	r := NewRouter()
	svc, classifier, ok := r.RouteTransport("kernel")
	require.True(t, ok)
	assert.Equal(t, events.ServiceKernel, svc)
	assert.NotNil(t, classifier)

	_, _, ok = r.RouteTransport("syslog")
	assert.False(t, ok)
}

// The contract's filtering scenario: a failed password line classifies
// to Auth/Failure with user, remote host and port lifted into data.
func TestSshdFailedPassword(t *testing.T) {
	r := NewRouter()
	_, classifier := r.Route("sshd", "")
	ev := classifier.Classify("Failed password for root from 1.2.3.4 port 55123 ssh2", nil)

	assert.Equal(t, events.ServiceSshd, ev.Service)
	assert.Equal(t, events.EventType{Category: events.CategoryAuth, Subtype: events.AuthFailure}, ev.EventType)
	for key, want := range map[string]string{
		"user":        "root",
		"remote_host": "1.2.3.4",
		"port":        "55123",
	} {
		got, ok := ev.Data.Get(key)
		require.True(t, ok, "data key %q missing", key)
		assert.Equal(t, want, got)
	}
}

func TestSshdAcceptedKey(t *testing.T) {
	r := NewRouter()
	_, classifier := r.Route("sshd", "")
	ev := classifier.Classify("Accepted publickey for deploy from 10.1.2.3 port 40022 ssh2: ED25519 SHA256:abc", nil)
	assert.Equal(t, events.AuthSuccess, ev.EventType.Subtype)
	user, _ := ev.Data.Get("user")
	assert.Equal(t, "deploy", user)
}

// useradd and friends carry no recognized identifier, so they flow
// through the System classifier, whose user-change rules override the
// category to User.
func TestUserChangeThroughSystemClassifier(t *testing.T) {
	r := NewRouter()
	svc, classifier := r.Route("useradd", "")
	require.Equal(t, events.ServiceSystem, svc)

	ev := classifier.Classify("new user: name=alice, UID=1001, GID=1001, home=/home/alice, shell=/bin/bash", nil)
	assert.Equal(t, events.EventType{Category: events.CategoryUser, Subtype: events.UserNewUser}, ev.EventType)
	name, _ := ev.Data.Get("name")
	assert.Equal(t, "alice", name)
	uid, _ := ev.Data.Get("uid")
	assert.Equal(t, "1001", uid)
}

func TestSystemClassifierFallsBackToOther(t *testing.T) {
	r := NewRouter()
	_, classifier := r.Route("mystery", "")
	ev := classifier.Classify("completely unremarkable line", nil)
	assert.Equal(t, events.EventType{Category: events.CategorySystem, Subtype: events.SystemOther}, ev.EventType)
}

// Every bundled table only ever emits subtypes from its category's
// closed set, fallback included.
func TestBundledTablesStayInsideTaxonomy(t *testing.T) {
	tables := map[events.Service]struct {
		table    cls.Table
		category events.Category
	}{
		events.ServiceSshd:           {sshdTable, events.CategoryAuth},
		events.ServiceSudo:           {sudoTable, events.CategoryAuth},
		events.ServiceLogin:          {loginTable, events.CategoryAuth},
		events.ServiceKernel:         {kernelTable, events.CategoryKernel},
		events.ServiceConfigChange:   {configChangeTable, events.CategoryConfig},
		events.ServicePkgManager:     {pkgManagerTable, events.CategoryPackage},
		events.ServiceFirewalld:      {firewalldTable, events.CategoryFirewall},
		events.ServiceNetworkManager: {networkManagerTable, events.CategoryNetwork},
	}
	for svc, tc := range tables {
		assert.Equal(t, tc.category, tc.table.Category, "service %s", svc)
		valid := make(map[events.Subtype]struct{})
		for _, st := range events.Subtypes(tc.category) {
			valid[st] = struct{}{}
		}
		_, ok := valid[tc.table.Fallback]
		assert.True(t, ok, "service %s fallback %q outside taxonomy", svc, tc.table.Fallback)
		for _, rule := range tc.table.Rules {
			category := tc.category
			if rule.Category != "" {
				category = rule.Category
			}
			found := false
			for _, st := range events.Subtypes(category) {
				if st == rule.Subtype {
					found = true
					break
				}
			}
			assert.True(t, found, "service %s rule subtype %s::%s outside taxonomy", svc, category, rule.Subtype)
		}
	}
}

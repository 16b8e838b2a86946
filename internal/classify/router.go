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
	"fmt"
	"sync"

	"go.uber.org/atomic"

	cls "github.com/vamsi200/Drashta/pkg/drashta/classify"
	"github.com/vamsi200/Drashta/pkg/drashta/events"
)

// dynamicClassifier wraps a cls.Classifier behind an atomic pointer so
// Loader can hot-swap one service's rule table without a lock on the
// read path: Classify always sees either the old table or the new
// one, never a partial update.
type dynamicClassifier struct {
	cur atomic.Value
}

func newDynamicClassifier(base cls.Classifier) *dynamicClassifier {
	d := &dynamicClassifier{}
	d.cur.Store(base)
	return d
}

func (d *dynamicClassifier) Classify(message string, structured events.Data) events.Event {
	return d.cur.Load().(cls.Classifier).Classify(message, structured)
}

func (d *dynamicClassifier) swap(c cls.Classifier) {
	d.cur.Store(c)
}

// serviceMatch is one (SYSLOG_IDENTIFIER or _SYSTEMD_UNIT) -> Service
// routing entry. A record matches a service if any of its identifiers
// is present in either set.
type serviceMatch struct {
	service     events.Service
	identifiers map[string]struct{}
	units       map[string]struct{}
}

func matchSet(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

// routingTable mirrors the identifier/unit groupings that name seven of
// the eight services, in priority order (first match wins); PkgManager
// is matched separately through pkgManagerIdentifiers.
var routingTable = []serviceMatch{
	{
		service:     events.ServiceSshd,
		identifiers: matchSet("sshd"),
		units:       matchSet("sshd.service", "ssh.service"),
	},
	{
		service:     events.ServiceSudo,
		identifiers: matchSet("sudo", "su"),
	},
	{
		service:     events.ServiceLogin,
		identifiers: matchSet("login"),
	},
	{
		service:     events.ServiceFirewalld,
		units:       matchSet("firewalld.service"),
	},
	{
		service:     events.ServiceNetworkManager,
		units:       matchSet("NetworkManager.service"),
	},
	{
		service:     events.ServiceConfigChange,
		identifiers: matchSet("crond", "cron"),
		units:       matchSet("cronie.service", "crond.service"),
	},
	{
		service: events.ServiceKernel,
		// Ring buffer records are primarily identified by
		// _TRANSPORT=kernel (see RouteTransport); the identifier match
		// covers records relayed with a syslog tag instead.
		identifiers: matchSet("kernel"),
	},
}

// pkgManagerIdentifiers names the package-manager front ends whose
// transaction log lines are routed to the PkgManager classifier.
var pkgManagerIdentifiers = matchSet("pacman", "ALPM", "dnf", "apt")

// router is the default Router, built once and shared; classifiers
// are pure and stateless so concurrent use is safe. Each service's
// table lives behind a dynamicClassifier so Loader (internal/classify
// hot reload) can swap it at runtime without touching the map itself.
type router struct {
	once sync.Once
	dyn  map[events.Service]*dynamicClassifier
}

// NewRouter builds the default Router dispatching a record to one of
// the eight service classifiers by SYSLOG_IDENTIFIER with
// _SYSTEMD_UNIT as fallback. The returned value also satisfies
// Reloadable.
func NewRouter() cls.Router {
	r := &router{}
	r.init()
	return r
}

func (r *router) init() {
	r.once.Do(func() {
		r.dyn = map[events.Service]*dynamicClassifier{
			events.ServiceSshd:           newDynamicClassifier(cls.NewClassifier(events.ServiceSshd, sshdTable)),
			events.ServiceSudo:           newDynamicClassifier(cls.NewClassifier(events.ServiceSudo, sudoTable)),
			events.ServiceLogin:          newDynamicClassifier(cls.NewClassifier(events.ServiceLogin, loginTable)),
			events.ServiceKernel:         newDynamicClassifier(cls.NewClassifier(events.ServiceKernel, kernelTable)),
			events.ServiceConfigChange:   newDynamicClassifier(cls.NewClassifier(events.ServiceConfigChange, configChangeTable)),
			events.ServicePkgManager:     newDynamicClassifier(cls.NewClassifier(events.ServicePkgManager, pkgManagerTable)),
			events.ServiceFirewalld:      newDynamicClassifier(cls.NewClassifier(events.ServiceFirewalld, firewalldTable)),
			events.ServiceNetworkManager: newDynamicClassifier(cls.NewClassifier(events.ServiceNetworkManager, networkManagerTable)),
			events.ServiceSystem:         newDynamicClassifier(cls.NewClassifier(events.ServiceSystem, systemTable)),
		}
	})
}

func (r *router) Route(syslogIdentifier, systemdUnit string) (events.Service, cls.Classifier) {
	if _, ok := pkgManagerIdentifiers[syslogIdentifier]; ok {
		return events.ServicePkgManager, r.dyn[events.ServicePkgManager]
	}
	for _, sm := range routingTable {
		if _, ok := sm.identifiers[syslogIdentifier]; ok {
			return sm.service, r.dyn[sm.service]
		}
	}
	for _, sm := range routingTable {
		if _, ok := sm.units[systemdUnit]; ok {
			return sm.service, r.dyn[sm.service]
		}
	}
	return events.ServiceSystem, r.dyn[events.ServiceSystem]
}

// RouteTransport special-cases _TRANSPORT=kernel records, which carry
// neither SYSLOG_IDENTIFIER nor _SYSTEMD_UNIT. Callers check transport
// before falling back to Route.
func (r *router) RouteTransport(transport string) (events.Service, cls.Classifier, bool) {
	if transport != "kernel" {
		return "", nil, false
	}
	return events.ServiceKernel, r.dyn[events.ServiceKernel], true
}

// Reload swaps service's rule table atomically, implementing
// Reloadable for the --rules-dir hot reload watcher. Any in-flight
// Classify call sees either the old or the new table, never a mix.
func (r *router) Reload(service events.Service, table cls.Table) error {
	d, ok := r.dyn[service]
	if !ok {
		return fmt.Errorf("classify: reload: unknown service %q", service)
	}
	d.swap(cls.NewClassifier(service, table))
	return nil
}

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

// pkgManagerTable classifies ALPM (pacman) transaction log lines, e.g.
// "[ALPM] installed curl (8.4.0-1)".
var pkgManagerTable = cls.Table{
	Category: events.CategoryPackage,
	Fallback: events.PackageOther,
	Rules: []cls.Rule{
		{
			Subtype:  events.PackageInstalled,
			Pattern:  regexp.MustCompile(`\[ALPM\] installed (?P<pkg_name>\S+) \((?P<version>[^)]+)\)`),
			Captures: map[string]string{"pkg_name": "pkg_name", "version": "version"},
		},
		{
			Subtype:  events.PackageRemoved,
			Pattern:  regexp.MustCompile(`\[ALPM\] removed (?P<pkg_name>\S+) \((?P<version>[^)]+)\)`),
			Captures: map[string]string{"pkg_name": "pkg_name", "version": "version"},
		},
		{
			Subtype:  events.PackageUpgraded,
			Pattern:  regexp.MustCompile(`\[ALPM\] upgraded (?P<pkg_name>\S+) \((?P<version_from>[^ ]+) -> (?P<version_to>[^)]+)\)`),
			Captures: map[string]string{"pkg_name": "pkg_name", "version_from": "version_from", "version_to": "version_to"},
		},
		{
			Subtype:  events.PackageDowngraded,
			Pattern:  regexp.MustCompile(`\[ALPM\] downgraded (?P<pkg_name>\S+) \((?P<version_from>[^ ]+) -> (?P<version_to>[^)]+)\)`),
			Captures: map[string]string{"pkg_name": "pkg_name", "version_from": "version_from", "version_to": "version_to"},
		},
		{
			Subtype:  events.PackageReinstalled,
			Pattern:  regexp.MustCompile(`\[ALPM\] reinstalled (?P<pkg_name>\S+) \((?P<version>[^)]+)\)`),
			Captures: map[string]string{"pkg_name": "pkg_name", "version": "version"},
		},
		{
			Subtype:  events.PackageOther,
			Pattern:  regexp.MustCompile(`\[ALPM\] (?P<action>transaction (?:started|completed))`),
			Captures: map[string]string{"action": "action"},
		},
	},
}

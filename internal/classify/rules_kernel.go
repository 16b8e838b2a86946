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

// kernelTable classifies _TRANSPORT=kernel records (dmesg ring buffer
// lines surfaced through the journal). There is no upstream parser to
// follow here, so the rules are written against the message shapes the
// kernel itself actually emits.
var kernelTable = cls.Table{
	Category: events.CategoryKernel,
	Fallback: events.KernelOther,
	Rules: []cls.Rule{
		{
			Subtype:  events.KernelPanic,
			Pattern:  regexp.MustCompile(`(?i)Kernel panic - not syncing:\s*(?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.KernelOomKill,
			Pattern:  regexp.MustCompile(`Out of memory: Killed process (?P<pid>\d+) \((?P<comm>[^)]+)\)`),
			Captures: map[string]string{"pid": "pid", "comm": "comm"},
		},
		{
			Subtype:  events.KernelSegfault,
			Pattern:  regexp.MustCompile(`(?P<comm>\S+)\[(?P<pid>\d+)\]: segfault at (?P<address>\S+)`),
			Captures: map[string]string{"comm": "comm", "pid": "pid", "address": "address"},
		},
		{
			Subtype:  events.KernelUsbDescriptorError,
			Pattern:  regexp.MustCompile(`(?i)usb (?P<usb_bus>\S+): device descriptor read.*error (?P<error_code>-?\d+)`),
			Captures: map[string]string{"usb_bus": "usb_bus", "error_code": "error_code"},
		},
		{
			Subtype:  events.KernelUsbDeviceEvent,
			Pattern:  regexp.MustCompile(`(?i)usb (?P<usb_bus>\S+): New USB device found, idVendor=(?P<vendor_id>\S+), idProduct=(?P<product_id>\S+)`),
			Captures: map[string]string{"usb_bus": "usb_bus", "vendor_id": "vendor_id", "product_id": "product_id"},
		},
		{
			Subtype:  events.KernelUsbError,
			Pattern:  regexp.MustCompile(`(?i)usb (?P<usb_bus>\S+):.*(?P<detail>error.*)`),
			Captures: map[string]string{"usb_bus": "usb_bus", "detail": "detail"},
		},
		{
			Subtype:  events.KernelDiskError,
			Pattern:  regexp.MustCompile(`(?i)(?P<device>(?:sd|nvme|vd)\w+).*I/O error`),
			Captures: map[string]string{"device": "device"},
		},
		{
			Subtype:  events.KernelFsMount,
			Pattern:  regexp.MustCompile(`(?P<fs_type>\S+FS|ext4|xfs|btrfs) \((?P<device>\S+)\): mounted filesystem`),
			Captures: map[string]string{"fs_type": "fs_type", "device": "device"},
		},
		{
			Subtype:  events.KernelFsError,
			Pattern:  regexp.MustCompile(`(?i)EXT4-fs error|XFS.*Corruption|BTRFS error \(device (?P<device>\S+)\)`),
			Captures: map[string]string{"device": "device"},
		},
		{
			Subtype:  events.KernelCpuError,
			Pattern:  regexp.MustCompile(`(?i)(?:mce|CPU\d+): (?P<detail>Machine check event.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.KernelMemoryError,
			Pattern:  regexp.MustCompile(`(?i)EDAC.*(?P<detail>(?:correctable|uncorrectable) error)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.KernelPciDevice,
			Pattern:  regexp.MustCompile(`pci (?P<pci_addr>\d{4}:\S+): (?P<detail>.+)`),
			Captures: map[string]string{"pci_addr": "pci_addr", "detail": "detail"},
		},
		{
			Subtype:  events.KernelAcpiEvent,
			Pattern:  regexp.MustCompile(`(?i)ACPI:\s*(?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.KernelThermalEvent,
			Pattern:  regexp.MustCompile(`(?i)thermal.*(?P<detail>critical temperature|throttl\w*)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.KernelDeviceDetected,
			Pattern:  regexp.MustCompile(`(?i)(?P<device>\S+): (?:detected|found) `),
			Captures: map[string]string{"device": "device"},
		},
		{
			Subtype:  events.KernelDriverEvent,
			Pattern:  regexp.MustCompile(`(?i)^(?P<driver>[a-z0-9_]+): module (?:verification failed|loaded)`),
			Captures: map[string]string{"driver": "driver"},
		},
		{
			Subtype:  events.KernelNetInterface,
			Pattern:  regexp.MustCompile(`(?P<iface>(?:eth|enp|wlan|wlp)\w*\d*): link (?P<state>up|down)`),
			Captures: map[string]string{"iface": "iface", "state": "state"},
		},
		{
			Subtype:  events.KernelFirmwareLoad,
			Pattern:  regexp.MustCompile(`(?i)firmware: (?:direct-loading|failed to load) firmware (?P<firmware>\S+)`),
			Captures: map[string]string{"firmware": "firmware"},
		},
		{
			Subtype:  events.KernelIrqEvent,
			Pattern:  regexp.MustCompile(`(?i)irq (?P<irq>\d+): nobody cared`),
			Captures: map[string]string{"irq": "irq"},
		},
		{
			Subtype:  events.KernelTaskKilled,
			Pattern:  regexp.MustCompile(`(?P<comm>\S+)\[(?P<pid>\d+)\]: (?:killed|terminated) by signal (?P<signal>\d+)`),
			Captures: map[string]string{"comm": "comm", "pid": "pid", "signal": "signal"},
		},
		{
			Subtype:  events.KernelRcuStall,
			Pattern:  regexp.MustCompile(`(?i)rcu[_:].*stall`),
			Captures: map[string]string{},
		},
		{
			Subtype:  events.KernelWatchdog,
			Pattern:  regexp.MustCompile(`(?i)watchdog: (?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.KernelBootEvent,
			Pattern:  regexp.MustCompile(`(?i)Linux version (?P<version>\S+)`),
			Captures: map[string]string{"version": "version"},
		},
		{
			Subtype:  events.KernelKernelTaint,
			Pattern:  regexp.MustCompile(`(?i)taint\w* (?P<flags>[A-Z ]+)`),
			Captures: map[string]string{"flags": "flags"},
		},
		{
			Subtype:  events.KernelEmergency,
			Pattern:  regexp.MustCompile(`(?i)^EMERG(?:ENCY)?:\s*(?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.KernelAlert,
			Pattern:  regexp.MustCompile(`(?i)^ALERT:\s*(?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.KernelCritical,
			Pattern:  regexp.MustCompile(`(?i)^CRIT(?:ICAL)?:\s*(?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.KernelError,
			Pattern:  regexp.MustCompile(`(?i)\berror\b:?\s*(?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.KernelWarning,
			Pattern:  regexp.MustCompile(`(?i)\bwarning\b:?\s*(?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
		{
			Subtype:  events.KernelNotice,
			Pattern:  regexp.MustCompile(`(?i)\bnotice\b:?\s*(?P<detail>.+)`),
			Captures: map[string]string{"detail": "detail"},
		},
	},
}

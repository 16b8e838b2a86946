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

package events

// The closed Subtype sets, one per Category. Clients may rely on
// these being fixed between releases.
const (
	AuthSuccess             Subtype = "Success"
	AuthFailure             Subtype = "Failure"
	AuthSessionOpened       Subtype = "SessionOpened"
	AuthSessionClosed       Subtype = "SessionClosed"
	AuthConnectionClosed    Subtype = "ConnectionClosed"
	AuthTooManyAuthFailures Subtype = "TooManyAuthFailures"
	AuthIncorrectPassword   Subtype = "IncorrectPassword"
	AuthAuthError           Subtype = "AuthError"
	AuthAuthFailure         Subtype = "AuthFailure"
	AuthNotInSudoers        Subtype = "NotInSudoers"
	AuthAccountExpired      Subtype = "AccountExpired"
	AuthNologinRefused      Subtype = "NologinRefused"
	AuthWarning             Subtype = "Warning"
	AuthInfo                Subtype = "Info"
	AuthOther               Subtype = "Other"
)

const (
	UserNewUser      Subtype = "NewUser"
	UserNewGroup     Subtype = "NewGroup"
	UserDeleteGroup  Subtype = "DeleteGroup"
	UserDeleteUser   Subtype = "DeleteUser"
	UserModifyUser   Subtype = "ModifyUser"
	UserModifyGroup  Subtype = "ModifyGroup"
	UserPasswdChange Subtype = "PasswdChange"
	UserInfo         Subtype = "Info"
	UserOther        Subtype = "Other"
)

const (
	PackageInstalled   Subtype = "Installed"
	PackageRemoved     Subtype = "Removed"
	PackageUpgraded    Subtype = "Upgraded"
	PackageReinstalled Subtype = "Reinstalled"
	PackageDowngraded  Subtype = "Downgraded"
	PackageOther       Subtype = "Other"
)

const (
	NetworkNewConnection           Subtype = "NewConnection"
	NetworkConnectionActivated     Subtype = "ConnectionActivated"
	NetworkConnectionDeactivated   Subtype = "ConnectionDeactivated"
	NetworkDhcpLease               Subtype = "DhcpLease"
	NetworkIpConfig                Subtype = "IpConfig"
	NetworkDeviceAdded             Subtype = "DeviceAdded"
	NetworkDeviceRemoved           Subtype = "DeviceRemoved"
	NetworkWifiAssociationSuccess  Subtype = "WifiAssociationSuccess"
	NetworkWifiAuthFailure         Subtype = "WifiAuthFailure"
	NetworkStateChange             Subtype = "StateChange"
	NetworkConnectionAttempt       Subtype = "ConnectionAttempt"
	NetworkPolicyChange            Subtype = "PolicyChange"
	NetworkWifiScan                Subtype = "WifiScan"
	NetworkDnsConfig               Subtype = "DnsConfig"
	NetworkVpnEvent                Subtype = "VpnEvent"
	NetworkFirewallEvent           Subtype = "FirewallEvent"
	NetworkAgentRequest            Subtype = "AgentRequest"
	NetworkConnectivityCheck       Subtype = "ConnectivityCheck"
	NetworkDispatcherEvent         Subtype = "DispatcherEvent"
	NetworkLinkEvent               Subtype = "LinkEvent"
	NetworkAuditEvent              Subtype = "AuditEvent"
	NetworkVirtualDeviceEvent      Subtype = "VirtualDeviceEvent"
	NetworkSystemdEvent            Subtype = "SystemdEvent"
	NetworkWarning                 Subtype = "Warning"
	NetworkError                   Subtype = "Error"
	NetworkOther                   Subtype = "Other"
)

const (
	FirewallServiceStarted    Subtype = "ServiceStarted"
	FirewallServiceStopped    Subtype = "ServiceStopped"
	FirewallConfigReloaded    Subtype = "ConfigReloaded"
	FirewallZoneChanged       Subtype = "ZoneChanged"
	FirewallServiceModified   Subtype = "ServiceModified"
	FirewallPortModified      Subtype = "PortModified"
	FirewallRuleApplied       Subtype = "RuleApplied"
	FirewallIptablesCommand   Subtype = "IptablesCommand"
	FirewallInterfaceBinding  Subtype = "InterfaceBinding"
	FirewallCommandFailed     Subtype = "CommandFailed"
	FirewallOperationStatus   Subtype = "OperationStatus"
	FirewallModuleMessage     Subtype = "ModuleMessage"
	FirewallDBusMessage       Subtype = "DBusMessage"
	FirewallWarning           Subtype = "Warning"
	FirewallError             Subtype = "Error"
	FirewallInfo              Subtype = "Info"
	FirewallOther             Subtype = "Other"
)

const (
	KernelPanic              Subtype = "Panic"
	KernelOomKill            Subtype = "OomKill"
	KernelSegfault           Subtype = "Segfault"
	KernelUsbError           Subtype = "UsbError"
	KernelUsbDescriptorError Subtype = "UsbDescriptorError"
	KernelUsbDeviceEvent     Subtype = "UsbDeviceEvent"
	KernelDiskError          Subtype = "DiskError"
	KernelFsMount            Subtype = "FsMount"
	KernelFsError            Subtype = "FsError"
	KernelCpuError           Subtype = "CpuError"
	KernelMemoryError        Subtype = "MemoryError"
	KernelDeviceDetected     Subtype = "DeviceDetected"
	KernelDriverEvent        Subtype = "DriverEvent"
	KernelNetInterface       Subtype = "NetInterface"
	KernelPciDevice          Subtype = "PciDevice"
	KernelAcpiEvent          Subtype = "AcpiEvent"
	KernelThermalEvent       Subtype = "ThermalEvent"
	KernelDmaError           Subtype = "DmaError"
	KernelAuditEvent         Subtype = "AuditEvent"
	KernelKernelTaint        Subtype = "KernelTaint"
	KernelFirmwareLoad       Subtype = "FirmwareLoad"
	KernelIrqEvent           Subtype = "IrqEvent"
	KernelTaskKilled         Subtype = "TaskKilled"
	KernelRcuStall           Subtype = "RcuStall"
	KernelWatchdog           Subtype = "Watchdog"
	KernelBootEvent          Subtype = "BootEvent"
	KernelEmergency          Subtype = "Emergency"
	KernelAlert              Subtype = "Alert"
	KernelCritical           Subtype = "Critical"
	KernelError              Subtype = "Error"
	KernelWarning            Subtype = "Warning"
	KernelNotice             Subtype = "Notice"
	KernelInfo               Subtype = "Info"
	KernelOther              Subtype = "Other"
)

const (
	ConfigCmdRun        Subtype = "CmdRun"
	ConfigCronReload    Subtype = "CronReload"
	ConfigSessionOpened Subtype = "SessionOpened"
	ConfigSessionClosed Subtype = "SessionClosed"
	ConfigFailure       Subtype = "Failure"
	ConfigInfo          Subtype = "Info"
	ConfigOther         Subtype = "Other"
)

const (
	SystemInfo    Subtype = "Info"
	SystemWarning Subtype = "Warning"
	SystemError   Subtype = "Error"
	SystemOther   Subtype = "Other"
)

// Subtypes returns the closed set of valid Subtypes for a Category, for
// validating an event_type filter value against the taxonomy.
func Subtypes(c Category) []Subtype {
	switch c {
	case CategoryAuth:
		return []Subtype{AuthSuccess, AuthFailure, AuthSessionOpened, AuthSessionClosed, AuthConnectionClosed, AuthTooManyAuthFailures, AuthIncorrectPassword, AuthAuthError, AuthAuthFailure, AuthNotInSudoers, AuthAccountExpired, AuthNologinRefused, AuthWarning, AuthInfo, AuthOther}
	case CategoryUser:
		return []Subtype{UserNewUser, UserNewGroup, UserDeleteGroup, UserDeleteUser, UserModifyUser, UserModifyGroup, UserPasswdChange, UserInfo, UserOther}
	case CategoryPackage:
		return []Subtype{PackageInstalled, PackageRemoved, PackageUpgraded, PackageReinstalled, PackageDowngraded, PackageOther}
	case CategoryNetwork:
		return []Subtype{NetworkNewConnection, NetworkConnectionActivated, NetworkConnectionDeactivated, NetworkDhcpLease, NetworkIpConfig, NetworkDeviceAdded, NetworkDeviceRemoved, NetworkWifiAssociationSuccess, NetworkWifiAuthFailure, NetworkStateChange, NetworkConnectionAttempt, NetworkPolicyChange, NetworkWifiScan, NetworkDnsConfig, NetworkVpnEvent, NetworkFirewallEvent, NetworkAgentRequest, NetworkConnectivityCheck, NetworkDispatcherEvent, NetworkLinkEvent, NetworkAuditEvent, NetworkVirtualDeviceEvent, NetworkSystemdEvent, NetworkWarning, NetworkError, NetworkOther}
	case CategoryFirewall:
		return []Subtype{FirewallServiceStarted, FirewallServiceStopped, FirewallConfigReloaded, FirewallZoneChanged, FirewallServiceModified, FirewallPortModified, FirewallRuleApplied, FirewallIptablesCommand, FirewallInterfaceBinding, FirewallCommandFailed, FirewallOperationStatus, FirewallModuleMessage, FirewallDBusMessage, FirewallWarning, FirewallError, FirewallInfo, FirewallOther}
	case CategoryKernel:
		return []Subtype{KernelPanic, KernelOomKill, KernelSegfault, KernelUsbError, KernelUsbDescriptorError, KernelUsbDeviceEvent, KernelDiskError, KernelFsMount, KernelFsError, KernelCpuError, KernelMemoryError, KernelDeviceDetected, KernelDriverEvent, KernelNetInterface, KernelPciDevice, KernelAcpiEvent, KernelThermalEvent, KernelDmaError, KernelAuditEvent, KernelKernelTaint, KernelFirmwareLoad, KernelIrqEvent, KernelTaskKilled, KernelRcuStall, KernelWatchdog, KernelBootEvent, KernelEmergency, KernelAlert, KernelCritical, KernelError, KernelWarning, KernelNotice, KernelInfo, KernelOther}
	case CategoryConfig:
		return []Subtype{ConfigCmdRun, ConfigCronReload, ConfigSessionOpened, ConfigSessionClosed, ConfigFailure, ConfigInfo, ConfigOther}
	case CategorySystem:
		return []Subtype{SystemInfo, SystemWarning, SystemError, SystemOther}
	default:
		return nil
	}
}

// OtherSubtype returns the catch-all Subtype for a Category, used by a
// classifier when no rule matches.
func OtherSubtype(c Category) Subtype {
	switch c {
	case CategoryAuth:
		return AuthOther
	case CategoryUser:
		return UserOther
	case CategoryPackage:
		return PackageOther
	case CategoryNetwork:
		return NetworkOther
	case CategoryFirewall:
		return FirewallOther
	case CategoryKernel:
		return KernelOther
	case CategoryConfig:
		return ConfigOther
	case CategorySystem:
		return SystemOther
	default:
		return "Other"
	}
}

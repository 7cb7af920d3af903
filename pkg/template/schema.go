/*
Copyright 2021 Stefan Prodan

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package template

import (
	"strings"

	"github.com/stefanprodan/ucsmgr/pkg/mo"
)

// Class is the schema of a managed object class.
type Class interface {
	// ClassID returns the managed object class name.
	ClassID() string
	// RN returns the relative name of the object under its parent.
	RN() string
	// Properties returns the properties checked for drift.
	Properties() map[string]string
	// CreateProperties returns the properties written on create.
	CreateProperties() map[string]string
}

// adminStatePrefix is prepended to the power state on create.
const adminStatePrefix = "admin-"

// LsServer is the service profile template.
type LsServer struct {
	Name                 string
	Type                 string
	Descr                string
	BiosProfileName      string
	BootPolicyName       string
	ExtIPPoolName        string
	HostFwPolicyName     string
	IdentPoolName        string
	KvmMgmtPolicyName    string
	LocalDiskPolicyName  string
	MaintPolicyName      string
	MgmtAccessPolicyName string
	PowerPolicyName      string
	PowerSyncPolicyName  string
	ScrubPolicyName      string
	SolPolicyName        string
	StatsPolicyName      string
	UsrLbl               string
	VmediaPolicyName     string
}

func (s LsServer) ClassID() string { return "LsServer" }
func (s LsServer) RN() string      { return "ls-" + s.Name }

func (s LsServer) Properties() map[string]string {
	return map[string]string{
		"bios_profile_name":       s.BiosProfileName,
		"boot_policy_name":        s.BootPolicyName,
		"descr":                   s.Descr,
		"ext_ip_pool_name":        s.ExtIPPoolName,
		"host_fw_policy_name":     s.HostFwPolicyName,
		"ident_pool_name":         s.IdentPoolName,
		"kvm_mgmt_policy_name":    s.KvmMgmtPolicyName,
		"local_disk_policy_name":  s.LocalDiskPolicyName,
		"maint_policy_name":       s.MaintPolicyName,
		"mgmt_access_policy_name": s.MgmtAccessPolicyName,
		"power_policy_name":       s.PowerPolicyName,
		"power_sync_policy_name":  s.PowerSyncPolicyName,
		"scrub_policy_name":       s.ScrubPolicyName,
		"sol_policy_name":         s.SolPolicyName,
		"stats_policy_name":       s.StatsPolicyName,
		"type":                    s.Type,
		"usr_lbl":                 s.UsrLbl,
		"vmedia_policy_name":      s.VmediaPolicyName,
	}
}

// CreateProperties adds the name and sets the management IP to be taken from the pool.
func (s LsServer) CreateProperties() map[string]string {
	props := s.Properties()
	props["name"] = s.Name
	props["ext_ip_state"] = "pooled"
	return props
}

// VnicConnDef binds the LAN and SAN connectivity policies.
type VnicConnDef struct {
	LanConnPolicyName string
	SanConnPolicyName string
}

func (s VnicConnDef) ClassID() string { return "VnicConnDef" }
func (s VnicConnDef) RN() string      { return "conn-def" }

func (s VnicConnDef) Properties() map[string]string {
	return map[string]string{
		"lan_conn_policy_name": s.LanConnPolicyName,
		"san_conn_policy_name": s.SanConnPolicyName,
	}
}

func (s VnicConnDef) CreateProperties() map[string]string { return s.Properties() }

// LsPower is the power state applied on association.
type LsPower struct {
	State string
}

func (s LsPower) ClassID() string { return "LsPower" }
func (s LsPower) RN() string      { return "power" }

func (s LsPower) Properties() map[string]string {
	return map[string]string{"state": s.State}
}

func (s LsPower) CreateProperties() map[string]string {
	return map[string]string{"state": adminStatePrefix + s.State}
}

// matchers accepts the admin state written on create as equal to the plain state.
func (s LsPower) matchers() map[string]mo.MatchFunc {
	return map[string]mo.MatchFunc{
		"state": func(live, desired string) bool {
			return live == desired || strings.TrimPrefix(live, adminStatePrefix) == desired
		},
	}
}

// LsRequirement is the server pool requirement.
type LsRequirement struct {
	Name      string
	Qualifier string
}

func (s LsRequirement) ClassID() string { return "LsRequirement" }
func (s LsRequirement) RN() string      { return "pn-req" }

func (s LsRequirement) Properties() map[string]string {
	return map[string]string{
		"name":      s.Name,
		"qualifier": s.Qualifier,
	}
}

func (s LsRequirement) CreateProperties() map[string]string { return s.Properties() }

// LstorageProfileBinding binds the storage profile.
type LstorageProfileBinding struct {
	StorageProfileName string
}

func (s LstorageProfileBinding) ClassID() string { return "LstorageProfileBinding" }
func (s LstorageProfileBinding) RN() string      { return "profile-binding" }

func (s LstorageProfileBinding) Properties() map[string]string {
	return map[string]string{"storage_profile_name": s.StorageProfileName}
}

func (s LstorageProfileBinding) CreateProperties() map[string]string { return s.Properties() }

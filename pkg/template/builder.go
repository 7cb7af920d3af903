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
	"github.com/stefanprodan/ucsmgr/pkg/mo"
	"github.com/stefanprodan/ucsmgr/pkg/reconcile"
)

// Build returns the desired tree for the given option values.
// Missing options take their default value and unknown options are ignored.
func Build(values map[string]string) *reconcile.DesiredNode {
	o := DefaultOptions()
	o.overlay(values)
	return o.Desired()
}

// Desired returns the service profile template tree.
// The children are listed in create order: storage profile binding,
// LAN/SAN connectivity policy, power state and server pool requirement.
func (o Options) Desired() *reconcile.DesiredNode {
	root := node(o.OrgDN, o.server())
	root.Children = []*reconcile.DesiredNode{
		o.storageProfileBinding(root.DN),
		node(root.DN, VnicConnDef{
			LanConnPolicyName: o.LANConnectivityPolicy,
			SanConnPolicyName: o.SANConnectivityPolicy,
		}),
		o.power(root.DN),
		o.serverPoolRequirement(root.DN),
	}
	return root
}

func (o Options) server() LsServer {
	return LsServer{
		Name:                 o.Name,
		Type:                 o.TemplateType,
		Descr:                o.Description,
		BiosProfileName:      o.BIOSPolicy,
		BootPolicyName:       o.BootPolicy,
		ExtIPPoolName:        o.MgmtIPPool,
		HostFwPolicyName:     o.HostFirmwarePackage,
		IdentPoolName:        o.UUIDPool,
		KvmMgmtPolicyName:    o.KVMMgmtPolicy,
		LocalDiskPolicyName:  o.LocalDiskPolicy,
		MaintPolicyName:      o.MaintenancePolicy,
		MgmtAccessPolicyName: o.IPMIAccessProfile,
		PowerPolicyName:      o.PowerControlPolicy,
		PowerSyncPolicyName:  o.PowerSyncPolicy,
		ScrubPolicyName:      o.ScrubPolicy,
		SolPolicyName:        o.SOLPolicy,
		StatsPolicyName:      o.ThresholdPolicy,
		UsrLbl:               o.UserLabel,
		VmediaPolicyName:     o.VMediaPolicy,
	}
}

// storageProfileBinding is written on create but never checked for drift.
func (o Options) storageProfileBinding(parentDN string) *reconcile.DesiredNode {
	n := node(parentDN, LstorageProfileBinding{StorageProfileName: o.StorageProfile})
	n.Compare = false
	return n
}

func (o Options) power(parentDN string) *reconcile.DesiredNode {
	p := LsPower{State: o.PowerState}
	n := node(parentDN, p)
	n.Matchers = p.matchers()
	return n
}

// serverPoolRequirement may be missing on the appliance when no pool is requested.
func (o Options) serverPoolRequirement(parentDN string) *reconcile.DesiredNode {
	n := node(parentDN, LsRequirement{
		Name:      o.ServerPool,
		Qualifier: o.ServerPoolQualification,
	})
	n.AbsentMatches = o.ServerPool == ""
	return n
}

func node(parentDN string, class Class) *reconcile.DesiredNode {
	return &reconcile.DesiredNode{
		DN:               mo.JoinDN(parentDN, class.RN()),
		Class:            class.ClassID(),
		Properties:       class.Properties(),
		CreateProperties: class.CreateProperties(),
		Compare:          true,
	}
}

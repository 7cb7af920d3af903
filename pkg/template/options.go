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
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/stefanprodan/ucsmgr/pkg/reconcile"
)

const (
	InitialTemplate  = "initial-template"
	UpdatingTemplate = "updating-template"
	PowerUp          = "up"
	PowerDown        = "down"
)

// descriptionAlias is accepted in place of 'description'.
const descriptionAlias = "descr"

// Options holds the user supplied configuration of a service profile template.
type Options struct {
	Name                    string `json:"name"`
	OrgDN                   string `json:"org_dn"`
	State                   string `json:"state"`
	TemplateType            string `json:"template_type"`
	UUIDPool                string `json:"uuid_pool"`
	Description             string `json:"description"`
	StorageProfile          string `json:"storage_profile"`
	LocalDiskPolicy         string `json:"local_disk_policy"`
	LANConnectivityPolicy   string `json:"lan_connectivity_policy"`
	SANConnectivityPolicy   string `json:"san_connectivity_policy"`
	VMediaPolicy            string `json:"vmedia_policy"`
	BootPolicy              string `json:"boot_policy"`
	MaintenancePolicy       string `json:"maintenance_policy"`
	ServerPool              string `json:"server_pool"`
	ServerPoolQualification string `json:"server_pool_qualification"`
	PowerState              string `json:"power_state"`
	HostFirmwarePackage     string `json:"host_firmware_package"`
	BIOSPolicy              string `json:"bios_policy"`
	IPMIAccessProfile       string `json:"ipmi_access_profile"`
	SOLPolicy               string `json:"sol_policy"`
	MgmtIPPool              string `json:"mgmt_ip_pool"`
	PowerControlPolicy      string `json:"power_control_policy"`
	PowerSyncPolicy         string `json:"power_sync_policy"`
	ScrubPolicy             string `json:"scrub_policy"`
	KVMMgmtPolicy           string `json:"kvm_mgmt_policy"`
	GraphicsCardPolicy      string `json:"graphics_card_policy"`
	ThresholdPolicy         string `json:"threshold_policy"`
	UserLabel               string `json:"user_label"`
}

// DefaultOptions returns the options with all defaults set, the name is left empty.
func DefaultOptions() Options {
	return Options{
		OrgDN:              "org-root",
		State:              string(reconcile.Present),
		TemplateType:       InitialTemplate,
		UUIDPool:           "default",
		BootPolicy:         "default",
		MgmtIPPool:         "ext-mgmt",
		PowerControlPolicy: "default",
		ThresholdPolicy:    "default",
		PowerState:         PowerUp,
	}
}

func (o *Options) fields() map[string]*string {
	return map[string]*string{
		"name":                      &o.Name,
		"org_dn":                    &o.OrgDN,
		"state":                     &o.State,
		"template_type":             &o.TemplateType,
		"uuid_pool":                 &o.UUIDPool,
		"description":               &o.Description,
		"storage_profile":           &o.StorageProfile,
		"local_disk_policy":         &o.LocalDiskPolicy,
		"lan_connectivity_policy":   &o.LANConnectivityPolicy,
		"san_connectivity_policy":   &o.SANConnectivityPolicy,
		"vmedia_policy":             &o.VMediaPolicy,
		"boot_policy":               &o.BootPolicy,
		"maintenance_policy":        &o.MaintenancePolicy,
		"server_pool":               &o.ServerPool,
		"server_pool_qualification": &o.ServerPoolQualification,
		"power_state":               &o.PowerState,
		"host_firmware_package":     &o.HostFirmwarePackage,
		"bios_policy":               &o.BIOSPolicy,
		"ipmi_access_profile":       &o.IPMIAccessProfile,
		"sol_policy":                &o.SOLPolicy,
		"mgmt_ip_pool":              &o.MgmtIPPool,
		"power_control_policy":      &o.PowerControlPolicy,
		"power_sync_policy":         &o.PowerSyncPolicy,
		"scrub_policy":              &o.ScrubPolicy,
		"kvm_mgmt_policy":           &o.KVMMgmtPolicy,
		"graphics_card_policy":      &o.GraphicsCardPolicy,
		"threshold_policy":          &o.ThresholdPolicy,
		"user_label":                &o.UserLabel,
	}
}

// OptionNames returns the sorted list of recognized option names.
func OptionNames() []string {
	o := Options{}
	var names []string
	for name := range o.fields() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseOptions overlays the given values on the defaults.
// Unknown option names are rejected.
func ParseOptions(values map[string]string) (Options, error) {
	o := DefaultOptions()
	if unknown := o.overlay(values); len(unknown) > 0 {
		return o, fmt.Errorf("unknown option(s) %s", strings.Join(unknown, ", "))
	}
	return o, nil
}

// overlay sets the known options and returns the names of the unknown ones.
func (o *Options) overlay(values map[string]string) []string {
	fields := o.fields()
	var unknown []string
	for key, value := range values {
		if key == descriptionAlias {
			key = "description"
		}
		field, ok := fields[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		*field = value
	}
	sort.Strings(unknown)
	return unknown
}

var (
	nameRegexp      = regexp.MustCompile(`^[A-Za-z0-9_.:-]{2,32}$`)
	orgDNRegexp     = regexp.MustCompile(`^org-root(/org-[A-Za-z0-9_.:-]+)*$`)
	descrForbidden  = "`\\^\"=><'"
	maxDescrLength  = 256
	templateTypes   = []string{InitialTemplate, UpdatingTemplate}
	powerStates     = []string{PowerUp, PowerDown}
	reconcileStates = []string{string(reconcile.Present), string(reconcile.Absent)}
)

// Validate checks the option values against the constraints of the appliance.
func (o Options) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !nameRegexp.MatchString(o.Name) {
		return fmt.Errorf("name '%s' must be between 2 and 32 characters of letters, digits, '-', '_', ':' or '.'", o.Name)
	}
	if !orgDNRegexp.MatchString(o.OrgDN) {
		return fmt.Errorf("org_dn '%s' must start with 'org-root'", o.OrgDN)
	}
	if len(o.Description) > maxDescrLength {
		return fmt.Errorf("description must be at most %d characters", maxDescrLength)
	}
	if strings.ContainsAny(o.Description, descrForbidden) {
		return fmt.Errorf("description can't contain any of %s", descrForbidden)
	}
	if err := oneOf("template_type", o.TemplateType, templateTypes); err != nil {
		return err
	}
	if err := oneOf("power_state", o.PowerState, powerStates); err != nil {
		return err
	}
	return oneOf("state", o.State, reconcileStates)
}

func oneOf(name, value string, choices []string) error {
	for _, c := range choices {
		if value == c {
			return nil
		}
	}
	return fmt.Errorf("%s '%s' must be one of: %s", name, value, strings.Join(choices, ", "))
}

// ReconcileState returns the state as understood by the reconciler.
func (o Options) ReconcileState() reconcile.State {
	return reconcile.State(o.State)
}

// DN returns the distinguished name of the service profile template.
func (o Options) DN() string {
	return o.OrgDN + "/" + LsServer{Name: o.Name}.RN()
}

// ReadValues decodes a YAML or JSON document of option names and string values.
func ReadValues(r io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decoding options failed, error: %w", err)
	}
	return values, nil
}

// ParseSetValues converts 'key=value' pairs to a map.
func ParseSetValues(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, fmt.Errorf("invalid value '%s', the format must be key=value", pair)
		}
		values[kv[0]] = kv[1]
	}
	return values, nil
}

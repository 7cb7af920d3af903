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
	"testing"

	. "github.com/onsi/gomega"
)

func TestBuild_Defaults(t *testing.T) {
	g := NewWithT(t)

	root := Build(map[string]string{"name": "web"})

	g.Expect(root.DN).To(Equal("org-root/ls-web"))
	g.Expect(root.Class).To(Equal("LsServer"))
	g.Expect(root.Compare).To(BeTrue())
	g.Expect(root.Properties).To(HaveKeyWithValue("type", "initial-template"))
	g.Expect(root.Properties).To(HaveKeyWithValue("ident_pool_name", "default"))
	g.Expect(root.Properties).To(HaveKeyWithValue("boot_policy_name", "default"))
	g.Expect(root.Properties).To(HaveKeyWithValue("ext_ip_pool_name", "ext-mgmt"))
	g.Expect(root.Properties).To(HaveKeyWithValue("power_policy_name", "default"))
	g.Expect(root.Properties).To(HaveKeyWithValue("stats_policy_name", "default"))
	g.Expect(root.Properties).To(HaveKeyWithValue("descr", ""))
	g.Expect(root.Properties).NotTo(HaveKey("name"))
	g.Expect(root.Properties).NotTo(HaveKey("ext_ip_state"))
	g.Expect(root.Properties).To(HaveLen(18))

	g.Expect(root.CreateProperties).To(HaveKeyWithValue("name", "web"))
	g.Expect(root.CreateProperties).To(HaveKeyWithValue("ext_ip_state", "pooled"))
}

func TestBuild_Children(t *testing.T) {
	g := NewWithT(t)

	root := Build(map[string]string{
		"name":                      "web",
		"org_dn":                    "org-root/org-eng",
		"storage_profile":           "raid1",
		"lan_connectivity_policy":   "lan",
		"san_connectivity_policy":   "san",
		"power_state":               "down",
		"server_pool":               "blades",
		"server_pool_qualification": "b200",
	})

	g.Expect(root.DN).To(Equal("org-root/org-eng/ls-web"))
	g.Expect(root.Children).To(HaveLen(4))

	var rns []string
	for _, child := range root.Children {
		g.Expect(strings.HasPrefix(child.DN, root.DN+"/")).To(BeTrue())
		rns = append(rns, strings.TrimPrefix(child.DN, root.DN+"/"))
	}
	g.Expect(rns).To(Equal([]string{"profile-binding", "conn-def", "power", "pn-req"}))

	storage := root.Children[0]
	g.Expect(storage.Class).To(Equal("LstorageProfileBinding"))
	g.Expect(storage.Compare).To(BeFalse())
	g.Expect(storage.CreateProperties).To(HaveKeyWithValue("storage_profile_name", "raid1"))

	conn := root.Children[1]
	g.Expect(conn.Properties).To(Equal(map[string]string{
		"lan_conn_policy_name": "lan",
		"san_conn_policy_name": "san",
	}))

	power := root.Children[2]
	g.Expect(power.Properties).To(HaveKeyWithValue("state", "down"))
	g.Expect(power.CreateProperties).To(HaveKeyWithValue("state", "admin-down"))
	g.Expect(power.Matchers["state"]("admin-down", "down")).To(BeTrue())
	g.Expect(power.Matchers["state"]("admin-up", "down")).To(BeFalse())

	req := root.Children[3]
	g.Expect(req.AbsentMatches).To(BeFalse())
	g.Expect(req.Properties).To(Equal(map[string]string{"name": "blades", "qualifier": "b200"}))
}

func TestBuild_EmptyServerPool(t *testing.T) {
	g := NewWithT(t)

	root := Build(map[string]string{"name": "web"})
	g.Expect(root.Children[3].AbsentMatches).To(BeTrue())
}

func TestBuild_IgnoresUnknownOptions(t *testing.T) {
	g := NewWithT(t)

	root := Build(map[string]string{"name": "web", "hostname": "10.0.0.1", "descr": "frontend"})
	g.Expect(root.Properties).To(HaveKeyWithValue("descr", "frontend"))
}

func TestBuild_ManagedObject(t *testing.T) {
	g := NewWithT(t)

	object := Build(map[string]string{"name": "web"}).ManagedObject()
	g.Expect(object.String()).To(Equal("LsServer/org-root/ls-web"))
	g.Expect(object.Get("ext_ip_state")).To(Equal("pooled"))
	g.Expect(object.Children).To(HaveLen(4))
	g.Expect(object.Children[2].Get("state")).To(Equal("admin-up"))
}

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


package reconcile

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/stefanprodan/ucsmgr/pkg/mo"
)

func TestPropertyDiff(t *testing.T) {
	g := NewWithT(t)
	node := &DesiredNode{
		DN:    "org-root/ls-web",
		Class: "LsServer",
		Properties: map[string]string{
			"boot_policy_name": "uefi",
			"descr":            "web",
			"type":             "initial-template",
		},
	}

	t.Run("shows drifted properties per line", func(t *testing.T) {
		live := mo.NewManagedObject("LsServer", "org-root", "ls-web", map[string]string{
			"boot_policy_name": "pxe",
			"descr":            "web",
			"type":             "initial-template",
			"oper_state":       "ok",
		})

		diff := propertyDiff(live, node)
		g.Expect(diff).To(ContainSubstring("boot_policy_name: pxe"))
		g.Expect(diff).To(ContainSubstring("boot_policy_name: uefi"))
		g.Expect(diff).NotTo(ContainSubstring("oper_state"))
	})

	t.Run("shows all properties of missing objects", func(t *testing.T) {
		diff := propertyDiff(nil, node)
		g.Expect(diff).To(ContainSubstring("boot_policy_name: uefi"))
		g.Expect(diff).To(ContainSubstring("type: initial-template"))
	})

	t.Run("hides values accepted by matchers", func(t *testing.T) {
		power := &DesiredNode{
			DN:         "org-root/ls-web/power",
			Class:      "LsPower",
			Properties: map[string]string{"state": "up"},
			Matchers: map[string]mo.MatchFunc{
				"state": func(live, desired string) bool { return live == "admin-"+desired },
			},
		}
		live := mo.NewManagedObject("LsPower", "org-root/ls-web", "power", map[string]string{"state": "admin-up"})
		g.Expect(propertyDiff(live, power)).To(BeEmpty())
	})
}

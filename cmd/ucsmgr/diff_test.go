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

package main

import (
	"fmt"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
)

func TestDiff(t *testing.T) {
	g := NewWithT(t)
	id := "diff-" + randStringRunes(5)
	dn := fmt.Sprintf("org-root/ls-%s", id)

	dir, err := makeTestDir(id, testOptions(id))
	g.Expect(err).NotTo(HaveOccurred())
	file := filepath.Join(dir, "template.yaml")

	t.Run("reports missing template", func(t *testing.T) {
		output, err := executeCommand(fmt.Sprintf("diff -f %s %s", file, applianceArgs()))

		g.Expect(err).NotTo(HaveOccurred())
		t.Logf("\n%s", output)
		g.Expect(output).To(ContainSubstring(fmt.Sprintf("► LsServer/%s created", dn)))
		g.Expect(liveObject(dn)).To(BeNil())
	})

	t.Run("reports drifted properties", func(t *testing.T) {
		_, err := executeCommand(fmt.Sprintf("apply -f %s %s", file, applianceArgs()))
		g.Expect(err).NotTo(HaveOccurred())

		output, err := executeCommand(fmt.Sprintf("diff -f %s --set boot_policy=uefi %s", file, applianceArgs()))

		g.Expect(err).NotTo(HaveOccurred())
		t.Logf("\n%s", output)
		g.Expect(output).To(ContainSubstring(fmt.Sprintf("► LsServer/%s drifted", dn)))
		g.Expect(output).To(ContainSubstring("boot_policy_name: pxe"))
		g.Expect(output).To(ContainSubstring("boot_policy_name: uefi"))
		g.Expect(liveObject(dn).Get("boot_policy_name")).To(Equal("pxe"))
	})

	t.Run("prints nothing when in sync", func(t *testing.T) {
		output, err := executeCommand(fmt.Sprintf("diff -f %s %s", file, applianceArgs()))

		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(output).NotTo(ContainSubstring("►"))
	})
}

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
	"testing"

	. "github.com/onsi/gomega"
)

func TestGetTemplate(t *testing.T) {
	g := NewWithT(t)
	id := "get-" + randStringRunes(5)
	dn := fmt.Sprintf("org-root/ls-%s", id)

	_, err := executeCommand(fmt.Sprintf("apply --set name=%s --set power_state=down %s", id, applianceArgs()))
	g.Expect(err).NotTo(HaveOccurred())

	output, err := executeCommand(fmt.Sprintf("get template %s %s", id, applianceArgs()))
	g.Expect(err).NotTo(HaveOccurred())
	t.Logf("\n%s", output)

	g.Expect(output).To(ContainSubstring(dn))
	g.Expect(output).To(ContainSubstring(dn + "/conn-def"))
	g.Expect(output).To(MatchRegexp(`LsPower\s+` + dn + `/power\s+state=admin-down`))

	_, err = executeCommand(fmt.Sprintf("get template missing-%s %s", id, applianceArgs()))
	g.Expect(err).To(MatchError(ContainSubstring("not found")))
}

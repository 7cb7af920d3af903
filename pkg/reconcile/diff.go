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
	"strings"

	"github.com/google/go-cmp/cmp"
	"sigs.k8s.io/yaml"

	"github.com/stefanprodan/ucsmgr/pkg/mo"
)

// propertyDiff returns the YAML diff between the allowlisted live properties and the desired ones.
// Live values accepted by a custom matcher are shown as the desired value.
func propertyDiff(live *mo.ManagedObject, node *DesiredNode) string {
	existing := map[string]string{}
	if live != nil {
		existing = mo.SelectProperties(live, node.Properties)
		for name, fn := range node.Matchers {
			want, ok := node.Properties[name]
			if ok && fn != nil && fn(existing[name], want) {
				existing[name] = want
			}
		}
	}

	return cmp.Diff(yamlLines(existing), yamlLines(node.Properties))
}

// yamlLines renders the properties as sorted 'name: value' lines.
func yamlLines(properties map[string]string) []string {
	lines := []string{}
	if len(properties) == 0 {
		return lines
	}
	data, err := yaml.Marshal(properties)
	if err != nil {
		return lines
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

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

import "fmt"

// Action represents the action type performed by the reconciliation process.
type Action string

const (
	CreatedAction    Action = "created"
	ConfiguredAction Action = "configured"
	UnchangedAction  Action = "unchanged"
	DeletedAction    Action = "deleted"
)

// ChangeSet holds the result of the reconciliation of an object tree.
type ChangeSet struct {
	Entries []ChangeSetEntry `json:"entries"`
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{Entries: []ChangeSetEntry{}}
}

func (c *ChangeSet) Add(e ChangeSetEntry) {
	c.Entries = append(c.Entries, e)
}

// Drifted returns the entries that are not unchanged.
func (c *ChangeSet) Drifted() []ChangeSetEntry {
	var out []ChangeSetEntry
	for _, e := range c.Entries {
		if e.Action != UnchangedAction {
			out = append(out, e)
		}
	}
	return out
}

// ChangeSetEntry defines the result of an action performed on an object.
type ChangeSetEntry struct {
	// Subject represents the object ID in the format 'class/dn'.
	Subject string `json:"subject"`
	// Action represents the action type taken by the reconciler for this object.
	Action Action `json:"action"`
	// Diff contains the property diff between the live and desired object.
	Diff string `json:"diff,omitempty"`
}

func (e ChangeSetEntry) String() string {
	return fmt.Sprintf("%s %s", e.Subject, e.Action)
}

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
	"github.com/stefanprodan/ucsmgr/pkg/mo"
)

// DesiredNode describes one level of the managed object tree that should exist on the appliance.
type DesiredNode struct {
	// DN is the distinguished name of the object.
	DN string `json:"dn"`

	// Class is the managed object class.
	Class string `json:"class"`

	// Properties holds the properties compared against the live object.
	// Live properties that are not listed here are ignored.
	Properties map[string]string `json:"properties,omitempty"`

	// CreateProperties holds the properties sent to the appliance on create,
	// when nil Properties are used.
	CreateProperties map[string]string `json:"createProperties,omitempty"`

	// Compare is false for nodes that are only written on create
	// and are never checked for drift.
	Compare bool `json:"compare"`

	// AbsentMatches makes a missing live object count as a match.
	AbsentMatches bool `json:"absentMatches,omitempty"`

	// Matchers overrides the equality check for individual properties.
	Matchers map[string]mo.MatchFunc `json:"-"`

	// Children are created in order, after their parent.
	Children []*DesiredNode `json:"children,omitempty"`
}

// String returns the node ID in the format <class>/<dn>.
func (n *DesiredNode) String() string {
	return n.Class + "/" + n.DN
}

// ManagedObject returns the object tree sent to the appliance on create.
func (n *DesiredNode) ManagedObject() *mo.ManagedObject {
	props := n.CreateProperties
	if props == nil {
		props = n.Properties
	}
	parent, rn := mo.SplitDN(n.DN)
	object := mo.NewManagedObject(n.Class, parent, rn, props)
	for _, child := range n.Children {
		object.AddChild(child.ManagedObject())
	}
	return object
}

// Len returns the number of nodes in the tree.
func (n *DesiredNode) Len() int {
	count := 1
	for _, child := range n.Children {
		count += child.Len()
	}
	return count
}

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

package mo

import (
	"context"
	"sort"
	"strings"
)

const dnSeparator = "/"

// ManagedObject is a node of the appliance configuration tree.
type ManagedObject struct {
	// Class is the managed object class e.g. 'LsServer'.
	Class string `json:"class"`

	// DN is the distinguished name e.g. 'org-root/ls-web'.
	DN string `json:"dn"`

	// Properties holds the object attributes keyed by their snake_case name.
	Properties map[string]string `json:"properties,omitempty"`

	// Children are created together with this object.
	Children []*ManagedObject `json:"children,omitempty"`
}

// NewManagedObject returns an object with the DN derived from the parent DN and the relative name.
func NewManagedObject(class, parentDN, rn string, properties map[string]string) *ManagedObject {
	props := make(map[string]string, len(properties))
	for k, v := range properties {
		props[k] = v
	}
	return &ManagedObject{
		Class:      class,
		DN:         JoinDN(parentDN, rn),
		Properties: props,
	}
}

// AddChild appends the given object to the children list.
func (o *ManagedObject) AddChild(child *ManagedObject) {
	o.Children = append(o.Children, child)
}

// Get returns the property value, missing properties are returned as empty strings.
func (o *ManagedObject) Get(name string) string {
	if o.Properties == nil {
		return ""
	}
	return o.Properties[name]
}

// RN returns the relative name of the object.
func (o *ManagedObject) RN() string {
	_, rn := SplitDN(o.DN)
	return rn
}

// String returns the object ID in the format <class>/<dn>.
func (o *ManagedObject) String() string {
	return o.Class + dnSeparator + o.DN
}

// DeepCopy returns a copy of the object and all its children.
func (o *ManagedObject) DeepCopy() *ManagedObject {
	if o == nil {
		return nil
	}
	out := &ManagedObject{
		Class: o.Class,
		DN:    o.DN,
	}
	if o.Properties != nil {
		out.Properties = make(map[string]string, len(o.Properties))
		for k, v := range o.Properties {
			out.Properties[k] = v
		}
	}
	for _, child := range o.Children {
		out.Children = append(out.Children, child.DeepCopy())
	}
	return out
}

// Walk calls fn for the object and all its descendants, parents first.
func (o *ManagedObject) Walk(fn func(*ManagedObject)) {
	fn(o)
	for _, child := range o.Children {
		child.Walk(fn)
	}
}

// PropertyNames returns the sorted property names.
func (o *ManagedObject) PropertyNames() []string {
	names := make([]string, 0, len(o.Properties))
	for k := range o.Properties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// JoinDN returns '<parent>/<rn>', or the rn if the parent is empty.
func JoinDN(parentDN, rn string) string {
	if parentDN == "" {
		return rn
	}
	return parentDN + dnSeparator + rn
}

// SplitDN returns the parent DN and the relative name.
func SplitDN(dn string) (string, string) {
	i := strings.LastIndex(dn, dnSeparator)
	if i < 0 {
		return "", dn
	}
	return dn[:i], dn[i+1:]
}

// IsDescendant reports whether dn is located under the given ancestor.
func IsDescendant(dn, ancestor string) bool {
	return strings.HasPrefix(dn, ancestor+dnSeparator)
}

// Client performs operations on the appliance configuration tree.
//
// QueryDN returns nil and no error when the object does not exist.
// AddObject and RemoveObject stage changes that are sent to the
// appliance by Commit.
type Client interface {
	QueryDN(ctx context.Context, dn string) (*ManagedObject, error)
	AddObject(ctx context.Context, object *ManagedObject, modifyPresent bool) error
	RemoveObject(ctx context.Context, object *ManagedObject) error
	Commit(ctx context.Context) error
}

// TreeQuerier is implemented by clients that can return an object with its descendants.
type TreeQuerier interface {
	QueryTree(ctx context.Context, dn string) (*ManagedObject, error)
}

var (
	_ Client      = &MemoryClient{}
	_ TreeQuerier = &MemoryClient{}
)

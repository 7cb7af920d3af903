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

package xmlapi

import (
	"encoding/xml"
	"sort"
	"strings"
	"unicode"

	"github.com/stefanprodan/ucsmgr/pkg/mo"
)

// Element is a generic XML API document node.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []Element  `xml:",any"`
}

// NewElement returns an element with the given attribute name/value pairs.
func NewElement(name string, attrs ...string) Element {
	e := Element{XMLName: xml.Name{Local: name}}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.SetAttr(attrs[i], attrs[i+1])
	}
	return e
}

// Attr returns the attribute value or an empty string.
func (e Element) Attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// SetAttr adds or replaces an attribute.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.Attrs {
		if a.Name.Local == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// Child returns the first child with the given name.
func (e Element) Child(name string) (Element, bool) {
	for _, c := range e.Children {
		if c.XMLName.Local == name {
			return c, true
		}
	}
	return Element{}, false
}

// Name returns the local element name.
func (e Element) Name() string {
	return e.XMLName.Local
}

// reserved attributes are not managed object properties
var reserved = map[string]bool{
	"dn":          true,
	"rn":          true,
	"status":      true,
	"childAction": true,
}

// attributes whose camelCase form can't be derived from the property name
var attributeNames = map[string]string{
	"ext_ip_pool_name": "extIPPoolName",
	"ext_ip_state":     "extIPState",
}

var propertyNames = func() map[string]string {
	m := make(map[string]string, len(attributeNames))
	for k, v := range attributeNames {
		m[v] = k
	}
	return m
}()

// Encode converts a managed object tree to an element, the status is set on every object when not empty.
func Encode(object *mo.ManagedObject, status string) Element {
	e := Element{XMLName: xml.Name{Local: lowerFirst(object.Class)}}
	e.SetAttr("dn", object.DN)
	for _, name := range object.PropertyNames() {
		e.SetAttr(AttributeName(name), object.Properties[name])
	}
	if status != "" {
		e.SetAttr("status", status)
	}
	for _, child := range object.Children {
		e.Children = append(e.Children, Encode(child, status))
	}
	return e
}

// Decode converts an element to a managed object tree.
// Objects without a dn attribute get one from the parent DN and their rn.
func Decode(e Element, parentDN string) *mo.ManagedObject {
	object := &mo.ManagedObject{
		Class:      upperFirst(e.Name()),
		DN:         e.Attr("dn"),
		Properties: map[string]string{},
	}
	if object.DN == "" {
		object.DN = mo.JoinDN(parentDN, e.Attr("rn"))
	}
	for _, a := range e.Attrs {
		if reserved[a.Name.Local] {
			continue
		}
		object.Properties[PropertyName(a.Name.Local)] = a.Value
	}
	children := append([]Element{}, e.Children...)
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Attr("dn") < children[j].Attr("dn")
	})
	for _, c := range children {
		object.AddChild(Decode(c, object.DN))
	}
	return object
}

// AttributeName converts a snake_case property name to the camelCase attribute name.
func AttributeName(property string) string {
	if name, ok := attributeNames[property]; ok {
		return name
	}
	parts := strings.Split(property, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		b.WriteString(upperFirst(p))
	}
	return b.String()
}

// PropertyName converts a camelCase attribute name to the snake_case property name.
func PropertyName(attribute string) string {
	if name, ok := propertyNames[attribute]; ok {
		return name
	}
	var b strings.Builder
	for i, r := range attribute {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

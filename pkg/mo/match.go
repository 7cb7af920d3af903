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

// MatchFunc reports whether a live property value satisfies the desired one.
type MatchFunc func(live, desired string) bool

// ExactMatch is the default MatchFunc.
func ExactMatch(live, desired string) bool {
	return live == desired
}

// PropertiesMatch compares only the properties listed in desired,
// all other live properties are ignored.
// Properties missing from the live object are treated as empty strings.
func PropertiesMatch(object *ManagedObject, desired map[string]string, matchers map[string]MatchFunc) bool {
	if object == nil {
		return false
	}
	for name, want := range desired {
		match := ExactMatch
		if fn, ok := matchers[name]; ok && fn != nil {
			match = fn
		}
		if !match(object.Get(name), want) {
			return false
		}
	}
	return true
}

// SelectProperties returns the live values of the given property names.
func SelectProperties(object *ManagedObject, names map[string]string) map[string]string {
	out := make(map[string]string, len(names))
	if object == nil {
		return out
	}
	for name := range names {
		out[name] = object.Get(name)
	}
	return out
}

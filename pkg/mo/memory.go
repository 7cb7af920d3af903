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
	"fmt"
	"sort"
	"sync"
)

// Operation names recorded by MemoryClient.
const (
	QueryOp  = "query"
	AddOp    = "add"
	RemoveOp = "remove"
	CommitOp = "commit"
)

type pendingChange struct {
	op            string
	object        *ManagedObject
	modifyPresent bool
}

// MemoryClient is an in-memory configuration tree that implements Client.
// Changes are staged by AddObject and RemoveObject and applied by Commit.
type MemoryClient struct {
	mu      sync.Mutex
	objects map[string]*ManagedObject
	pending []pendingChange
	calls   []string
	faults  map[string]error
}

// NewMemoryClient returns a client seeded with the given objects and their children.
func NewMemoryClient(objects ...*ManagedObject) *MemoryClient {
	m := &MemoryClient{
		objects: make(map[string]*ManagedObject),
		faults:  make(map[string]error),
	}
	for _, object := range objects {
		object.Walk(func(o *ManagedObject) {
			m.objects[o.DN] = flatCopy(o)
		})
	}
	return m
}

// QueryDN returns a copy of the object without its children.
func (m *MemoryClient) QueryDN(ctx context.Context, dn string) (*ManagedObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, QueryOp+" "+dn)
	if err := m.faults[QueryOp]; err != nil {
		return nil, err
	}

	object, ok := m.objects[dn]
	if !ok {
		return nil, nil
	}
	return flatCopy(object), nil
}

// QueryTree returns a copy of the object with all its descendants.
func (m *MemoryClient) QueryTree(ctx context.Context, dn string) (*ManagedObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, QueryOp+" "+dn)
	if err := m.faults[QueryOp]; err != nil {
		return nil, err
	}

	object, ok := m.objects[dn]
	if !ok {
		return nil, nil
	}
	return m.tree(object), nil
}

func (m *MemoryClient) tree(object *ManagedObject) *ManagedObject {
	out := flatCopy(object)
	var dns []string
	for dn := range m.objects {
		parent, _ := SplitDN(dn)
		if parent == object.DN {
			dns = append(dns, dn)
		}
	}
	sort.Strings(dns)
	for _, dn := range dns {
		out.AddChild(m.tree(m.objects[dn]))
	}
	return out
}

// AddObject stages the creation of the object and its children.
func (m *MemoryClient) AddObject(ctx context.Context, object *ManagedObject, modifyPresent bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, AddOp+" "+object.DN)
	if err := m.faults[AddOp]; err != nil {
		return err
	}

	m.pending = append(m.pending, pendingChange{op: AddOp, object: object.DeepCopy(), modifyPresent: modifyPresent})
	return nil
}

// RemoveObject stages the removal of the object and its descendants.
func (m *MemoryClient) RemoveObject(ctx context.Context, object *ManagedObject) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, RemoveOp+" "+object.DN)
	if err := m.faults[RemoveOp]; err != nil {
		return err
	}

	m.pending = append(m.pending, pendingChange{op: RemoveOp, object: flatCopy(object)})
	return nil
}

// Commit applies the staged changes in order.
// If a change can't be applied, none of the staged changes are kept.
func (m *MemoryClient) Commit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, CommitOp)
	if err := m.faults[CommitOp]; err != nil {
		m.pending = nil
		return err
	}

	next := make(map[string]*ManagedObject, len(m.objects))
	for dn, object := range m.objects {
		next[dn] = object
	}

	for _, change := range m.pending {
		switch change.op {
		case AddOp:
			if err := applyAdd(next, change.object, change.modifyPresent); err != nil {
				m.pending = nil
				return err
			}
		case RemoveOp:
			for dn := range next {
				if dn == change.object.DN || IsDescendant(dn, change.object.DN) {
					delete(next, dn)
				}
			}
		}
	}

	m.objects = next
	m.pending = nil
	return nil
}

func applyAdd(objects map[string]*ManagedObject, object *ManagedObject, modifyPresent bool) error {
	var err error
	object.Walk(func(o *ManagedObject) {
		if err != nil {
			return
		}
		existing, ok := objects[o.DN]
		if !ok {
			objects[o.DN] = flatCopy(o)
			return
		}
		if !modifyPresent {
			err = fmt.Errorf("%s already exists", o.String())
			return
		}
		merged := flatCopy(existing)
		for k, v := range o.Properties {
			merged.Properties[k] = v
		}
		objects[o.DN] = merged
	})
	return err
}

// Set changes a property of an existing object without staging, it returns false if the object is not found.
func (m *MemoryClient) Set(dn, name, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	object, ok := m.objects[dn]
	if !ok {
		return false
	}
	object.Properties[name] = value
	return true
}

// Delete removes an object and its descendants without staging.
func (m *MemoryClient) Delete(dn string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.objects {
		if k == dn || IsDescendant(k, dn) {
			delete(m.objects, k)
		}
	}
}

// FailOn makes all subsequent calls of the given operation return err, a nil err clears the fault.
func (m *MemoryClient) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.faults, op)
		return
	}
	m.faults[op] = err
}

// Calls returns the recorded operations in the format '<op> <dn>'.
func (m *MemoryClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string{}, m.calls...)
}

// ResetCalls clears the recorded operations.
func (m *MemoryClient) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = nil
}

// Len returns the number of objects in the tree.
func (m *MemoryClient) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.objects)
}

// Pending returns the number of staged changes.
func (m *MemoryClient) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.pending)
}

func flatCopy(o *ManagedObject) *ManagedObject {
	out := &ManagedObject{
		Class:      o.Class,
		DN:         o.DN,
		Properties: make(map[string]string, len(o.Properties)),
	}
	for k, v := range o.Properties {
		out.Properties[k] = v
	}
	return out
}

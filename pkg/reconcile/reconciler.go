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
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/stefanprodan/ucsmgr/pkg/mo"
)

// Mode selects whether the reconciler mutates the appliance.
type Mode int

const (
	// Apply performs the create, replace and delete calls.
	Apply Mode = iota
	// DryRun computes the same outcome using only queries.
	DryRun
)

func (m Mode) String() string {
	if m == DryRun {
		return "dry-run"
	}
	return "apply"
}

// State is the intent of the caller for the desired object.
type State string

const (
	Present State = "present"
	Absent  State = "absent"
)

// Result is the outcome of a reconciliation.
type Result struct {
	// Changed is true when the appliance was (or, in dry-run mode, would be) modified.
	Changed bool `json:"changed"`
	// Failed is true when a client call returned an error.
	Failed bool `json:"failed,omitempty"`
	// Msg holds the error message.
	Msg string `json:"msg,omitempty"`
	// ChangeSet lists the objects visited by the reconciler.
	ChangeSet *ChangeSet `json:"changeSet,omitempty"`
}

// Reconciler converges the appliance configuration tree to a desired object tree.
type Reconciler struct {
	client mo.Client
	log    logr.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger used for diagnostics.
func WithLogger(log logr.Logger) Option {
	return func(r *Reconciler) {
		r.log = log
	}
}

// NewReconciler creates a Reconciler for the given client.
func NewReconciler(client mo.Client, opts ...Option) *Reconciler {
	r := &Reconciler{
		client: client,
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile makes the appliance match the desired tree.
//
// For the present state, the live tree is walked top-down and the walk stops
// at the first object that is missing or has drifted. In that case the whole
// desired tree is added with modify-present semantics and committed once.
// For the absent state, the root object is removed if it exists.
//
// Client errors are not returned, they are reported in the result together
// with the changed flag accumulated before the failure.
func (r *Reconciler) Reconcile(ctx context.Context, desired *DesiredNode, state State, mode Mode) Result {
	result := Result{ChangeSet: NewChangeSet()}
	log := r.log.WithValues("dn", desired.DN, "mode", mode.String())

	var err error
	switch state {
	case Present, "":
		err = r.ensure(ctx, desired, mode, &result)
	case Absent:
		err = r.remove(ctx, desired, mode, &result)
	default:
		err = fmt.Errorf("unsupported state '%s'", state)
	}

	if err != nil {
		log.Error(err, "reconciliation failed")
		result.Failed = true
		result.Msg = fmt.Sprintf("setup error: %s", err)
	} else {
		log.V(1).Info("reconciliation finished", "changed", result.Changed)
	}

	return result
}

func (r *Reconciler) ensure(ctx context.Context, desired *DesiredNode, mode Mode, result *Result) error {
	live, err := r.query(ctx, desired.DN)
	if err != nil {
		return err
	}

	converged, err := r.converged(ctx, desired, live, result.ChangeSet)
	if err != nil {
		return err
	}
	if converged {
		return nil
	}

	if mode == Apply {
		object := desired.ManagedObject()
		if err := r.client.AddObject(ctx, object, true); err != nil {
			return fmt.Errorf("%s create failed, error: %w", object, err)
		}
		if err := r.client.Commit(ctx); err != nil {
			return fmt.Errorf("%s commit failed, error: %w", object, err)
		}
		r.log.Info("object tree applied", "subject", object.String(), "objects", desired.Len())
	}

	result.Changed = true
	return nil
}

// converged walks the desired tree depth-first and returns false on the first drifted node.
func (r *Reconciler) converged(ctx context.Context, node *DesiredNode, live *mo.ManagedObject, cs *ChangeSet) (bool, error) {
	if live == nil {
		if node.AbsentMatches {
			cs.Add(ChangeSetEntry{Subject: node.String(), Action: UnchangedAction})
			return true, nil
		}
		cs.Add(ChangeSetEntry{Subject: node.String(), Action: CreatedAction, Diff: propertyDiff(nil, node)})
		r.log.V(1).Info("object not found", "subject", node.String())
		return false, nil
	}

	if !mo.PropertiesMatch(live, node.Properties, node.Matchers) {
		cs.Add(ChangeSetEntry{Subject: node.String(), Action: ConfiguredAction, Diff: propertyDiff(live, node)})
		r.log.V(1).Info("object drifted", "subject", node.String())
		return false, nil
	}
	cs.Add(ChangeSetEntry{Subject: node.String(), Action: UnchangedAction})

	for _, child := range node.Children {
		if !child.Compare {
			continue
		}
		childLive, err := r.query(ctx, child.DN)
		if err != nil {
			return false, err
		}
		ok, err := r.converged(ctx, child, childLive, cs)
		if err != nil || !ok {
			return ok, err
		}
	}

	return true, nil
}

func (r *Reconciler) remove(ctx context.Context, desired *DesiredNode, mode Mode, result *Result) error {
	live, err := r.query(ctx, desired.DN)
	if err != nil {
		return err
	}
	if live == nil {
		return nil
	}

	if mode == Apply {
		if err := r.client.RemoveObject(ctx, live); err != nil {
			return fmt.Errorf("%s delete failed, error: %w", live, err)
		}
		if err := r.client.Commit(ctx); err != nil {
			return fmt.Errorf("%s commit failed, error: %w", live, err)
		}
		r.log.Info("object removed", "subject", live.String())
	}

	result.Changed = true
	result.ChangeSet.Add(ChangeSetEntry{Subject: desired.String(), Action: DeletedAction})
	return nil
}

func (r *Reconciler) query(ctx context.Context, dn string) (*mo.ManagedObject, error) {
	r.log.V(1).Info("querying object", "dn", dn)
	live, err := r.client.QueryDN(ctx, dn)
	if err != nil {
		return nil, fmt.Errorf("%s query failed, error: %w", dn, err)
	}
	return live, nil
}

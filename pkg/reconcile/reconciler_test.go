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

package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/stefanprodan/ucsmgr/pkg/mo"
	"github.com/stefanprodan/ucsmgr/pkg/reconcile"
	"github.com/stefanprodan/ucsmgr/pkg/template"
)

var nextNameId int64

func generateName(prefix string) string {
	id := atomic.AddInt64(&nextNameId, 1)
	return fmt.Sprintf("%s-%d", prefix, id)
}

func writeCalls(calls []string) []string {
	var out []string
	for _, c := range calls {
		if !strings.HasPrefix(c, mo.QueryOp) {
			out = append(out, c)
		}
	}
	return out
}

func TestReconcile_Create(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()
	client := mo.NewMemoryClient()
	r := reconcile.NewReconciler(client)
	name := generateName("sp")
	desired := template.Build(map[string]string{"name": name})

	t.Run("creates root and children", func(t *testing.T) {
		result := r.Reconcile(ctx, desired, reconcile.Present, reconcile.Apply)
		g.Expect(result.Failed).To(BeFalse(), result.Msg)
		g.Expect(result.Changed).To(BeTrue())
		g.Expect(result.ChangeSet.Entries).To(HaveLen(1))
		g.Expect(result.ChangeSet.Entries[0].Action).To(Equal(reconcile.CreatedAction))

		g.Expect(client.Calls()).To(Equal([]string{
			"query org-root/ls-" + name,
			"add org-root/ls-" + name,
			"commit",
		}))
		g.Expect(client.Len()).To(Equal(5))

		tree, err := client.QueryTree(ctx, desired.DN)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(tree.Get("ext_ip_state")).To(Equal("pooled"))
		g.Expect(tree.Get("name")).To(Equal(name))

		power, err := client.QueryDN(ctx, desired.DN+"/power")
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(power.Get("state")).To(Equal("admin-up"))
	})

	t.Run("sends children in create order", func(t *testing.T) {
		object := desired.ManagedObject()
		var classes []string
		for _, child := range object.Children {
			classes = append(classes, child.Class)
		}
		g.Expect(classes).To(Equal([]string{"LstorageProfileBinding", "VnicConnDef", "LsPower", "LsRequirement"}))
	})

	t.Run("is idempotent", func(t *testing.T) {
		client.ResetCalls()
		result := r.Reconcile(ctx, desired, reconcile.Present, reconcile.Apply)
		g.Expect(result.Failed).To(BeFalse(), result.Msg)
		g.Expect(result.Changed).To(BeFalse())
		g.Expect(writeCalls(client.Calls())).To(BeEmpty())
		g.Expect(result.ChangeSet.Drifted()).To(BeEmpty())

		// root, conn-def, power and pn-req are compared, the storage binding is not
		g.Expect(result.ChangeSet.Entries).To(HaveLen(4))
	})
}

func TestReconcile_Drift(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()
	client := mo.NewMemoryClient()
	r := reconcile.NewReconciler(client)
	name := generateName("sp")
	values := map[string]string{"name": name, "lan_connectivity_policy": "lan-a"}

	result := r.Reconcile(ctx, template.Build(values), reconcile.Present, reconcile.Apply)
	g.Expect(result.Changed).To(BeTrue())

	t.Run("detects power state drift", func(t *testing.T) {
		values["power_state"] = "down"
		desired := template.Build(values)
		client.ResetCalls()

		result := r.Reconcile(ctx, desired, reconcile.Present, reconcile.Apply)
		g.Expect(result.Failed).To(BeFalse(), result.Msg)
		g.Expect(result.Changed).To(BeTrue())

		drifted := result.ChangeSet.Drifted()
		g.Expect(drifted).To(HaveLen(1))
		g.Expect(drifted[0].Subject).To(Equal("LsPower/" + desired.DN + "/power"))
		g.Expect(drifted[0].Action).To(Equal(reconcile.ConfiguredAction))
		g.Expect(drifted[0].Diff).To(ContainSubstring("down"))

		g.Expect(writeCalls(client.Calls())).To(Equal([]string{"add " + desired.DN, "commit"}))

		power, err := client.QueryDN(ctx, desired.DN+"/power")
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(power.Get("state")).To(Equal("admin-down"))
	})

	t.Run("stops at the first drifted level", func(t *testing.T) {
		values["lan_connectivity_policy"] = "lan-b"
		values["server_pool"] = "blades"
		client.ResetCalls()

		result := r.Reconcile(ctx, template.Build(values), reconcile.Present, reconcile.DryRun)
		g.Expect(result.Changed).To(BeTrue())
		g.Expect(client.Calls()).To(Equal([]string{
			"query org-root/ls-" + name,
			"query org-root/ls-" + name + "/conn-def",
		}))
	})

	t.Run("replaces the whole tree", func(t *testing.T) {
		result := r.Reconcile(ctx, template.Build(values), reconcile.Present, reconcile.Apply)
		g.Expect(result.Changed).To(BeTrue())

		result = r.Reconcile(ctx, template.Build(values), reconcile.Present, reconcile.Apply)
		g.Expect(result.Changed).To(BeFalse())

		req, err := client.QueryDN(ctx, "org-root/ls-"+name+"/pn-req")
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(req.Get("name")).To(Equal("blades"))
	})

	t.Run("detects root drift", func(t *testing.T) {
		g.Expect(client.Set("org-root/ls-"+name, "boot_policy_name", "pxe")).To(BeTrue())

		result := r.Reconcile(ctx, template.Build(values), reconcile.Present, reconcile.DryRun)
		g.Expect(result.Changed).To(BeTrue())
		g.Expect(result.ChangeSet.Entries).To(HaveLen(1))
		g.Expect(result.ChangeSet.Entries[0].Diff).To(ContainSubstring("pxe"))
	})
}

func TestReconcile_AllowlistComparison(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()
	client := mo.NewMemoryClient()
	r := reconcile.NewReconciler(client)
	desired := template.Build(map[string]string{"name": generateName("sp")})

	g.Expect(r.Reconcile(ctx, desired, reconcile.Present, reconcile.Apply).Changed).To(BeTrue())

	g.Expect(client.Set(desired.DN, "oper_state", "unassociated")).To(BeTrue())
	g.Expect(client.Set(desired.DN+"/conn-def", "int_id", "1234")).To(BeTrue())
	g.Expect(client.Set(desired.DN+"/power", "soft_shutdown_timer", "150-secs")).To(BeTrue())

	result := r.Reconcile(ctx, desired, reconcile.Present, reconcile.Apply)
	g.Expect(result.Failed).To(BeFalse(), result.Msg)
	g.Expect(result.Changed).To(BeFalse())
}

func TestReconcile_EmptyServerPool(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()
	client := mo.NewMemoryClient()
	r := reconcile.NewReconciler(client)
	name := generateName("sp")

	g.Expect(r.Reconcile(ctx, template.Build(map[string]string{"name": name}), reconcile.Present, reconcile.Apply).Changed).To(BeTrue())
	client.Delete("org-root/ls-" + name + "/pn-req")

	t.Run("missing requirement matches an empty pool", func(t *testing.T) {
		result := r.Reconcile(ctx, template.Build(map[string]string{"name": name}), reconcile.Present, reconcile.Apply)
		g.Expect(result.Failed).To(BeFalse(), result.Msg)
		g.Expect(result.Changed).To(BeFalse())
	})

	t.Run("missing requirement drifts when a pool is set", func(t *testing.T) {
		values := map[string]string{"name": name, "server_pool": "blades"}
		result := r.Reconcile(ctx, template.Build(values), reconcile.Present, reconcile.DryRun)
		g.Expect(result.Changed).To(BeTrue())

		drifted := result.ChangeSet.Drifted()
		g.Expect(drifted).To(HaveLen(1))
		g.Expect(drifted[0].Action).To(Equal(reconcile.CreatedAction))
	})

	t.Run("missing connectivity policy drifts", func(t *testing.T) {
		client.Delete("org-root/ls-" + name + "/conn-def")
		result := r.Reconcile(ctx, template.Build(map[string]string{"name": name}), reconcile.Present, reconcile.DryRun)
		g.Expect(result.Changed).To(BeTrue())
	})
}

func TestReconcile_StorageProfileIsCreateOnly(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()
	client := mo.NewMemoryClient()
	r := reconcile.NewReconciler(client)
	name := generateName("sp")

	values := map[string]string{"name": name, "storage_profile": "raid1"}
	g.Expect(r.Reconcile(ctx, template.Build(values), reconcile.Present, reconcile.Apply).Changed).To(BeTrue())

	binding, err := client.QueryDN(ctx, "org-root/ls-"+name+"/profile-binding")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(binding.Get("storage_profile_name")).To(Equal("raid1"))

	values["storage_profile"] = "raid5"
	client.ResetCalls()
	result := r.Reconcile(ctx, template.Build(values), reconcile.Present, reconcile.Apply)
	g.Expect(result.Changed).To(BeFalse())
	g.Expect(client.Calls()).NotTo(ContainElement(ContainSubstring("profile-binding")))
}

func TestReconcile_DryRun(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()
	client := mo.NewMemoryClient()
	r := reconcile.NewReconciler(client)
	desired := template.Build(map[string]string{"name": generateName("sp")})

	for i := 0; i < 2; i++ {
		result := r.Reconcile(ctx, desired, reconcile.Present, reconcile.DryRun)
		g.Expect(result.Failed).To(BeFalse(), result.Msg)
		g.Expect(result.Changed).To(BeTrue())
	}
	g.Expect(writeCalls(client.Calls())).To(BeEmpty())
	g.Expect(client.Len()).To(Equal(0))

	g.Expect(r.Reconcile(ctx, desired, reconcile.Present, reconcile.Apply).Changed).To(BeTrue())
	client.ResetCalls()

	result := r.Reconcile(ctx, desired, reconcile.Absent, reconcile.DryRun)
	g.Expect(result.Changed).To(BeTrue())
	g.Expect(writeCalls(client.Calls())).To(BeEmpty())
	g.Expect(client.Len()).To(Equal(5))
}

func TestReconcile_Delete(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()
	client := mo.NewMemoryClient()
	r := reconcile.NewReconciler(client)
	desired := template.Build(map[string]string{"name": generateName("sp")})

	t.Run("ignores missing object", func(t *testing.T) {
		result := r.Reconcile(ctx, desired, reconcile.Absent, reconcile.Apply)
		g.Expect(result.Failed).To(BeFalse(), result.Msg)
		g.Expect(result.Changed).To(BeFalse())
		g.Expect(writeCalls(client.Calls())).To(BeEmpty())
	})

	t.Run("removes object tree", func(t *testing.T) {
		g.Expect(r.Reconcile(ctx, desired, reconcile.Present, reconcile.Apply).Changed).To(BeTrue())
		client.ResetCalls()

		result := r.Reconcile(ctx, desired, reconcile.Absent, reconcile.Apply)
		g.Expect(result.Failed).To(BeFalse(), result.Msg)
		g.Expect(result.Changed).To(BeTrue())
		g.Expect(writeCalls(client.Calls())).To(Equal([]string{"remove " + desired.DN, "commit"}))
		g.Expect(result.ChangeSet.Entries[0].Action).To(Equal(reconcile.DeletedAction))
		g.Expect(client.Len()).To(Equal(0))
	})

	t.Run("is idempotent", func(t *testing.T) {
		result := r.Reconcile(ctx, desired, reconcile.Absent, reconcile.Apply)
		g.Expect(result.Changed).To(BeFalse())
	})
}

func TestReconcile_Errors(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()
	desired := template.Build(map[string]string{"name": generateName("sp")})

	t.Run("reports query errors", func(t *testing.T) {
		client := mo.NewMemoryClient()
		client.FailOn(mo.QueryOp, errors.New("connection refused"))

		result := reconcile.NewReconciler(client).Reconcile(ctx, desired, reconcile.Present, reconcile.Apply)
		g.Expect(result.Failed).To(BeTrue())
		g.Expect(result.Changed).To(BeFalse())
		g.Expect(result.Msg).To(HavePrefix("setup error: "))
		g.Expect(result.Msg).To(ContainSubstring("connection refused"))
		g.Expect(writeCalls(client.Calls())).To(BeEmpty())
	})

	t.Run("reports commit errors without retry", func(t *testing.T) {
		client := mo.NewMemoryClient()
		client.FailOn(mo.CommitOp, errors.New("session expired"))

		result := reconcile.NewReconciler(client).Reconcile(ctx, desired, reconcile.Present, reconcile.Apply)
		g.Expect(result.Failed).To(BeTrue())
		g.Expect(result.Changed).To(BeFalse())
		g.Expect(result.Msg).To(ContainSubstring("commit failed"))
		g.Expect(writeCalls(client.Calls())).To(Equal([]string{"add " + desired.DN, "commit"}))
	})

	t.Run("reports remove errors", func(t *testing.T) {
		client := mo.NewMemoryClient(desired.ManagedObject())
		client.FailOn(mo.RemoveOp, errors.New("access denied"))

		result := reconcile.NewReconciler(client).Reconcile(ctx, desired, reconcile.Absent, reconcile.Apply)
		g.Expect(result.Failed).To(BeTrue())
		g.Expect(result.Msg).To(ContainSubstring("delete failed"))
		g.Expect(client.Len()).To(Equal(5))
	})

	t.Run("rejects unknown state", func(t *testing.T) {
		client := mo.NewMemoryClient()
		result := reconcile.NewReconciler(client).Reconcile(ctx, desired, reconcile.State("gone"), reconcile.Apply)
		g.Expect(result.Failed).To(BeTrue())
		g.Expect(client.Calls()).To(BeEmpty())
	})
}

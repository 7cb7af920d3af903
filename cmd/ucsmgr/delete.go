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
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stefanprodan/ucsmgr/pkg/reconcile"
	"github.com/stefanprodan/ucsmgr/pkg/template"
	"github.com/stefanprodan/ucsmgr/pkg/xmlapi"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete removes the service profile template and all its children from UCS Manager.",
	Example: `  ucsmgr delete --name <name> [--org-dn <org dn>] [--dry-run]

  # Delete a template from a sub-organization
  ucsmgr delete --name web --org-dn org-root/org-prod
`,
	RunE: runDeleteCmd,
}

type deleteFlags struct {
	name   string
	orgDN  string
	dryRun bool
}

var deleteArgs deleteFlags

func init() {
	deleteCmd.Flags().StringVar(&deleteArgs.name, "name", "", "The name of the service profile template.")
	deleteCmd.Flags().StringVar(&deleteArgs.orgDN, "org-dn", "",
		"The distinguished name of the organization, defaults to the config value.")
	deleteCmd.Flags().BoolVar(&deleteArgs.dryRun, "dry-run", false,
		"Report whether the template would be deleted without modifying UCS Manager.")

	rootCmd.AddCommand(deleteCmd)
}

func runDeleteCmd(cmd *cobra.Command, args []string) error {
	if err := validateOutput(); err != nil {
		return err
	}
	if deleteArgs.name == "" {
		return fmt.Errorf("--name is required")
	}

	orgDN := deleteArgs.orgDN
	if orgDN == "" {
		orgDN = cfg.OrgDN
	}

	opts, err := template.ParseOptions(map[string]string{
		"name":   deleteArgs.name,
		"org_dn": orgDN,
		"state":  string(reconcile.Absent),
	})
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	mode := reconcile.Apply
	if deleteArgs.dryRun {
		mode = reconcile.DryRun
	}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	result, err := withSession(ctx, func(client *xmlapi.Client) reconcile.Result {
		r := reconcile.NewReconciler(client, reconcile.WithLogger(newDebugLogger("reconcile")))
		return r.Reconcile(ctx, opts.Desired(), reconcile.Absent, mode)
	})
	if err != nil {
		return err
	}

	if rootArgs.output == textOutput && !result.Failed && !result.Changed {
		logger.Println(opts.DN(), "not found")
	}

	return printResult(result, false)
}

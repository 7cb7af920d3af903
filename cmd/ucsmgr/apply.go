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
	"github.com/stefanprodan/ucsmgr/pkg/xmlapi"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply reconciles the service profile template defined by the given options with UCS Manager.",
	Example: `  ucsmgr apply -f <options file> [--set key=value] [--dry-run]

  # Create or update the template defined in a file
  ucsmgr apply -f ./templates/web.yaml --hostname 10.0.0.10 --password-file ./password

  # Override the power state and preview the outcome
  ucsmgr apply -f ./templates/web.yaml --set power_state=down --dry-run

  # Delete the template defined in a file
  ucsmgr apply -f ./templates/web.yaml --set state=absent
`,
	RunE: runApplyCmd,
}

type applyFlags struct {
	filename string
	set      []string
	dryRun   bool
}

var applyArgs applyFlags

func init() {
	applyCmd.Flags().StringVarP(&applyArgs.filename, "filename", "f", "",
		"Path to a YAML file containing the template options, use '-' to read from stdin.")
	applyCmd.Flags().StringArrayVar(&applyArgs.set, "set", nil,
		"Set an option value in the format key=value, overrides the values from the file.")
	applyCmd.Flags().BoolVar(&applyArgs.dryRun, "dry-run", false,
		"Report whether the template would change without modifying UCS Manager.")

	rootCmd.AddCommand(applyCmd)
}

func runApplyCmd(cmd *cobra.Command, args []string) error {
	if err := validateOutput(); err != nil {
		return err
	}

	opts, err := readOptions(applyArgs.filename, applyArgs.set)
	if err != nil {
		return err
	}

	mode := reconcile.Apply
	if applyArgs.dryRun {
		mode = reconcile.DryRun
	}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	desired := opts.Desired()
	if rootArgs.output == textOutput {
		logger.Println(fmt.Sprintf("reconciling %s (%s)...", desired.DN, mode))
	}

	result, err := withSession(ctx, func(client *xmlapi.Client) reconcile.Result {
		r := reconcile.NewReconciler(client, reconcile.WithLogger(newDebugLogger("reconcile")))
		return r.Reconcile(ctx, desired, opts.ReconcileState(), mode)
	})
	if err != nil {
		return err
	}

	return printResult(result, false)
}

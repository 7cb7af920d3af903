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

	"github.com/spf13/cobra"

	"github.com/stefanprodan/ucsmgr/pkg/reconcile"
	"github.com/stefanprodan/ucsmgr/pkg/xmlapi"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Diff compares the service profile template defined by the given options with the live one and prints the property diff.",
	Example: `  ucsmgr diff -f <options file> [--set key=value]

  # Print the objects that would be created or reconfigured
  ucsmgr diff -f ./templates/web.yaml --set boot_policy=pxe
`,
	RunE: runDiffCmd,
}

type diffFlags struct {
	filename string
	set      []string
}

var diffArgs diffFlags

func init() {
	diffCmd.Flags().StringVarP(&diffArgs.filename, "filename", "f", "",
		"Path to a YAML file containing the template options, use '-' to read from stdin.")
	diffCmd.Flags().StringArrayVar(&diffArgs.set, "set", nil,
		"Set an option value in the format key=value, overrides the values from the file.")

	rootCmd.AddCommand(diffCmd)
}

func runDiffCmd(cmd *cobra.Command, args []string) error {
	if err := validateOutput(); err != nil {
		return err
	}

	opts, err := readOptions(diffArgs.filename, diffArgs.set)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	desired := opts.Desired()
	result, err := withSession(ctx, func(client *xmlapi.Client) reconcile.Result {
		r := reconcile.NewReconciler(client, reconcile.WithLogger(newDebugLogger("reconcile")))
		return r.Reconcile(ctx, desired, opts.ReconcileState(), reconcile.DryRun)
	})
	if err != nil {
		return err
	}

	if rootArgs.output == jsonOutput || result.Failed {
		return printResult(result, true)
	}

	for _, change := range result.ChangeSet.Drifted() {
		switch change.Action {
		case reconcile.ConfiguredAction:
			rootCmd.Println(`►`, change.Subject, "drifted")
		default:
			rootCmd.Println(`►`, change.Subject, change.Action)
		}
		printDiff(change.Diff)
	}

	return nil
}

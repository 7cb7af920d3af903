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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stefanprodan/ucsmgr/pkg/reconcile"
	"github.com/stefanprodan/ucsmgr/pkg/template"
)

const (
	textOutput = "text"
	jsonOutput = "json"
)

var errReconcileFailed = errors.New("reconciliation failed")

// readOptions merges the options file with the --set values and validates the result.
func readOptions(filename string, set []string) (template.Options, error) {
	if filename == "" && len(set) == 0 {
		return template.Options{}, fmt.Errorf("-f or --set is required")
	}

	values := map[string]string{}
	if filename != "" {
		var r io.Reader = os.Stdin
		if filename != "-" {
			f, err := os.Open(filename)
			if err != nil {
				return template.Options{}, err
			}
			defer f.Close()
			r = f
		}

		fileValues, err := template.ReadValues(r)
		if err != nil {
			return template.Options{}, fmt.Errorf("reading %s failed, error: %w", filename, err)
		}
		for k, v := range fileValues {
			values[k] = v
		}
	}

	setValues, err := template.ParseSetValues(set)
	if err != nil {
		return template.Options{}, err
	}
	for k, v := range setValues {
		values[k] = v
	}

	if _, ok := values["org_dn"]; !ok && cfg.OrgDN != "" {
		values["org_dn"] = cfg.OrgDN
	}

	opts, err := template.ParseOptions(values)
	if err != nil {
		return opts, err
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}

	return opts, nil
}

func validateOutput() error {
	switch rootArgs.output {
	case textOutput, jsonOutput:
		return nil
	default:
		return fmt.Errorf("unsupported output format '%s', can be '%s' or '%s'", rootArgs.output, textOutput, jsonOutput)
	}
}

func failedResult(err error) reconcile.Result {
	return reconcile.Result{
		Failed: true,
		Msg:    fmt.Sprintf("setup error: %s", err),
	}
}

// printResult writes the result in the selected format.
// A failed result is turned into an error so that the process exits with 1.
func printResult(result reconcile.Result, withDiff bool) error {
	if rootArgs.output == jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		rootCmd.Println(string(data))
		if result.Failed {
			return errReconcileFailed
		}
		return nil
	}

	if result.ChangeSet != nil {
		for _, change := range result.ChangeSet.Entries {
			logger.Println(change.String())
			if withDiff && change.Diff != "" {
				printDiff(change.Diff)
			}
		}
	}

	rootCmd.Println("changed:", result.Changed)
	if result.Failed {
		return errors.New(result.Msg)
	}
	return nil
}

func printDiff(diff string) {
	for _, line := range strings.Split(diff, "\n") {
		if strings.TrimSpace(line) != "" {
			rootCmd.Println(line)
		}
	}
}

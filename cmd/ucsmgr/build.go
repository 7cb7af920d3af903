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
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build validates the given options and prints the desired object tree as YAML.",
	Example: `  ucsmgr build -f <options file> [--set key=value]

  # Print the objects of a template with a server pool
  ucsmgr build --set name=web --set server_pool=blades
`,
	RunE: runBuildCmd,
}

type buildFlags struct {
	filename string
	set      []string
}

var buildArgs buildFlags

func init() {
	buildCmd.Flags().StringVarP(&buildArgs.filename, "filename", "f", "",
		"Path to a YAML file containing the template options, use '-' to read from stdin.")
	buildCmd.Flags().StringArrayVar(&buildArgs.set, "set", nil,
		"Set an option value in the format key=value, overrides the values from the file.")

	rootCmd.AddCommand(buildCmd)
}

func runBuildCmd(cmd *cobra.Command, args []string) error {
	opts, err := readOptions(buildArgs.filename, buildArgs.set)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(opts.Desired())
	if err != nil {
		return err
	}

	rootCmd.Print(string(data))
	return nil
}

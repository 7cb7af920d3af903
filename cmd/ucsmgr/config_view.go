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
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/stefanprodan/ucsmgr/pkg/config"
)

var configView = &cobra.Command{
	Use: "view",
	Short: "Display the effective config values, from '$HOME/.ucsmgr/config' overridden by the UCS_* environment variables and the command flags. " +
		"If no config file is found, the default in-memory values are displayed.",
	RunE: runConfigViewCmd,
}

func init() {
	configCmd.AddCommand(configView)
}

func runConfigViewCmd(cmd *cobra.Command, args []string) error {
	effective := *cfg
	a := applianceSettings()
	effective.Appliance = &a

	data, err := yaml.Marshal(effective)
	if err != nil {
		return err
	}
	rootCmd.Println(string(data))
	rootCmd.Println("# password:", passwordSource(a))
	return nil
}

// passwordSource describes where the login password is read from without revealing it.
func passwordSource(a config.Appliance) string {
	switch {
	case a.PasswordFile != "" && a.AgeIdentity != "":
		return fmt.Sprintf("age encrypted file %s", a.PasswordFile)
	case a.PasswordFile != "":
		return fmt.Sprintf("file %s", a.PasswordFile)
	case envPassword != "":
		return fmt.Sprintf("$%s (%s)", config.PasswordEnv, maskPassword(envPassword))
	default:
		return "not set"
	}
}

func maskPassword(password string) string {
	return fmt.Sprintf("%d characters", len(password))
}

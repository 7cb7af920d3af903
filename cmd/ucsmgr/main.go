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
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stefanprodan/ucsmgr/pkg/config"
)

var VERSION = "1.0.0-dev.0"

const PROJECT = "ucsmgr"

var rootCmd = &cobra.Command{
	Use:           PROJECT,
	Version:       VERSION,
	SilenceUsage:  true,
	SilenceErrors: true,
	Short:         "A command line utility to reconcile Cisco UCS Manager service profile templates.",
	Long: `Ucsmgr converges UCS Manager service profile templates to a desired state.

Build and inspect the desired state:

- ucsmgr build -f template.yaml [--set key=value]

Reconcile the desired state with UCS Manager:

- ucsmgr diff -f template.yaml [--set key=value]
- ucsmgr apply -f template.yaml [--set key=value] [--dry-run]
- ucsmgr delete --name <name> [--org-dn <org dn>] [--dry-run]

Inspect the live configuration:

- ucsmgr get template <name> [--org-dn <org dn>]
`,
}

type rootFlags struct {
	timeout      time.Duration
	hostname     string
	port         int
	useSSL       bool
	insecure     bool
	username     string
	passwordFile string
	ageIdentity  string
	output       string
	verbose      bool
}

var (
	rootArgs    = rootFlags{}
	logger      = stderrLogger{stderr: os.Stderr}
	cfg         = config.NewConfig()
	envPassword string
)

func init() {
	rootCmd.PersistentFlags().DurationVar(&rootArgs.timeout, "timeout", time.Minute,
		"The length of time to wait before giving up on the current operation.")
	rootCmd.PersistentFlags().StringVar(&rootArgs.hostname, "hostname", "",
		"The IP address or hostname of UCS Manager, overrides the config and $UCS_HOSTNAME.")
	rootCmd.PersistentFlags().IntVar(&rootArgs.port, "port", 0,
		"The UCS Manager port, defaults to 443 with SSL and 80 without.")
	rootCmd.PersistentFlags().BoolVar(&rootArgs.useSSL, "use-ssl", true,
		"Connect to UCS Manager over https.")
	rootCmd.PersistentFlags().BoolVar(&rootArgs.insecure, "insecure", false,
		"Skip the TLS certificate verification.")
	rootCmd.PersistentFlags().StringVar(&rootArgs.username, "username", "",
		"The UCS Manager login name, overrides the config and $UCS_USERNAME.")
	rootCmd.PersistentFlags().StringVar(&rootArgs.passwordFile, "password-file", "",
		"Path to a file containing the password, if not set $UCS_PASSWORD is used.")
	rootCmd.PersistentFlags().StringVar(&rootArgs.ageIdentity, "age-identity", "",
		"Path to the age identities file used to decrypt the password file.")
	rootCmd.PersistentFlags().StringVarP(&rootArgs.output, "output", "o", "text",
		"The format of the reconciliation result, can be 'text' or 'json'.")
	rootCmd.PersistentFlags().BoolVarP(&rootArgs.verbose, "verbose", "v", false,
		"Print the client and reconciler diagnostics to stderr.")

	rootCmd.DisableAutoGenTag = true
	rootCmd.SetOut(os.Stdout)
}

func main() {
	loadConfig()
	if err := rootCmd.Execute(); err != nil {
		logger.Println(`✗`, err)
		os.Exit(1)
	}
}

func loadConfig() {
	if c, err := config.Read(""); err != nil {
		logger.Println(`✗`, fmt.Errorf("loading the config failed, error: %w", err))
	} else {
		cfg = c
	}

	if err := config.LoadEnv(config.DefaultEnvFiles...); err != nil {
		logger.Println(`✗`, err)
	}

	password, err := cfg.ApplyEnv()
	if err != nil {
		logger.Println(`✗`, fmt.Errorf("loading the environment failed, error: %w", err))
	}
	envPassword = password
}

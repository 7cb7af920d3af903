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

	"github.com/stefanprodan/ucsmgr/pkg/config"
	"github.com/stefanprodan/ucsmgr/pkg/reconcile"
	"github.com/stefanprodan/ucsmgr/pkg/secrets"
	"github.com/stefanprodan/ucsmgr/pkg/xmlapi"
)

// applianceSettings merges the config file, the environment and the command flags,
// the flags take precedence.
func applianceSettings() config.Appliance {
	return withApplianceFlags(*cfg.Appliance)
}

func withApplianceFlags(a config.Appliance) config.Appliance {
	flags := rootCmd.PersistentFlags()

	if flags.Changed("hostname") {
		a.Hostname = rootArgs.hostname
	}
	if flags.Changed("port") {
		a.Port = rootArgs.port
	}
	useSSL := a.SSL()
	if flags.Changed("use-ssl") {
		useSSL = rootArgs.useSSL
	}
	a.UseSSL = &useSSL
	if flags.Changed("insecure") {
		a.Insecure = rootArgs.insecure
	}
	if flags.Changed("username") {
		a.Username = rootArgs.username
	}
	if flags.Changed("password-file") {
		a.PasswordFile = rootArgs.passwordFile
	}
	if flags.Changed("age-identity") {
		a.AgeIdentity = rootArgs.ageIdentity
	}

	return a
}

func applianceSettingsPassword(a config.Appliance) (string, error) {
	if a.PasswordFile != "" {
		return secrets.ReadPassword(a.PasswordFile, a.AgeIdentity)
	}
	if envPassword != "" {
		return envPassword, nil
	}
	return "", fmt.Errorf("--password-file or $%s is required", config.PasswordEnv)
}

// newApplianceClient validates the connection settings and returns a client
// along with the login credentials.
func newApplianceClient() (*xmlapi.Client, string, string, error) {
	a := applianceSettings()
	if a.Hostname == "" {
		return nil, "", "", fmt.Errorf("--hostname or $%s is required", config.HostnameEnv)
	}

	password, err := applianceSettingsPassword(a)
	if err != nil {
		return nil, "", "", err
	}

	client := xmlapi.NewClient(xmlapi.Endpoint(a.Hostname, a.Port, a.SSL()),
		xmlapi.WithInsecure(a.Insecure),
		xmlapi.WithVersionConstraint(cfg.MinVersion),
		xmlapi.WithLogger(newDebugLogger("xmlapi")),
	)

	return client, a.Username, password, nil
}

// withSession runs fn between login and logout. Login failures are returned
// as a failed result so that they are reported the same way as reconciliation errors.
func withSession(ctx context.Context, fn func(*xmlapi.Client) reconcile.Result) (reconcile.Result, error) {
	client, username, password, err := newApplianceClient()
	if err != nil {
		return reconcile.Result{}, err
	}

	if err := client.Login(ctx, username, password); err != nil {
		if xmlapi.IsAuthError(err) {
			err = fmt.Errorf("login as %s rejected, check the username and the password, error: %w", username, err)
		}
		return failedResult(err), nil
	}
	defer func() {
		if err := client.Logout(ctx); err != nil {
			logger.Println(`✗`, err)
		}
	}()

	return fn(client), nil
}

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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

const (
	UcsmgrConfigKind       = "Config"
	UcsmgrConfigApiVersion = "ucsmgr.dev/v1"
	DefaultOrgDN           = "org-root"
)

type Config struct {
	Kind       string `json:"kind"`
	APIVersion string `json:"apiVersion"`

	// Appliance holds the UCS Manager connection settings.
	Appliance *Appliance `json:"appliance,omitempty"`

	// MinVersion is a semver constraint the UCS Manager version must satisfy e.g. '>= 3.1'.
	MinVersion string `json:"minVersion,omitempty"`

	// OrgDN is the default organization of the service profile templates.
	OrgDN string `json:"orgDN,omitempty"`
}

type Appliance struct {
	// Hostname is the IP address or hostname of UCS Manager.
	Hostname string `json:"hostname,omitempty"`

	// Port defaults to 443 with SSL and 80 without when not set.
	Port int `json:"port,omitempty"`

	// UseSSL selects https, enabled by default.
	UseSSL *bool `json:"useSSL,omitempty"`

	// Insecure disables the TLS certificate verification.
	Insecure bool `json:"insecure,omitempty"`

	// Username is the login name.
	Username string `json:"username,omitempty"`

	// PasswordFile points to a file containing the password,
	// the file can be encrypted with age.
	PasswordFile string `json:"passwordFile,omitempty"`

	// AgeIdentity points to the age identities file used to decrypt the password file.
	AgeIdentity string `json:"ageIdentity,omitempty"`
}

// NewConfig returns a config with the default connection settings.
func NewConfig() *Config {
	return &Config{
		Kind:       UcsmgrConfigKind,
		APIVersion: UcsmgrConfigApiVersion,
		Appliance:  defaultAppliance(),
		OrgDN:      DefaultOrgDN,
	}
}

func defaultAppliance() *Appliance {
	useSSL := true
	return &Appliance{
		UseSSL:   &useSSL,
		Username: "admin",
	}
}

// SSL returns the UseSSL value, true if not set.
func (a *Appliance) SSL() bool {
	return a.UseSSL == nil || *a.UseSSL
}

// DefaultConfigPath returns '$HOME/.ucsmgr/config'
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".ucsmgr/config"), nil
}

// Read loads the config from the specified path,
// if the config file is not found, a default is returned.
func Read(configPath string) (*Config, error) {
	if configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("$HOME dir can't be determined, error: %w", err)
		}
		configPath = p
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return NewConfig(), nil
	}

	cfgData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(cfgData, cfg); err != nil {
		return nil, err
	}

	if cfg.Kind != "" && cfg.Kind != UcsmgrConfigKind {
		return nil, fmt.Errorf("the config kind must be %s", UcsmgrConfigKind)
	}

	if cfg.Appliance == nil {
		cfg.Appliance = defaultAppliance()
	}

	if cfg.Appliance.UseSSL == nil {
		cfg.Appliance.UseSSL = defaultAppliance().UseSSL
	}

	if cfg.OrgDN == "" {
		cfg.OrgDN = DefaultOrgDN
	}

	if cfg.Appliance.Port < 0 || cfg.Appliance.Port > 65535 {
		return nil, fmt.Errorf("the appliance port %d is out of range", cfg.Appliance.Port)
	}

	if cfg.Appliance.AgeIdentity != "" && cfg.Appliance.PasswordFile == "" {
		return nil, fmt.Errorf("the age identity can't be used without a password file")
	}

	return cfg, nil
}

// Write saves the config at the given path, if no path is specified
// it will create or override '$HOME/.ucsmgr/config'.
func (c *Config) Write(configPath string) error {
	if configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		configPath = p
	}

	if err := os.MkdirAll(filepath.Dir(configPath), os.FileMode(0755)); err != nil {
		return err
	}

	cfgData, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, cfgData, os.FileMode(0600)); err != nil {
		return err
	}

	return nil
}

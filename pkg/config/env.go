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
	"strconv"

	"github.com/joho/godotenv"
)

const (
	HostnameEnv = "UCS_HOSTNAME"
	PortEnv     = "UCS_PORT"
	UsernameEnv = "UCS_USERNAME"
	PasswordEnv = "UCS_PASSWORD"
)

// DefaultEnvFiles are loaded in order, values already present in the environment are kept.
var DefaultEnvFiles = []string{".env.local", ".env"}

// LoadEnv loads the given dotenv files into the process environment,
// missing files are skipped.
func LoadEnv(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("loading %s failed, error: %w", file, err)
		}
	}
	return nil
}

// ApplyEnv overrides the appliance settings with the UCS_* environment variables.
// It returns the password found in the environment, if any.
func (c *Config) ApplyEnv() (string, error) {
	if c.Appliance == nil {
		c.Appliance = defaultAppliance()
	}

	if v := os.Getenv(HostnameEnv); v != "" {
		c.Appliance.Hostname = v
	}

	if v := os.Getenv(PortEnv); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 0 || port > 65535 {
			return "", fmt.Errorf("invalid %s value '%s'", PortEnv, v)
		}
		c.Appliance.Port = port
	}

	if v := os.Getenv(UsernameEnv); v != "" {
		c.Appliance.Username = v
	}

	return os.Getenv(PasswordEnv), nil
}

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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefanprodan/ucsmgr/pkg/secrets"
)

var configEncryptPassword = &cobra.Command{
	Use:   "encrypt-password",
	Short: "Encrypt the UCS Manager password with age and write it to a file usable with --password-file.",
	Example: `  # Encrypt the password read from stdin
  echo -n "$UCS_PASSWORD" | ucsmgr config encrypt-password --age-recipients ./keys.pub --output ~/.ucsmgr/password.age

  # Use the encrypted password file
  ucsmgr apply -f template.yaml --password-file ~/.ucsmgr/password.age --age-identity ./keys.txt
`,
	RunE: runConfigEncryptPasswordCmd,
}

type configEncryptPasswordFlags struct {
	ageRecipients string
	input         string
	output        string
}

var configEncryptPasswordArgs configEncryptPasswordFlags

func init() {
	configEncryptPassword.Flags().StringVar(&configEncryptPasswordArgs.ageRecipients, "age-recipients", "",
		"Path to a file containing the age recipients, one per line.")
	configEncryptPassword.Flags().StringVar(&configEncryptPasswordArgs.input, "input", "",
		"Path to the plain text password file, if not set the password is read from stdin.")
	configEncryptPassword.Flags().StringVar(&configEncryptPasswordArgs.output, "output", "",
		"Path to the encrypted password file.")
	configCmd.AddCommand(configEncryptPassword)
}

func runConfigEncryptPasswordCmd(cmd *cobra.Command, args []string) error {
	if configEncryptPasswordArgs.ageRecipients == "" {
		return fmt.Errorf("--age-recipients is required")
	}
	if configEncryptPasswordArgs.output == "" {
		return fmt.Errorf("--output is required")
	}

	recipients, err := secrets.ParseAgeRecipients(configEncryptPasswordArgs.ageRecipients)
	if err != nil {
		return fmt.Errorf("parsing age recipients failed, error: %w", err)
	}

	var data []byte
	if configEncryptPasswordArgs.input != "" {
		data, err = os.ReadFile(configEncryptPasswordArgs.input)
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("reading password failed, error: %w", err)
	}

	password := strings.TrimRight(string(data), "\r\n")
	if password == "" {
		return fmt.Errorf("the password is empty")
	}
	if secrets.IsEncrypted(data) {
		return fmt.Errorf("the password is already encrypted")
	}

	encrypted, err := secrets.Encrypt([]byte(password), recipients)
	if err != nil {
		return fmt.Errorf("encrypting password failed, error: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configEncryptPasswordArgs.output), os.FileMode(0755)); err != nil {
		return err
	}
	if err := os.WriteFile(configEncryptPasswordArgs.output, encrypted, os.FileMode(0600)); err != nil {
		return err
	}

	logger.Println("encrypted password written to", configEncryptPasswordArgs.output)
	return nil
}

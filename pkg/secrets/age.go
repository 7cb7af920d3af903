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

package secrets

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"
)

func ParseAgeRecipients(filePath string) ([]age.Recipient, error) {
	if filePath != "" {
		f, err := os.Open(filePath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return age.ParseRecipients(f)
	}

	return nil, nil
}

func ParseAgeIdentities(filePath string) ([]age.Identity, error) {
	var identities []age.Identity
	if filePath != "" {
		f, err := os.Open(filePath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return age.ParseIdentities(f)
	}

	return identities, nil
}

// Encrypt returns the armored age ciphertext of data.
func Encrypt(data []byte, recipients []age.Recipient) ([]byte, error) {
	buffer := &bytes.Buffer{}
	aw := armor.NewWriter(buffer)
	w, err := age.Encrypt(aw, recipients...)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	if err := aw.Close(); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

// Decrypt accepts both armored and binary age payloads.
func Decrypt(data []byte, identities []age.Identity) ([]byte, error) {
	var src io.Reader = bytes.NewReader(data)
	br := bufio.NewReader(src)
	if start, _ := br.Peek(len(armor.Header)); string(start) == armor.Header {
		src = armor.NewReader(br)
	} else {
		src = br
	}

	r, err := age.Decrypt(src, identities...)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	if _, err := io.Copy(&b, r); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// IsEncrypted reports whether data starts with an age header.
func IsEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, []byte(armor.Header)) ||
		bytes.HasPrefix(data, []byte("age-encryption.org/"))
}

// ReadPassword reads the password file, decrypting it when an identity file is given.
// Trailing new lines are trimmed.
func ReadPassword(passwordFile, identityFile string) (string, error) {
	data, err := os.ReadFile(passwordFile)
	if err != nil {
		return "", fmt.Errorf("reading password file failed, error: %w", err)
	}

	if identityFile != "" {
		identities, err := ParseAgeIdentities(identityFile)
		if err != nil {
			return "", fmt.Errorf("parsing age identities failed, error: %w", err)
		}
		data, err = Decrypt(data, identities)
		if err != nil {
			return "", fmt.Errorf("decrypting password file failed, error: %w", err)
		}
	} else if IsEncrypted(data) {
		return "", fmt.Errorf("password file %s is encrypted, an age identity is required", passwordFile)
	}

	password := strings.TrimRight(string(data), "\r\n")
	if password == "" {
		return "", fmt.Errorf("password file %s is empty", passwordFile)
	}
	return password, nil
}

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

package xmlapi

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// ucsVersion matches UCS Manager versions e.g. '4.1(3b)' or '3.2(3a)T'.
var ucsVersion = regexp.MustCompile(`^(\d+)\.(\d+)\((\d+)[a-zA-Z]*\)`)

// ParseVersion converts a UCS Manager version to a semantic version,
// the patch letter is dropped: '4.1(3b)' becomes '4.1.3'.
func ParseVersion(version string) (*semver.Version, error) {
	m := ucsVersion.FindStringSubmatch(version)
	if m == nil {
		v, err := semver.NewVersion(version)
		if err != nil {
			return nil, fmt.Errorf("invalid version '%s'", version)
		}
		return v, nil
	}
	return semver.NewVersion(fmt.Sprintf("%s.%s.%s", m[1], m[2], m[3]))
}

// CheckVersion verifies that the appliance version satisfies the constraint e.g. '>= 3.1'.
func CheckVersion(version, constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint '%s', error: %w", constraint, err)
	}
	v, err := ParseVersion(version)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("appliance version %s does not satisfy '%s'", version, constraint)
	}
	return nil
}

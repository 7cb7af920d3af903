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
	"errors"
	"fmt"
)

// Error codes returned by UCS Manager.
const (
	AuthenticationFailedCode = "551"
	AuthorizationFailedCode  = "552"
	ConfigurationFailedCode  = "103"
)

// ErrNotLoggedIn is returned by calls made without a session cookie.
var ErrNotLoggedIn = errors.New("not logged in")

// Error is a fault reported by the appliance.
type Error struct {
	Method      string
	Code        string
	Description string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error %s: %s", e.Method, e.Code, e.Description)
}

// IsAuthError reports whether the error was caused by an invalid or expired session.
func IsAuthError(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == AuthenticationFailedCode || apiErr.Code == AuthorizationFailedCode
	}
	return errors.Is(err, ErrNotLoggedIn)
}

func errorFromElement(e Element) error {
	code := e.Attr("errorCode")
	if code == "" || code == "0" {
		return nil
	}
	return &Error{
		Method:      e.Name(),
		Code:        code,
		Description: e.Attr("errorDescr"),
	}
}

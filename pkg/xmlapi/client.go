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
	"bytes"
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-logr/logr"

	"github.com/stefanprodan/ucsmgr/pkg/mo"
)

const (
	// Path is the XML API endpoint path.
	Path = "/nuova"

	createdStatus = "created,modified"
	deletedStatus = "deleted"
)

// Endpoint returns the XML API URL of the appliance.
func Endpoint(hostname string, port int, useSSL bool) string {
	scheme := "https"
	if !useSSL {
		scheme = "http"
	}
	if port == 0 {
		port = 443
		if !useSSL {
			port = 80
		}
	}
	return fmt.Sprintf("%s://%s:%d%s", scheme, hostname, port, Path)
}

// Client implements mo.Client for the UCS Manager XML API.
// Changes are staged locally and sent in a single configConfMos request on Commit.
type Client struct {
	endpoint          string
	httpClient        *http.Client
	log               logr.Logger
	versionConstraint string

	cookie  string
	version string
	pending []Element
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithInsecure disables the TLS certificate verification.
func WithInsecure(insecure bool) Option {
	return func(c *Client) {
		if !insecure {
			return
		}
		c.httpClient.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(log logr.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithVersionConstraint makes Login fail if the appliance version doesn't satisfy the semver constraint.
func WithVersionConstraint(constraint string) Option {
	return func(c *Client) {
		c.versionConstraint = constraint
	}
}

// NewClient creates a client for the given XML API URL.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: time.Minute},
		log:        logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Version returns the appliance version reported at login.
func (c *Client) Version() string {
	return c.version
}

// Login opens a session and verifies the appliance version.
func (c *Client) Login(ctx context.Context, username, password string) error {
	req := NewElement("aaaLogin", "inName", username, "inPassword", password)
	resp, err := c.do(ctx, req)
	if err != nil {
		return fmt.Errorf("login to %s failed, error: %w", c.endpoint, err)
	}

	c.cookie = resp.Attr("outCookie")
	c.version = resp.Attr("outVersion")
	if c.cookie == "" {
		return fmt.Errorf("login to %s failed, error: no session cookie returned", c.endpoint)
	}
	c.log.V(1).Info("logged in", "endpoint", c.endpoint, "version", c.version)

	if err := CheckVersion(c.version, c.versionConstraint); err != nil {
		_ = c.Logout(ctx)
		return err
	}
	return nil
}

// Logout closes the session, it's a no-op when not logged in.
func (c *Client) Logout(ctx context.Context) error {
	if c.cookie == "" {
		return nil
	}
	req := NewElement("aaaLogout", "inCookie", c.cookie)
	c.cookie = ""
	c.pending = nil
	if _, err := c.do(ctx, req); err != nil {
		return fmt.Errorf("logout failed, error: %w", err)
	}
	return nil
}

// QueryDN returns the object without its children, or nil if it doesn't exist.
func (c *Client) QueryDN(ctx context.Context, dn string) (*mo.ManagedObject, error) {
	return c.resolve(ctx, dn, false)
}

// QueryTree returns the object with all its descendants, or nil if it doesn't exist.
func (c *Client) QueryTree(ctx context.Context, dn string) (*mo.ManagedObject, error) {
	return c.resolve(ctx, dn, true)
}

func (c *Client) resolve(ctx context.Context, dn string, hierarchical bool) (*mo.ManagedObject, error) {
	if c.cookie == "" {
		return nil, ErrNotLoggedIn
	}
	req := NewElement("configResolveDn",
		"cookie", c.cookie,
		"dn", dn,
		"inHierarchical", strconv.FormatBool(hierarchical))
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	out, ok := resp.Child("outConfig")
	if !ok || len(out.Children) == 0 {
		return nil, nil
	}
	parent, _ := mo.SplitDN(dn)
	return Decode(out.Children[0], parent), nil
}

// AddObject stages the creation of the object tree,
// with modifyPresent the properties of existing objects are overwritten.
func (c *Client) AddObject(ctx context.Context, object *mo.ManagedObject, modifyPresent bool) error {
	if c.cookie == "" {
		return ErrNotLoggedIn
	}
	status := "created"
	if modifyPresent {
		status = createdStatus
	}
	c.pending = append(c.pending, pair(object.DN, Encode(object, status)))
	return nil
}

// RemoveObject stages the removal of the object and its descendants.
func (c *Client) RemoveObject(ctx context.Context, object *mo.ManagedObject) error {
	if c.cookie == "" {
		return ErrNotLoggedIn
	}
	e := NewElement(lowerFirst(object.Class), "dn", object.DN, "status", deletedStatus)
	c.pending = append(c.pending, pair(object.DN, e))
	return nil
}

// Commit sends the staged changes, they are discarded whether the request succeeds or not.
func (c *Client) Commit(ctx context.Context) error {
	if c.cookie == "" {
		return ErrNotLoggedIn
	}
	if len(c.pending) == 0 {
		return nil
	}

	configs := NewElement("inConfigs")
	configs.Children = c.pending
	c.pending = nil

	req := NewElement("configConfMos", "cookie", c.cookie, "inHierarchical", "false")
	req.Children = []Element{configs}
	_, err := c.do(ctx, req)
	return err
}

func pair(key string, object Element) Element {
	p := NewElement("pair", "key", key)
	p.Children = []Element{object}
	return p
}

func (c *Client) do(ctx context.Context, req Element) (Element, error) {
	body, err := xml.Marshal(req)
	if err != nil {
		return Element{}, fmt.Errorf("%s encoding failed, error: %w", req.Name(), err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Element{}, err
	}
	httpReq.Header.Set("Content-Type", "application/xml")

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Element{}, fmt.Errorf("%s request failed, error: %w", req.Name(), err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Element{}, fmt.Errorf("%s reading response failed, error: %w", req.Name(), err)
	}
	c.log.V(2).Info("xml api call", "method", req.Name(), "status", httpResp.StatusCode, "duration", time.Since(start).String())

	if httpResp.StatusCode != http.StatusOK {
		return Element{}, fmt.Errorf("%s request failed, status: %s", req.Name(), httpResp.Status)
	}

	var resp Element
	if err := xml.Unmarshal(data, &resp); err != nil {
		return Element{}, fmt.Errorf("%s malformed response, error: %w", req.Name(), err)
	}
	if err := errorFromElement(resp); err != nil {
		return Element{}, err
	}
	return resp, nil
}

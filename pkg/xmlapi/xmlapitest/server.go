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

// Package xmlapitest provides a UCS Manager XML API server backed by an in-memory tree.
package xmlapitest

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/stefanprodan/ucsmgr/pkg/mo"
	"github.com/stefanprodan/ucsmgr/pkg/xmlapi"
)

const (
	DefaultUsername = "admin"
	DefaultPassword = "password"
	DefaultVersion  = "4.1(3b)"
)

// Server is an httptest server that speaks the subset of the XML API used by xmlapi.Client.
type Server struct {
	*httptest.Server

	// Store holds the configuration tree.
	Store *mo.MemoryClient

	Username string
	Password string
	Version  string

	mu       sync.Mutex
	sessions map[string]bool
	nextID   int
	methods  []string
}

// NewServer starts a server with the default credentials.
func NewServer(store *mo.MemoryClient) *Server {
	if store == nil {
		store = mo.NewMemoryClient()
	}
	s := &Server{
		Store:    store,
		Username: DefaultUsername,
		Password: DefaultPassword,
		Version:  DefaultVersion,
		sessions: map[string]bool{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Endpoint returns the XML API URL.
func (s *Server) Endpoint() string {
	return s.URL + xmlapi.Path
}

// Methods returns the XML API methods received so far.
func (s *Server) Methods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.methods...)
}

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != xmlapi.Path {
		http.NotFound(w, r)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req xmlapi.Element
	if err := xml.Unmarshal(data, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.methods = append(s.methods, req.Name())
	s.mu.Unlock()

	var resp xmlapi.Element
	switch req.Name() {
	case "aaaLogin":
		resp = s.login(req)
	case "aaaLogout":
		resp = s.logout(req)
	case "configResolveDn":
		resp = s.authorized(req, s.resolve)
	case "configConfMos":
		resp = s.authorized(req, s.configure)
	default:
		resp = fault(req.Name(), "101", fmt.Sprintf("unknown method %s", req.Name()))
	}

	out, err := xml.Marshal(resp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write(out)
}

func (s *Server) login(req xmlapi.Element) xmlapi.Element {
	if req.Attr("inName") != s.Username || req.Attr("inPassword") != s.Password {
		return fault(req.Name(), xmlapi.AuthenticationFailedCode, "Authentication failed")
	}

	s.mu.Lock()
	s.nextID++
	cookie := fmt.Sprintf("%d/session-%d", 1600000000+s.nextID, s.nextID)
	s.sessions[cookie] = true
	s.mu.Unlock()

	return xmlapi.NewElement(req.Name(),
		"cookie", "",
		"response", "yes",
		"outCookie", cookie,
		"outRefreshPeriod", "600",
		"outPriv", "admin,read-only",
		"outVersion", s.Version)
}

func (s *Server) logout(req xmlapi.Element) xmlapi.Element {
	s.mu.Lock()
	delete(s.sessions, req.Attr("inCookie"))
	s.mu.Unlock()

	return xmlapi.NewElement(req.Name(), "cookie", "", "response", "yes", "outStatus", "success")
}

func (s *Server) authorized(req xmlapi.Element, fn func(xmlapi.Element) xmlapi.Element) xmlapi.Element {
	s.mu.Lock()
	ok := s.sessions[req.Attr("cookie")]
	s.mu.Unlock()

	if !ok {
		return fault(req.Name(), xmlapi.AuthorizationFailedCode, "Authorization required")
	}
	return fn(req)
}

func (s *Server) resolve(req xmlapi.Element) xmlapi.Element {
	ctx := context.Background()
	dn := req.Attr("dn")

	var object *mo.ManagedObject
	var err error
	if req.Attr("inHierarchical") == "true" {
		object, err = s.Store.QueryTree(ctx, dn)
	} else {
		object, err = s.Store.QueryDN(ctx, dn)
	}
	if err != nil {
		return fault(req.Name(), "1", err.Error())
	}

	out := xmlapi.NewElement("outConfig")
	if object != nil {
		out.Children = []xmlapi.Element{xmlapi.Encode(object, "")}
	}
	resp := xmlapi.NewElement(req.Name(), "dn", dn, "cookie", req.Attr("cookie"), "response", "yes")
	resp.Children = []xmlapi.Element{out}
	return resp
}

func (s *Server) configure(req xmlapi.Element) xmlapi.Element {
	ctx := context.Background()
	configs, _ := req.Child("inConfigs")

	for _, p := range configs.Children {
		if len(p.Children) == 0 {
			continue
		}
		e := p.Children[0]
		object := xmlapi.Decode(e, "")
		status := e.Attr("status")

		var err error
		if strings.Contains(status, "deleted") {
			err = s.Store.RemoveObject(ctx, object)
		} else {
			err = s.Store.AddObject(ctx, object, strings.Contains(status, "modified"))
		}
		if err != nil {
			return fault(req.Name(), xmlapi.ConfigurationFailedCode, err.Error())
		}
	}

	if err := s.Store.Commit(ctx); err != nil {
		return fault(req.Name(), xmlapi.ConfigurationFailedCode, err.Error())
	}

	resp := xmlapi.NewElement(req.Name(), "cookie", req.Attr("cookie"), "response", "yes")
	out := xmlapi.NewElement("outConfigs")
	out.Children = configs.Children
	resp.Children = []xmlapi.Element{out}
	return resp
}

func fault(method, code, descr string) xmlapi.Element {
	return xmlapi.NewElement(method,
		"cookie", "",
		"response", "yes",
		"errorCode", code,
		"invocationResult", "unidentified-fail",
		"errorDescr", descr)
}

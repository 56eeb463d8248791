// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package handlers adapts photometry service functions to http.Handler. JSON handlers return a
// value (or error) and the handler writes it, generic ones write their own response
package handlers

import (
	"net/http"
	"path"
	"strings"

	"github.com/pixlise/photometry/api/services"
	"github.com/pixlise/photometry/core/api"
)

// MakeEndpointPath builds a mux path template, eg ("photometry", "runId") -> /photometry/{runId}
func MakeEndpointPath(pathPrefix string, pathParamNames ...string) string {
	parts := []string{"/" + pathPrefix}
	for _, param := range pathParamNames {
		parts = append(parts, "{"+strings.Trim(param, "/")+"}")
	}
	return path.Join(parts...)
}

// ApiHandlerParams is what a JSON handler gets to work with. PathParams also holds the first
// value of each query parameter
type ApiHandlerParams struct {
	Svcs       *services.APIServices
	PathParams map[string]string
	Request    *http.Request
}

type ApiHandlerFunc func(ApiHandlerParams) (interface{}, error)

// ApiHandlerJSON writes whatever its handler returns as JSON. A nil result is written as 204
// No Content, an error as its status code (see errorwithstatus) with the error text as body
type ApiHandlerJSON struct {
	*services.APIServices
	Handler ApiHandlerFunc
}

func (h ApiHandlerJSON) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Handler(ApiHandlerParams{Svcs: h.APIServices, PathParams: makePathParams(r), Request: r})
	if err != nil {
		logHandlerErrors(err, h.APIServices.Log, w, r)
		return
	}

	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	api.ToJSON(w, resp)
}

// ApiHandlerGenericParams is for handlers that write their own response body
type ApiHandlerGenericParams struct {
	Svcs       *services.APIServices
	PathParams map[string]string
	Writer     http.ResponseWriter
	Request    *http.Request
}

type ApiHandlerGenericFunc func(ApiHandlerGenericParams) error

type ApiHandlerGeneric struct {
	*services.APIServices
	Handler ApiHandlerGenericFunc
}

func (h ApiHandlerGeneric) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params := ApiHandlerGenericParams{Svcs: h.APIServices, PathParams: makePathParams(r), Writer: w, Request: r}
	if err := h.Handler(params); err != nil {
		logHandlerErrors(err, h.APIServices.Log, w, r)
	}
}

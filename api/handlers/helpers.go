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

package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pixlise/photometry/core/errorwithstatus"
	"github.com/pixlise/photometry/core/logger"
)

func makePathParams(r *http.Request) map[string]string {
	params := map[string]string{}
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			params[name] = values[0]
		}
	}

	// Path variables win over a query parameter of the same name
	for name, value := range mux.Vars(r) {
		params[name] = value
	}
	return params
}

func logHandlerErrors(err error, log logger.ILogger, w http.ResponseWriter, r *http.Request) {
	status := errorwithstatus.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("Request: %v (%v), Result: status=%v, error=%v", r.URL, r.Method, status, err)
	} else {
		log.Infof("Request: %v (%v), Result: status=%v, error=%v", r.URL, r.Method, status, err)
	}
	http.Error(w, err.Error(), status)
}

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

package apiRouter

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/gorilla/mux"
	"github.com/pixlise/photometry/api/handlers"
	"github.com/pixlise/photometry/api/services"
)

type ApiObjectRouter struct {
	Svcs   *services.APIServices
	Router *mux.Router

	routes map[string]bool
}

func NewAPIRouter(svcs *services.APIServices, router *mux.Router) ApiObjectRouter {
	return ApiObjectRouter{Svcs: svcs, Router: router, routes: map[string]bool{}}
}

func (r *ApiObjectRouter) AddJSONHandler(path string, method string, handleFunc handlers.ApiHandlerFunc) {
	r.addHandler(path, method, &handlers.ApiHandlerJSON{APIServices: r.Svcs, Handler: handleFunc})
}

func (r *ApiObjectRouter) AddGenericHandler(path string, method string, handleFunc handlers.ApiHandlerGenericFunc) {
	r.addHandler(path, method, &handlers.ApiHandlerGeneric{APIServices: r.Svcs, Handler: handleFunc})
}

// UsesSentry - outside of local runs and unit tests, handlers report panics to sentry
func (r *ApiObjectRouter) UsesSentry() bool {
	env := r.Svcs.Config.EnvironmentName
	return env != "unit-test" && env != "local"
}

func (r *ApiObjectRouter) addHandler(path string, method string, handler http.Handler) {
	handlerToSave := handler

	// If needed, wrap in a sentry handler
	if r.UsesSentry() {
		sentryHandler := sentryhttp.New(sentryhttp.Options{
			Repanic:         true,
			WaitForDelivery: true,
		})

		handlerToSave = sentryHandler.Handle(handler)
	}

	methodRoute := method + path
	if r.routes[methodRoute] {
		r.Svcs.Log.Errorf("Path handler already defined for: %v, method: %v", path, method)
		return
	}
	r.routes[methodRoute] = true

	// Add to router
	r.Router.Handle(path, handlerToSave).Methods(method)
}

// Routes - every method+path registered, for logging on startup
func (r *ApiObjectRouter) Routes() []string {
	result := make([]string, 0, len(r.routes))
	for route := range r.routes {
		result = append(result, route)
	}
	return result
}

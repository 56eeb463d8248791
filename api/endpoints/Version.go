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

package endpoints

import (
	"fmt"
	"html"

	"github.com/pixlise/photometry/api/handlers"
	"github.com/pixlise/photometry/api/job"
	apiRouter "github.com/pixlise/photometry/api/router"
	"github.com/pixlise/photometry/api/services"
)

type ComponentVersion struct {
	Component string `json:"component"`
	Version   string `json:"version"`
}

// VersionResponse - what /version returns: our version plus what a job may ask for
type VersionResponse struct {
	Components []ComponentVersion `json:"components"`
	Shapes     []string           `json:"shapes"`
	Methods    []string           `json:"methods"`
}

func getAPIVersion() string {
	ver := services.ApiVersion
	if len(ver) <= 0 {
		ver = "(Local build)"
	}

	if hash := services.GitHash; len(hash) > 0 {
		ver += "-" + hash[:min(len(hash), 8)]
	}
	return ver
}

func registerVersionHandler(router *apiRouter.ApiObjectRouter) {
	// Root is polled by load balancers, returns HTML
	router.AddGenericHandler("/", "GET", rootRequest)
	router.AddJSONHandler("/version", "GET", versionGet)
}

func versionGet(params handlers.ApiHandlerParams) (interface{}, error) {
	return VersionResponse{
		Components: []ComponentVersion{{Component: "API", Version: getAPIVersion()}},
		Shapes:     job.SupportedShapes(),
		Methods:    job.SupportedMethods(),
	}, nil
}

const rootPage = `<!DOCTYPE html>
<html lang="en"><head></head>
<body style="font-family: Arial, Helvetica, sans-serif">
<center><h1>Photometry API</h1><p>Version %s</p><p>Git Commit: %s</p></center>
</body>`

func rootRequest(params handlers.ApiHandlerGenericParams) error {
	params.Writer.Header().Add("Content-Type", "text/html")
	_, err := fmt.Fprintf(params.Writer, rootPage, html.EscapeString(getAPIVersion()), html.EscapeString(services.GitHash))
	return err
}

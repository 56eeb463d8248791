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
	"github.com/pixlise/photometry/api/handlers"
	apiRouter "github.com/pixlise/photometry/api/router"
	"github.com/pixlise/photometry/core/errorwithstatus"
	"github.com/pixlise/photometry/core/logger"
)

const logLevelId = "logLevel"

func registerLoggerHandler(router *apiRouter.ApiObjectRouter) {
	const pathPrefix = "logger"

	router.AddJSONHandler(handlers.MakeEndpointPath(pathPrefix+"/level"), "GET", getLogLevel)
	router.AddJSONHandler(handlers.MakeEndpointPath(pathPrefix+"/level", logLevelId), "PUT", putLogLevel)
}

func getLogLevel(params handlers.ApiHandlerParams) (interface{}, error) {
	return logger.GetLogLevelName(params.Svcs.Log.GetLogLevel())
}

func putLogLevel(params handlers.ApiHandlerParams) (interface{}, error) {
	logLevelName := params.PathParams[logLevelId]

	logLevel, err := logger.GetLogLevel(logLevelName)
	if err != nil {
		return nil, errorwithstatus.MakeBadRequestError(err)
	}

	params.Svcs.Log.SetLogLevel(logLevel)

	// Logged as an error so it's printed whatever the new level is
	params.Svcs.Log.Errorf("Log level changed to: %v", logLevelName)

	// Reply with the canonical name, so "warning" comes back as "WARN"
	return logger.GetLogLevelName(logLevel)
}

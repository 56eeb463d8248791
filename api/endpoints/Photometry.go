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
	"context"

	"github.com/pixlise/photometry/api/handlers"
	"github.com/pixlise/photometry/api/job"
	apiRouter "github.com/pixlise/photometry/api/router"
	"github.com/pixlise/photometry/core/api"
	"github.com/pixlise/photometry/core/errorwithstatus"
)

const runIdentifier = "runId"
const jobIdentifier = "jobId"

func registerPhotometryHandler(router *apiRouter.ApiObjectRouter) {
	const pathPrefix = "photometry"

	router.AddJSONHandler(handlers.MakeEndpointPath(pathPrefix), "POST", photometryPost)
	router.AddJSONHandler(handlers.MakeEndpointPath(pathPrefix, runIdentifier), "GET", photometryGet)
	router.AddJSONHandler(handlers.MakeEndpointPath(pathPrefix, runIdentifier), "DELETE", photometryDelete)
	router.AddJSONHandler(handlers.MakeEndpointPath(pathPrefix+"/job", jobIdentifier), "GET", photometryListForJob)
}

func photometryPost(params handlers.ApiHandlerParams) (interface{}, error) {
	req := job.JobRequest{}
	if err := api.ReadJSONBody(params.Request, params.Svcs.Config.MaxRequestBytes, &req); err != nil {
		return nil, err
	}

	result, err := params.Svcs.Runner.Run(req)
	if err != nil {
		if job.IsBadRequest(err) {
			return nil, errorwithstatus.MakeBadRequestError(err)
		}
		return nil, err
	}

	if params.Svcs.Results != nil {
		if err := params.Svcs.Results.Save(params.Request.Context(), &result); err != nil {
			// The caller still gets their result, it just can't be retrieved later
			params.Svcs.Log.Errorf("Failed to store result %v of job %v: %v", result.RunID, result.JobID, err)
		}
	}

	return result, nil
}

func getResults(params handlers.ApiHandlerParams) (context.Context, error) {
	if params.Svcs.Results == nil {
		return nil, errorwithstatus.MakeNotFoundError("Result storage")
	}
	return params.Request.Context(), nil
}

func photometryGet(params handlers.ApiHandlerParams) (interface{}, error) {
	ctx, err := getResults(params)
	if err != nil {
		return nil, err
	}
	return params.Svcs.Results.Get(ctx, params.PathParams[runIdentifier])
}

func photometryDelete(params handlers.ApiHandlerParams) (interface{}, error) {
	ctx, err := getResults(params)
	if err != nil {
		return nil, err
	}
	return nil, params.Svcs.Results.Delete(ctx, params.PathParams[runIdentifier])
}

func photometryListForJob(params handlers.ApiHandlerParams) (interface{}, error) {
	ctx, err := getResults(params)
	if err != nil {
		return nil, err
	}
	return params.Svcs.Results.ListForJob(ctx, params.PathParams[jobIdentifier])
}

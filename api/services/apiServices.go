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

package services

import (
	"context"

	"github.com/pixlise/photometry/api/config"
	"github.com/pixlise/photometry/api/job"
	"github.com/pixlise/photometry/core/logger"
)

// NOTE: these 2 vars are set during compilation with -ldflags "-X ..."
var ApiVersion string
var GitHash string

// ResultStore - where job results are kept so they can be retrieved by run ID
type ResultStore interface {
	Save(ctx context.Context, result *job.JobResult) error
	Get(ctx context.Context, runID string) (job.JobResult, error)
	ListForJob(ctx context.Context, jobID string) ([]job.JobResult, error)
	Delete(ctx context.Context, runID string) error
}

// APIServices contains any services that HTTP handlers would want to use, like logging/config reading.
// Instead of using a bunch of global variables we pass this around, which also lets unit tests
// mock out what they need
type APIServices struct {
	// Configuration read in on startup
	Config config.PhotometryConfig

	// Default logger
	Log logger.ILogger

	// Runs the jobs posted to us
	Runner *job.Runner

	// Results of jobs, by run ID
	Results ResultStore
}

// InitAPIServices sets up a new APIServices instance
func InitAPIServices(cfg config.PhotometryConfig, log logger.ILogger, results ResultStore) APIServices {
	return APIServices{
		Config:  cfg,
		Log:     log,
		Runner:  job.MakeRunner(MakeJobDefaults(cfg), log),
		Results: results,
	}
}

func MakeJobDefaults(cfg config.PhotometryConfig) job.Defaults {
	return job.Defaults{
		Method:    cfg.DefaultMethod,
		Subpixels: cfg.DefaultSubpixels,
		Workers:   cfg.Workers,
	}
}

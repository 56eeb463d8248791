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

package job

import (
	"time"

	"github.com/pixlise/photometry/core/geometry"
	"github.com/pixlise/photometry/core/idgen"
	"github.com/pixlise/photometry/core/logger"
	"github.com/pixlise/photometry/core/photometry"
	"github.com/pixlise/photometry/core/profiles"
	"github.com/pixlise/photometry/core/quantity"
	"github.com/pixlise/photometry/core/timestamper"
	"github.com/pkg/errors"
)

// Runner runs jobs, stamping each result with a new run ID and the time it finished
type Runner struct {
	IDGen     idgen.IDGenerator
	TimeStamp timestamper.ITimeStamper
	Defaults  Defaults
	Log       logger.ILogger
}

func MakeRunner(defaults Defaults, log logger.ILogger) *Runner {
	return &Runner{
		IDGen:     &idgen.UUIDGen{},
		TimeStamp: &timestamper.UnixTimeNowStamper{},
		Defaults:  defaults,
		Log:       log,
	}
}

func isInvalidArgument(err error) bool {
	return errors.Is(err, photometry.ErrInvalidArgument)
}

func isUnitMismatch(err error) bool {
	return errors.Is(err, quantity.ErrUnitMismatch)
}

// IsBadRequest - true if the job failed because of what was asked for, not because of us
func IsBadRequest(err error) bool {
	return isInvalidArgument(err) || isUnitMismatch(err)
}

// Run measures the requested aperture (or annulus) at every requested position, or the radial
// profile around a single position
func (r *Runner) Run(req JobRequest) (JobResult, error) {
	start := time.Now()

	result, err := r.run(req)
	if err != nil {
		jobFailures.WithLabelValues(failureReason(err)).Inc()
		r.Log.Errorf("Photometry job %v failed: %v", req.ID, err)
		return JobResult{}, err
	}

	elapsed := time.Since(start)
	result.DurationMs = elapsed.Milliseconds()

	jobsRun.WithLabelValues(result.Shape, result.Method.String()).Inc()
	jobDuration.WithLabelValues(result.Shape).Observe(elapsed.Seconds())
	positionsMeasured.Add(float64(len(result.Flux)))
	positionsOutOfBounds.Add(float64(result.OutOfBoundsCount()))

	r.Log.Infof("Photometry job %v (run %v) measured %v %v apertures in %vms", req.ID, result.RunID, len(result.Flux), result.Shape, result.DurationMs)
	return result, nil
}

func (r *Runner) run(req JobRequest) (JobResult, error) {
	data, err := req.Data.toGrid("data")
	if err != nil {
		return JobResult{}, err
	}

	positions, err := toPositions(req.Positions)
	if err != nil {
		return JobResult{}, err
	}

	if req.Aperture.isProfile() {
		return r.runProfile(req, data, positions)
	}

	m, err := req.Aperture.toMeasurement()
	if err != nil {
		return JobResult{}, err
	}

	opts, err := req.options(r.Defaults)
	if err != nil {
		return JobResult{}, err
	}
	opts.Log = r.Log

	var measured photometry.Result
	if m.isAnnulus() {
		measured, err = photometry.MeasureAnnulusAperture(data, positions, m.Mode, m.Inner, m.Outer, opts)
	} else {
		measured, err = photometry.MeasureAperture(data, positions, m.Outer, opts)
	}
	if err != nil {
		return JobResult{}, err
	}

	result := r.newResult(req, opts.Method)
	result.Unit = string(measured.Flux.Unit)
	result.Flux = NullableFloats(measured.Flux.Values)
	result.Warnings = measured.Warnings
	if opts.Method == photometry.MethodSubpixel {
		result.Subpixels = opts.Subpixels
	}
	if measured.HasError() {
		result.ErrorUnit = string(measured.FluxError.Unit)
		result.FluxError = NullableFloats(measured.FluxError.Values)
	}

	return result, nil
}

// runProfile - Flux holds the mean value of each radial bin, Radius its centre
func (r *Runner) runProfile(req JobRequest, data quantity.Grid, positions []geometry.Point2D) (JobResult, error) {
	profile, err := req.profile(data, positions, profiles.Options{Log: r.Log})
	if err != nil {
		return JobResult{}, err
	}

	result := r.newResult(req, photometry.DefaultOptions().Method)
	result.Unit = string(profile.Unit)
	result.Flux = NullableFloats(profile.Profile)
	result.Radius = NullableFloats(profile.Radius)
	result.Area = NullableFloats(profile.Area)
	result.Warnings = profile.Warnings
	if len(profile.ProfileError) > 0 {
		result.ErrorUnit = string(profile.Unit)
		result.FluxError = NullableFloats(profile.ProfileError)
	}

	return result, nil
}

func (r *Runner) newResult(req JobRequest, method photometry.Method) JobResult {
	return JobResult{
		JobID:            req.ID,
		RunID:            r.IDGen.GenObjectID(),
		TimeStampUnixSec: r.TimeStamp.GetTimeNowSec(),
		Shape:            req.Aperture.shape(),
		Method:           method,
	}
}

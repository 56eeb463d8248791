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

package photometry

import (
	"math"
	"strings"

	"github.com/pixlise/photometry/core/extent"
	"github.com/pixlise/photometry/core/geometry"
	"github.com/pixlise/photometry/core/quantity"
	"github.com/pkg/errors"
)

type AnnulusMode int

const (
	AnnulusCircular AnnulusMode = iota
	AnnulusElliptical
)

func (m AnnulusMode) String() string {
	switch m {
	case AnnulusCircular:
		return "circular"
	case AnnulusElliptical:
		return "elliptical"
	}
	return "unknown"
}

func ParseAnnulusMode(name string) (AnnulusMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "circular":
		return AnnulusCircular, nil
	case "elliptical":
		return AnnulusElliptical, nil
	}
	return AnnulusCircular, errors.Wrapf(ErrInvalidArgument, "unsupported annulus mode: %q", name)
}

func (m AnnulusMode) shape() (ShapeFamily, error) {
	switch m {
	case AnnulusCircular:
		return ShapeCircle, nil
	case AnnulusElliptical:
		return ShapeEllipse, nil
	}
	return ShapeCircle, errors.Wrapf(ErrInvalidArgument, "unsupported annulus mode: %v", int(m))
}

func checkAnnulusApertures(mode AnnulusMode, inner, outer Aperture) error {
	family, err := mode.shape()
	if err != nil {
		return err
	}
	if inner == nil || outer == nil {
		return errors.Wrap(ErrInvalidArgument, "annulus needs both inner and outer apertures")
	}
	if inner.Shape() != family || outer.Shape() != family {
		return errors.Wrapf(ErrInvalidArgument, "%v annulus needs %v apertures, got inner=%v, outer=%v", mode, family, inner.Shape(), outer.Shape())
	}
	return nil
}

// MeasureAnnulusAperture measures the annulus at every position, working out the pixel windows
// from the outer aperture's bounding radius
func MeasureAnnulusAperture(data quantity.Grid, positions []geometry.Point2D, mode AnnulusMode, inner, outer Aperture, opts Options) (Result, error) {
	if err := checkAnnulusApertures(mode, inner, outer); err != nil {
		return Result{}, err
	}
	if err := inner.Validate(); err != nil {
		return Result{}, errors.WithMessage(err, "inner aperture")
	}
	if err := outer.Validate(); err != nil {
		return Result{}, errors.WithMessage(err, "outer aperture")
	}
	if err := ValidateInputs(data, positions, opts); err != nil {
		return Result{}, err
	}

	rows, cols := data.Dims()
	return MeasureAnnulus(data, positions, mode, extent.Resolve(rows, cols, positions, outer.BoundingRadius()), inner, outer, opts)
}

// MeasureAnnulus measures the region inside outer but not inside inner: flux is outer minus
// inner, measured over the same extents with the same method. The error is
// sqrt(max(outerErr^2 - innerErr^2, 0)). If either measurement has no error (all positions out
// of bounds) the result is flux only.
func MeasureAnnulus(data quantity.Grid, positions []geometry.Point2D, mode AnnulusMode, extents extent.Bundle, inner, outer Aperture, opts Options) (Result, error) {
	if err := checkAnnulusApertures(mode, inner, outer); err != nil {
		return Result{}, err
	}

	innerResult, err := measure(data, positions, extents, inner, opts)
	if err != nil {
		return Result{}, errors.WithMessage(err, "inner aperture")
	}
	outerResult, err := measure(data, positions, extents, outer, opts)
	if err != nil {
		return Result{}, errors.WithMessage(err, "outer aperture")
	}

	flux, err := outerResult.Flux.Sub(innerResult.Flux)
	if err != nil {
		return Result{}, err
	}

	// Both measurements share extents, so their warnings are the same
	result := Result{Flux: flux, Warnings: outerResult.Warnings}

	if innerResult.HasError() && outerResult.HasError() {
		fluxErr := quantity.New(flux.Len(), outerResult.FluxError.Unit)
		for c := range fluxErr.Values {
			o := outerResult.FluxError.Values[c]
			i := innerResult.FluxError.Values[c]
			fluxErr.Values[c] = math.Sqrt(math.Max(o*o-i*i, 0))
		}
		result.FluxError = &fluxErr
	}

	emitWarnings(opts.logger(), result.Warnings)
	return result, nil
}

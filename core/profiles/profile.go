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

// Package profiles measures radial profiles: the mean value in a series of concentric circular
// bins around a centre, built on the single-aperture and annulus photometry.
package profiles

import (
	"fmt"
	"math"

	"github.com/pixlise/photometry/core/extent"
	"github.com/pixlise/photometry/core/geometry"
	"github.com/pixlise/photometry/core/logger"
	"github.com/pixlise/photometry/core/photometry"
	"github.com/pixlise/photometry/core/quantity"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Bin - one radial bin. A bin with Inner == 0 is a circle, otherwise an annulus
type Bin struct {
	Inner float64
	Outer float64
}

func (b Bin) IsCircle() bool {
	return b.Inner == 0
}

func (b Bin) String() string {
	if b.IsCircle() {
		return fmt.Sprintf("circle(r=%v)", b.Outer)
	}
	return fmt.Sprintf("annulus(r_in=%v, r_out=%v)", b.Inner, b.Outer)
}

type Options struct {
	Error *quantity.Grid
	// Non-zero pixels are excluded from the profile
	Mask *mat.Dense
	Log  logger.ILogger
}

type Profile struct {
	Center geometry.Point2D
	Radius []float64
	Bins   []Bin
	// Unmasked area of each bin in pixels
	Area    []float64
	Profile []float64
	// Empty if no error grid was supplied
	ProfileError []float64
	Unit         quantity.Unit
	Warnings     []photometry.Warning
}

// RadialProfile measures bins centred on min..max radius (inclusive) in steps of step, each bin
// step wide. The innermost edge is clamped to 0, making the first bin a circle
func RadialProfile(data quantity.Grid, center geometry.Point2D, minRadius, maxRadius, step float64, opts Options) (*Profile, error) {
	if !(minRadius >= 0) {
		return nil, errors.Wrap(photometry.ErrInvalidArgument, "min_radius must be >= 0")
	}
	if !(maxRadius > minRadius) {
		return nil, errors.Wrap(photometry.ErrInvalidArgument, "max_radius must be > min_radius")
	}
	if !(step > 0) {
		return nil, errors.Wrap(photometry.ErrInvalidArgument, "radius_step must be > 0")
	}

	count := int(math.Ceil((maxRadius + 0.5*step - minRadius) / step))
	radius := make([]float64, count)
	edges := make([]float64, count+1)
	for c := range radius {
		radius[c] = minRadius + float64(c)*step
		edges[c] = radius[c] - 0.5*step
	}
	edges[count] = radius[count-1] + 0.5*step
	edges[0] = math.Max(edges[0], 0)

	return measureProfile(data, center, radius, edges, opts)
}

// EdgeRadialProfile measures bins between consecutive edge radii, reporting each at the
// midpoint of its edges
func EdgeRadialProfile(data quantity.Grid, center geometry.Point2D, edgeRadii []float64, opts Options) (*Profile, error) {
	if len(edgeRadii) < 2 {
		return nil, errors.Wrap(photometry.ErrInvalidArgument, "edge_radii must have at least two values")
	}
	for c, r := range edgeRadii {
		if r < 0 {
			return nil, errors.Wrap(photometry.ErrInvalidArgument, "minimum edge_radii must be >= 0")
		}
		if c > 0 && !(r > edgeRadii[c-1]) {
			return nil, errors.Wrap(photometry.ErrInvalidArgument, "edge_radii must be strictly increasing")
		}
	}

	radius := make([]float64, len(edgeRadii)-1)
	for c := range radius {
		radius[c] = 0.5 * (edgeRadii[c] + edgeRadii[c+1])
	}

	return measureProfile(data, center, radius, append([]float64{}, edgeRadii...), opts)
}

func measureProfile(data quantity.Grid, center geometry.Point2D, radius []float64, edges []float64, opts Options) (*Profile, error) {
	log := opts.Log
	if log == nil {
		log = &logger.NullLogger{}
	}

	masked, err := applyMask(data, opts)
	if err != nil {
		return nil, err
	}

	result := &Profile{
		Center:  center,
		Radius:  radius,
		Bins:    make([]Bin, len(radius)),
		Area:    make([]float64, len(radius)),
		Profile: make([]float64, len(radius)),
		Unit:    data.Unit,
	}
	if masked.nonFinite > 0 {
		result.Warnings = append(result.Warnings, photometry.Warning{
			Kind:    photometry.WarnNonFinite,
			Message: fmt.Sprintf("Input data contains non-finite values (e.g., NaN or infs) at %v pixel(s), which were automatically masked", masked.nonFinite),
		})
	}

	measureOpts := photometry.DefaultOptions()
	measureOpts.Log = &logger.NullLogger{}

	areaOpts := measureOpts
	measureOpts.Error = masked.err
	if masked.err != nil {
		result.ProfileError = make([]float64, len(radius))
	}

	positions := []geometry.Point2D{center}
	rows, cols := data.Dims()
	outOfBounds := []int{}

	for c := range radius {
		bin := Bin{Inner: edges[c], Outer: edges[c+1]}
		result.Bins[c] = bin

		extents := extent.Resolve(rows, cols, positions, bin.Outer)
		if extents.AllOutOfData() {
			outOfBounds = append(outOfBounds, c)
		}

		flux, err := measureBin(masked.data, positions, extents, bin, measureOpts)
		if err != nil {
			return nil, err
		}
		area, err := measureBin(masked.area, positions, extents, bin, areaOpts)
		if err != nil {
			return nil, err
		}

		result.Area[c] = area.Flux.At(0)
		result.Profile[c] = flux.Flux.At(0) / result.Area[c]
		if result.ProfileError != nil {
			if flux.HasError() {
				result.ProfileError[c] = flux.FluxError.At(0) / result.Area[c]
			} else {
				result.ProfileError[c] = math.NaN()
			}
		}
	}

	if len(outOfBounds) > 0 {
		result.Warnings = append(result.Warnings, photometry.Warning{
			Kind:      photometry.WarnPartialOutOfBounds,
			Positions: outOfBounds,
			Message:   fmt.Sprintf("Radial bins %v do not have any overlap with the data", outOfBounds),
		})
	}

	for _, w := range result.Warnings {
		log.Warnf("%v", w.Message)
	}

	return result, nil
}

func measureBin(data quantity.Grid, positions []geometry.Point2D, extents extent.Bundle, bin Bin, opts photometry.Options) (photometry.Result, error) {
	if bin.IsCircle() {
		return photometry.Measure(data, positions, extents, photometry.Circle{Radius: bin.Outer}, opts)
	}
	return photometry.MeasureAnnulus(data, positions, photometry.AnnulusCircular, extents, photometry.Circle{Radius: bin.Inner}, photometry.Circle{Radius: bin.Outer}, opts)
}

// Normalize divides the profile (and its error) by the profile's maximum, ignoring NaN
func (p *Profile) Normalize() {
	maxValue := math.Inf(-1)
	for _, v := range p.Profile {
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v > maxValue {
			maxValue = v
		}
	}

	if math.IsInf(maxValue, -1) || maxValue == 0 {
		return
	}

	for c := range p.Profile {
		p.Profile[c] /= maxValue
	}
	for c := range p.ProfileError {
		p.ProfileError[c] /= maxValue
	}
}

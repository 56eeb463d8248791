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

// Package job is the boundary between JSON photometry jobs and the numeric core: it turns a
// request into unit-tagged grids and apertures, runs the measurement and packages the result.
package job

import (
	"math"
	"strings"

	"github.com/pixlise/photometry/core/geometry"
	"github.com/pixlise/photometry/core/photometry"
	"github.com/pixlise/photometry/core/profiles"
	"github.com/pixlise/photometry/core/quantity"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Aperture shapes accepted in a request
const (
	ShapeCircle            = "circle"
	ShapeEllipse           = "ellipse"
	ShapeCircularAnnulus   = "circular-annulus"
	ShapeEllipticalAnnulus = "elliptical-annulus"
	ShapeRadialProfile     = "radial-profile"
)

func SupportedShapes() []string {
	return []string{ShapeCircle, ShapeEllipse, ShapeCircularAnnulus, ShapeEllipticalAnnulus, ShapeRadialProfile}
}

func SupportedMethods() []string {
	names := []string{}
	for _, m := range photometry.AllMethods() {
		names = append(names, m.String())
	}
	return names
}

// GridJSON - rows of values (row = y), all rows the same length
type GridJSON struct {
	Values [][]float64 `json:"values"`
	Unit   string      `json:"unit,omitempty"`
}

// GainJSON - either a per-pixel map or a single value
type GainJSON struct {
	Values [][]float64 `json:"values,omitempty"`
	Value  *float64    `json:"value,omitempty"`
}

// ApertureJSON - which fields are used depends on Shape. Angles are in radians
type ApertureJSON struct {
	Shape string `json:"shape"`

	R float64 `json:"r,omitempty"`

	A     float64 `json:"a,omitempty"`
	B     float64 `json:"b,omitempty"`
	Theta float64 `json:"theta,omitempty"`

	RIn  float64 `json:"rIn,omitempty"`
	ROut float64 `json:"rOut,omitempty"`

	AIn  float64 `json:"aIn,omitempty"`
	AOut float64 `json:"aOut,omitempty"`
	BOut float64 `json:"bOut,omitempty"`
	// Defaults to BOut * AIn / AOut
	BIn float64 `json:"bIn,omitempty"`

	// Radial profile: either EdgeRadii, or bins from MinRadius to MaxRadius every Step
	MinRadius float64   `json:"minRadius,omitempty"`
	MaxRadius float64   `json:"maxRadius,omitempty"`
	Step      float64   `json:"step,omitempty"`
	EdgeRadii []float64 `json:"edgeRadii,omitempty"`
}

// shape - case and surrounding spaces are ignored
func (a ApertureJSON) shape() string {
	return strings.ToLower(strings.TrimSpace(a.Shape))
}

func (a ApertureJSON) isProfile() bool {
	return a.shape() == ShapeRadialProfile
}

type JobRequest struct {
	ID string `json:"id"`

	Data  GridJSON  `json:"data"`
	Error *GridJSON `json:"error,omitempty"`
	Gain  *GainJSON `json:"gain,omitempty"`
	// Radial profiles only, non-zero pixels are left out
	Mask *GridJSON `json:"mask,omitempty"`

	// [x, y] pairs, pixel centres at integer coordinates
	Positions [][]float64 `json:"positions"`

	Aperture ApertureJSON `json:"aperture"`

	Method         string `json:"method,omitempty"`
	Subpixels      int    `json:"subpixels,omitempty"`
	PixelwiseError *bool  `json:"pixelwiseError,omitempty"`
}

// Defaults - used for anything the request leaves out
type Defaults struct {
	Method    string
	Subpixels int
	Workers   int
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(photometry.ErrInvalidArgument, format, args...)
}

func toDense(name string, values [][]float64) (*mat.Dense, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, invalid("%v grid is empty", name)
	}

	rows := len(values)
	cols := len(values[0])
	flat := make([]float64, 0, rows*cols)
	for r, row := range values {
		if len(row) != cols {
			return nil, invalid("%v grid row %v has %v values, expected %v", name, r, len(row), cols)
		}
		flat = append(flat, row...)
	}

	return mat.NewDense(rows, cols, flat), nil
}

func (g GridJSON) toGrid(name string) (quantity.Grid, error) {
	d, err := toDense(name, g.Values)
	if err != nil {
		return quantity.Grid{}, err
	}
	return quantity.Grid{Data: d, Unit: quantity.Unit(g.Unit)}, nil
}

func (g GainJSON) toGain() (*photometry.Gain, error) {
	if len(g.Values) > 0 {
		d, err := toDense("gain", g.Values)
		if err != nil {
			return nil, err
		}
		return &photometry.Gain{Map: d}, nil
	}
	if g.Value == nil {
		return nil, invalid("gain needs values or a value")
	}
	return &photometry.Gain{Value: *g.Value}, nil
}

func toPositions(positions [][]float64) ([]geometry.Point2D, error) {
	if len(positions) == 0 {
		return nil, invalid("no positions supplied")
	}

	result := make([]geometry.Point2D, len(positions))
	for c, p := range positions {
		if len(p) != 2 {
			return nil, invalid("position %v has %v values, expected [x, y]", c, len(p))
		}
		result[c] = geometry.Point2D{X: p[0], Y: p[1]}
	}
	return result, nil
}

// profile measures the radial profile around the single requested position
func (req JobRequest) profile(data quantity.Grid, positions []geometry.Point2D, opts profiles.Options) (*profiles.Profile, error) {
	if len(positions) != 1 {
		return nil, invalid("radial profile needs exactly one position, got %v", len(positions))
	}

	if req.Error != nil {
		errGrid, err := req.Error.toGrid("error")
		if err != nil {
			return nil, err
		}
		opts.Error = &errGrid
	}
	if req.Mask != nil {
		mask, err := toDense("mask", req.Mask.Values)
		if err != nil {
			return nil, err
		}
		opts.Mask = mask
	}

	a := req.Aperture
	if len(a.EdgeRadii) > 0 {
		return profiles.EdgeRadialProfile(data, positions[0], a.EdgeRadii, opts)
	}
	return profiles.RadialProfile(data, positions[0], a.MinRadius, a.MaxRadius, a.Step, opts)
}

// measurement - what the request resolves to. For single apertures Inner is nil
type measurement struct {
	Mode  photometry.AnnulusMode
	Inner photometry.Aperture
	Outer photometry.Aperture
}

func (a ApertureJSON) toMeasurement() (measurement, error) {
	switch a.shape() {
	case ShapeCircle:
		return measurement{Outer: photometry.Circle{Radius: a.R}}, nil
	case ShapeEllipse:
		return measurement{Outer: photometry.Ellipse{A: a.A, B: a.B, Theta: a.Theta}}, nil
	case ShapeCircularAnnulus:
		if !(a.ROut > a.RIn) {
			return measurement{}, invalid("rOut (%v) must be greater than rIn (%v)", a.ROut, a.RIn)
		}
		return measurement{
			Mode:  photometry.AnnulusCircular,
			Inner: photometry.Circle{Radius: a.RIn},
			Outer: photometry.Circle{Radius: a.ROut},
		}, nil
	case ShapeEllipticalAnnulus:
		if !(a.AOut > a.AIn) {
			return measurement{}, invalid("aOut (%v) must be greater than aIn (%v)", a.AOut, a.AIn)
		}
		bIn := a.BIn
		if bIn == 0 && a.AOut != 0 {
			bIn = a.BOut * a.AIn / a.AOut
		}
		if math.IsNaN(bIn) || bIn > a.BOut {
			return measurement{}, invalid("bIn (%v) must not exceed bOut (%v)", bIn, a.BOut)
		}
		return measurement{
			Mode:  photometry.AnnulusElliptical,
			Inner: photometry.Ellipse{A: a.AIn, B: bIn, Theta: a.Theta},
			Outer: photometry.Ellipse{A: a.AOut, B: a.BOut, Theta: a.Theta},
		}, nil
	}

	return measurement{}, invalid("unsupported aperture shape: %q", a.Shape)
}

func (m measurement) isAnnulus() bool {
	return m.Inner != nil
}

// options builds the measurement options, filling gaps from the defaults
func (req JobRequest) options(defaults Defaults) (photometry.Options, error) {
	opts := photometry.DefaultOptions()

	methodName := req.Method
	if len(methodName) <= 0 {
		methodName = defaults.Method
	}
	if len(methodName) > 0 {
		method, err := photometry.ParseMethod(methodName)
		if err != nil {
			return opts, err
		}
		opts.Method = method
	}

	if req.Subpixels > 0 {
		opts.Subpixels = req.Subpixels
	} else if defaults.Subpixels > 0 {
		opts.Subpixels = defaults.Subpixels
	}

	if req.PixelwiseError != nil {
		opts.PixelwiseError = *req.PixelwiseError
	}
	if defaults.Workers > 0 {
		opts.Workers = defaults.Workers
	}

	if req.Error != nil {
		errGrid, err := req.Error.toGrid("error")
		if err != nil {
			return opts, err
		}
		opts.Error = &errGrid
	}

	if req.Gain != nil {
		gain, err := req.Gain.toGain()
		if err != nil {
			return opts, err
		}
		opts.Gain = gain
	}

	return opts, nil
}

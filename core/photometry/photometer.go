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

	"github.com/pixlise/photometry/core/extent"
	"github.com/pixlise/photometry/core/geometry"
	"github.com/pixlise/photometry/core/quantity"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

var ErrUnitMismatch = quantity.ErrUnitMismatch

// ValidateInputs checks the shapes of everything passed in alongside the data
func ValidateInputs(data quantity.Grid, positions []geometry.Point2D, opts Options) error {
	if data.Data == nil {
		return errors.Wrap(ErrInvalidArgument, "no data grid supplied")
	}
	rows, cols := data.Dims()

	if len(positions) == 0 {
		return errors.Wrap(ErrInvalidArgument, "no positions supplied")
	}

	if opts.Error != nil {
		if opts.Error.Data == nil {
			return errors.Wrap(ErrInvalidArgument, "error grid has no values")
		}
		if r, c := opts.Error.Dims(); r != rows || c != cols {
			return errors.Wrapf(ErrInvalidArgument, "error grid is %vx%v, data is %vx%v", c, r, cols, rows)
		}
		if err := quantity.CheckCompatible(data.Unit, opts.Error.Unit); err != nil {
			return err
		}
	}

	if opts.Gain != nil {
		if opts.Gain.Map != nil {
			if r, c := opts.Gain.Map.Dims(); r != rows || c != cols {
				return errors.Wrapf(ErrInvalidArgument, "gain map is %vx%v, data is %vx%v", c, r, cols, rows)
			}
			if err := checkGainMap(opts.Gain.Map); err != nil {
				return err
			}
		} else if !(opts.Gain.Value > 0) || math.IsInf(opts.Gain.Value, 0) {
			return errors.Wrapf(ErrInvalidArgument, "gain must be > 0, got %v", opts.Gain.Value)
		}
	}

	if opts.Method == MethodSubpixel && opts.Subpixels < 1 {
		return errors.Wrapf(ErrInvalidArgument, "subpixels must be >= 1, got %v", opts.Subpixels)
	}
	if _, ok := methodNames[opts.Method]; !ok {
		return errors.Wrapf(ErrInvalidArgument, "unsupported method: %v", int(opts.Method))
	}

	return nil
}

// checkGainMap - shot noise divides by every gain pixel, so they must all be finite and > 0
func checkGainMap(gain *mat.Dense) error {
	rows, cols := gain.Dims()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if v := gain.At(r, c); !(v > 0) || math.IsInf(v, 0) {
				return errors.Wrapf(ErrInvalidArgument, "gain must be > 0, got %v at (%v, %v)", v, c, r)
			}
		}
	}
	return nil
}

// outOfData - positions flagged by the resolver, plus any whose pixel window is empty (extents
// built by hand rather than by extent.Resolve)
func outOfData(extents extent.Bundle) []int {
	result := []int{}
	for c, ood := range extents.OutOfData {
		if ood || extents.Pixel[c].IsEmpty() {
			result = append(result, c)
		}
	}
	return result
}

func checkExtents(rows, cols int, positions []geometry.Point2D, extents extent.Bundle) error {
	if extents.Len() != len(positions) || len(extents.Pixel) != len(positions) || len(extents.Photometric) != len(positions) {
		return errors.Wrapf(ErrInvalidArgument, "extents are for %v positions, expected %v", extents.Len(), len(positions))
	}

	for c, px := range extents.Pixel {
		if extents.OutOfData[c] {
			continue
		}
		if px.XMin < 0 || px.YMin < 0 || px.XMax > cols || px.YMax > rows || px.XMin > px.XMax || px.YMin > px.YMax {
			return errors.Wrapf(ErrInvalidArgument, "extent %+v for position %v is outside the %vx%v data", px, c, cols, rows)
		}
	}
	return nil
}

// MeasureAperture measures the aperture at every position, working out the pixel windows
// from the aperture's bounding radius
func MeasureAperture(data quantity.Grid, positions []geometry.Point2D, ap Aperture, opts Options) (Result, error) {
	if err := ap.Validate(); err != nil {
		return Result{}, err
	}
	if err := ValidateInputs(data, positions, opts); err != nil {
		return Result{}, err
	}

	rows, cols := data.Dims()
	return Measure(data, positions, extent.Resolve(rows, cols, positions, ap.BoundingRadius()), ap, opts)
}

// Measure sums data * overlap fraction inside the aperture at every position. If opts.Error is
// set, the flux error (standard deviation) is returned too, unless no aperture overlaps the
// data at all. Positions whose aperture misses the data get NaN flux (and error) and are
// reported as warnings, both in the result and to opts.Log.
func Measure(data quantity.Grid, positions []geometry.Point2D, extents extent.Bundle, ap Aperture, opts Options) (Result, error) {
	result, err := measure(data, positions, extents, ap, opts)
	if err == nil {
		emitWarnings(opts.logger(), result.Warnings)
	}
	return result, err
}

func measure(data quantity.Grid, positions []geometry.Point2D, extents extent.Bundle, ap Aperture, opts Options) (Result, error) {
	if err := ValidateInputs(data, positions, opts); err != nil {
		return Result{}, err
	}

	rows, cols := data.Dims()
	if err := checkExtents(rows, cols, positions, extents); err != nil {
		return Result{}, err
	}

	result := Result{Flux: quantity.New(len(positions), data.Unit)}

	errorUnit := data.Unit
	var variance []float64
	if opts.Error != nil {
		if opts.Error.Unit != quantity.Dimensionless {
			errorUnit = opts.Error.Unit
		}
		variance = make([]float64, len(positions))
	}

	// Variance stays 0 for these, only the flux is NaN
	ood := outOfData(extents)
	for _, idx := range ood {
		result.Flux.Values[idx] = math.NaN()
	}

	if len(ood) == len(positions) {
		result.Warnings = append(result.Warnings, outOfBoundsWarning(WarnTotalOutOfBounds, ood))
		return result, nil
	}
	if len(ood) > 0 {
		result.Warnings = append(result.Warnings, outOfBoundsWarning(WarnPartialOutOfBounds, ood))
	}

	useExact, subpixels := opts.Method.Resolve(opts.Subpixels)

	measureOne := func(idx int) {
		px := extents.Pixel[idx]
		w, h := px.Width(), px.Height()

		// Never nil, measurable() rules out empty windows
		frac := ap.Overlap(extents.Photometric[idx], w, h, useExact, subpixels)

		dataWindow := data.Data.Slice(px.YMin, px.YMax, px.XMin, px.XMax)

		var weighted mat.Dense
		weighted.MulElem(dataWindow, frac)
		flux := mat.Sum(&weighted)
		result.Flux.Values[idx] = flux

		if variance != nil {
			in := VarianceInput{
				Fraction:  frac,
				Data:      dataWindow,
				Error:     opts.Error.Data.Slice(px.YMin, px.YMax, px.XMin, px.XMax),
				Flux:      flux,
				Pixelwise: opts.PixelwiseError,
				Window:    px,
			}
			if opts.Gain != nil {
				in.HasGain = true
				in.GainValue = opts.Gain.Value
				in.Gain = opts.Gain.window(px.XMin, px.XMax, px.YMin, px.YMax)
			}
			variance[idx] = FluxVariance(in)
		}
	}

	measurable := func(idx int) bool {
		return extents.State(idx) == extent.InBounds && !extents.Pixel[idx].IsEmpty()
	}

	if opts.Workers <= 1 {
		for idx := range positions {
			if measurable(idx) {
				measureOne(idx)
			}
		}
	} else {
		// Each position writes only its own index of the result slices
		var g errgroup.Group
		g.SetLimit(opts.Workers)
		for idx := range positions {
			if !measurable(idx) {
				continue
			}
			idx := idx
			g.Go(func() error {
				measureOne(idx)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
	}

	if variance != nil {
		fluxErr := quantity.New(len(positions), errorUnit)
		for c, v := range variance {
			fluxErr.Values[c] = math.Sqrt(v)
		}
		result.FluxError = &fluxErr
	}

	return result, nil
}

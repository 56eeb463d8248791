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
	"github.com/pixlise/photometry/core/utils"
	"gonum.org/v1/gonum/mat"
)

// VarianceInput - everything needed to estimate the flux variance at one position. All
// matrices are windows of the same size as Fraction
type VarianceInput struct {
	Fraction mat.Matrix
	Data     mat.Matrix
	Error    mat.Matrix
	// Per-pixel gain window, or nil to use GainValue (only if HasGain)
	Gain      mat.Matrix
	GainValue float64
	HasGain   bool
	// Flux already measured at this position
	Flux      float64
	Pixelwise bool
	// Where the window sits in the full image, used to pick the aggregate noise sample
	Window extent.PixelExtent
}

// FluxVariance returns the (non-negative) variance of the flux measured at one position.
//
// Pixelwise: sum over the window of (error^2 + data/gain) * fraction.
// Aggregate: error^2 at the window's centre pixel times the covered area, plus flux/gain
// with gain sampled at the same pixel.
func FluxVariance(in VarianceInput) float64 {
	if in.Fraction == nil {
		return 0
	}

	if in.Pixelwise {
		var perPixel mat.Dense
		perPixel.MulElem(in.Error, in.Error)

		if in.HasGain {
			var shot mat.Dense
			if in.Gain != nil {
				shot.DivElem(in.Data, in.Gain)
			} else {
				shot.Scale(1/in.GainValue, in.Data)
			}
			perPixel.Add(&perPixel, &shot)
		}

		perPixel.MulElem(&perPixel, in.Fraction)
		return math.Max(mat.Sum(&perPixel), 0)
	}

	// A 1 pixel wide window samples its only pixel. Unclamped, floor(mid+0.5) would pick the
	// pixel after it, which can be outside the window or the image
	row, col := aggregateSampleIndex(in.Window)
	localError := in.Error.At(row, col)
	variance := math.Max(localError*localError*mat.Sum(in.Fraction), 0)

	if in.HasGain {
		localGain := in.GainValue
		if in.Gain != nil {
			localGain = in.Gain.At(row, col)
		}
		variance += in.Flux / localGain
	}

	return math.Max(variance, 0)
}

// aggregateSampleIndex returns the window-relative (row, col) of the pixel nearest the
// window centre. The image-space index is floor(midpoint + 0.5), kept inside the window
func aggregateSampleIndex(w extent.PixelExtent) (int, int) {
	col := sampleAxis(w.XMin, w.XMax)
	row := sampleAxis(w.YMin, w.YMax)
	return row, col
}

func sampleAxis(lo, hi int) int {
	idx := int(math.Floor(float64(lo+hi)/2+0.5)) - lo
	return utils.Clamp(idx, 0, hi-lo-1)
}

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
	"github.com/pixlise/photometry/core/logger"
	"github.com/pixlise/photometry/core/quantity"
	"gonum.org/v1/gonum/mat"
)

// Gain converts measured flux to counts for the shot noise term. Either a per-pixel map the
// same shape as the data, or (if Map is nil) a single value used for every pixel
type Gain struct {
	Map   *mat.Dense
	Value float64
}

// window returns the gain for the given data window, or nil if Map isn't set
func (g *Gain) window(xMin, xMax, yMin, yMax int) mat.Matrix {
	if g == nil || g.Map == nil {
		return nil
	}
	return g.Map.Slice(yMin, yMax, xMin, xMax)
}

type Options struct {
	// Per-pixel standard deviation of the data. If nil, no flux error is returned
	Error *quantity.Grid
	// Optional shot noise model, only used if Error is set
	Gain           *Gain
	PixelwiseError bool
	Method         Method
	// Only used by MethodSubpixel
	Subpixels int
	// Positions measured in parallel if > 1
	Workers int
	// Receives warnings, defaults to a NullLogger
	Log logger.ILogger
}

func DefaultOptions() Options {
	return Options{
		PixelwiseError: true,
		Method:         MethodExact,
		Subpixels:      5,
		Workers:        1,
		Log:            &logger.NullLogger{},
	}
}

func (o Options) logger() logger.ILogger {
	if o.Log == nil {
		return &logger.NullLogger{}
	}
	return o.Log
}

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

package profiles

import (
	"math"

	"github.com/pixlise/photometry/core/photometry"
	"github.com/pixlise/photometry/core/quantity"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

type maskedInputs struct {
	data quantity.Grid
	err  *quantity.Grid
	// 1 where a pixel counts towards the bin area, 0 where masked
	area      quantity.Grid
	nonFinite int
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// applyMask zeroes masked pixels in copies of the data and error. Pixels with non-finite data
// or error are masked too
func applyMask(data quantity.Grid, opts Options) (maskedInputs, error) {
	if data.Data == nil {
		return maskedInputs{}, errors.Wrap(photometry.ErrInvalidArgument, "no data grid supplied")
	}
	rows, cols := data.Dims()

	if opts.Mask != nil {
		if r, c := opts.Mask.Dims(); r != rows || c != cols {
			return maskedInputs{}, errors.Wrapf(photometry.ErrInvalidArgument, "mask is %vx%v, data is %vx%v", c, r, cols, rows)
		}
	}

	result := maskedInputs{
		data: quantity.Grid{Data: mat.DenseCopyOf(data.Data), Unit: data.Unit},
		area: quantity.Grid{Data: mat.NewDense(rows, cols, nil), Unit: quantity.Dimensionless},
	}

	if opts.Error != nil {
		if opts.Error.Data == nil {
			return maskedInputs{}, errors.Wrap(photometry.ErrInvalidArgument, "error grid has no values")
		}
		if r, c := opts.Error.Dims(); r != rows || c != cols {
			return maskedInputs{}, errors.Wrapf(photometry.ErrInvalidArgument, "error grid is %vx%v, data is %vx%v", c, r, cols, rows)
		}
		if err := quantity.CheckCompatible(data.Unit, opts.Error.Unit); err != nil {
			return maskedInputs{}, err
		}
		result.err = &quantity.Grid{Data: mat.DenseCopyOf(opts.Error.Data), Unit: opts.Error.Unit}
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			masked := opts.Mask != nil && opts.Mask.At(r, c) != 0

			if !masked {
				finite := isFinite(data.Data.At(r, c))
				if result.err != nil && !isFinite(result.err.Data.At(r, c)) {
					finite = false
				}
				if !finite {
					result.nonFinite++
					masked = true
				}
			}

			if masked {
				result.data.Data.Set(r, c, 0)
				if result.err != nil {
					result.err.Data.Set(r, c, 0)
				}
			} else {
				result.area.Data.Set(r, c, 1)
			}
		}
	}

	return result, nil
}

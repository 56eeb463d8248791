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

// Package quantity pairs numeric values with the physical unit they're measured in. Unit
// bookkeeping stays at the edges of the photometry code; the numeric core only checks that
// an error map is in the same unit as the image it describes.
package quantity

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var ErrUnitMismatch = errors.New("unit mismatch")

type Unit string

const Dimensionless Unit = ""

const squaredSuffix = "^2"

func (u Unit) Squared() Unit {
	if u == Dimensionless {
		return u
	}
	if strings.ContainsAny(string(u), " */") {
		return Unit("(" + string(u) + ")" + squaredSuffix)
	}
	return u + squaredSuffix
}

// Sqrt undoes Squared. Units that weren't squared are returned unchanged
func (u Unit) Sqrt() Unit {
	s := string(u)
	if !strings.HasSuffix(s, squaredSuffix) {
		return u
	}

	s = strings.TrimSuffix(s, squaredSuffix)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	return Unit(s)
}

// Quantity - a sequence of values in one unit
type Quantity struct {
	Values []float64
	Unit   Unit
}

func New(n int, unit Unit) Quantity {
	return Quantity{Values: make([]float64, n), Unit: unit}
}

func (q Quantity) Len() int {
	return len(q.Values)
}

func (q Quantity) At(idx int) float64 {
	return q.Values[idx]
}

// Sub returns q - other, element by element. Both must be the same length and unit
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	if q.Len() != other.Len() {
		return Quantity{}, errors.Errorf("length mismatch: %v vs %v", q.Len(), other.Len())
	}
	if q.Unit != other.Unit {
		return Quantity{}, errors.Wrapf(ErrUnitMismatch, "cannot subtract %q from %q", other.Unit, q.Unit)
	}

	result := New(q.Len(), q.Unit)
	for c, v := range q.Values {
		result.Values[c] = v - other.Values[c]
	}
	return result, nil
}

// CountNaN returns how many values are NaN
func (q Quantity) CountNaN() int {
	count := 0
	for _, v := range q.Values {
		if math.IsNaN(v) {
			count++
		}
	}
	return count
}

// Grid - a 2D image (or error map), rows are y, columns are x
type Grid struct {
	Data *mat.Dense
	Unit Unit
}

func (g Grid) Dims() (rows, cols int) {
	if g.Data == nil {
		return 0, 0
	}
	return g.Data.Dims()
}

// CheckCompatible makes sure an error map can be combined with the data it describes. An error
// map without a unit is taken to be in the data's unit
func CheckCompatible(data Unit, err Unit) error {
	if err == Dimensionless || err == data {
		return nil
	}
	return errors.Wrapf(ErrUnitMismatch, "error unit %q is not compatible with data unit %q", err, data)
}

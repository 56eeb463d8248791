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
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

type ShapeFamily int

const (
	ShapeCircle ShapeFamily = iota
	ShapeEllipse
)

func (s ShapeFamily) String() string {
	if s == ShapeEllipse {
		return "ellipse"
	}
	return "circle"
}

// Aperture - a shape measured at every position. Parameters are shared by all positions
type Aperture interface {
	Shape() ShapeFamily
	// Radius of a circle around the aperture centre containing the whole aperture
	BoundingRadius() float64
	// Fraction of each pixel in the window covered by the aperture, see geometry package
	Overlap(e extent.PhotometricExtent, nx, ny int, useExact bool, subpixels int) *mat.Dense
	Validate() error
}

type Circle struct {
	Radius float64
}

func (c Circle) Shape() ShapeFamily {
	return ShapeCircle
}

func (c Circle) BoundingRadius() float64 {
	return c.Radius
}

func (c Circle) Overlap(e extent.PhotometricExtent, nx, ny int, useExact bool, subpixels int) *mat.Dense {
	return geometry.CircularOverlapGrid(e.XMin, e.XMax, e.YMin, e.YMax, nx, ny, c.Radius, useExact, subpixels)
}

func (c Circle) Validate() error {
	if !(c.Radius > 0) || math.IsInf(c.Radius, 0) {
		return errors.Wrapf(ErrInvalidArgument, "circle radius must be > 0, got %v", c.Radius)
	}
	return nil
}

// Ellipse with semi-major axis A along Theta (radians, counter-clockwise from +x), semi-minor B
type Ellipse struct {
	A     float64
	B     float64
	Theta float64
}

func (e Ellipse) Shape() ShapeFamily {
	return ShapeEllipse
}

func (e Ellipse) BoundingRadius() float64 {
	return math.Max(e.A, e.B)
}

func (e Ellipse) Overlap(ext extent.PhotometricExtent, nx, ny int, useExact bool, subpixels int) *mat.Dense {
	return geometry.EllipticalOverlapGrid(ext.XMin, ext.XMax, ext.YMin, ext.YMax, nx, ny, e.A, e.B, e.Theta, useExact, subpixels)
}

func (e Ellipse) Validate() error {
	if !(e.A > 0) || !(e.B > 0) || math.IsInf(e.A, 0) || math.IsInf(e.B, 0) {
		return errors.Wrapf(ErrInvalidArgument, "ellipse semi-axes must be > 0, got a=%v, b=%v", e.A, e.B)
	}
	if math.IsNaN(e.Theta) || math.IsInf(e.Theta, 0) {
		return errors.Wrapf(ErrInvalidArgument, "ellipse theta must be finite, got %v", e.Theta)
	}
	return nil
}

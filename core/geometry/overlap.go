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

package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Overlap primitive: given the bounds of a pixel window in the aperture's own frame (aperture
// centre at the origin) and the window size in pixels, work out what fraction of each pixel
// lies inside the shape. The result has one row per pixel row (y) and one column per pixel
// column (x), every value in [0, 1].
//
// useExact selects the analytic intersection area. Otherwise each pixel is split into
// subpixels x subpixels cells and the fraction is the share of cell centres inside the shape,
// so subpixels=1 is a plain "is the pixel centre inside" test.

type overlapShape interface {
	contains(p Point2D) bool
	// Area of the shape inside the axis aligned rectangle
	rectArea(x0, y0, x1, y1 float64) float64
	// Radius of the largest circle centred on the origin inside the shape, and of the
	// smallest one containing it. Used to skip pixels that are trivially in or out
	innerRadius() float64
	outerRadius() float64
}

type circleShape struct {
	r float64
}

func (c circleShape) contains(p Point2D) bool {
	return p.LengthSq() < c.r*c.r
}

func (c circleShape) rectArea(x0, y0, x1, y1 float64) float64 {
	return PolygonCircleArea(rectCorners(x0, y0, x1, y1), c.r)
}

func (c circleShape) innerRadius() float64 { return c.r }
func (c circleShape) outerRadius() float64 { return c.r }

type ellipseShape struct {
	a, b float64
	// Maps image-frame offsets onto the unit circle
	toUnit AffineTransform
}

func newEllipseShape(a, b, theta float64) ellipseShape {
	return ellipseShape{
		a:      a,
		b:      b,
		toUnit: Scale(1/a, 1/b).Compose(Rotation(-theta)),
	}
}

func (e ellipseShape) contains(p Point2D) bool {
	return e.toUnit.Apply(p).LengthSq() < 1
}

func (e ellipseShape) rectArea(x0, y0, x1, y1 float64) float64 {
	corners := rectCorners(x0, y0, x1, y1)
	for i, c := range corners {
		corners[i] = e.toUnit.Apply(c)
	}
	return PolygonCircleArea(corners, 1) * e.a * e.b
}

func (e ellipseShape) innerRadius() float64 { return math.Min(e.a, e.b) }
func (e ellipseShape) outerRadius() float64 { return math.Max(e.a, e.b) }

func rectCorners(x0, y0, x1, y1 float64) []Point2D {
	return []Point2D{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

// CircularOverlapGrid returns the fraction of each pixel in the window covered by a circle of
// radius r centred on the origin. Returns nil if the window has no pixels.
func CircularOverlapGrid(xmin, xmax, ymin, ymax float64, nx, ny int, r float64, useExact bool, subpixels int) *mat.Dense {
	return overlapGrid(xmin, xmax, ymin, ymax, nx, ny, circleShape{r: r}, useExact, subpixels)
}

// EllipticalOverlapGrid returns the fraction of each pixel in the window covered by an ellipse
// with semi-axes a (along theta) and b, rotated counter-clockwise by theta radians.
// Returns nil if the window has no pixels.
func EllipticalOverlapGrid(xmin, xmax, ymin, ymax float64, nx, ny int, a, b, theta float64, useExact bool, subpixels int) *mat.Dense {
	return overlapGrid(xmin, xmax, ymin, ymax, nx, ny, newEllipseShape(a, b, theta), useExact, subpixels)
}

func overlapGrid(xmin, xmax, ymin, ymax float64, nx, ny int, shape overlapShape, useExact bool, subpixels int) *mat.Dense {
	if nx <= 0 || ny <= 0 {
		return nil
	}
	if subpixels < 1 {
		subpixels = 1
	}

	dx := (xmax - xmin) / float64(nx)
	dy := (ymax - ymin) / float64(ny)
	pixelArea := dx * dy
	pixelRadius := 0.5 * math.Sqrt(dx*dx+dy*dy)

	rIn := shape.innerRadius()
	rOut := shape.outerRadius()

	frac := mat.NewDense(ny, nx, nil)

	for j := 0; j < ny; j++ {
		y0 := ymin + float64(j)*dy
		yc := y0 + 0.5*dy

		for i := 0; i < nx; i++ {
			x0 := xmin + float64(i)*dx
			xc := x0 + 0.5*dx

			d := math.Sqrt(xc*xc + yc*yc)
			if d+pixelRadius <= rIn {
				frac.Set(j, i, 1)
				continue
			}
			if d-pixelRadius >= rOut {
				continue
			}

			var f float64
			if useExact {
				f = shape.rectArea(x0, y0, x0+dx, y0+dy) / pixelArea
			} else {
				f = subpixelFraction(shape, x0, y0, dx, dy, subpixels)
			}

			frac.Set(j, i, clampUnit(f))
		}
	}

	return frac
}

func subpixelFraction(shape overlapShape, x0, y0, dx, dy float64, subpixels int) float64 {
	sdx := dx / float64(subpixels)
	sdy := dy / float64(subpixels)

	inside := 0
	for sj := 0; sj < subpixels; sj++ {
		y := y0 + (float64(sj)+0.5)*sdy
		for si := 0; si < subpixels; si++ {
			if shape.contains(Point2D{X: x0 + (float64(si)+0.5)*sdx, Y: y}) {
				inside++
			}
		}
	}

	return float64(inside) / float64(subpixels*subpixels)
}

func clampUnit(f float64) float64 {
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

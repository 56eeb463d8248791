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
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func Example_polygonCircleArea() {
	unitSquare := []Point2D{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
	quadrant := []Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	small := []Point2D{{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5}}
	far := []Point2D{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 6}}

	fmt.Printf("%.6f\n", PolygonCircleArea(unitSquare, 1))
	fmt.Printf("%.6f\n", PolygonCircleArea(quadrant, 1))
	fmt.Printf("%.6f\n", PolygonCircleArea(small, 1))
	fmt.Printf("%.6f\n", PolygonCircleArea(far, 1))
	fmt.Printf("%.6f\n", PolygonCircleArea(unitSquare, 10))
	fmt.Printf("%.6f\n", PolygonArea(unitSquare))

	// Output:
	// 3.141593
	// 0.785398
	// 1.000000
	// 0.000000
	// 4.000000
	// 4.000000
}

func Example_centerOverlap() {
	// 7x7 window with pixel centres on integers -3..3
	frac := CircularOverlapGrid(-3.5, 3.5, -3.5, 3.5, 7, 7, 2, false, 1)
	fmt.Printf("%v\n", mat.Sum(frac))
	for j := 0; j < 7; j++ {
		fmt.Printf("%v\n", mat.Row(nil, j, frac))
	}

	// Output:
	// 9
	// [0 0 0 0 0 0 0]
	// [0 0 0 0 0 0 0]
	// [0 0 1 1 1 0 0]
	// [0 0 1 1 1 0 0]
	// [0 0 1 1 1 0 0]
	// [0 0 0 0 0 0 0]
	// [0 0 0 0 0 0 0]
}

func sumArea(frac *mat.Dense, xmin, xmax, ymin, ymax float64) float64 {
	r, c := frac.Dims()
	return mat.Sum(frac) * (xmax - xmin) / float64(c) * (ymax - ymin) / float64(r)
}

func checkUnitRange(t *testing.T, name string, frac *mat.Dense) {
	r, c := frac.Dims()
	for j := 0; j < r; j++ {
		for i := 0; i < c; i++ {
			v := frac.At(j, i)
			if v < 0 || v > 1 {
				t.Errorf("%v: fraction at %v,%v out of range: %v", name, j, i, v)
			}
		}
	}
	if mat.Sum(frac) > float64(r*c) {
		t.Errorf("%v: fractions sum to more than the pixel count", name)
	}
}

func Test_CircularOverlapExact(t *testing.T) {
	frac := CircularOverlapGrid(-3, 3, -3, 3, 6, 6, 2, true, 1)
	checkUnitRange(t, "circle exact", frac)

	got := sumArea(frac, -3, 3, -3, 3)
	if math.Abs(got-4*math.Pi) > 1e-9 {
		t.Errorf("circle exact area = %v, want %v", got, 4*math.Pi)
	}

	// Off-centre window, circle partially covered: compare with quadrant of the circle
	quarter := CircularOverlapGrid(0, 3, 0, 3, 3, 3, 2, true, 1)
	got = sumArea(quarter, 0, 3, 0, 3)
	if math.Abs(got-math.Pi) > 1e-9 {
		t.Errorf("quarter circle area = %v, want %v", got, math.Pi)
	}
}

func Test_CircularOverlapSubpixel(t *testing.T) {
	frac := CircularOverlapGrid(-3, 3, -3, 3, 6, 6, 2, false, 50)
	checkUnitRange(t, "circle subpixel", frac)

	got := sumArea(frac, -3, 3, -3, 3)
	if math.Abs(got-4*math.Pi) > 0.1 {
		t.Errorf("circle subpixel area = %v, want approx %v", got, 4*math.Pi)
	}

	// Non-exact fractions are multiples of 1/subpixels^2
	r, c := frac.Dims()
	for j := 0; j < r; j++ {
		for i := 0; i < c; i++ {
			n := frac.At(j, i) * 2500
			if math.Abs(n-math.Round(n)) > 1e-9 {
				t.Errorf("fraction %v is not a subpixel multiple", frac.At(j, i))
			}
		}
	}
}

func Test_EllipticalOverlapExact(t *testing.T) {
	a, b, theta := 3.0, 1.5, 0.4
	frac := EllipticalOverlapGrid(-4, 4, -4, 4, 8, 8, a, b, theta, true, 1)
	checkUnitRange(t, "ellipse exact", frac)

	got := sumArea(frac, -4, 4, -4, 4)
	if math.Abs(got-math.Pi*a*b) > 1e-9 {
		t.Errorf("ellipse exact area = %v, want %v", got, math.Pi*a*b)
	}

	// An ellipse with equal axes is a circle whatever the rotation
	circ := CircularOverlapGrid(-2.5, 2.5, -2.5, 2.5, 5, 5, 1.7, true, 1)
	ell := EllipticalOverlapGrid(-2.5, 2.5, -2.5, 2.5, 5, 5, 1.7, 1.7, 1.1, true, 1)
	if !mat.EqualApprox(circ, ell, 1e-12) {
		t.Errorf("round ellipse differs from circle:\n%v\n%v", mat.Formatted(circ), mat.Formatted(ell))
	}
}

func Test_EllipticalOverlapRotation(t *testing.T) {
	// Rotating by 90 degrees swaps the axes, so the grid is transposed
	a := EllipticalOverlapGrid(-3, 3, -3, 3, 6, 6, 2.5, 1, 0, true, 1)
	b := EllipticalOverlapGrid(-3, 3, -3, 3, 6, 6, 2.5, 1, math.Pi/2, true, 1)

	if !mat.EqualApprox(a, b.T(), 1e-9) {
		t.Errorf("rotated ellipse is not the transpose:\n%v\n%v", mat.Formatted(a), mat.Formatted(b))
	}

	// Wide along x means the centre row has more coverage than the centre column
	if mat.Sum(a.RowView(2)) <= mat.Sum(a.ColView(2)) {
		t.Errorf("expected ellipse to be wider than tall")
	}
}

func Test_OverlapEmptyWindow(t *testing.T) {
	if frac := CircularOverlapGrid(0, 0, 0, 1, 0, 1, 1, true, 1); frac != nil {
		t.Errorf("expected nil grid for empty window, got %v", frac)
	}
}

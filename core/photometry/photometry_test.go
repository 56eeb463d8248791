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
	"fmt"
	"math"
	"testing"

	"github.com/pixlise/photometry/core/extent"
	"github.com/pixlise/photometry/core/geometry"
	"github.com/pixlise/photometry/core/logger"
	"github.com/pixlise/photometry/core/quantity"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func uniformGrid(rows, cols int, value float64, unit quantity.Unit) quantity.Grid {
	data := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data.Set(r, c, value)
		}
	}
	return quantity.Grid{Data: data, Unit: unit}
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Log = &logger.StdOutLoggerForTest{Quiet: true}
	return opts
}

func Example_measureCircle() {
	data := uniformGrid(20, 20, 1, "adu")
	positions := []geometry.Point2D{{X: 10, Y: 10}, {X: 5.3, Y: 12.8}}

	for _, method := range []Method{MethodExact, MethodCenter} {
		opts := testOptions()
		opts.Method = method

		result, err := MeasureAperture(data, positions, Circle{Radius: 2}, opts)
		fmt.Printf("%v: %.6f %.6f %v arity=%v err=%v\n", method, result.Flux.At(0), result.Flux.At(1), result.Flux.Unit, result.Arity(), err)
	}

	// Output:
	// exact: 12.566371 12.566371 adu arity=1 err=<nil>
	// center: 9.000000 13.000000 adu arity=1 err=<nil>
}

func Example_measureAnnulus() {
	data := uniformGrid(30, 30, 1, "adu")
	positions := []geometry.Point2D{{X: 15, Y: 15}}

	result, err := MeasureAnnulusAperture(data, positions, AnnulusCircular, Circle{Radius: 2}, Circle{Radius: 4}, testOptions())
	fmt.Printf("%.6f %.6f arity=%v err=%v\n", result.Flux.At(0), 12*math.Pi, result.Arity(), err)

	// Output:
	// 37.699112 37.699112 arity=1 err=<nil>
}

func Test_MethodResolve(t *testing.T) {
	cases := []struct {
		method    Method
		subpixels int
		exact     bool
		effective int
	}{
		{MethodCenter, 7, false, 1},
		{MethodSubpixel, 7, false, 7},
		{MethodSubpixel, 0, false, 1},
		{MethodExact, 7, true, 1},
	}

	for _, c := range cases {
		exact, sub := c.method.Resolve(c.subpixels)
		if exact != c.exact || sub != c.effective {
			t.Errorf("%v.Resolve(%v) = (%v, %v), want (%v, %v)", c.method, c.subpixels, exact, sub, c.exact, c.effective)
		}
	}

	for _, name := range []string{"center", "subpixel", "exact", " Exact "} {
		if _, err := ParseMethod(name); err != nil {
			t.Errorf("ParseMethod(%q) failed: %v", name, err)
		}
	}
	if _, err := ParseMethod("mmm"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func Test_MeasureVariancePolicies(t *testing.T) {
	data := uniformGrid(20, 20, 1, "adu")
	errGrid := uniformGrid(20, 20, 1, "adu")
	positions := []geometry.Point2D{{X: 10, Y: 10}, {X: 9.4, Y: 8.7}}

	for _, pixelwise := range []bool{true, false} {
		opts := testOptions()
		opts.Error = &errGrid
		opts.PixelwiseError = pixelwise

		result, err := MeasureAperture(data, positions, Circle{Radius: 2}, opts)
		if err != nil {
			t.Fatalf("pixelwise=%v: unexpected error: %v", pixelwise, err)
		}
		if result.Arity() != 2 || result.FluxError.Len() != len(positions) || result.Flux.Len() != len(positions) {
			t.Fatalf("pixelwise=%v: unexpected result shape: %+v", pixelwise, result)
		}
		if result.FluxError.Unit != "adu" {
			t.Errorf("pixelwise=%v: unexpected error unit %q", pixelwise, result.FluxError.Unit)
		}

		for c := range positions {
			v := result.FluxError.At(c) * result.FluxError.At(c)
			if math.Abs(v-4*math.Pi) > 1e-9 {
				t.Errorf("pixelwise=%v: position %v variance %v, expected %v", pixelwise, c, v, 4*math.Pi)
			}
		}
	}
}

func Test_MeasureGain(t *testing.T) {
	data := uniformGrid(20, 20, 1, "adu")
	errGrid := uniformGrid(20, 20, 0, "adu")
	gainMap := uniformGrid(20, 20, 2, "")
	positions := []geometry.Point2D{{X: 10, Y: 10}}

	gains := []*Gain{{Value: 2}, {Map: gainMap.Data}}
	for _, gain := range gains {
		for _, pixelwise := range []bool{true, false} {
			opts := testOptions()
			opts.Error = &errGrid
			opts.Gain = gain
			opts.PixelwiseError = pixelwise

			result, err := MeasureAperture(data, positions, Circle{Radius: 2}, opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// Shot noise only: flux / gain
			v := result.FluxError.At(0) * result.FluxError.At(0)
			if math.Abs(v-2*math.Pi) > 1e-9 {
				t.Errorf("gain map=%v pixelwise=%v: variance %v, expected %v", gain.Map != nil, pixelwise, v, 2*math.Pi)
			}
		}
	}
}

func Test_VarianceNeverNegative(t *testing.T) {
	data := uniformGrid(20, 20, -5, "adu")
	errGrid := uniformGrid(20, 20, 0.1, "adu")
	positions := []geometry.Point2D{{X: 10, Y: 10}, {X: 3, Y: 4}}

	for _, pixelwise := range []bool{true, false} {
		opts := testOptions()
		opts.Error = &errGrid
		opts.Gain = &Gain{Value: 1}
		opts.PixelwiseError = pixelwise

		result, err := MeasureAperture(data, positions, Ellipse{A: 3, B: 1.5, Theta: 0.7}, opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for c := range positions {
			if result.FluxError.At(c) != 0 {
				t.Errorf("pixelwise=%v: expected variance clamped to 0, got error %v", pixelwise, result.FluxError.At(c))
			}
		}
	}
}

func Test_FluxVarianceAggregateSample(t *testing.T) {
	// Error increases along x, the aggregate sample must come from the centre pixel
	errWindow := mat.NewDense(3, 4, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	})
	frac := mat.NewDense(3, 4, []float64{
		0.5, 0.5, 0.5, 0.5,
		0.5, 0.5, 0.5, 0.5,
		0.5, 0.5, 0.5, 0.5,
	})

	// Image window x 10..14, y 20..23: centre index x=floor(12.5)=12, y=floor(22)=22
	v := FluxVariance(VarianceInput{
		Fraction: frac,
		Data:     frac,
		Error:    errWindow,
		Window:   extent.PixelExtent{XMin: 10, XMax: 14, YMin: 20, YMax: 23},
	})
	if v != 11*11*6 {
		t.Errorf("expected %v, got %v", 11*11*6, v)
	}

	// Single pixel wide window stays inside
	row, col := aggregateSampleIndex(extent.PixelExtent{XMin: 3, XMax: 4, YMin: 7, YMax: 8})
	if row != 0 || col != 0 {
		t.Errorf("expected (0, 0), got (%v, %v)", row, col)
	}
}

func Test_MeasureEllipseExact(t *testing.T) {
	data := uniformGrid(30, 30, 1, "adu")
	positions := []geometry.Point2D{{X: 14.2, Y: 15.6}}

	result, err := MeasureAperture(data, positions, Ellipse{A: 5, B: 2, Theta: 0.35}, testOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.Flux.At(0)-10*math.Pi) > 1e-9 {
		t.Errorf("expected %v, got %v", 10*math.Pi, result.Flux.At(0))
	}
}

func Test_MeasurePartialOutOfBounds(t *testing.T) {
	data := uniformGrid(20, 20, 1, "adu")
	errGrid := uniformGrid(20, 20, 1, "adu")
	positions := []geometry.Point2D{{X: 10, Y: 10}, {X: 100, Y: 100}, {X: -1, Y: 10}, {X: 5, Y: -40}}

	log := &logger.StdOutLoggerForTest{Quiet: true}
	opts := testOptions()
	opts.Error = &errGrid
	opts.Log = log

	result, err := MeasureAperture(data, positions, Circle{Radius: 2}, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Arity() != 2 {
		t.Errorf("expected flux and error")
	}
	for _, c := range []int{0, 2} {
		if math.IsNaN(result.Flux.At(c)) || math.IsNaN(result.FluxError.At(c)) {
			t.Errorf("position %v should have been measured", c)
		}
	}
	for _, c := range []int{1, 3} {
		if !math.IsNaN(result.Flux.At(c)) {
			t.Errorf("position %v flux should be NaN", c)
		}
		if result.FluxError.At(c) != 0 {
			t.Errorf("position %v error should be 0, got %v", c, result.FluxError.At(c))
		}
	}

	// Aperture hanging over the left edge only sees the part inside
	if result.Flux.At(2) <= 0 || result.Flux.At(2) >= 2*math.Pi {
		t.Errorf("unexpected clipped flux: %v", result.Flux.At(2))
	}

	if len(result.Warnings) != 1 || result.Warnings[0].Kind != WarnPartialOutOfBounds || fmt.Sprintf("%v", result.Warnings[0].Positions) != "[1 3]" {
		t.Errorf("unexpected warnings: %+v", result.Warnings)
	}
	if !log.LogContains("[1 3] do not have any overlap") {
		t.Errorf("warning not logged, got: %v", log.Lines())
	}
}

func Test_MeasureApertureMissingEdgePixels(t *testing.T) {
	data := uniformGrid(20, 20, 1, "adu")
	errGrid := uniformGrid(20, 20, 1, "adu")

	// r=0.4 at x=-1.2 spans x in [-1.6, -0.8], short of pixel 0 which starts at -0.5
	positions := []geometry.Point2D{{X: 10, Y: 10}, {X: -1.2, Y: 10}, {X: 10, Y: -1.2}}

	log := &logger.StdOutLoggerForTest{Quiet: true}
	opts := testOptions()
	opts.Error = &errGrid
	opts.Log = log

	result, err := MeasureAperture(data, positions, Circle{Radius: 0.4}, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(result.Flux.At(0)-0.16*math.Pi) > 1e-9 {
		t.Errorf("expected %v, got %v", 0.16*math.Pi, result.Flux.At(0))
	}
	for _, c := range []int{1, 2} {
		if !math.IsNaN(result.Flux.At(c)) {
			t.Errorf("position %v: expected NaN flux, got %v", c, result.Flux.At(c))
		}
		if result.FluxError.At(c) != 0 {
			t.Errorf("position %v: expected 0 error, got %v", c, result.FluxError.At(c))
		}
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Kind != WarnPartialOutOfBounds || fmt.Sprintf("%v", result.Warnings[0].Positions) != "[1 2]" {
		t.Errorf("unexpected warnings: %+v", result.Warnings)
	}

	// Only the missing positions: flux only, all NaN
	missing, err := MeasureAperture(data, positions[1:], Circle{Radius: 0.4}, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing.Arity() != 1 || missing.Flux.CountNaN() != 2 || !missing.HasWarning(WarnTotalOutOfBounds) {
		t.Errorf("expected total out of bounds, got %+v", missing)
	}

	// Hand built extents with an empty window count as out of bounds too
	extents := extent.Resolve(20, 20, positions[:1], 0.4)
	extents.Pixel[0].XMax = extents.Pixel[0].XMin
	byHand, err := Measure(data, positions[:1], extents, Circle{Radius: 0.4}, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byHand.Arity() != 1 || !math.IsNaN(byHand.Flux.At(0)) {
		t.Errorf("expected NaN flux only for empty window, got %+v", byHand)
	}
}

func Test_MeasureTotalOutOfBounds(t *testing.T) {
	data := uniformGrid(20, 20, 1, "adu")
	errGrid := uniformGrid(20, 20, 1, "adu")
	positions := []geometry.Point2D{{X: 100, Y: 100}, {X: -50, Y: 3}}

	opts := testOptions()
	opts.Error = &errGrid

	single, err := MeasureAperture(data, positions, Circle{Radius: 2}, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	annulus, err := MeasureAnnulusAperture(data, positions, AnnulusCircular, Circle{Radius: 2}, Circle{Radius: 3}, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, result := range []Result{single, annulus} {
		if result.Arity() != 1 {
			t.Errorf("expected flux only when all positions are out of bounds")
		}
		if result.Flux.Len() != len(positions) || result.Flux.CountNaN() != len(positions) {
			t.Errorf("expected all NaN flux, got %v", result.Flux.Values)
		}
		if !result.HasWarning(WarnTotalOutOfBounds) {
			t.Errorf("expected total out of bounds warning, got %+v", result.Warnings)
		}
	}
}

func Test_AnnulusIsOuterMinusInner(t *testing.T) {
	data := quantity.Grid{Data: mat.NewDense(25, 25, nil), Unit: "adu"}
	errGrid := quantity.Grid{Data: mat.NewDense(25, 25, nil), Unit: "adu"}
	for r := 0; r < 25; r++ {
		for c := 0; c < 25; c++ {
			data.Data.Set(r, c, float64((r*7+c*3)%11)+0.25)
			errGrid.Data.Set(r, c, 0.5+float64((r+c)%3))
		}
	}
	positions := []geometry.Point2D{{X: 12.3, Y: 11.8}, {X: 2, Y: 23}, {X: 40, Y: 40}}

	for _, method := range []Method{MethodExact, MethodCenter, MethodSubpixel} {
		opts := testOptions()
		opts.Method = method
		opts.Subpixels = 4
		opts.Error = &errGrid

		inner := Ellipse{A: 3, B: 2, Theta: 0.5}
		outer := Ellipse{A: 6, B: 4, Theta: 0.5}
		extents := extent.Resolve(25, 25, positions, outer.BoundingRadius())

		annulus, err := MeasureAnnulus(data, positions, AnnulusElliptical, extents, inner, outer, opts)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", method, err)
		}
		in, _ := Measure(data, positions, extents, inner, opts)
		out, _ := Measure(data, positions, extents, outer, opts)

		for c := range positions {
			want := out.Flux.At(c) - in.Flux.At(c)
			got := annulus.Flux.At(c)
			if got != want && !(math.IsNaN(got) && math.IsNaN(want)) {
				t.Errorf("%v: position %v annulus flux %v != %v", method, c, got, want)
			}

			if c < 2 {
				o, i := out.FluxError.At(c), in.FluxError.At(c)
				wantErr := math.Sqrt(math.Max(o*o-i*i, 0))
				if annulus.FluxError.At(c) != wantErr {
					t.Errorf("%v: position %v annulus error %v != %v", method, c, annulus.FluxError.At(c), wantErr)
				}
			}
		}
	}
}

func Test_AnnulusInvalidMode(t *testing.T) {
	data := uniformGrid(10, 10, 1, "adu")
	positions := []geometry.Point2D{{X: 5, Y: 5}}

	if _, err := ParseAnnulusMode("rectangular"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}

	_, err := MeasureAnnulusAperture(data, positions, AnnulusMode(7), Circle{Radius: 1}, Circle{Radius: 2}, testOptions())
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for bad mode, got %v", err)
	}

	_, err = MeasureAnnulusAperture(data, positions, AnnulusCircular, Ellipse{A: 1, B: 1}, Circle{Radius: 2}, testOptions())
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for mixed shapes, got %v", err)
	}
}

func Test_MeasureValidation(t *testing.T) {
	data := uniformGrid(10, 10, 1, "adu")
	positions := []geometry.Point2D{{X: 5, Y: 5}}

	badErr := uniformGrid(10, 10, 1, "Jy")
	smallErr := uniformGrid(5, 10, 1, "adu")
	okErr := uniformGrid(10, 10, 1, "adu")

	zeroGainMap := uniformGrid(10, 10, 2, "")
	zeroGainMap.Data.Set(5, 4, 0)
	infGainMap := uniformGrid(10, 10, 2, "")
	infGainMap.Data.Set(0, 9, math.Inf(1))

	cases := []struct {
		name string
		ap   Aperture
		opts func(o *Options)
		want error
	}{
		{"unit mismatch", Circle{Radius: 1}, func(o *Options) { o.Error = &badErr }, ErrUnitMismatch},
		{"error shape", Circle{Radius: 1}, func(o *Options) { o.Error = &smallErr }, ErrInvalidArgument},
		{"zero gain", Circle{Radius: 1}, func(o *Options) { o.Gain = &Gain{} }, ErrInvalidArgument},
		{"zero in gain map", Circle{Radius: 1}, func(o *Options) { o.Error = &okErr; o.Gain = &Gain{Map: zeroGainMap.Data} }, ErrInvalidArgument},
		{"infinite gain map", Circle{Radius: 1}, func(o *Options) { o.Error = &okErr; o.Gain = &Gain{Map: infGainMap.Data} }, ErrInvalidArgument},
		{"zero radius", Circle{Radius: 0}, func(o *Options) {}, ErrInvalidArgument},
		{"negative axis", Ellipse{A: 2, B: -1}, func(o *Options) {}, ErrInvalidArgument},
		{"bad method", Circle{Radius: 1}, func(o *Options) { o.Method = Method(9) }, ErrInvalidArgument},
	}

	for _, c := range cases {
		opts := testOptions()
		c.opts(&opts)
		_, err := MeasureAperture(data, positions, c.ap, opts)
		if !errors.Is(err, c.want) {
			t.Errorf("%v: expected %v, got %v", c.name, c.want, err)
		}
	}

	if _, err := MeasureAperture(data, nil, Circle{Radius: 1}, testOptions()); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected error for no positions, got %v", err)
	}

	// Extents that don't match the positions
	extents := extent.Resolve(10, 10, []geometry.Point2D{{X: 1, Y: 1}, {X: 2, Y: 2}}, 1)
	if _, err := Measure(data, positions, extents, Circle{Radius: 1}, testOptions()); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected error for mismatched extents, got %v", err)
	}
}

func Test_MeasureWorkersMatchSequential(t *testing.T) {
	data := quantity.Grid{Data: mat.NewDense(40, 40, nil), Unit: "adu"}
	for r := 0; r < 40; r++ {
		for c := 0; c < 40; c++ {
			data.Data.Set(r, c, math.Sin(float64(r))*math.Cos(float64(c))+2)
		}
	}
	errGrid := uniformGrid(40, 40, 0.3, "adu")

	positions := []geometry.Point2D{}
	for i := 0; i < 50; i++ {
		positions = append(positions, geometry.Point2D{X: float64(i%10)*4.1 - 1, Y: float64(i/10)*8.3 + 0.5})
	}

	opts := testOptions()
	opts.Error = &errGrid
	sequential, err := MeasureAperture(data, positions, Circle{Radius: 2.5}, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opts.Workers = 4
	parallel, err := MeasureAperture(data, positions, Circle{Radius: 2.5}, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for c := range positions {
		if sequential.Flux.At(c) != parallel.Flux.At(c) || sequential.FluxError.At(c) != parallel.FluxError.At(c) {
			t.Errorf("position %v differs: %v/%v vs %v/%v", c, sequential.Flux.At(c), sequential.FluxError.At(c), parallel.Flux.At(c), parallel.FluxError.At(c))
		}
	}
}

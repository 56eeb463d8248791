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

// Package extent works out which part of an image each aperture touches: the clipped pixel
// index window used to slice the data, the same window expressed relative to the aperture
// centre (what the overlap primitive needs), and whether the aperture misses the image entirely.
package extent

import (
	"math"

	"github.com/pixlise/photometry/core/geometry"
)

// PositionState records whether an aperture has any overlap with the image, so later stages
// consult it instead of testing for NaN flux
type PositionState int

const (
	InBounds PositionState = iota
	OutOfBounds
)

func (s PositionState) String() string {
	if s == OutOfBounds {
		return "out-of-bounds"
	}
	return "in-bounds"
}

// PixelExtent - index window into the full image, max values exclusive
type PixelExtent struct {
	XMin int
	XMax int
	YMin int
	YMax int
}

func (e PixelExtent) Width() int {
	return e.XMax - e.XMin
}

func (e PixelExtent) Height() int {
	return e.YMax - e.YMin
}

func (e PixelExtent) IsEmpty() bool {
	return e.Width() <= 0 || e.Height() <= 0
}

// PhotometricExtent - edges of the pixel window in the aperture-centred frame
type PhotometricExtent struct {
	XMin float64
	XMax float64
	YMin float64
	YMax float64
}

// Bundle - per-position extents, index aligned with the positions they were computed for
type Bundle struct {
	OutOfData   []bool
	Pixel       []PixelExtent
	Photometric []PhotometricExtent
}

// Resolve computes extents for apertures of the given bounding radius at each position, on an
// image of rows x cols pixels. Pixel centres sit on integer coordinates, so pixel i spans
// [i-0.5, i+0.5).
func Resolve(rows, cols int, positions []geometry.Point2D, boundingRadius float64) Bundle {
	result := Bundle{
		OutOfData:   make([]bool, len(positions)),
		Pixel:       make([]PixelExtent, len(positions)),
		Photometric: make([]PhotometricExtent, len(positions)),
	}

	width := float64(cols)
	height := float64(rows)

	for c, pos := range positions {
		xMin := pos.X - boundingRadius + 0.5
		xMax := pos.X + boundingRadius + 1.5
		yMin := pos.Y - boundingRadius + 0.5
		yMax := pos.Y + boundingRadius + 1.5

		// Non-finite positions can't be measured either
		if !pos.IsFinite() || xMin >= width || xMax <= 0 || yMin >= height || yMax <= 0 {
			result.OutOfData[c] = true
			continue
		}

		px := PixelExtent{
			XMin: int(math.Max(xMin, 0)),
			XMax: int(math.Min(xMax, width)),
			YMin: int(math.Max(yMin, 0)),
			YMax: int(math.Min(yMax, height)),
		}

		// An edge within a pixel of the image truncates to an empty window: the aperture
		// reaches the image footprint but no pixel of it
		if px.IsEmpty() {
			result.OutOfData[c] = true
			continue
		}

		result.Pixel[c] = px
		result.Photometric[c] = PhotometricExtent{
			XMin: float64(px.XMin) - pos.X - 0.5,
			XMax: float64(px.XMax) - pos.X - 0.5,
			YMin: float64(px.YMin) - pos.Y - 0.5,
			YMax: float64(px.YMax) - pos.Y - 0.5,
		}
	}

	return result
}

func (b Bundle) Len() int {
	return len(b.OutOfData)
}

func (b Bundle) State(idx int) PositionState {
	if b.OutOfData[idx] {
		return OutOfBounds
	}
	return InBounds
}

// OutOfDataIndexes - indexes of positions whose aperture misses the image
func (b Bundle) OutOfDataIndexes() []int {
	result := []int{}
	for c, ood := range b.OutOfData {
		if ood {
			result = append(result, c)
		}
	}
	return result
}

func (b Bundle) AllOutOfData() bool {
	return len(b.OutOfDataIndexes()) == b.Len()
}

// Window returns the clipped window size (width, height) in pixels for a position
func (b Bundle) Window(idx int) (int, int) {
	return b.Pixel[idx].Width(), b.Pixel[idx].Height()
}

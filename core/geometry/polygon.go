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

import "math"

// PolygonArea returns the (unsigned) area of a simple polygon using the shoelace formula.
func PolygonArea(polygon []Point2D) float64 {
	if len(polygon) < 3 {
		return 0
	}

	sum := 0.0
	for i := range polygon {
		sum += polygon[i].Cross(polygon[(i+1)%len(polygon)])
	}
	return math.Abs(sum) / 2
}

// PolygonCircleArea returns the area of the intersection of a simple polygon with the circle of
// radius r centred on the origin. Each edge contributes the signed area of the triangle it forms
// with the origin, clipped to the circle, so the polygon may be in either winding order.
func PolygonCircleArea(polygon []Point2D, r float64) float64 {
	if len(polygon) < 3 || r <= 0 {
		return 0
	}

	sum := 0.0
	for i := range polygon {
		sum += edgeCircleArea(polygon[i], polygon[(i+1)%len(polygon)], r)
	}
	return math.Abs(sum)
}

// edgeCircleArea is the signed area of triangle (origin, p, q) intersected with the circle. The
// edge is split where it crosses the circle; pieces inside contribute a triangle, pieces outside
// a circular sector.
func edgeCircleArea(p, q Point2D, r float64) float64 {
	d := q.Sub(p)
	a := d.LengthSq()
	if a == 0 {
		return 0
	}

	rSq := r * r
	halfB := p.Dot(d)
	c := p.LengthSq() - rSq

	cuts := make([]float64, 1, 4)
	disc := halfB*halfB - a*c
	if disc > 0 {
		s := math.Sqrt(disc)
		for _, t := range []float64{(-halfB - s) / a, (-halfB + s) / a} {
			if t > 0 && t < 1 {
				cuts = append(cuts, t)
			}
		}
	}
	cuts = append(cuts, 1)

	area := 0.0
	for i := 0; i+1 < len(cuts); i++ {
		start := p.Add(d.Scale(cuts[i]))
		end := p.Add(d.Scale(cuts[i+1]))
		mid := p.Add(d.Scale((cuts[i] + cuts[i+1]) / 2))

		if mid.LengthSq() < rSq {
			area += start.Cross(end) / 2
		} else {
			area += rSq / 2 * math.Atan2(start.Cross(end), start.Dot(end))
		}
	}
	return area
}

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
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

var fwhmPerSigma = 2 * math.Sqrt(2*math.Ln2)

// Gaussian1D - amplitude * exp(-(r-mean)^2 / (2 sigma^2))
type Gaussian1D struct {
	Amplitude float64
	Mean      float64
	Sigma     float64
}

func (g Gaussian1D) At(r float64) float64 {
	d := r - g.Mean
	return g.Amplitude * math.Exp(-d*d/(2*g.Sigma*g.Sigma))
}

func (g Gaussian1D) FWHM() float64 {
	return fwhmPerSigma * math.Abs(g.Sigma)
}

// GaussianFit fits a Gaussian centred at radius 0 to the finite values of the profile
func (p *Profile) GaussianFit() (Gaussian1D, error) {
	radius := []float64{}
	values := []float64{}
	for c, v := range p.Profile {
		if isFinite(v) {
			radius = append(radius, p.Radius[c])
			values = append(values, v)
		}
	}

	if len(values) < 2 {
		return Gaussian1D{}, errors.Wrap(photometry.ErrInvalidArgument, "not enough finite profile values to fit a gaussian")
	}

	// Start from the peak and the second moment of the profile
	amplitude := floats.Max(values)
	weights := 0.0
	moment := 0.0
	for c, v := range values {
		if v > 0 {
			weights += v
			moment += v * radius[c] * radius[c]
		}
	}
	sigma := 1.0
	if weights > 0 && moment > 0 {
		sigma = math.Sqrt(moment / weights)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			g := Gaussian1D{Amplitude: x[0], Sigma: x[1]}
			residual := 0.0
			for c, r := range radius {
				d := g.At(r) - values[c]
				residual += d * d
			}
			return residual
		},
	}

	fit, err := optimize.Minimize(problem, []float64{amplitude, sigma}, nil, &optimize.NelderMead{})
	if err != nil {
		return Gaussian1D{}, errors.Wrap(err, "gaussian fit failed")
	}

	return Gaussian1D{Amplitude: fit.X[0], Sigma: math.Abs(fit.X[1])}, nil
}

// GaussianProfile evaluates the fitted gaussian at each profile radius
func (p *Profile) GaussianProfile() ([]float64, error) {
	g, err := p.GaussianFit()
	if err != nil {
		return nil, err
	}

	result := make([]float64, len(p.Radius))
	for c, r := range p.Radius {
		result[c] = g.At(r)
	}
	return result, nil
}

func (p *Profile) GaussianFWHM() (float64, error) {
	g, err := p.GaussianFit()
	if err != nil {
		return 0, err
	}
	return g.FWHM(), nil
}

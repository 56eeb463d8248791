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

	"github.com/pixlise/photometry/core/logger"
	"github.com/pixlise/photometry/core/quantity"
	"github.com/pkg/errors"
)

type WarningKind int

const (
	// Some (not all) positions have apertures that miss the image. Their flux is NaN
	WarnPartialOutOfBounds WarningKind = iota
	// Every position misses the image. Flux is all NaN and no error is returned
	WarnTotalOutOfBounds
	// Data or error contained non-finite values which were masked out
	WarnNonFinite
)

func (k WarningKind) String() string {
	switch k {
	case WarnPartialOutOfBounds:
		return "partial-out-of-bounds"
	case WarnTotalOutOfBounds:
		return "total-out-of-bounds"
	case WarnNonFinite:
		return "non-finite"
	}
	return "unknown"
}

func (k WarningKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *WarningKind) UnmarshalText(text []byte) error {
	for _, kind := range []WarningKind{WarnPartialOutOfBounds, WarnTotalOutOfBounds, WarnNonFinite} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return errors.Wrapf(ErrInvalidArgument, "unknown warning kind: %q", string(text))
}

type Warning struct {
	Kind      WarningKind `json:"kind"`
	Positions []int       `json:"positions,omitempty"`
	Message   string      `json:"message"`
}

func outOfBoundsWarning(kind WarningKind, positions []int) Warning {
	msg := fmt.Sprintf("The aperture(s) at position index(es) %v do not have any overlap with the data", positions)
	if kind == WarnTotalOutOfBounds {
		msg = "No apertures have any overlap with the data, flux is NaN and no error is returned"
	}
	return Warning{Kind: kind, Positions: positions, Message: msg}
}

// Result of measuring one aperture (or annulus) at every position. FluxError is nil if no error
// map was supplied, or if every position was out of bounds
type Result struct {
	Flux      quantity.Quantity
	FluxError *quantity.Quantity
	Warnings  []Warning
}

func (r Result) HasError() bool {
	return r.FluxError != nil
}

// Arity - 1 for flux only, 2 for flux and error
func (r Result) Arity() int {
	if r.HasError() {
		return 2
	}
	return 1
}

func (r Result) HasWarning(kind WarningKind) bool {
	for _, w := range r.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

func emitWarnings(log logger.ILogger, warnings []Warning) {
	for _, w := range warnings {
		log.Warnf("%v", w.Message)
	}
}

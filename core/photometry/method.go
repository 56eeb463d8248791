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
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Method - how the aperture boundary is resolved within pixels
type Method int

const (
	// MethodCenter - a pixel counts fully if its centre is inside the aperture
	MethodCenter Method = iota
	// MethodSubpixel - each pixel is sampled on a grid of subpixels
	MethodSubpixel
	// MethodExact - analytic overlap area
	MethodExact
)

var methodNames = map[Method]string{
	MethodCenter:   "center",
	MethodSubpixel: "subpixel",
	MethodExact:    "exact",
}

// AllMethods - every method, in increasing order of accuracy
func AllMethods() []Method {
	return []Method{MethodCenter, MethodSubpixel, MethodExact}
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return "unknown"
}

func ParseMethod(name string) (Method, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, n := range methodNames {
		if n == name {
			return m, nil
		}
	}
	return MethodExact, errors.Wrapf(ErrInvalidArgument, "unsupported method: %q", name)
}

// Resolve returns the overlap primitive settings for this method. The caller's subpixel
// count only applies to MethodSubpixel
func (m Method) Resolve(subpixels int) (useExact bool, effectiveSubpixels int) {
	switch m {
	case MethodSubpixel:
		if subpixels < 1 {
			subpixels = 1
		}
		return false, subpixels
	case MethodExact:
		return true, 1
	}
	return false, 1
}

func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

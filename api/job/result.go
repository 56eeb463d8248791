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

package job

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pixlise/photometry/core/photometry"
	"github.com/pixlise/photometry/core/utils"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// NullableFloats - JSON has no NaN, so NaN values are written as null and read back as NaN
type NullableFloats []float64

func (f NullableFloats) MarshalJSON() ([]byte, error) {
	values := make([]*float64, len(f))
	for c := range f {
		if !math.IsNaN(f[c]) && !math.IsInf(f[c], 0) {
			v := f[c]
			values[c] = &v
		}
	}
	return json.Marshal(values)
}

func (f *NullableFloats) UnmarshalJSON(b []byte) error {
	var values []*float64
	if err := json.Unmarshal(b, &values); err != nil {
		return err
	}

	*f = make(NullableFloats, len(values))
	for c, v := range values {
		if v == nil {
			(*f)[c] = math.NaN()
		} else {
			(*f)[c] = *v
		}
	}
	return nil
}

type JobResult struct {
	RunID            string               `json:"runId" bson:"_id"`
	JobID            string               `json:"jobId" bson:"jobId"`
	TimeStampUnixSec int64                `json:"timeStampUnixSec" bson:"timeStampUnixSec"`
	Shape            string               `json:"shape" bson:"shape"`
	Method           photometry.Method    `json:"method" bson:"method"`
	Subpixels        int                  `json:"subpixels,omitempty" bson:"subpixels,omitempty"`
	Unit             string               `json:"unit,omitempty" bson:"unit,omitempty"`
	ErrorUnit        string               `json:"errorUnit,omitempty" bson:"errorUnit,omitempty"`
	Flux             NullableFloats       `json:"flux" bson:"flux"`
	FluxError        NullableFloats       `json:"fluxError,omitempty" bson:"fluxError,omitempty"`
	// Radial profiles only: bin centre and unmasked bin area in pixels
	Radius     NullableFloats       `json:"radius,omitempty" bson:"radius,omitempty"`
	Area       NullableFloats       `json:"area,omitempty" bson:"area,omitempty"`
	Warnings   []photometry.Warning `json:"warnings,omitempty" bson:"warnings,omitempty"`
	DurationMs int64                `json:"durationMs" bson:"durationMs"`
}

// OutOfBoundsCount - how many positions came back without a flux
func (r JobResult) OutOfBoundsCount() int {
	count := 0
	for _, v := range r.Flux {
		if math.IsNaN(v) {
			count++
		}
	}
	return count
}

// WarningCounts - number of positions affected, by warning kind
func (r JobResult) WarningCounts() map[string]int {
	counts := map[string]int{}
	for _, w := range r.Warnings {
		counts[w.Kind.String()] += len(w.Positions)
	}
	return counts
}

// WarningSummary - one line per warning kind, sorted by kind
func (r JobResult) WarningSummary() []string {
	counts := r.WarningCounts()
	lines := []string{}
	for _, kind := range utils.SortedMapKeys(counts) {
		lines = append(lines, fmt.Sprintf("%v: %v", kind, counts[kind]))
	}
	return lines
}

func resultToStruct(result JobResult) (*structpb.Struct, error) {
	b, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}

	return structpb.NewStruct(fields)
}

// MakeResultProtobuf encodes a job result as a protobuf Struct message
func MakeResultProtobuf(result JobResult) ([]byte, error) {
	pb, err := resultToStruct(result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert result for protobuf")
	}
	return proto.Marshal(pb)
}

// ParseResultProtobuf reads back what MakeResultProtobuf wrote
func ParseResultProtobuf(data []byte) (JobResult, error) {
	pb := &structpb.Struct{}
	if err := proto.Unmarshal(data, pb); err != nil {
		return JobResult{}, errors.Wrap(err, "failed to read result protobuf")
	}

	b, err := json.Marshal(pb.AsMap())
	if err != nil {
		return JobResult{}, err
	}

	result := JobResult{}
	if err := json.Unmarshal(b, &result); err != nil {
		return JobResult{}, errors.Wrap(err, "failed to parse result protobuf contents")
	}
	return result, nil
}

// DescribeResultProtobuf - human readable form of a result protobuf, fields sorted
func DescribeResultProtobuf(data []byte) (string, error) {
	pb := &structpb.Struct{}
	if err := proto.Unmarshal(data, pb); err != nil {
		return "", errors.Wrap(err, "failed to read result protobuf")
	}

	b, err := protojson.MarshalOptions{Multiline: true, Indent: utils.PrettyPrintIndentForJSON}.Marshal(pb)
	if err != nil {
		return "", err
	}
	return utils.MakeDeterministicJSON(b, false)
}

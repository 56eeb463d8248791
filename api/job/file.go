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
	"strings"

	"github.com/pixlise/photometry/core/fileaccess"
	"github.com/pkg/errors"
)

// Result files are written in protobuf form if their path ends in this
const ProtobufExtension = ".pb"

// ResultPathForJob - where the result of a job file goes if no output path is given
func ResultPathForJob(jobPath string) string {
	return strings.TrimSuffix(jobPath, ".json") + ".result.json"
}

// ReadJobRequest loads a job from a bucket (or local dir)
func ReadJobRequest(fs fileaccess.FileAccess, bucket string, jobPath string) (JobRequest, error) {
	req := JobRequest{}
	if err := fs.ReadJSON(bucket, jobPath, &req, false); err != nil {
		return req, errors.Wrapf(err, "failed to read job %v", jobPath)
	}
	return req, nil
}

// WriteJobResult saves a result as JSON, or protobuf if the path ends in .pb
func WriteJobResult(fs fileaccess.FileAccess, bucket string, outPath string, result JobResult) error {
	if strings.HasSuffix(outPath, ProtobufExtension) {
		b, err := MakeResultProtobuf(result)
		if err != nil {
			return err
		}
		return fs.WriteObject(bucket, outPath, b)
	}
	return fs.WriteJSON(bucket, outPath, result)
}

// ReadJobResult reads back what WriteJobResult wrote
func ReadJobResult(fs fileaccess.FileAccess, bucket string, path string) (JobResult, error) {
	if strings.HasSuffix(path, ProtobufExtension) {
		b, err := fs.ReadObject(bucket, path)
		if err != nil {
			return JobResult{}, err
		}
		return ParseResultProtobuf(b)
	}

	result := JobResult{}
	err := fs.ReadJSON(bucket, path, &result, false)
	return result, err
}

// RunFromFile reads a job, runs it and writes the result. If the job has no ID, its file name
// is used
func (r *Runner) RunFromFile(fs fileaccess.FileAccess, bucket string, jobPath string, outPath string) (JobResult, error) {
	req, err := ReadJobRequest(fs, bucket, jobPath)
	if err != nil {
		return JobResult{}, err
	}

	if len(req.ID) <= 0 {
		parts := strings.Split(jobPath, "/")
		req.ID = strings.TrimSuffix(parts[len(parts)-1], ".json")
	}

	result, err := r.Run(req)
	if err != nil {
		return JobResult{}, err
	}

	if len(outPath) <= 0 {
		outPath = ResultPathForJob(jobPath)
	}
	if err := WriteJobResult(fs, bucket, outPath, result); err != nil {
		return result, errors.Wrapf(err, "failed to write result %v", outPath)
	}
	return result, nil
}

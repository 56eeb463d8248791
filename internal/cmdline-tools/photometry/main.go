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

// Runs a photometry job file from local disk or S3 and writes the result next to it (or to -out)
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pixlise/photometry/api/job"
	"github.com/pixlise/photometry/core/awsutil"
	"github.com/pixlise/photometry/core/fileaccess"
	"github.com/pixlise/photometry/core/logger"
)

type toolArgs struct {
	jobPath   string
	bucket    string
	outPath   string
	proto     bool
	describe  string
	logLevel  string
	method    string
	subpixels int
	workers   int
}

func parseArgs(flags *flag.FlagSet, args []string) (toolArgs, error) {
	var a toolArgs
	flags.StringVar(&a.jobPath, "job", "", "Job JSON file path, or s3://bucket/path")
	flags.StringVar(&a.bucket, "bucket", "", "S3 bucket holding the job (if empty, -job is a local path)")
	flags.StringVar(&a.outPath, "out", "", "Result path (defaults to <job>.result.json)")
	flags.BoolVar(&a.proto, "proto", false, "Write the result as protobuf")
	flags.StringVar(&a.describe, "describe", "", "Print a previously written protobuf result file and exit")
	flags.StringVar(&a.logLevel, "loglevel", "info", "Log level: debug, info, warn or error")
	flags.StringVar(&a.method, "method", "exact", "Overlap method if the job doesn't specify one: center, subpixel or exact")
	flags.IntVar(&a.subpixels, "subpixels", 5, "Subpixels per axis if the job doesn't specify")
	flags.IntVar(&a.workers, "workers", 1, "Positions measured in parallel")

	if err := flags.Parse(args); err != nil {
		return a, err
	}

	if len(a.describe) <= 0 && len(a.jobPath) <= 0 {
		return a, fmt.Errorf("-job is required")
	}

	if fileaccess.IsS3URL(a.jobPath) {
		bucket, path, err := fileaccess.SplitS3URL(a.jobPath)
		if err != nil {
			return a, err
		}
		a.bucket = bucket
		a.jobPath = path
	}

	if a.proto && len(a.outPath) <= 0 {
		a.outPath = job.ResultPathForJob(a.jobPath)
	}
	if a.proto {
		a.outPath = strings.TrimSuffix(a.outPath, ".json") + job.ProtobufExtension
	}
	return a, nil
}

func makeFileAccess(bucket string) (fileaccess.FileAccess, error) {
	if len(bucket) <= 0 {
		return &fileaccess.FSAccess{}, nil
	}

	sess, err := awsutil.GetSession()
	if err != nil {
		return nil, err
	}
	return fileaccess.MakeS3Access(awsutil.GetS3(sess)), nil
}

func run(a toolArgs, fs fileaccess.FileAccess, iLog logger.ILogger) error {
	if len(a.describe) > 0 {
		b, err := os.ReadFile(a.describe)
		if err != nil {
			return err
		}
		desc, err := job.DescribeResultProtobuf(b)
		if err != nil {
			return err
		}
		fmt.Println(desc)
		return nil
	}

	runner := job.MakeRunner(job.Defaults{Method: a.method, Subpixels: a.subpixels, Workers: a.workers}, iLog)
	result, err := runner.RunFromFile(fs, a.bucket, a.jobPath, a.outPath)
	if err != nil {
		return err
	}

	for _, line := range result.WarningSummary() {
		iLog.Warnf("%v", line)
	}
	iLog.Infof("Run %v: %v positions, %v out of bounds", result.RunID, len(result.Flux), result.OutOfBoundsCount())
	return nil
}

func main() {
	a, err := parseArgs(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalln(err)
	}

	iLog := &logger.StdErrLogger{}
	level, err := logger.GetLogLevel(a.logLevel)
	if err != nil {
		log.Fatalln(err)
	}
	iLog.SetLogLevel(level)

	fs, err := makeFileAccess(a.bucket)
	if err != nil {
		log.Fatalf("Failed to create AWS session: %v", err)
	}

	if err := run(a, fs, iLog); err != nil {
		log.Fatalln(err)
	}
}

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

// Lambda triggered when job files land in S3 (directly, or via SQS). Each job is run and its
// result written as <job>.result.json, to the configured results bucket or next to the job
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/getsentry/sentry-go"
	"github.com/pixlise/photometry/api/config"
	"github.com/pixlise/photometry/api/job"
	"github.com/pixlise/photometry/api/services"
	"github.com/pixlise/photometry/core/awsutil"
	"github.com/pixlise/photometry/core/fileaccess"
	"github.com/pixlise/photometry/core/logger"
)

type jobHandler struct {
	cfg    config.PhotometryConfig
	fs     fileaccess.FileAccess
	runner *job.Runner
	log    logger.ILogger
}

func isResultFile(key string) bool {
	return strings.HasSuffix(key, ".result.json") || strings.HasSuffix(key, job.ProtobufExtension)
}

func (h *jobHandler) runJob(obj awsutil.ObjectRef) (string, error) {
	req, err := job.ReadJobRequest(h.fs, obj.Bucket, obj.Key)
	if err != nil {
		return "", err
	}
	if len(req.ID) <= 0 {
		req.ID = fileaccess.MakeValidObjectName(strings.TrimSuffix(obj.Key, ".json"))
	}

	result, err := h.runner.Run(req)
	if err != nil {
		return "", err
	}

	outBucket := h.cfg.ResultsBucket
	if len(outBucket) <= 0 {
		outBucket = obj.Bucket
	}
	outPath := job.ResultPathForJob(obj.Key)

	if err := job.WriteJobResult(h.fs, outBucket, outPath, result); err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%v/%v", outBucket, outPath), nil
}

// HandleRequest runs every job named in the event. Failed jobs don't stop the others, but the
// first failure is returned so the trigger is retried/dead-lettered
func (h *jobHandler) HandleRequest(ctx context.Context, event awsutil.Event) (string, error) {
	var firstErr error
	written := []string{}

	for _, obj := range event.Objects {
		if isResultFile(obj.Key) {
			h.log.Debugf("Ignoring result file: s3://%v/%v", obj.Bucket, obj.Key)
			continue
		}

		h.log.Infof("Running photometry job: s3://%v/%v", obj.Bucket, obj.Key)
		out, err := h.runJob(obj)
		if err != nil {
			h.log.Errorf("Job s3://%v/%v failed: %v", obj.Bucket, obj.Key, err)
			sentry.CaptureException(err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		written = append(written, out)
	}

	return fmt.Sprintf("Wrote %v result(s): %v", len(written), strings.Join(written, ", ")), firstErr
}

func main() {
	cfg, err := config.NewConfigFromEnvironment()
	if err != nil {
		panic(err)
	}

	iLog := &logger.StdOutLogger{}
	iLog.SetLogLevel(cfg.GetLogLevel())

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryEndpoint,
		Environment: cfg.EnvironmentName,
		Release:     services.ApiVersion,
	}); err != nil {
		iLog.Errorf("Sentry initialization failed: %v", err)
	}
	defer sentry.Flush(2 * time.Second)

	sess, err := awsutil.GetSession()
	if err != nil {
		panic(err)
	}

	h := &jobHandler{
		cfg:    cfg,
		fs:     fileaccess.MakeS3Access(awsutil.GetS3(sess)),
		runner: job.MakeRunner(services.MakeJobDefaults(cfg), iLog),
		log:    iLog,
	}

	lambda.Start(h.HandleRequest)
}

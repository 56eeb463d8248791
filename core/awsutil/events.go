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

package awsutil

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// ObjectRef - an S3 object named in a trigger event
type ObjectRef struct {
	Bucket string
	Key    string
}

// Event - a lambda trigger that names S3 objects. Accepts S3 notifications directly, or S3
// notifications delivered as the body of SQS messages
type Event struct {
	Source  string
	Objects []ObjectRef
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Records []struct {
			EventSource      string `json:"eventSource"`
			EventSourceUpper string `json:"EventSource"`
		} `json:"Records"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if len(envelope.Records) == 0 {
		return errors.New("event contains no records")
	}

	e.Source = envelope.Records[0].EventSource
	if e.Source == "" {
		e.Source = envelope.Records[0].EventSourceUpper
	}

	e.Objects = []ObjectRef{}

	switch e.Source {
	case "aws:s3":
		s3Event := events.S3Event{}
		if err := json.Unmarshal(data, &s3Event); err != nil {
			return err
		}
		e.addS3Records(s3Event)

	case "aws:sqs":
		sqsEvent := events.SQSEvent{}
		if err := json.Unmarshal(data, &sqsEvent); err != nil {
			return err
		}
		for _, msg := range sqsEvent.Records {
			s3Event := events.S3Event{}
			if err := json.Unmarshal([]byte(msg.Body), &s3Event); err != nil {
				return errors.Wrap(err, "Failed to decode sqs body to an S3 event")
			}
			if len(s3Event.Records) == 0 {
				return errors.New("S3 Event Records is empty")
			}
			e.addS3Records(s3Event)
		}

	default:
		return errors.Errorf("unsupported event source: %q", e.Source)
	}

	return nil
}

func (e *Event) addS3Records(s3Event events.S3Event) {
	for _, rec := range s3Event.Records {
		key := rec.S3.Object.URLDecodedKey
		if key == "" {
			key = rec.S3.Object.Key
		}
		e.Objects = append(e.Objects, ObjectRef{Bucket: rec.S3.Bucket.Name, Key: key})
	}
}

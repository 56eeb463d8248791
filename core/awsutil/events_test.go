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
	"fmt"
)

func Example_eventS3() {
	data := `{
	"Records": [
		{
			"eventVersion": "2.1",
			"eventSource": "aws:s3",
			"awsRegion": "us-east-1",
			"eventName": "ObjectCreated:Put",
			"s3": {
				"bucket": {"name": "photometry-jobs", "arn": "arn:aws:s3:::photometry-jobs"},
				"object": {"key": "Jobs/field+7/job.json", "size": 1024}
			}
		}
	]
}`

	var e Event
	err := json.Unmarshal([]byte(data), &e)
	fmt.Printf("%v|%v|%+v\n", err, e.Source, e.Objects)

	// Output:
	// <nil>|aws:s3|[{Bucket:photometry-jobs Key:Jobs/field 7/job.json}]
}

func Example_eventSQS() {
	body := `{"Records":[{"eventSource":"aws:s3","s3":{"bucket":{"name":"jobs"},"object":{"key":"a.json"}}},{"eventSource":"aws:s3","s3":{"bucket":{"name":"jobs"},"object":{"key":"b.json"}}}]}`
	msg, _ := json.Marshal(map[string]interface{}{
		"Records": []map[string]interface{}{
			{"messageId": "1", "eventSource": "aws:sqs", "body": body},
		},
	})

	var e Event
	err := json.Unmarshal(msg, &e)
	fmt.Printf("%v|%v|%+v\n", err, e.Source, e.Objects)

	err = json.Unmarshal([]byte(`{"Records":[{"eventSource":"aws:sns"}]}`), &e)
	fmt.Println(err)

	err = json.Unmarshal([]byte(`{"Records":[]}`), &e)
	fmt.Println(err)

	// Output:
	// <nil>|aws:sqs|[{Bucket:jobs Key:a.json} {Bucket:jobs Key:b.json}]
	// unsupported event source: "aws:sns"
	// event contains no records
}

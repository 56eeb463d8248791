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
	"bytes"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// MockS3Client - in-memory S3 for tests. Only the calls used by fileaccess are implemented,
// anything else panics via the nil embedded interface
type MockS3Client struct {
	s3iface.S3API

	mutex   sync.Mutex
	objects map[string][]byte

	// Listings are split into pages of this many keys if > 0, to exercise continuation
	PageSize int
	// Every call made, in order, as "Op bucket/key"
	Calls []string
}

func objectID(bucket, key string) string {
	return bucket + "/" + key
}

func (m *MockS3Client) record(op string, bucket, key *string) {
	m.Calls = append(m.Calls, op+" "+objectID(aws.StringValue(bucket), aws.StringValue(key)))
}

// SetObject puts an object in the mock without recording a call
func (m *MockS3Client) SetObject(bucket, key string, data []byte) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[objectID(bucket, key)] = data
}

func (m *MockS3Client) GetStoredObject(bucket, key string) ([]byte, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	data, ok := m.objects[objectID(bucket, key)]
	return data, ok
}

func (m *MockS3Client) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.record("GetObject", input.Bucket, input.Key)
	data, ok := m.objects[objectID(aws.StringValue(input.Bucket), aws.StringValue(input.Key))]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}

	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
	}, nil
}

func (m *MockS3Client) PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.record("PutObject", input.Bucket, input.Key)

	data := []byte{}
	if input.Body != nil {
		var err error
		data, err = io.ReadAll(input.Body)
		if err != nil {
			return nil, err
		}
	}

	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[objectID(aws.StringValue(input.Bucket), aws.StringValue(input.Key))] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *MockS3Client) DeleteObject(input *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.record("DeleteObject", input.Bucket, input.Key)
	delete(m.objects, objectID(aws.StringValue(input.Bucket), aws.StringValue(input.Key)))
	return &s3.DeleteObjectOutput{}, nil
}

func (m *MockS3Client) ListObjectsV2(input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.record("ListObjectsV2", input.Bucket, input.Prefix)

	bucketPrefix := aws.StringValue(input.Bucket) + "/"
	keys := []string{}
	for id := range m.objects {
		if strings.HasPrefix(id, bucketPrefix) {
			key := strings.TrimPrefix(id, bucketPrefix)
			if strings.HasPrefix(key, aws.StringValue(input.Prefix)) {
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)

	// Continuation token is the first key of the next page
	start := 0
	if input.ContinuationToken != nil {
		for c, k := range keys {
			if k == *input.ContinuationToken {
				start = c
				break
			}
		}
	}

	end := len(keys)
	if m.PageSize > 0 && start+m.PageSize < end {
		end = start + m.PageSize
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, &s3.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(keys[end])
	}

	return out, nil
}

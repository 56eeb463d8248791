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

// Package fileaccess reads and writes job files from either the local file system or S3
// behind one interface, so the command line tool and the lambda can share the job runner.
package fileaccess

import (
	"strings"

	"github.com/pkg/errors"
)

// FileAccess - generic interface to S3 or a local directory. For local files "bucket" is a
// root directory
type FileAccess interface {
	ListObjects(bucket string, prefix string) ([]string, error)

	ReadObject(bucket string, path string) ([]byte, error)
	WriteObject(bucket string, path string, data []byte) error

	ReadJSON(bucket string, path string, itemsPtr interface{}, emptyIfNotFound bool) error
	WriteJSON(bucket string, path string, itemsPtr interface{}) error

	DeleteObject(bucket string, path string) error

	IsNotFoundError(err error) bool
}

const s3URLPrefix = "s3://"

func IsS3URL(url string) bool {
	return strings.HasPrefix(url, s3URLPrefix)
}

// SplitS3URL splits s3://bucket/some/path into "bucket" and "some/path"
func SplitS3URL(url string) (string, string, error) {
	if !IsS3URL(url) {
		return "", "", errors.Errorf("not an S3 url: %v", url)
	}

	trimmed := strings.TrimPrefix(url, s3URLPrefix)
	slashPos := strings.Index(trimmed, "/")
	if slashPos <= 0 || slashPos == len(trimmed)-1 {
		return "", "", errors.Errorf("failed to get bucket and path from S3 url: %v", url)
	}

	return trimmed[0:slashPos], trimmed[slashPos+1:], nil
}

// MakeValidObjectName strips characters that cause trouble in S3 keys and file names
func MakeValidObjectName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '?', '$', '#', '!', '\'', '"':
			return -1
		case '/', '\\':
			return '_'
		}
		return r
	}, name)
	return name
}

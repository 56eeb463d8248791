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

// Package api holds HTTP helpers that are reusable across any API we build. These should not
// contain photometry business logic
package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pixlise/photometry/core/errorwithstatus"
	"github.com/pixlise/photometry/core/utils"
	"github.com/pkg/errors"
)

func ToJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Add("Content-Type", "application/json")

	if v != nil {
		enc := json.NewEncoder(w)
		enc.SetIndent("", utils.PrettyPrintIndentForJSON)
		enc.Encode(v)
	}
}

// ReadJSONBody decodes a request body, failing with a bad request if it's over maxBytes or isn't
// valid JSON. maxBytes <= 0 means no limit
func ReadJSONBody(r *http.Request, maxBytes int64, v interface{}) error {
	if r.Body == nil {
		return errorwithstatus.MakeBadRequestError(errors.New("no request body"))
	}

	var reader io.Reader = r.Body
	if maxBytes > 0 {
		// One extra byte so we can tell the body was cut off
		reader = io.LimitReader(r.Body, maxBytes+1)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return errorwithstatus.MakeBadRequestError(errors.Wrap(err, "failed to read request body"))
	}
	if maxBytes > 0 && int64(len(body)) > maxBytes {
		return errorwithstatus.MakeStatusError(http.StatusRequestEntityTooLarge, errors.Errorf("request body exceeds %v bytes", maxBytes))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errorwithstatus.MakeBadRequestError(errors.Wrap(err, "failed to parse request body"))
	}
	return nil
}

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

package api

import (
	"bytes"
	"net/http"
)

// ResponseWriterWithCopy passes writes through to the wrapped writer, remembering the status
// code and the start of the body so middleware can log what was sent
type ResponseWriterWithCopy struct {
	http.ResponseWriter

	// Bytes of body to keep, 0 keeps all of it
	MaxCopy int

	status  int
	body    bytes.Buffer
	written int
}

func MakeResponseWriterWithCopy(w http.ResponseWriter, maxCopy int) *ResponseWriterWithCopy {
	return &ResponseWriterWithCopy{ResponseWriter: w, MaxCopy: maxCopy}
}

// StatusCode - as written by the handler, or 200 if it never called WriteHeader
func (w *ResponseWriterWithCopy) StatusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *ResponseWriterWithCopy) HadError() bool {
	return w.StatusCode() >= http.StatusBadRequest
}

// Copy returns the kept start of the body
func (w *ResponseWriterWithCopy) Copy() string {
	return w.body.String()
}

// BytesWritten - the full body length, even if less was kept
func (w *ResponseWriterWithCopy) BytesWritten() int {
	return w.written
}

func (w *ResponseWriterWithCopy) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)

	keep := p[:n]
	if w.MaxCopy > 0 {
		keep = keep[:min(len(keep), max(w.MaxCopy-w.body.Len(), 0))]
	}
	w.body.Write(keep)
	w.written += n

	return n, err
}

func (w *ResponseWriterWithCopy) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

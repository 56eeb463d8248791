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

package endpoints

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/pixlise/photometry/api/services"
	"github.com/pixlise/photometry/core/api"
	"github.com/pixlise/photometry/core/logger"
)

// How much of a request body to show in logs. Job requests can be huge grids
const bodyTextReqLogLength = 200

// How much of a response body to show in logs
const bodyTextRespLogLength = 600

// If req/resp body is longer than the limits, we print this to show it was cut off
const logSnipIndicator = "\n    ---- >8 -------- >8 -------- >8 -------- >8 ----\n"

type LoggerMiddleware struct {
	*services.APIServices
}

// headCapture keeps the first limit bytes the handler reads, so the body can be logged without
// buffering all of it up front
type headCapture struct {
	io.ReadCloser
	limit int
	head  bytes.Buffer
	total int
}

func (c *headCapture) Read(p []byte) (int, error) {
	n, err := c.ReadCloser.Read(p)
	if room := c.limit - c.head.Len(); room > 0 {
		c.head.Write(p[:min(n, room)])
	}
	c.total += n
	return n, err
}

func snipBody(head string, total int) string {
	if total > len(head) {
		return fmt.Sprintf("%v%v(%v bytes)", head, logSnipIndicator, total)
	}
	return head
}

func (h *LoggerMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody *headCapture
		if r.Body != nil {
			reqBody = &headCapture{ReadCloser: r.Body, limit: bodyTextReqLogLength}
			r.Body = reqBody
		}

		w2 := api.MakeResponseWriterWithCopy(w, bodyTextRespLogLength)
		next.ServeHTTP(w2, r)

		// Don't log requests to / as load balancers poll it constantly
		if r.URL.Path == "/" {
			return
		}

		reqBodyText := ""
		if reqBody != nil {
			reqBodyText = snipBody(reqBody.head.String(), reqBody.total)
		}
		respBodyText := snipBody(w2.Copy(), w2.BytesWritten())

		level := logger.LogDebug
		if w2.HadError() {
			level = logger.LogError
			sentry.CaptureMessage(fmt.Sprintf("API returned %v for %v \"%v %v\". Response body: \"%v\"", w2.StatusCode(), r.Method, r.Host, r.URL, respBodyText))
		}

		if w2.HadError() || h.Log.GetLogLevel() == logger.LogDebug {
			h.Log.Printf(level, "Request: %v (%v), body: %v\nResponse status: %v, body: %v", r.URL, r.Method, reqBodyText, w2.StatusCode(), respBodyText)
		}
	})
}

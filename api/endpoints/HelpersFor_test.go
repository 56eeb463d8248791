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
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"
	"github.com/pixlise/photometry/api/config"
	"github.com/pixlise/photometry/api/job"
	"github.com/pixlise/photometry/api/resultsDB"
	"github.com/pixlise/photometry/api/services"
	"github.com/pixlise/photometry/core/idgen"
	"github.com/pixlise/photometry/core/logger"
	"github.com/pixlise/photometry/core/timestamper"
)

func MakeMockSvcs(ids ...string) (*services.APIServices, *logger.StdOutLoggerForTest) {
	cfg := config.PhotometryConfig{
		EnvironmentName:  "unit-test",
		DefaultMethod:    "exact",
		DefaultSubpixels: 5,
		Workers:          1,
		MaxRequestBytes:  1024 * 1024,
	}

	log := &logger.StdOutLoggerForTest{Quiet: true}
	svcs := services.InitAPIServices(cfg, log, resultsDB.MakeMemoryResults())
	svcs.Runner = &job.Runner{
		IDGen:     &idgen.MockIDGenerator{IDs: ids},
		TimeStamp: &timestamper.MockTimeNowStamper{QueuedTimeStamps: []int64{1700000000, 1700000100}},
		Defaults:  services.MakeJobDefaults(cfg),
		Log:       log,
	}
	return &svcs, log
}

func executeRequest(req *http.Request, router *mux.Router) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	return rr
}

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

package dbCollections

import (
	"context"
	"strings"
	"testing"

	"github.com/pixlise/photometry/core/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func Test_InitCollections(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates missing", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "photometry-unit_test.$cmd.listCollections", mtest.FirstBatch),
			// Collection creation
			mtest.CreateSuccessResponse(),
			// Index creation
			mtest.CreateSuccessResponse(),
		)

		log := &logger.StdOutLoggerForTest{Quiet: true}
		if err := InitCollections(context.Background(), mt.Client.Database("photometry-unit_test"), log); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !log.LogContains("photometryResults doesn't exist") {
			t.Errorf("expected creation to be logged, got %v", log.Lines())
		}
	})

	mt.Run("already exists", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "photometry-unit_test.$cmd.listCollections", mtest.FirstBatch, bson.D{{Key: "name", Value: PhotometryResultsName}, {Key: "type", Value: "collection"}}),
			mtest.CreateSuccessResponse(),
		)

		log := &logger.StdOutLoggerForTest{Quiet: true}
		if err := InitCollections(context.Background(), mt.Client.Database("photometry-unit_test"), log); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(log.Lines()) != 0 {
			t.Errorf("unexpected logs: %v", log.Lines())
		}
	})

	mt.Run("list fails", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Message: "unauthorized", Name: "Unauthorized"}))

		err := InitCollections(context.Background(), mt.Client.Database("photometry-unit_test"), &logger.NullLogger{})
		if err == nil || !strings.Contains(err.Error(), "Failed to list mongo collections") {
			t.Errorf("expected command error, got %v", err)
		}
	})
}

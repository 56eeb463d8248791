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

// Package resultsDB stores photometry job results in MongoDB, keyed by run ID.
package resultsDB

import (
	"context"

	"github.com/pixlise/photometry/api/dbCollections"
	"github.com/pixlise/photometry/api/job"
	"github.com/pixlise/photometry/core/errorwithstatus"
	"github.com/pixlise/photometry/core/logger"
	"github.com/pixlise/photometry/core/mongoDBConnection"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ResultsDB struct {
	Database *mongo.Database
	Results  *mongo.Collection
	Log      logger.ILogger
}

// MakeResultsDB - dbName is suffixed with the environment name, see mongoDBConnection.GetDatabaseName
func MakeResultsDB(client *mongo.Client, dbName string, envName string, log logger.ILogger) *ResultsDB {
	db := client.Database(mongoDBConnection.GetDatabaseName(dbName, envName))
	return &ResultsDB{
		Database: db,
		Results:  db.Collection(dbCollections.PhotometryResultsName),
		Log:      log,
	}
}

func (r *ResultsDB) Init(ctx context.Context) error {
	return dbCollections.InitCollections(ctx, r.Database, r.Log)
}

func (r *ResultsDB) Save(ctx context.Context, result *job.JobResult) error {
	_, err := r.Results.InsertOne(ctx, result)
	if err != nil {
		return errors.Wrapf(err, "Failed to save result %v", result.RunID)
	}
	return nil
}

func (r *ResultsDB) Get(ctx context.Context, runID string) (job.JobResult, error) {
	result := job.JobResult{}

	dbResult := r.Results.FindOne(ctx, bson.M{"_id": runID})
	if dbResult.Err() != nil {
		if dbResult.Err() == mongo.ErrNoDocuments {
			return result, errorwithstatus.MakeNotFoundError(runID)
		}
		return result, dbResult.Err()
	}

	err := dbResult.Decode(&result)
	return result, err
}

// ListForJob returns every run of a job, newest first
func (r *ResultsDB) ListForJob(ctx context.Context, jobID string) ([]job.JobResult, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timeStampUnixSec", Value: -1}})
	cursor, err := r.Results.Find(ctx, bson.M{"jobId": jobID}, opts)
	if err != nil {
		return nil, err
	}

	results := []job.JobResult{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ResultsDB) Delete(ctx context.Context, runID string) error {
	delResult, err := r.Results.DeleteOne(ctx, bson.M{"_id": runID})
	if err != nil {
		return err
	}

	if delResult.DeletedCount == 0 {
		return errorwithstatus.MakeNotFoundError(runID)
	}
	if delResult.DeletedCount > 1 {
		r.Log.Errorf("Delete %v: expected to delete 1 item, instead deleted %v", runID, delResult.DeletedCount)
	}
	return nil
}

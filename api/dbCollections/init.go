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

	"github.com/pixlise/photometry/core/logger"
	"github.com/pixlise/photometry/core/utils"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// InitCollections ensures collections and their indexes exist
func InitCollections(ctx context.Context, db *mongo.Database, iLog logger.ILogger) error {
	collectionsRequired := []string{
		PhotometryResultsName,
	}

	existingCollections, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return errors.Wrap(err, "Failed to list mongo collections")
	}

	for _, collName := range collectionsRequired {
		if !utils.ItemInSlice(collName, existingCollections) {
			// Doesn't exist, create it
			iLog.Infof("Mongo collection %v doesn't exist, pre-creating it...", collName)
			if err := db.CreateCollection(ctx, collName); err != nil {
				return errors.Wrapf(err, "Failed to create collection %v", collName)
			}
		}
	}

	// Results are listed by job, newest first
	_, err = db.Collection(PhotometryResultsName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "jobId", Value: 1}, {Key: "timeStampUnixSec", Value: -1}},
	})
	if err != nil {
		return errors.Wrapf(err, "Failed to create index on %v", PhotometryResultsName)
	}
	return nil
}

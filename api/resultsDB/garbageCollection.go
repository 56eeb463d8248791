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

package resultsDB

import (
	"context"
	"time"

	"github.com/pixlise/photometry/core/logger"
	"github.com/pixlise/photometry/core/timestamper"
	"go.mongodb.org/mongo-driver/bson"
)

// Expirer - a result store that can drop results older than a given time
type Expirer interface {
	DeleteOlderThan(ctx context.Context, unixSec int64) (int64, error)
}

// RunResultGarbageCollector deletes results older than oldestAllowedSec every intervalSec, until
// ctx is cancelled
func RunResultGarbageCollector(ctx context.Context, intervalSec uint32, oldestAllowedSec uint32, store Expirer, ts timestamper.ITimeStamper, log logger.ILogger) {
	ticker := time.NewTicker(time.Second * time.Duration(intervalSec))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			collectGarbage(ctx, store, oldestAllowedSec, ts, log)
		}
	}
}

func collectGarbage(ctx context.Context, store Expirer, oldestAllowedSec uint32, ts timestamper.ITimeStamper, log logger.ILogger) {
	log.Infof("Result GC starting...")

	oldestAllowedUnixSec := ts.GetTimeNowSec() - int64(oldestAllowedSec)

	deleted, err := store.DeleteOlderThan(ctx, oldestAllowedUnixSec)
	if err != nil {
		log.Errorf("Result GC delete error: %v", err)
	} else {
		log.Infof("Result GC deleted %v items", deleted)
	}
}

func (r *ResultsDB) DeleteOlderThan(ctx context.Context, unixSec int64) (int64, error) {
	filter := bson.M{"timeStampUnixSec": bson.M{"$lt": unixSec}}
	delResult, err := r.Results.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return delResult.DeletedCount, nil
}

func (m *MemoryResults) DeleteOlderThan(ctx context.Context, unixSec int64) (int64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	deleted := int64(0)
	for id, result := range m.results {
		if result.TimeStampUnixSec < unixSec {
			delete(m.results, id)
			deleted++
		}
	}
	return deleted, nil
}

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
	"sort"
	"sync"

	"github.com/pixlise/photometry/api/job"
	"github.com/pixlise/photometry/core/errorwithstatus"
)

// MemoryResults keeps results in memory, for running without a DB (locally, or in tests)
type MemoryResults struct {
	mutex   sync.Mutex
	results map[string]job.JobResult
}

func MakeMemoryResults() *MemoryResults {
	return &MemoryResults{results: map[string]job.JobResult{}}
}

func (m *MemoryResults) Save(ctx context.Context, result *job.JobResult) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.results[result.RunID] = *result
	return nil
}

func (m *MemoryResults) Get(ctx context.Context, runID string) (job.JobResult, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	result, ok := m.results[runID]
	if !ok {
		return result, errorwithstatus.MakeNotFoundError(runID)
	}
	return result, nil
}

func (m *MemoryResults) ListForJob(ctx context.Context, jobID string) ([]job.JobResult, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	results := []job.JobResult{}
	for _, result := range m.results {
		if result.JobID == jobID {
			results = append(results, result)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].TimeStampUnixSec != results[j].TimeStampUnixSec {
			return results[i].TimeStampUnixSec > results[j].TimeStampUnixSec
		}
		return results[i].RunID < results[j].RunID
	})
	return results, nil
}

func (m *MemoryResults) Delete(ctx context.Context, runID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.results[runID]; !ok {
		return errorwithstatus.MakeNotFoundError(runID)
	}
	delete(m.results, runID)
	return nil
}

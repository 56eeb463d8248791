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

// Package timestamper provides the current time through an interface so tests can fix it.
package timestamper

import (
	"sync"
	"time"
)

type ITimeStamper interface {
	GetTimeNowSec() int64
}

type UnixTimeNowStamper struct {
}

func (ts *UnixTimeNowStamper) GetTimeNowSec() int64 {
	return time.Now().Unix()
}

// MockTimeNowStamper returns the queued values in order, repeating the last one once the
// queue is used up
type MockTimeNowStamper struct {
	QueuedTimeStamps []int64

	mutex sync.Mutex
	last  int64
}

func (ts *MockTimeNowStamper) GetTimeNowSec() int64 {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if len(ts.QueuedTimeStamps) > 0 {
		ts.last = ts.QueuedTimeStamps[0]
		ts.QueuedTimeStamps = ts.QueuedTimeStamps[1:]
	}
	return ts.last
}

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

// Package idgen generates IDs for photometry runs.
package idgen

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type IDGenerator interface {
	GenObjectID() string
}

// UUIDGen - random (version 4) UUIDs, with Prefix in front if set
type UUIDGen struct {
	Prefix string
}

func (g *UUIDGen) GenObjectID() string {
	return g.Prefix + uuid.NewString()
}

// MockIDGenerator hands out IDs in order, then "id-<n>" counting up from 1 once they run out
type MockIDGenerator struct {
	IDs []string

	mutex     sync.Mutex
	generated int
}

func (m *MockIDGenerator) GenObjectID() string {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if len(m.IDs) > 0 {
		id := m.IDs[0]
		m.IDs = m.IDs[1:]
		return id
	}

	m.generated++
	return fmt.Sprintf("id-%v", m.generated)
}

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
	"fmt"

	"github.com/pixlise/photometry/api/job"
)

func Example_memoryResults() {
	ctx := context.Background()
	m := MakeMemoryResults()

	fmt.Println(m.Save(ctx, &job.JobResult{RunID: "r1", JobID: "j1", TimeStampUnixSec: 100}))
	fmt.Println(m.Save(ctx, &job.JobResult{RunID: "r2", JobID: "j1", TimeStampUnixSec: 200}))
	fmt.Println(m.Save(ctx, &job.JobResult{RunID: "r3", JobID: "j2", TimeStampUnixSec: 300}))

	list, err := m.ListForJob(ctx, "j1")
	fmt.Println(len(list), list[0].RunID, list[1].RunID, err)

	r, err := m.Get(ctx, "r3")
	fmt.Println(r.JobID, err)

	fmt.Println(m.Delete(ctx, "r3"))
	_, err = m.Get(ctx, "r3")
	fmt.Println(err)
	fmt.Println(m.Delete(ctx, "r3"))

	// Output:
	// <nil>
	// <nil>
	// <nil>
	// 2 r2 r1 <nil>
	// j2 <nil>
	// <nil>
	// r3 not found
	// r3 not found
}

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

package mongoDBConnection

import (
	"fmt"
	"path/filepath"
	"testing"
)

func Example_parseConnectionInfo() {
	info, err := parseConnectionInfo(`{"host": "docdb.cluster:27017", "username": "photometry", "password": "pw", "engine": "mongo", "port": "27017"}`)
	fmt.Printf("%v|%v|%v|%v\n", info.Host, info.Username, info.Port, err)

	_, err = parseConnectionInfo(`{"password": "pw"}`)
	fmt.Println(err)

	_, err = parseConnectionInfo(`not json`)
	fmt.Println(err != nil)

	fmt.Println(GetDatabaseName("photometry", "prod"))

	// Output:
	// docdb.cluster:27017|photometry|27017|<nil>
	// mongo connection secret is missing host or username
	// true
	// photometry-prod
}

func Test_LoadTLSConfigMissingFile(t *testing.T) {
	if _, err := loadTLSConfig(filepath.Join(t.TempDir(), "missing.pem")); err == nil {
		t.Error("expected error for missing CA file")
	}
}

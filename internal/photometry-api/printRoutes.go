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

package main

import (
	"fmt"
	"sort"
	"strings"
)

// Routes come in as method+path, eg "GET/version"
func formatRoutes(routes []string) []string {
	methods := []string{"DELETE", "GET", "POST", "PUT"}
	result := []string{}

	for _, route := range routes {
		method := ""
		path := route
		for _, m := range methods {
			if strings.HasPrefix(route, m+"/") {
				method = m
				path = route[len(m):]
				break
			}
		}
		result = append(result, fmt.Sprintf("%-7v%v", method, path))
	}

	// Sort by path, then method
	sort.Slice(result, func(i, j int) bool {
		pi, pj := result[i][7:], result[j][7:]
		if pi != pj {
			return pi < pj
		}
		return result[i] < result[j]
	})
	return result
}

func printRoutes(routes []string) {
	fmt.Println("Routes:")
	for _, line := range formatRoutes(routes) {
		fmt.Println(line)
	}
}

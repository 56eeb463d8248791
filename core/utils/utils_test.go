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

package utils

import (
	"fmt"
	"testing"
)

func Example_sortedMapKeys() {
	fmt.Println(SortedMapKeys(map[string]int{"exact": 1, "center": 2, "subpixel": 3}))
	fmt.Println(SortedMapKeys(map[int]bool{7: true, -2: false, 3: true}))

	// Output:
	// [center exact subpixel]
	// [-2 3 7]
}

func Example_makeDeterministicJSON() {
	s, err := MakeDeterministicJSON([]byte(`{"b": [1, 2], "a": {"y": null, "x": "z"}}`), true)
	fmt.Printf("%v|%v\n", s, err)

	_, err = MakeDeterministicJSON([]byte(`{"b": `), true)
	fmt.Println(err != nil)

	// Output:
	// {"a": {"x": "z","y": null},"b": [1,2]}|<nil>
	// true
}

func Test_Clamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Error("int clamp failed")
	}
	if Clamp(0.5, 1.0, 2.0) != 1.0 {
		t.Error("float clamp failed")
	}
}

func Test_ItemInSlice(t *testing.T) {
	if !ItemInSlice("b", []string{"a", "b"}) || ItemInSlice(3, []int{1, 2}) {
		t.Error("ItemInSlice failed")
	}
}

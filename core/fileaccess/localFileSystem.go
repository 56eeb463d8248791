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

package fileaccess

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pixlise/photometry/core/utils"
	"github.com/pkg/errors"
)

// FSAccess - FileAccess on the local file system, bucket is the root directory
type FSAccess struct {
}

func (a *FSAccess) ListObjects(rootPath string, prefix string) ([]string, error) {
	result := []string{}
	root := filepath.Clean(rootPath)

	err := filepath.WalkDir(filepath.Join(root, prefix), func(found string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, err := filepath.Rel(root, found)
			if err != nil {
				return err
			}
			result = append(result, filepath.ToSlash(rel))
		}
		return nil
	})

	if err != nil && a.IsNotFoundError(err) {
		return result, nil
	}
	return result, err
}

func (a *FSAccess) ReadObject(rootPath string, path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(rootPath, path))
}

func (a *FSAccess) WriteObject(rootPath string, path string, data []byte) error {
	fullPath := filepath.Join(rootPath, path)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0777); err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, 0644)
}

func (a *FSAccess) ReadJSON(rootPath string, path string, itemsPtr interface{}, emptyIfNotFound bool) error {
	return readJSON(a, rootPath, path, itemsPtr, emptyIfNotFound)
}

func (a *FSAccess) WriteJSON(rootPath string, path string, itemsPtr interface{}) error {
	return writeJSON(a, rootPath, path, itemsPtr)
}

func (a *FSAccess) DeleteObject(rootPath string, path string) error {
	return os.Remove(filepath.Join(rootPath, path))
}

func (a *FSAccess) IsNotFoundError(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Shared by both implementations

func readJSON(a FileAccess, bucket string, path string, itemsPtr interface{}, emptyIfNotFound bool) error {
	fileData, err := a.ReadObject(bucket, path)
	if err != nil {
		if emptyIfNotFound && a.IsNotFoundError(err) {
			return nil
		}
		return err
	}

	if err := json.Unmarshal(fileData, itemsPtr); err != nil {
		return errors.Wrapf(err, "failed to parse JSON from %v", strings.TrimPrefix(bucket+"/"+path, "/"))
	}
	return nil
}

func writeJSON(a FileAccess, bucket string, path string, itemsPtr interface{}) error {
	fileData, err := json.MarshalIndent(itemsPtr, "", utils.PrettyPrintIndentForJSON)
	if err != nil {
		return err
	}
	return a.WriteObject(bucket, path, fileData)
}

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

package logger

import (
	"fmt"
	"strings"
	"sync"
)

// StdOutLoggerForTest - remembers every line so tests can check what was logged. Lines are
// also printed so example tests can match them in their output
type StdOutLoggerForTest struct {
	leveled

	mu    sync.Mutex
	logs  []string
	Quiet bool
}

func (l *StdOutLoggerForTest) Printf(level LogLevel, format string, a ...interface{}) {
	txt := formatLine(level, format, a...)

	l.mu.Lock()
	l.logs = append(l.logs, txt)
	l.mu.Unlock()

	if !l.Quiet {
		fmt.Println(txt)
	}
}

func (l *StdOutLoggerForTest) Debugf(format string, a ...interface{}) { l.at(LogDebug, l.Printf, format, a) }
func (l *StdOutLoggerForTest) Infof(format string, a ...interface{}) { l.at(LogInfo, l.Printf, format, a) }
func (l *StdOutLoggerForTest) Warnf(format string, a ...interface{}) { l.at(LogWarn, l.Printf, format, a) }
func (l *StdOutLoggerForTest) Errorf(format string, a ...interface{}) { l.at(LogError, l.Printf, format, a) }

// Checking logs (for tests)
func (l *StdOutLoggerForTest) LastLogLine() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.logs) <= 0 {
		return ""
	}
	return l.logs[len(l.logs)-1]
}

func (l *StdOutLoggerForTest) LogContains(txt string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range l.logs {
		if strings.Contains(line, txt) {
			return true
		}
	}
	return false
}

func (l *StdOutLoggerForTest) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string{}, l.logs...)
}

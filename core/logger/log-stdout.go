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
	"log"
	"os"
)

var stdOut = log.New(os.Stdout, "", log.LstdFlags)
var stdErr = log.New(os.Stderr, "", log.LstdFlags)

// StdOutLogger - the logger used by the API and lambda, where stdout is collected by the platform
type StdOutLogger struct {
	leveled
}

func (l *StdOutLogger) Printf(level LogLevel, format string, a ...interface{}) {
	stdOut.Println(formatLine(level, format, a...))
}

func (l *StdOutLogger) Debugf(format string, a ...interface{}) { l.at(LogDebug, l.Printf, format, a) }
func (l *StdOutLogger) Infof(format string, a ...interface{}) { l.at(LogInfo, l.Printf, format, a) }
func (l *StdOutLogger) Warnf(format string, a ...interface{}) { l.at(LogWarn, l.Printf, format, a) }
func (l *StdOutLogger) Errorf(format string, a ...interface{}) { l.at(LogError, l.Printf, format, a) }

// StdErrLogger - writes to stderr so stdout stays clean for command line tool output
type StdErrLogger struct {
	leveled
}

func (l *StdErrLogger) Printf(level LogLevel, format string, a ...interface{}) {
	stdErr.Println(formatLine(level, format, a...))
}

func (l *StdErrLogger) Debugf(format string, a ...interface{}) { l.at(LogDebug, l.Printf, format, a) }
func (l *StdErrLogger) Infof(format string, a ...interface{}) { l.at(LogInfo, l.Printf, format, a) }
func (l *StdErrLogger) Warnf(format string, a ...interface{}) { l.at(LogWarn, l.Printf, format, a) }
func (l *StdErrLogger) Errorf(format string, a ...interface{}) { l.at(LogError, l.Printf, format, a) }

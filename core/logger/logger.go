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

// Logging interface and level handling shared by the photometry engine, the
// job runner and the executables. Library code only ever sees ILogger, so
// tests can swap in NullLogger or StdOutLoggerForTest.
package logger

import (
	"fmt"
	"strings"
)

// LogLevel - log level type
type LogLevel int

const (
	// LogDebug - DEBUG log level
	LogDebug LogLevel = iota

	// LogInfo - INFO log level
	LogInfo

	// LogWarn - WARNING log level, used for recoverable measurement problems
	LogWarn

	// LogError - ERROR log level (does not call os.Exit!)
	LogError
)

var logLevelPrefix = map[LogLevel]string{
	LogDebug: "DEBUG",
	LogInfo:  "INFO",
	LogWarn:  "WARN",
	LogError: "ERROR",
}

// ILogger - Generic logger interface
type ILogger interface {
	Printf(level LogLevel, format string, a ...interface{})
	Debugf(format string, a ...interface{})
	Infof(format string, a ...interface{})
	Warnf(format string, a ...interface{})
	Errorf(format string, a ...interface{})
	SetLogLevel(level LogLevel)
	GetLogLevel() LogLevel
}

// GetLogLevelName - returns the prefix printed for a level
func GetLogLevelName(level LogLevel) (string, error) {
	name, ok := logLevelPrefix[level]
	if !ok {
		return "", fmt.Errorf("Unknown log level: %v", level)
	}
	return name, nil
}

// GetLogLevel - parses a level name (case insensitive), as passed on command lines/config
func GetLogLevel(name string) (LogLevel, error) {
	for level, prefix := range logLevelPrefix {
		if strings.EqualFold(prefix, name) {
			return level, nil
		}
	}
	if strings.EqualFold(name, "warning") {
		return LogWarn, nil
	}
	return LogInfo, fmt.Errorf("Unknown log level name: %v", name)
}

// leveled holds the level of the loggers that print, and drops lines below it. Errors are
// always printed
type leveled struct {
	logLevel LogLevel
}

func (l *leveled) SetLogLevel(level LogLevel) {
	l.logLevel = level
}

func (l *leveled) GetLogLevel() LogLevel {
	return l.logLevel
}

func (l *leveled) at(level LogLevel, printf func(LogLevel, string, ...interface{}), format string, a []interface{}) {
	if level >= LogError || l.logLevel <= level {
		printf(level, format, a...)
	}
}

func formatLine(level LogLevel, format string, a ...interface{}) string {
	return logLevelPrefix[level] + ": " + fmt.Sprintf(format, a...)
}

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

// Package config loads the photometry service configuration: a JSON file named on the command
// line, with any field overridable by a PHOTOMETRY_CONFIG_<FieldName> environment variable.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/pixlise/photometry/core/logger"
	"github.com/pkg/errors"
)

const EnvPrefix = "PHOTOMETRY_CONFIG_"

type PhotometryConfig struct {
	EnvironmentName string

	// Name as accepted by logger.GetLogLevel
	LogLevel string

	Port        int
	MetricsPort int

	// Request options that aren't set fall back to these
	DefaultMethod    string
	DefaultSubpixels int
	Workers          int

	// Largest accepted job request body
	MaxRequestBytes int64

	// Mongo connection. If DatabaseName is empty, results are only kept in memory
	MongoSecret  string
	MongoCAFile  string
	DatabaseName string

	// Results older than this are deleted, checked every ResultGCIntervalSec. 0 keeps them forever
	ResultRetentionSec  uint32
	ResultGCIntervalSec uint32

	SentryEndpoint string

	// Where the lambda writes results (defaults to the bucket the job arrived in)
	ResultsBucket string

	CORSAllowedOrigins []string
}

func (c PhotometryConfig) GetLogLevel() logger.LogLevel {
	level, err := logger.GetLogLevel(c.LogLevel)
	if err != nil {
		return logger.LogInfo
	}
	return level
}

func NewConfigFromFile(configFilePath string) (PhotometryConfig, error) {
	customConfig, err := os.ReadFile(configFilePath)
	if err != nil {
		return PhotometryConfig{}, errors.Wrapf(err, "could not read config file at %s", configFilePath)
	}
	return buildConfig(customConfig)
}

// NewConfigFromEnvironment - for when there's no config file (eg in a lambda), all fields come
// from environment variables
func NewConfigFromEnvironment() (PhotometryConfig, error) {
	return buildConfig([]byte("{}"))
}

func buildConfig(configJSON []byte) (PhotometryConfig, error) {
	var cfg PhotometryConfig

	if err := json.Unmarshal(configJSON, &cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to parse config")
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}

	applyDefaults(&cfg)
	return cfg, nil
}

// applyEnvOverrides sets fields from PHOTOMETRY_CONFIG_<FieldName> env vars. []string fields take
// a comma separated list
func applyEnvOverrides(cfg *PhotometryConfig) error {
	reflection := reflect.ValueOf(cfg).Elem()
	for i := 0; i < reflection.NumField(); i++ {
		fieldName := reflection.Type().Field(i).Name
		field := reflection.Field(i)

		val, present := os.LookupEnv(EnvPrefix + fieldName)
		if !present {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(val)
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				field.Set(reflect.ValueOf(strings.Split(val, ",")))
			}
		case reflect.Int, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "could not read %s%s=%s as an integer", EnvPrefix, fieldName, val)
			}
			field.SetInt(n)
		case reflect.Uint32:
			n, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return errors.Wrapf(err, "could not read %s%s=%s as an unsigned integer", EnvPrefix, fieldName, val)
			}
			field.SetUint(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(val)
			if err != nil {
				return errors.Wrapf(err, "could not read %s%s=%s as a bool", EnvPrefix, fieldName, val)
			}
			field.SetBool(b)
		}
	}
	return nil
}

func applyDefaults(cfg *PhotometryConfig) {
	if cfg.Port <= 0 {
		cfg.Port = 8080
	}
	if cfg.MetricsPort <= 0 {
		cfg.MetricsPort = 2112
	}
	if len(cfg.DefaultMethod) <= 0 {
		cfg.DefaultMethod = "exact"
	}
	if cfg.DefaultSubpixels <= 0 {
		cfg.DefaultSubpixels = 5
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxRequestBytes <= 0 {
		cfg.MaxRequestBytes = 64 * 1024 * 1024
	}
	if len(cfg.LogLevel) <= 0 {
		cfg.LogLevel = "info"
	}
	if len(cfg.EnvironmentName) <= 0 {
		cfg.EnvironmentName = "local"
	}
	if cfg.ResultRetentionSec > 0 && cfg.ResultGCIntervalSec <= 0 {
		cfg.ResultGCIntervalSec = 3600
	}
	if len(cfg.MongoCAFile) <= 0 {
		cfg.MongoCAFile = "./rds-combined-ca-bundle.pem"
	}
}

// Init reads -customConfigPath from the command line and loads the config from it
func Init() (PhotometryConfig, error) {
	return initFromArgs(flag.CommandLine, os.Args[1:])
}

func initFromArgs(flags *flag.FlagSet, args []string) (PhotometryConfig, error) {
	configFilePath := flags.String("customConfigPath", "", "Path to the json file holding the photometry service config")
	if err := flags.Parse(args); err != nil {
		return PhotometryConfig{}, err
	}

	if len(*configFilePath) <= 0 {
		return PhotometryConfig{}, errors.New("no configuration provided")
	}

	fmt.Printf("Loading config from: %s\n", *configFilePath)
	return NewConfigFromFile(*configFilePath)
}

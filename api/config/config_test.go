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

package config

import (
	"flag"
	"fmt"
	"testing"

	"github.com/pixlise/photometry/core/logger"
)

func Test_InitializeConfigWithFile(t *testing.T) {
	cfg, err := NewConfigFromFile("./example_config.json")
	if err != nil {
		t.Fatalf("Error initializing config: %v", err)
	}
	if cfg.Port != 9090 || cfg.DefaultMethod != "subpixel" || cfg.DefaultSubpixels != 8 || cfg.EnvironmentName != "unit-test" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.GetLogLevel() != logger.LogDebug {
		t.Errorf("expected debug log level, got %v", cfg.GetLogLevel())
	}

	// Defaults for anything not in the file
	if cfg.MetricsPort != 2112 || cfg.Workers != 1 || cfg.MaxRequestBytes != 64*1024*1024 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func Test_OverrideConfigWithEnvVars(t *testing.T) {
	t.Setenv("PHOTOMETRY_CONFIG_DefaultMethod", "center")
	t.Setenv("PHOTOMETRY_CONFIG_Workers", "4")
	t.Setenv("PHOTOMETRY_CONFIG_CORSAllowedOrigins", "a.com,b.com")
	t.Setenv("PHOTOMETRY_CONFIG_ResultRetentionSec", "86400")

	cfg, err := NewConfigFromFile("./example_config.json")
	if err != nil {
		t.Fatalf("Error initializing config: %v", err)
	}
	if cfg.DefaultMethod != "center" || cfg.Workers != 4 || fmt.Sprintf("%v", cfg.CORSAllowedOrigins) != "[a.com b.com]" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.ResultRetentionSec != 86400 || cfg.ResultGCIntervalSec != 3600 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func Test_OverrideConfigWithBadEnvVar(t *testing.T) {
	t.Setenv("PHOTOMETRY_CONFIG_Port", "eighty")

	if _, err := buildConfig([]byte(`{}`)); err == nil {
		t.Error("expected error for non-numeric port")
	}
}

func Test_InitFromArgs(t *testing.T) {
	cfg, err := initFromArgs(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-customConfigPath", "./example_config.json"})
	if err != nil || cfg.Port != 9090 {
		t.Errorf("unexpected: %+v, %v", cfg, err)
	}

	if _, err := initFromArgs(flag.NewFlagSet("test", flag.ContinueOnError), []string{}); err == nil {
		t.Error("expected error with no config path")
	}

	if _, err := buildConfig([]byte(`{"Port": "x"}`)); err == nil {
		t.Error("expected parse error")
	}
}

func Test_NewConfigFromEnvironment(t *testing.T) {
	t.Setenv("PHOTOMETRY_CONFIG_EnvironmentName", "prod")
	t.Setenv("PHOTOMETRY_CONFIG_ResultsBucket", "results")

	cfg, err := NewConfigFromEnvironment()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EnvironmentName != "prod" || cfg.ResultsBucket != "results" || cfg.DefaultMethod != "exact" || cfg.Port != 8080 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

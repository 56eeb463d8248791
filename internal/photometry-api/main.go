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
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/handlers"
	"github.com/pixlise/photometry/api/config"
	"github.com/pixlise/photometry/api/endpoints"
	"github.com/pixlise/photometry/api/resultsDB"
	"github.com/pixlise/photometry/api/services"
	"github.com/pixlise/photometry/core/awsutil"
	"github.com/pixlise/photometry/core/logger"
	"github.com/pixlise/photometry/core/mongoDBConnection"
	"github.com/pixlise/photometry/core/timestamper"
	"github.com/pixlise/photometry/core/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()

	// This is for prometheus
	go func() {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		log.Println(http.ListenAndServe(fmt.Sprintf(":%v", cfg.MetricsPort), metricsMux))
	}()

	iLog := &logger.StdOutLogger{}
	iLog.SetLogLevel(cfg.GetLogLevel())

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryEndpoint,
		Environment: cfg.EnvironmentName,
		Release:     services.ApiVersion,
	}); err != nil {
		iLog.Errorf("Sentry initialization failed: %v", err)
	}
	defer sentry.Flush(2 * time.Second)

	results := initResults(cfg, iLog)
	if cfg.ResultRetentionSec > 0 {
		go resultsDB.RunResultGarbageCollector(context.Background(), cfg.ResultGCIntervalSec, cfg.ResultRetentionSec, results, &timestamper.UnixTimeNowStamper{}, iLog)
	}

	svcs := services.InitAPIServices(cfg, iLog, results)
	router := endpoints.MakeRouter(&svcs)

	printRoutes(router.Routes())

	origins := cfg.CORSAllowedOrigins
	if len(origins) <= 0 {
		origins = []string{"*"}
	}

	// Now also log this to the world...
	iLog.Infof("Photometry API version \"%v\" started on port %v...", services.ApiVersion, cfg.Port)

	log.Fatal(
		http.ListenAndServe(fmt.Sprintf(":%v", cfg.Port),
			handlers.CORS(
				handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"}),
				handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"}),
				handlers.AllowedOrigins(origins))(router.Router)))
}

func loadConfig() config.PhotometryConfig {
	cfg, err := config.Init()
	if err != nil {
		log.Fatalf("Something went wrong with API config. Error: %v\n", err)
	}

	// Show the config
	cfgJSON, err := json.MarshalIndent(cfg, "", utils.PrettyPrintIndentForJSON)
	if err != nil {
		log.Fatalf("Error trying to display config\n")
	}

	log.Println(string(cfgJSON))
	return cfg
}

type resultStore interface {
	services.ResultStore
	resultsDB.Expirer
}

func initResults(cfg config.PhotometryConfig, iLog logger.ILogger) resultStore {
	if len(cfg.DatabaseName) <= 0 {
		iLog.Infof("No database configured, results are kept in memory")
		return resultsDB.MakeMemoryResults()
	}

	// Get a session for the secret region
	sess, err := awsutil.GetSession()
	if err != nil {
		log.Fatalf("Failed to create AWS session. Error: %v", err)
	}

	mongoClient, err := mongoDBConnection.Connect(sess, cfg.MongoSecret, cfg.MongoCAFile, iLog)
	if err != nil {
		log.Fatal(err)
	}

	db := resultsDB.MakeResultsDB(mongoClient, cfg.DatabaseName, cfg.EnvironmentName, iLog)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Init(ctx); err != nil {
		log.Fatal(err)
	}
	return db
}

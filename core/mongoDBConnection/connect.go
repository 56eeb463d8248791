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

// Package mongoDBConnection connects to the MongoDB used to store photometry results: a local
// instance with no auth, or a remote (DocumentDB style) one whose credentials live in AWS
// Secrets Manager.
package mongoDBConnection

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/pixlise/photometry/core/logger"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 5 * time.Second

const defaultLocalURI = "mongodb://localhost"

// Connect - if mongoSecret is empty, connects to LOCAL_MONGO_URI (or localhost) without auth.
// Otherwise reads connection details from the named secret and connects with TLS using the
// CA bundle in caFile
func Connect(sess *session.Session, mongoSecret string, caFile string, log logger.ILogger) (*mongo.Client, error) {
	if len(mongoSecret) <= 0 {
		uri, set := os.LookupEnv("LOCAL_MONGO_URI")
		if !set {
			uri = defaultLocalURI
		}

		log.Infof("Connecting to local mongo db: %v", uri)
		return connect(options.Client().ApplyURI(uri).SetMonitor(makeCommandMonitor(log)).SetDirect(true), log)
	}

	info, err := readConnectionInfo(sess, mongoSecret)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read mongo secret %q", mongoSecret)
	}

	tlsConfig, err := loadTLSConfig(caFile)
	if err != nil {
		return nil, errors.Wrap(err, "Failed getting TLS configuration")
	}
	if strings.Contains(info.Host, "localhost") {
		// Tunnelled connections won't match the certificate host name
		tlsConfig.InsecureSkipVerify = true
	}

	log.Infof("Connecting to remote mongo db: %v, user: %v", info.Host, info.Username)

	opts := options.Client().
		ApplyURI(fmt.Sprintf("mongodb://%s/", info.Host)).
		SetMonitor(makeCommandMonitor(log)).
		SetTLSConfig(tlsConfig).
		SetRetryWrites(false).
		SetDirect(true).
		SetAuth(options.Credential{
			Username:    info.Username,
			Password:    info.Password,
			PasswordSet: true,
			AuthSource:  "admin",
		})

	return connect(opts, log)
}

func connect(opts *options.ClientOptions, log logger.ILogger) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create mongo DB connection")
	}

	var result bson.M
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "Failed to ping mongo DB")
	}

	log.Infof("Connected to mongo db")
	return client, nil
}

// GetDatabaseName - each environment gets its own database
func GetDatabaseName(dbName string, envName string) string {
	return dbName + "-" + envName
}

func loadTLSConfig(caFile string) (*tls.Config, error) {
	certs, err := os.ReadFile(caFile)
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{RootCAs: x509.NewCertPool()}
	if !tlsConfig.RootCAs.AppendCertsFromPEM(certs) {
		return nil, errors.Errorf("Failed parsing pem file: %v", caFile)
	}
	return tlsConfig, nil
}

func makeCommandMonitor(log logger.ILogger) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(_ context.Context, evt *event.CommandStartedEvent) {
			log.Debugf("Mongo %v request: %v", evt.CommandName, evt.Command)
		},
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			log.Debugf("Mongo %v succeeded in %v", evt.CommandName, evt.Duration)
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			log.Errorf("Mongo %v FAILED: %v", evt.CommandName, evt.Failure)
		},
	}
}

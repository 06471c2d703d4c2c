// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

// Package cli provides shared utilities for CLI startup commands.
package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/cavakil/backoffice/internal/config"
)

// ParseStorageType maps "memory"/"file" strings to nats.StorageType.
func ParseStorageType(
	s string,
) nats.StorageType {
	if s == "memory" {
		return nats.MemoryStorage
	}

	return nats.FileStorage
}

// ApplyNamespace prefixes name with namespace when one is set.
func ApplyNamespace(
	namespace string,
	name string,
) string {
	if namespace == "" {
		return name
	}
	return namespace + "-" + name
}

// BuildNATSAuthOptions converts a config NATSAuth to connection options.
func BuildNATSAuthOptions(
	auth config.NATSAuth,
) ([]nats.Option, error) {
	switch auth.Type {
	case "user_pass":
		return []nats.Option{nats.UserInfo(auth.Username, auth.Password)}, nil
	case "nkey":
		opt, err := nats.NkeyOptionFromSeed(auth.NKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load nkey seed: %w", err)
		}
		return []nats.Option{opt}, nil
	default:
		return nil, nil
	}
}

// BuildKVConfig builds a nats.KeyValueConfig from bucket config values.
// An unparsable TTL is treated as no expiry.
func BuildKVConfig(
	namespace string,
	bucketCfg config.NATSBucket,
) *nats.KeyValueConfig {
	ttl, _ := time.ParseDuration(bucketCfg.TTL)

	return &nats.KeyValueConfig{
		Bucket:   ApplyNamespace(namespace, bucketCfg.Bucket),
		TTL:      ttl,
		MaxBytes: bucketCfg.MaxBytes,
		Storage:  ParseStorageType(bucketCfg.Storage),
		Replicas: bucketCfg.Replicas,
	}
}

// ConnectNATS dials the server described by conn.
func ConnectNATS(
	conn config.NATSConnection,
) (*nats.Conn, error) {
	opts, err := BuildNATSAuthOptions(conn.Auth)
	if err != nil {
		return nil, err
	}
	if conn.ClientName != "" {
		opts = append(opts, nats.Name(conn.ClientName))
	}

	url := fmt.Sprintf("nats://%s:%d", conn.Host, conn.Port)
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}

	return nc, nil
}

// KeyValueManager is the subset of nats.JetStreamContext used to bind
// buckets.
type KeyValueManager interface {
	KeyValue(bucket string) (nats.KeyValue, error)
	CreateKeyValue(cfg *nats.KeyValueConfig) (nats.KeyValue, error)
}

// EnsureKV binds to the bucket described by cfg, creating it when missing.
func EnsureKV(
	js KeyValueManager,
	cfg *nats.KeyValueConfig,
) (nats.KeyValue, error) {
	kv, err := js.KeyValue(cfg.Bucket)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, nats.ErrBucketNotFound) {
		return nil, fmt.Errorf("bind bucket %s: %w", cfg.Bucket, err)
	}

	kv, err = js.CreateKeyValue(cfg)
	if err != nil {
		return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
	}

	return kv, nil
}

// CloseNATS drains and closes nc, tolerating nil.
func CloseNATS(
	nc *nats.Conn,
) {
	if nc == nil || nc.IsClosed() {
		return
	}
	_ = nc.Drain()
}

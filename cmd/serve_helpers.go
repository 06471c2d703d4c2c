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

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/cavakil/backoffice/internal/actor"
	"github.com/cavakil/backoffice/internal/api/health"
	"github.com/cavakil/backoffice/internal/audit"
	"github.com/cavakil/backoffice/internal/authtoken"
	"github.com/cavakil/backoffice/internal/cli"
	"github.com/cavakil/backoffice/internal/config"
	"github.com/cavakil/backoffice/internal/content"
	"github.com/cavakil/backoffice/internal/otp"
)

// backends holds the connections and stores shared by the commands.
type backends struct {
	nc      *nats.Conn
	redis   *redis.Client
	tokens  *authtoken.Token
	actors  *actor.KVStore
	content *content.KVStore
	audit   *audit.KVStore
	otp     *otp.RedisStore

	actorsKV nats.KeyValue
}

func (b *backends) close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	cli.CloseNATS(b.nc)
}

// startEmbeddedNATS starts the in-process server when configured and
// returns nil otherwise.
func startEmbeddedNATS(
	log *slog.Logger,
) *cli.EmbeddedNATS {
	if !appConfig.NATS.Server.Embedded {
		return nil
	}

	ns, err := cli.NewEmbeddedNATS(log, appConfig.NATS.Server)
	if err != nil {
		cli.LogFatal(log, "failed to create nats server", err)
	}
	ns.Start()

	return ns
}

// bindBucket binds the namespaced bucket, creating it when missing.
func bindBucket(
	log *slog.Logger,
	js nats.JetStreamContext,
	bucket config.NATSBucket,
) nats.KeyValue {
	kv, err := cli.EnsureKV(js, cli.BuildKVConfig(appConfig.API.NATS.Namespace, bucket))
	if err != nil {
		cli.LogFatal(log, "failed to bind kv bucket", err, "bucket", bucket.Bucket)
	}
	return kv
}

// connectNATSStores connects to NATS and binds the actor, content, and
// audit buckets.
func connectNATSStores(
	log *slog.Logger,
) *backends {
	nc, err := cli.ConnectNATS(appConfig.API.NATS)
	if err != nil {
		cli.LogFatal(log, "failed to connect to nats", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		cli.LogFatal(log, "failed to open jetstream context", err)
	}

	actorsKV := bindBucket(log, js, appConfig.NATS.Actors)

	return &backends{
		nc:       nc,
		tokens:   authtoken.New(log),
		actors:   actor.NewKVStore(log, actorsKV),
		content:  content.NewKVStore(log, bindBucket(log, js, appConfig.NATS.Content)),
		audit:    audit.NewKVStore(log, bindBucket(log, js, appConfig.NATS.Audit)),
		actorsKV: actorsKV,
	}
}

// connectRedis opens the one-time code store.
func connectRedis(
	log *slog.Logger,
	b *backends,
) {
	b.redis = redis.NewClient(&redis.Options{
		Addr:     appConfig.Redis.Addr,
		Password: appConfig.Redis.Password,
		DB:       appConfig.Redis.DB,
	})

	ttl, err := time.ParseDuration(appConfig.OTP.TTL)
	if err != nil && appConfig.OTP.TTL != "" {
		log.Warn(
			"invalid otp ttl, using default",
			slog.String("ttl", appConfig.OTP.TTL),
			slog.Duration("default", otp.DefaultTTL),
		)
	}

	b.otp = otp.NewRedisStore(log, b.redis, &otp.Options{
		TTL:         ttl,
		Digits:      appConfig.OTP.Digits,
		MaxAttempts: appConfig.OTP.MaxAttempts,
	})
}

// connectBackends connects everything serve needs.
func connectBackends(
	log *slog.Logger,
) *backends {
	b := connectNATSStores(log)
	connectRedis(log, b)
	return b
}

// newHealthChecker probes the NATS connection, the actor bucket, and
// Redis.
func newHealthChecker(
	b *backends,
) *health.ServiceChecker {
	return &health.ServiceChecker{
		NATSCheck: func() error {
			if b.nc == nil || !b.nc.IsConnected() {
				return fmt.Errorf("nats not connected")
			}
			return nil
		},
		KVCheck: func() error {
			if _, err := b.actorsKV.Status(); err != nil {
				return fmt.Errorf("kv bucket not accessible: %w", err)
			}
			return nil
		},
		RedisCheck: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			return b.redis.Ping(ctx).Err()
		},
	}
}

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

// Package otp stores and verifies single-use login codes for end users.
// Code delivery is handled elsewhere.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultTTL         = 5 * time.Minute
	DefaultDigits      = 6
	DefaultMaxAttempts = 5
	keyPrefix          = "otp:"
	attemptsPrefix     = "otp:attempts:"
)

// Verifier consumes one-time codes.
type Verifier interface {
	// Verify reports whether code matches the pending code for phone. A
	// matching code is consumed. Once the attempt limit is reached the
	// pending code is discarded and every further call fails until a new
	// code is issued.
	Verify(ctx context.Context, phone string, code string) (bool, error)
}

// Cmdable is the subset of the Redis client used by RedisStore.
type Cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Options configures a RedisStore.
type Options struct {
	// TTL is how long an issued code stays valid.
	TTL time.Duration
	// Digits is the code length.
	Digits int
	// MaxAttempts is how many verifications a pending code allows.
	MaxAttempts int
}

// RedisStore keeps pending codes in Redis under otp:<phone> and counts
// verifications under otp:attempts:<phone>.
type RedisStore struct {
	client      Cmdable
	logger      *slog.Logger
	ttl         time.Duration
	digits      int
	maxAttempts int64
}

// ensure RedisStore implements Verifier at compile time.
var _ Verifier = (*RedisStore)(nil)

// NewRedisStore creates a new RedisStore.
func NewRedisStore(
	logger *slog.Logger,
	client Cmdable,
	opts *Options,
) *RedisStore {
	s := &RedisStore{
		client: client,
		logger: logger,
		ttl:         DefaultTTL,
		digits:      DefaultDigits,
		maxAttempts: DefaultMaxAttempts,
	}
	if opts != nil {
		if opts.TTL > 0 {
			s.ttl = opts.TTL
		}
		if opts.Digits > 0 {
			s.digits = opts.Digits
		}
		if opts.MaxAttempts > 0 {
			s.maxAttempts = int64(opts.MaxAttempts)
		}
	}
	return s
}

// Issue generates a fresh numeric code for phone, replacing any pending one
// and resetting its attempt count.
func (s *RedisStore) Issue(
	ctx context.Context,
	phone string,
) (string, error) {
	code, err := generateCode(s.digits)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+phone, code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}

	if err := s.client.Del(ctx, attemptsPrefix+phone).Err(); err != nil {
		return "", fmt.Errorf("reset attempts: %w", err)
	}

	return code, nil
}

// Verify compares code against the pending code in constant time. Every
// call counts against the attempt limit. A match is consumed with GETDEL so
// only one concurrent caller can succeed.
func (s *RedisStore) Verify(
	ctx context.Context,
	phone string,
	code string,
) (bool, error) {
	if code == "" {
		return false, nil
	}

	key := keyPrefix + phone
	attempts, err := s.countAttempt(ctx, phone)
	if err != nil {
		return false, err
	}
	if attempts > s.maxAttempts {
		s.discard(ctx, key)
		return false, nil
	}

	pending, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("get code: %w", err)
	}

	if !matches(pending, code) {
		if attempts >= s.maxAttempts {
			s.logger.Warn(
				"otp attempt limit reached",
				slog.Int64("attempts", attempts),
			)
			s.discard(ctx, key)
		}
		return false, nil
	}

	consumed, err := s.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("consume code: %w", err)
	}
	// The code may have been reissued between GET and GETDEL.
	if !matches(consumed, code) {
		return false, nil
	}

	if err := s.client.Del(ctx, attemptsPrefix+phone).Err(); err != nil {
		s.logger.Warn(
			"failed to reset otp attempts",
			slog.String("error", err.Error()),
		)
	}

	return true, nil
}

// countAttempt increments the attempt counter for phone, bounding its
// lifetime by the code TTL.
func (s *RedisStore) countAttempt(
	ctx context.Context,
	phone string,
) (int64, error) {
	key := attemptsPrefix + phone
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("count attempt: %w", err)
	}
	if n == 1 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return 0, fmt.Errorf("expire attempts: %w", err)
		}
	}
	return n, nil
}

func (s *RedisStore) discard(
	ctx context.Context,
	key string,
) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Warn(
			"failed to discard otp",
			slog.String("error", err.Error()),
		)
	}
}

func matches(
	pending string,
	code string,
) bool {
	return subtle.ConstantTimeCompare([]byte(pending), []byte(code)) == 1
}

func generateCode(
	digits int,
) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

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

package config_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/cavakil/backoffice/internal/config"
)

type ConfigPublicTestSuite struct {
	suite.Suite
}

func validConfig() config.Config {
	bucket := func(name string) config.NATSBucket {
		return config.NATSBucket{Bucket: name, Storage: "file", Replicas: 1}
	}

	return config.Config{
		Environment: config.EnvironmentDevelopment,
		API: config.API{
			Server: config.Server{
				Port: 8080,
				Security: config.ServerSecurity{
					SigningKey: "test-signing-key",
				},
			},
		},
		NATS: config.NATS{
			Actors:  bucket("actors"),
			Content: bucket("content"),
			Audit:   bucket("audit-log"),
		},
		Redis: config.Redis{Addr: "localhost:6379"},
	}
}

func (s *ConfigPublicTestSuite) TestValidate() {
	tests := []struct {
		name        string
		mutate      func(*config.Config)
		expectError bool
		errContains string
	}{
		{
			name:   "valid config",
			mutate: func(*config.Config) {},
		},
		{
			name: "missing signing key",
			mutate: func(c *config.Config) {
				c.API.Server.Security.SigningKey = ""
			},
			expectError: true,
			errContains: "SigningKey",
		},
		{
			name: "unknown environment",
			mutate: func(c *config.Config) {
				c.Environment = "staging"
			},
			expectError: true,
			errContains: "Environment",
		},
		{
			name: "missing bucket name",
			mutate: func(c *config.Config) {
				c.NATS.Content.Bucket = ""
			},
			expectError: true,
			errContains: "Bucket",
		},
		{
			name: "bad storage type",
			mutate: func(c *config.Config) {
				c.NATS.Audit.Storage = "disk"
			},
			expectError: true,
			errContains: "Storage",
		},
		{
			name: "missing redis address",
			mutate: func(c *config.Config) {
				c.Redis.Addr = ""
			},
			expectError: true,
			errContains: "Addr",
		},
		{
			name:        "empty config",
			mutate:      func(c *config.Config) { *c = config.Config{} },
			expectError: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := config.Validate(&cfg)

			if tt.expectError {
				s.Error(err)
				if tt.errContains != "" {
					s.Contains(err.Error(), tt.errContains)
				}
			} else {
				s.NoError(err)
			}
		})
	}
}

func (s *ConfigPublicTestSuite) TestResolveSigningKey() {
	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{
			name:     "falls back to configured key",
			env:      map[string]string{},
			expected: "configured",
		},
		{
			name:     "first alias wins",
			env:      map[string]string{"AUTH_SECRET": "auth", "SESSION_SECRET": "session"},
			expected: "auth",
		},
		{
			name:     "second alias used when first is empty",
			env:      map[string]string{"AUTH_SECRET": "", "SESSION_SECRET": "session"},
			expected: "session",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			restore := config.SetLookupEnv(func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			})
			defer restore()

			s.Equal(tt.expected, config.ResolveSigningKey("configured"))

			cfg := validConfig()
			cfg.API.Server.Security.SigningKey = "configured"
			config.ApplyEnvironment(&cfg)
			s.Equal(tt.expected, cfg.API.Server.Security.SigningKey)
		})
	}
}

func (s *ConfigPublicTestSuite) TestProduction() {
	cfg := validConfig()
	s.False(cfg.Production())

	cfg.Environment = config.EnvironmentProduction
	s.True(cfg.Production())
}

func TestConfigPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigPublicTestSuite))
}

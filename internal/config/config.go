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

// Package config defines the configuration file schema.
package config

import (
	"fmt"
	"os"

	"github.com/cavakil/backoffice/internal/validation"
)

// SigningKeyEnv lists the environment variables that may carry the token
// signing secret. The first non-empty one wins.
var SigningKeyEnv = []string{"AUTH_SECRET", "SESSION_SECRET"}

// lookupEnv is swapped in tests.
var lookupEnv = os.LookupEnv

// ResolveSigningKey returns the signing secret from the environment aliases
// when set, else the configured key.
func ResolveSigningKey(
	configured string,
) string {
	for _, name := range SigningKeyEnv {
		if v, ok := lookupEnv(name); ok && v != "" {
			return v
		}
	}
	return configured
}

// ApplyEnvironment overlays environment-provided values that have no
// single viper key, such as the signing key aliases.
func ApplyEnvironment(
	cfg *Config,
) {
	sec := &cfg.API.Server.Security
	sec.SigningKey = ResolveSigningKey(sec.SigningKey)
}

// Validate checks the configuration against its struct tags.
func Validate(
	cfg *Config,
) error {
	if msg, ok := validation.Struct(cfg); !ok {
		return fmt.Errorf("invalid configuration: %s", msg)
	}
	return nil
}

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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"

	"github.com/cavakil/backoffice/internal/config"
)

// natsReadyTimeout bounds how long Start waits for the embedded server.
const natsReadyTimeout = 10 * time.Second

// BuildServerOptions translates the embedded server configuration into
// nats-server options with JetStream enabled.
func BuildServerOptions(
	cfg config.NATSServer,
) (*server.Options, error) {
	opts := &server.Options{
		Host:      cfg.Host,
		Port:      cfg.Port,
		JetStream: true,
		StoreDir:  cfg.StoreDir,
		NoSigs:    true,
	}

	switch cfg.Auth.Type {
	case "", "none":
	case "user_pass":
		if len(cfg.Auth.Users) == 0 {
			return nil, fmt.Errorf("user_pass auth requires at least one user")
		}
		for _, u := range cfg.Auth.Users {
			opts.Users = append(opts.Users, &server.User{
				Username: u.Username,
				Password: u.Password,
			})
		}
	default:
		return nil, fmt.Errorf("unsupported nats server auth type: %s", cfg.Auth.Type)
	}

	return opts, nil
}

// EmbeddedNATS runs a nats-server in-process.
type EmbeddedNATS struct {
	logger *slog.Logger
	server *server.Server
}

// ensure EmbeddedNATS implements Lifecycle at compile time.
var _ Lifecycle = (*EmbeddedNATS)(nil)

// NewEmbeddedNATS creates, but does not start, an embedded server.
func NewEmbeddedNATS(
	logger *slog.Logger,
	cfg config.NATSServer,
) (*EmbeddedNATS, error) {
	opts, err := BuildServerOptions(cfg)
	if err != nil {
		return nil, err
	}

	s, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create nats server: %w", err)
	}

	return &EmbeddedNATS{
		logger: logger,
		server: s,
	}, nil
}

// Start launches the server and waits until it accepts connections.
func (n *EmbeddedNATS) Start() {
	go n.server.Start()

	if !n.server.ReadyForConnections(natsReadyTimeout) {
		n.logger.Error("nats server not ready", slog.Duration("timeout", natsReadyTimeout))
		return
	}

	n.logger.Info(
		"nats server started",
		slog.String("url", n.server.ClientURL()),
		slog.Bool("jetstream", n.server.JetStreamEnabled()),
	)
}

// Ready reports whether the server accepts connections.
func (n *EmbeddedNATS) Ready() bool {
	return n.server.ReadyForConnections(0)
}

// ClientURL returns the URL clients should dial.
func (n *EmbeddedNATS) ClientURL() string {
	return n.server.ClientURL()
}

// Stop shuts the server down, returning early when ctx expires.
func (n *EmbeddedNATS) Stop(
	ctx context.Context,
) {
	done := make(chan struct{})
	go func() {
		n.server.Shutdown()
		n.server.WaitForShutdown()
		close(done)
	}()

	select {
	case <-done:
		n.logger.Info("nats server stopped")
	case <-ctx.Done():
		n.logger.Warn("nats server shutdown timed out")
	}
}

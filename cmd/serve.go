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
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/cavakil/backoffice/internal/api"
	"github.com/cavakil/backoffice/internal/cli"
	"github.com/cavakil/backoffice/internal/session"
	"github.com/cavakil/backoffice/internal/telemetry"
)

// ServerManager responsible for Server operations.
type ServerManager interface {
	cli.Lifecycle
	// RegisterHandlers registers a list of handlers with the Echo instance.
	RegisterHandlers(handlers []func(e *echo.Echo))
}

// compositeLifecycle starts components in order and stops them
// concurrently.
type compositeLifecycle struct {
	components []cli.Lifecycle
}

func (c *compositeLifecycle) Start() {
	for _, comp := range c.components {
		comp.Start()
	}
}

func (c *compositeLifecycle) Stop(ctx context.Context) {
	var wg sync.WaitGroup
	for _, comp := range c.components {
		wg.Add(1)
		go func(lc cli.Lifecycle) {
			defer wg.Done()
			lc.Stop(ctx)
		}(comp)
	}
	wg.Wait()
}

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the back office API",
	Long: `Start the HTTP server: the edge guard for the admin and account
areas, the authentication endpoints, and the administrative API.

When nats.server.embedded is set, a JetStream-enabled NATS server is
started in-process first.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		startTime := time.Now()

		shutdownTracer, err := telemetry.InitTracer(
			ctx,
			"cavakil",
			appConfig.Telemetry.Tracing,
		)
		if err != nil {
			cli.LogFatal(logger, "failed to initialize tracer", err)
		}

		meter, err := telemetry.InitMeter(appConfig.Telemetry.Metrics)
		if err != nil {
			cli.LogFatal(logger, "failed to initialize meter", err)
		}

		var components []cli.Lifecycle

		embedded := startEmbeddedNATS(logger.With("component", "nats"))
		if embedded != nil {
			// Stopped last, after the API has drained.
			defer embedded.Stop(context.Background())
		}

		log := logger.With("component", "api")
		b := connectBackends(log)

		sm := api.New(appConfig, log, api.WithAuditStore(b.audit))

		handlers := make([]func(e *echo.Echo), 0, 8)
		handlers = append(handlers, sm.GetAuthHandler(session.NewIssuer(
			log,
			b.actors,
			b.otp,
			b.tokens,
			appConfig.API.Server.Security.SigningKey,
		))...)
		handlers = append(handlers, sm.GetUsersHandler(b.actors, session.HashPassword)...)
		handlers = append(handlers, sm.GetAuditHandler(b.audit)...)
		handlers = append(handlers, sm.GetContentHandler(b.content)...)
		handlers = append(
			handlers,
			sm.GetHealthHandler(newHealthChecker(b), startTime, buildVersion().GitVersion)...)
		handlers = append(handlers, sm.GetMetricsHandler(meter.Handler, meter.Path)...)
		handlers = append(handlers, sm.GetPagesHandler()...)

		var manager ServerManager = sm
		manager.RegisterHandlers(handlers)
		components = append(components, manager)

		composite := &compositeLifecycle{components: components}
		composite.Start()
		cli.RunServer(ctx, composite, func() {
			_ = meter.Shutdown(context.Background())
			_ = shutdownTracer(context.Background())
			b.close()
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

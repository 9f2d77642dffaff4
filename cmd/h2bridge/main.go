// Command h2bridge sends one request over an HTTP/2 connection and writes
// the response body to stdout. The status line and trailers go to stderr.
//
// Usage:
//
//	h2bridge [config.yml]
//	h2bridge version
//
// Without an argument the configuration is looked up in ./cmd/h2bridge,
// ./config and the working directory. H2BRIDGE_* environment variables
// override it, e.g. H2BRIDGE_CLIENT_ADDRESS=localhost:8080 or
// H2BRIDGE_CLIENT_MODE=lifted.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/google/uuid"

	"github.com/kbukum/h2bridge/bootstrap"
	"github.com/kbukum/h2bridge/client"
	"github.com/kbukum/h2bridge/config"
	"github.com/kbukum/h2bridge/logger"
	"github.com/kbukum/h2bridge/version"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "h2bridge:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) > 0 && args[0] == "version" {
		_, err := fmt.Fprintln(stdout, serviceName, version.Get())
		return err
	}

	opts := []config.LoaderOption{config.WithEnvPrefix(envPrefix)}
	if len(args) > 0 {
		opts = append(opts, config.WithConfigFile(args[0]))
	}

	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return err
	}
	return execute(ctx, &cfg, stdin, stdout, stderr)
}

// execute runs one request described by cfg through the full application
// lifecycle.
func execute(ctx context.Context, cfg *Config, stdin io.Reader, stdout, stderr io.Writer, opts ...bootstrap.Option) error {
	opts = append([]bootstrap.Option{bootstrap.WithSummaryWriter(stderr)}, opts...)
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return err
	}

	builder, err := client.NewBuilder(cfg.Client, client.WithLogger(app.Logger))
	if err != nil {
		return err
	}
	conn := client.NewComponent(builder)
	if err := app.RegisterComponent(conn); err != nil {
		return err
	}

	metrics, err := setupTelemetry(ctx, app)
	if err != nil {
		return err
	}

	return app.RunTask(ctx, func(ctx context.Context) error {
		if cfg.Request.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Request.Timeout)
			defer cancel()
		}

		src, err := cfg.Request.openBody(stdin)
		if err != nil {
			return err
		}
		defer src.Close()

		requestID := uuid.NewString()
		inv := &invocation{
			Method:   cfg.Request.Method,
			Path:     cfg.Request.Path,
			Header:   cfg.Request.header(requestID),
			Body:     src,
			Trailers: cfg.Request.trailers(),
		}

		log := app.Logger.WithFields(logger.Fields("request_id", requestID))
		res, err := newCaller(cfg, builder, conn.ClientConn(), metrics, log, stdout).Execute(ctx, inv)
		if err != nil {
			return err
		}
		printResult(stderr, res)
		return nil
	})
}

// printResult writes the status line and trailers.
func printResult(w io.Writer, res *result) {
	fmt.Fprintf(w, "%s %s (%d bytes)\n", res.Proto, res.Status, res.Bytes)

	names := make([]string, 0, len(res.Trailers))
	for name := range res.Trailers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, v := range res.Trailers[name] {
			fmt.Fprintf(w, "trailer %s: %s\n", name, v)
		}
	}
}

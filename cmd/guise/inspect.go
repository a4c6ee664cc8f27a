package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/guise-dev/guise/internal/config"
	"github.com/guise-dev/guise/internal/demo"
	"github.com/guise-dev/guise/internal/errors"
	"github.com/guise-dev/guise/pkg/component"
	"github.com/guise-dev/guise/pkg/inspect"
	"github.com/guise-dev/guise/pkg/metrics"
	"github.com/guise-dev/guise/pkg/middleware"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func inspectCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve the todo demo with the commit inspector",
		Long: `Mount the todo demo in a headless document and serve the
commit inspector.

Events posted to /events drive the components. Every commit is
recorded and streamed to /ws subscribers. With archive enabled the
snapshots are also uploaded to S3.

Examples:
  guise inspect
  guise inspect --addr=:7070
  guise inspect --config=guise.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspect.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := newInspectServer(ctx, cfg, newLogger(cmd.ErrOrStderr(), verbose))
			if err != nil {
				return err
			}
			defer srv.session.Close()

			ln, err := net.Listen("tcp", cfg.Inspect.Addr)
			if err != nil {
				return errors.New(errors.InspectorFailed).Wrap(err).
					WithSuggestion("Pick another address with --addr")
			}

			w := cmd.OutOrStdout()
			success(w, "Inspector listening on http://%s", ln.Addr())
			info(w, "Commits:    GET  /commits")
			info(w, "Events:     POST /events")
			info(w, "Live feed:  GET  /ws")
			if cfg.Metrics.Enabled {
				info(w, "Metrics:    GET  /metrics")
			}

			if err := srv.serve(ctx, ln); err != nil {
				return errors.New(errors.InspectorFailed).Wrap(err)
			}
			fmt.Fprintln(w, "\n  Shutting down...")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to guise.json or guise.yaml")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log scheduler and commit details")

	return cmd
}

// inspectServer is a mounted todo session wired to an inspector.
type inspectServer struct {
	session *demo.Session
	insp    *inspect.Inspector
	logger  *slog.Logger
}

func newInspectServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*inspectServer, error) {
	var regOpts []component.Option
	inspOpts := []inspect.Option{
		inspect.WithHistorySize(cfg.Inspect.HistorySize),
		inspect.WithLogger(logger),
		inspect.WithCheckOrigin(func(r *http.Request) bool {
			return cfg.AllowsOrigin(r.Header.Get("Origin"), r.Host)
		}),
		inspect.WithMiddleware(
			middleware.OpenTelemetry(middleware.WithTracerName("guise-inspect")),
			middleware.Logging(logger),
		),
	}

	if cfg.Metrics.Enabled {
		rec := metrics.New(
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithSubsystem(cfg.Metrics.Subsystem),
		)
		regOpts = append(regOpts, component.WithRecorder(rec))
		inspOpts = append(inspOpts,
			inspect.WithMetricsHandler(rec.Handler()),
			inspect.WithMiddleware(middleware.Prometheus(
				middleware.WithNamespace(cfg.Metrics.Namespace),
				middleware.WithRegistry(rec.Registry()),
			)),
		)
	}
	if cfg.Archive.Enabled {
		client, err := newS3Client(ctx, cfg.Archive.Region)
		if err != nil {
			return nil, err
		}
		inspOpts = append(inspOpts, inspect.WithArchiver(
			inspect.NewS3Archiver(client, cfg.Archive.Bucket, cfg.Archive.Prefix)))
	}

	s, err := demo.NewSession(demo.Options{
		Todos:    cfg.Demo.Todos,
		Logger:   logger,
		Registry: regOpts,
	})
	if err != nil {
		return nil, errors.FromError(err, errors.DefinitionRefused)
	}

	insp := inspect.New(s.Doc, append(inspOpts, inspect.WithRegistry(s.Registry))...)
	s.Registry.Observe(insp)
	if _, err := s.Mount(demo.AppName); err != nil {
		return nil, errors.FromError(err, errors.DefinitionRefused)
	}
	return &inspectServer{session: s, insp: insp, logger: logger}, nil
}

// serve drives the scheduler, the archive worker and the HTTP server until
// ctx is done or one of them fails.
func (s *inspectServer) serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpSrv := &http.Server{
		Handler:           s.insp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	loopDone := make(chan error, 1)
	go func() { loopDone <- s.session.Sched.Run(ctx) }()
	go func() { errCh <- s.insp.Run(ctx) }()
	go func() { errCh <- httpSrv.Serve(ln) }()

	var first error
	select {
	case <-ctx.Done():
	case first = <-errCh:
	case first = <-loopDone:
		loopDone <- first
	}
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("inspector shutdown", "error", err)
	}
	// The session is closed on this goroutine afterwards.
	<-loopDone

	if first == nil || ignorable(first) {
		return nil
	}
	return first
}

func ignorable(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, http.ErrServerClosed)
}

// newS3Client builds an S3 client from the default AWS configuration chain
// (environment, shared config and credentials files, SSO, instance roles).
// A non-empty region overrides the one the chain resolves.
func newS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New(errors.AWSConfigFailed).Wrap(err).
			WithSuggestion("Check AWS_PROFILE and ~/.aws/config, or disable archive in guise.json")
	}
	return s3.NewFromConfig(awsCfg), nil
}

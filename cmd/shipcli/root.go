package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"shipcli/internal/config"
	"shipcli/internal/files"
	"shipcli/internal/infrastructure"
	"shipcli/internal/operations"
	"shipcli/internal/validation"
	"shipcli/pkg/contracts"
)

// globalOptions are the persistent flags shared by every subcommand
type globalOptions struct {
	configFile string
	logLevel   string
	dataDir    string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "shipcli",
		Short: "Aggregate monthly family shipments and select families by end period",
		Long: `shipcli turns a historical product transition extract into a monthly
per-family shipment table, summarizes the first and last shipment period of
each family, and keeps the rows of families whose last period matches a
target month.`,
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "YAML configuration file (default: shipcli.yaml or configs/shipcli.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.dataDir, "data-dir", "", "data directory that relative table paths resolve under")

	rootCmd.SetVersionTemplate(contracts.GetFullVersionString() + "\n")

	rootCmd.AddCommand(
		newAggregateCmd(opts),
		newSummarizeCmd(opts),
		newFilterCmd(opts),
		newRunCmd(opts),
	)
	return rootCmd
}

// app holds what a single command invocation wires together
type app struct {
	cfg       *config.Config
	paths     *config.Paths
	logger    *slog.Logger
	providers *infrastructure.OTelProviders
	tracer    *operations.OperationTracer
	runtime   *infrastructure.RuntimeMetrics
	store     *files.Store
	files     *validation.FileValidator
	stdout    io.Writer
	started   time.Time
}

// newApp loads the configuration and starts logging and telemetry. The
// returned context carries the run's trace ID; close must be called.
func newApp(ctx context.Context, cmd *cobra.Command, opts *globalOptions) (*app, context.Context, error) {
	started := time.Now()

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, ctx, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.dataDir != "" {
		cfg.Paths.DataDir = opts.dataDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, ctx, fmt.Errorf("failed to initialize logger: %w", err)
	}
	ctx = infrastructure.EnsureTraceID(ctx)
	logger = infrastructure.WithComponent(logger, cmd.Name())

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		return nil, ctx, err
	}
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, ctx, err
	}
	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		return nil, ctx, err
	}
	runtime, err := infrastructure.NewRuntimeMetrics(providers.Meter)
	if err != nil {
		return nil, ctx, fmt.Errorf("failed to create runtime metrics: %w", err)
	}

	logger.InfoContext(ctx, "shipcli starting",
		slog.String("command", cmd.Name()),
		slog.String("version", config.AppVersion),
		slog.String("data_dir", paths.DataDir))

	return &app{
		cfg:       cfg,
		paths:     paths,
		logger:    logger,
		providers: providers,
		tracer:    tracer,
		runtime:   runtime,
		store: files.NewStore(logger, files.StoreOptions{
			WriteBOM:   cfg.Pipeline.WriteBOM,
			XLSXMirror: cfg.Pipeline.XLSXMirror,
		}),
		files:   validation.NewFileValidator(logger),
		stdout:  cmd.OutOrStdout(),
		started: started,
	}, ctx, nil
}

// close records the runtime gauges, flushes telemetry and closes the log file
func (a *app) close(ctx context.Context) {
	stats := a.runtime.Collect(ctx, a.started)
	a.logger.DebugContext(ctx, "run finished",
		slog.Duration("uptime", stats.ProcessUptime),
		slog.Int64("heap_bytes", stats.MemoryUsage))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.providers.Shutdown(shutdownCtx); err != nil {
		a.logger.WarnContext(ctx, "telemetry shutdown failed", slog.String("error", err.Error()))
	}
	infrastructure.CloseLogFile()
}

func (a *app) stepDeps() operations.StepDeps {
	return operations.StepDeps{
		Store:   a.store,
		Logger:  a.logger,
		Metrics: a.tracer.Metrics(),
	}
}

// execute runs steps through the operations manager and prints the
// completion line of every finished step
func (a *app) execute(ctx context.Context, cfg *operations.Config, req operations.OperationRequest, steps ...operations.Step) error {
	manager, err := operations.NewManager(operations.NewRegistry(), cfg, a.tracer, a.logger)
	if err != nil {
		return err
	}
	for _, step := range steps {
		if err := manager.RegisterStep(step); err != nil {
			return err
		}
	}

	resp, err := manager.Execute(ctx, req)
	if resp != nil {
		for _, step := range resp.Completed() {
			fmt.Fprintln(a.stdout, step.Message)
		}
	}
	if err != nil {
		infrastructure.WithError(a.logger, err).ErrorContext(ctx, "run failed",
			slog.String("error_type", string(operations.GetErrorType(err))))
		return err
	}
	return nil
}

// withApp wraps a command body with app setup and teardown
func withApp(opts *globalOptions, run func(ctx context.Context, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, ctx, err := newApp(cmd.Context(), cmd, opts)
		if err != nil {
			return err
		}
		defer a.close(ctx)
		return run(ctx, a)
	}
}

package main

import (
	"context"

	"github.com/spf13/cobra"

	"shipcli/internal/operations"
	"shipcli/internal/validation"
	"shipcli/pkg/contracts/domain"
)

func newAggregateCmd(opts *globalOptions) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate the raw transition extract into monthly family shipments",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&in, "in", "", "raw extract (.csv or .xlsx; default from config)")
	cmd.Flags().StringVar(&out, "out", "", "aggregated table (default from config)")

	cmd.RunE = withApp(opts, func(ctx context.Context, a *app) error {
		req := domain.AggregateRequest{
			InputPath:  orDefault(in, a.paths.RawCSV),
			OutputPath: orDefault(out, a.paths.AggregatedCSV),
		}
		if err := validation.ValidateRequest(req); err != nil {
			return err
		}
		if err := a.files.ValidateInputTable(req.InputPath); err != nil {
			return err
		}
		if err := a.files.ValidateOutputTable(req.OutputPath); err != nil {
			return err
		}

		step := operations.NewAggregateStep(a.stepDeps(), req.InputPath, req.OutputPath, a.cfg.Pipeline.DateColumns)
		return a.execute(ctx, operations.NewConfig(), operations.OperationRequest{Step: step.ID()}, step)
	})
	return cmd
}

func newSummarizeCmd(opts *globalOptions) *cobra.Command {
	var in, out string
	var show bool

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Derive the first and last shipment period of every family",
		Long: `Derive the first and last shipment period of every family.

With --print and no --out the summary is only rendered to the console.`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().StringVar(&in, "in", "", "aggregated table (default from config)")
	cmd.Flags().StringVar(&out, "out", "", "summary table (default from config)")
	cmd.Flags().BoolVar(&show, "print", false, "render the summary as a console table")

	cmd.RunE = withApp(opts, func(ctx context.Context, a *app) error {
		output := out
		if output == "" && !show {
			output = a.paths.SummaryCSV
		}
		req := domain.SummarizeRequest{
			InputPath:  orDefault(in, a.paths.AggregatedCSV),
			OutputPath: output,
			Print:      show,
		}
		if err := validation.ValidateRequest(req); err != nil {
			return err
		}
		if err := a.files.ValidateInputTable(req.InputPath); err != nil {
			return err
		}
		if req.OutputPath != "" {
			if err := a.files.ValidateOutputTable(req.OutputPath); err != nil {
				return err
			}
		}

		step := operations.NewSummarizeStep(a.stepDeps(), req.InputPath, req.OutputPath, req.Print, a.stdout)
		return a.execute(ctx, operations.NewConfig(), operations.OperationRequest{Step: step.ID()}, step)
	})
	return cmd
}

func newFilterCmd(opts *globalOptions) *cobra.Command {
	var periods, in, out, target string

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Keep the monthly rows of families whose last period is the target",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&periods, "periods", "", "summary table (default from config)")
	cmd.Flags().StringVar(&in, "in", "", "aggregated table (default from config)")
	cmd.Flags().StringVar(&out, "out", "", "filtered table (default: processed/family_monthly_shipments_end<target>.csv)")
	cmd.Flags().StringVar(&target, "target", "", "target end period YYYY-MM (default from config)")

	cmd.RunE = withApp(opts, func(ctx context.Context, a *app) error {
		targetEnd := orDefault(target, a.cfg.Pipeline.TargetEnd)
		req := domain.FilterRequest{
			PeriodsPath: orDefault(periods, a.paths.SummaryCSV),
			InputPath:   orDefault(in, a.paths.AggregatedCSV),
			OutputPath:  orDefault(out, a.paths.FilteredCSV(targetEnd)),
			TargetEnd:   targetEnd,
		}
		if err := validation.ValidateRequest(req); err != nil {
			return err
		}
		for _, input := range []string{req.PeriodsPath, req.InputPath} {
			if err := a.files.ValidateInputTable(input); err != nil {
				return err
			}
		}
		if err := a.files.ValidateOutputTable(req.OutputPath); err != nil {
			return err
		}

		step := operations.NewFilterStep(a.stepDeps(), req.PeriodsPath, req.InputPath, req.OutputPath, req.TargetEnd)
		return a.execute(ctx, operations.NewConfig(),
			operations.OperationRequest{Step: step.ID(), TargetEnd: req.TargetEnd}, step)
	})
	return cmd
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	var target, only string
	var continueOnError bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run aggregate, summarize and filter in order and write a run manifest",
		Long: `Run aggregate, summarize and filter in order on the configured tables.

Tables produced by earlier runs are reused when --step limits the run to a
single stage. The run manifest is written next to the processed tables.`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().StringVar(&target, "target", "", "target end period YYYY-MM (default from config)")
	cmd.Flags().StringVar(&only, "step", "", "run only this stage: aggregate, summarize or filter")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "keep running later stages after a failure")

	cmd.RunE = withApp(opts, func(ctx context.Context, a *app) error {
		targetEnd := orDefault(target, a.cfg.Pipeline.TargetEnd)
		req := domain.PipelineRequest{
			RawPath:        a.paths.RawCSV,
			AggregatedPath: a.paths.AggregatedCSV,
			SummaryPath:    a.paths.SummaryCSV,
			FilteredPath:   a.paths.FilteredCSV(targetEnd),
			TargetEnd:      targetEnd,
			Step:           only,
		}
		if err := validation.ValidateRequest(req); err != nil {
			return err
		}
		if err := a.paths.EnsureDirectories(); err != nil {
			return err
		}
		for _, output := range []string{req.AggregatedPath, req.SummaryPath, req.FilteredPath} {
			if err := a.files.ValidateOutputTable(output); err != nil {
				return err
			}
		}

		deps := a.stepDeps()
		cfg := operations.NewConfigBuilder().
			WithContinueOnError(continueOnError).
			WithManifestPath(a.paths.ManifestFile).
			Build()

		return a.execute(ctx, cfg,
			operations.OperationRequest{Step: req.Step, TargetEnd: req.TargetEnd},
			operations.NewAggregateStep(deps, req.RawPath, req.AggregatedPath, a.cfg.Pipeline.DateColumns),
			operations.NewSummarizeStep(deps, req.AggregatedPath, req.SummaryPath, false, a.stdout),
			operations.NewFilterStep(deps, req.SummaryPath, req.AggregatedPath, req.FilteredPath, req.TargetEnd),
		)
	})
	return cmd
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

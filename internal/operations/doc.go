// Package operations runs the shipment pipeline as a sequence of steps.
//
// A Step declares the tables it reads and writes. The Manager resolves the
// step order from the Registry, seeds the run's PipelineManifest with input
// tables already on disk, and executes the steps one at a time. A step whose
// inputs are absent from the manifest is skipped with a dependency error;
// the first failure skips the remaining steps unless ContinueOnError is set.
//
// The pipeline steps are:
//
//	aggregate  raw extract        -> monthly aggregated table
//	summarize  aggregated table   -> first and last period per family
//	filter     summary, aggregate -> rows of families ending in the target
//
// Each completed step leaves a one-line message in its StepState; callers
// print OperationResponse.Completed in order.
//
// Example usage:
//
//	manager, err := operations.NewManager(nil, cfg, tracer, logger)
//	if err != nil {
//		return err
//	}
//	manager.RegisterStep(operations.NewAggregateStep(deps, rawPath, aggPath, nil))
//	manager.RegisterStep(operations.NewSummarizeStep(deps, aggPath, summaryPath, false, nil))
//	manager.RegisterStep(operations.NewFilterStep(deps, summaryPath, aggPath, filteredPath, ""))
//
//	resp, err := manager.Execute(ctx, operations.OperationRequest{TargetEnd: "2025-05"})
package operations

// Package dataprocessing implements the shipment aggregation pipeline.
//
// # Stages
//
// Every stage is a pure transformation from in-memory tables to a new table:
//
//  1. KeyDecomposer splits transition_key into series, subseries, CPU and
//     size, dropping rows without a subseries
//  2. DateNormalizer rewrites ss and eol to YYYY-MM, with "" for values
//     that are missing or not dates
//  3. Aggregator sums shipment per distinct grouping key into
//     total_shipment, sorted by family_desc, year, month
//  4. PeriodSummarizer derives each family's first and last period from
//     year and month
//  5. MembershipFilter keeps the rows of families whose end period matches
//     a target
//
// MonthlyAggregation chains the first three.
//
// # Data Flow
//
//	raw.csv → ParseRecords → MonthlyAggregation → aggregated
//	aggregated → PeriodSummarizer → summary
//	summary + aggregated → MembershipFilter → filtered
//
// # Parsing
//
// ReadCSV and ReadWorkbook produce untyped RawRecords; ParseRecords applies
// a table.Schema. Missing required columns and numeric cells that cannot be
// coerced are fatal, reported as internal/errors AppErrors.
package dataprocessing

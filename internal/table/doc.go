// Package table provides the in-memory tabular abstraction used by the
// shipment pipeline: an ordered list of rows of tagged scalar values, plus the
// generic group, sum and sort operations the stages are built from.
//
// Grouping keys are fixed-order sequences of typed values compared
// structurally, so the empty string is an ordinary key component and never
// collides with a missing or numeric value:
//
//	groups, err := table.GroupBy(t, "family_desc", "year", "month")
//	for _, g := range groups {
//	    total := table.Sum(t, g.Rows, shipmentIdx)
//	}
package table

package exporter

import (
	"shipcli/internal/table"
)

// cellValue converts a table value to the Go type excelize stores natively
func cellValue(v table.Value) interface{} {
	switch v.Kind() {
	case table.KindInt:
		return v.Int()
	case table.KindFloat:
		return v.Float()
	default:
		return v.Str()
	}
}

// cellValues converts a whole row
func cellValues(r table.Row) []interface{} {
	out := make([]interface{}, len(r))
	for i, v := range r {
		out[i] = cellValue(v)
	}
	return out
}

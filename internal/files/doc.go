// Package files is the tabular store of the pipeline: it loads a table from
// a named location given a schema and persists a table to a named location.
//
// The format follows the extension: .xlsx and .xlsm are Excel workbooks,
// everything else is delimited text with a header row. Loads go through
// dataprocessing.ParseRecords; saves go through the exporter writers and
// are atomic.
//
// Example usage:
//
//	store := files.NewStore(logger, files.StoreOptions{WriteBOM: cfg.Pipeline.WriteBOM})
//	raw, err := store.Load(ctx, paths.RawCSV, dataprocessing.RawSchema)
//	if err != nil {
//	    return err
//	}
package files

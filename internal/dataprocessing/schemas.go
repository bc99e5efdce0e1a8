package dataprocessing

import (
	"shipcli/internal/table"
	"shipcli/pkg/contracts/domain"
)

// RawSchema is the layout of the historical transition extract
var RawSchema = table.Schema{
	Columns: []table.Column{
		{Name: domain.ColFamilyDesc, Kind: table.KindString, Required: true},
		{Name: domain.ColYear, Kind: table.KindInt, Required: true},
		{Name: domain.ColMonth, Kind: table.KindInt, Required: true},
		{Name: domain.ColTransitionKey, Kind: table.KindString, Required: true},
		{Name: domain.ColSS, Kind: table.KindString, Required: true},
		{Name: domain.ColEOL, Kind: table.KindString, Required: true},
		{Name: domain.ColShipment, Kind: table.KindFloat, Required: true},
	},
}

// AggregatedSchema is the layout written by the aggregation stage
var AggregatedSchema = table.Schema{
	Columns: []table.Column{
		{Name: domain.ColFamilyDesc, Kind: table.KindString, Required: true},
		{Name: domain.ColYear, Kind: table.KindInt, Required: true},
		{Name: domain.ColMonth, Kind: table.KindInt, Required: true},
		{Name: domain.ColTransitionKey, Kind: table.KindString, Required: true},
		{Name: domain.ColSeries, Kind: table.KindString, Required: true},
		{Name: domain.ColSubseries, Kind: table.KindString, Required: true},
		{Name: domain.ColCPU, Kind: table.KindString, Required: true},
		{Name: domain.ColSize, Kind: table.KindString, Required: true},
		{Name: domain.ColSS, Kind: table.KindString, Required: true},
		{Name: domain.ColEOL, Kind: table.KindString, Required: true},
		{Name: domain.ColTotalShipment, Kind: table.KindFloat, Required: true},
	},
}

// SummarySchema is the layout of the family period summary
var SummarySchema = table.Schema{
	Columns: []table.Column{
		{Name: domain.ColFamilyDesc, Kind: table.KindString, Required: true},
		{Name: domain.ColStartPeriod, Kind: table.KindString, Required: true},
		{Name: domain.ColEndPeriod, Kind: table.KindString, Required: true},
	},
}

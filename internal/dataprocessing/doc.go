// Package dataprocessing turns a raw survey export into cleaned responses and
// derives every figure the dashboard shows from them.
//
// # Data Flow
//
//	[][]string → Parser → Dataset → Filter → ComputeKPIs / SummarizeBySpecialist / ExtractComments
//
// # Parsing
//
// Columns are found by header text. Verbose form questions are renamed to
// canonical names (see domain.Column*), missing columns are tolerated and
// defaults are applied once, so later stages never check for columns:
//
//	dataset, err := dataprocessing.NewParser(logger).Parse(ctx, records, location)
//
// Cells that cannot be coerced become nil. Parsing only fails when there is
// no header row at all.
//
// # Filtering and Aggregation
//
// All functions below are pure and never modify their input:
//
//	rows := dataprocessing.Filter(dataset.Responses, dataprocessing.FilterOptions{From: &from, To: &to})
//	kpis := dataprocessing.ComputeKPIs(rows)
//	summaries := dataprocessing.SummarizeBySpecialist(rows)
//	feed := dataprocessing.ExtractComments(rows)
//
// Means over zero observations are nil, never 0. Rates over zero meetings are 0.
package dataprocessing

// Package http implements the HTTP surface of the feedback dashboard. Handlers
// stay thin: they parse and validate the query, call the feedback service and
// render the result as JSON, a file download or the server-rendered page.
//
// # Routes
//
//	GET  /                          dashboard page
//	GET  /api/dashboard             KPIs, summary, chart series and comments
//	POST /api/dashboard/refresh     drop the cached dataset
//	GET  /api/specialists           specialists of the loaded dataset
//	GET  /api/comments              comment feed
//	GET  /api/export/summary.xlsx   summary workbook
//	GET  /api/export/summary.csv    summary table
//	GET  /api/health[/ready|/live]  health checks
//	GET  /api/version               build information
//
// # Query parameters
//
// from and to accept YYYY-MM-DD or DD/MM/YYYY. specialist may repeat; when
// it is present with only empty values the selection is empty. all_dates
// disables the default date range.
//
// # Errors
//
// Errors are rendered as RFC 7807 problems through errors.ErrorHandler. A
// source failure becomes 502 /errors/source/unavailable on the API and a 502
// error page on the dashboard.
package http

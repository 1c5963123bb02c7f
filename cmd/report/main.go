// Command report loads the survey once and prints the dashboard indicators
// and the specialist summary, optionally writing XLSX and CSV files.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"feedbackpulse/internal/config"
	"feedbackpulse/internal/exporter"
	"feedbackpulse/internal/infrastructure"
	"feedbackpulse/internal/middleware"
	"feedbackpulse/internal/services"
	"feedbackpulse/internal/source"
)

type options struct {
	source      string
	from        string
	to          string
	specialists stringList
	allDates    bool
	xlsxPath    string
	csvPath     string
	logLevel    string
}

// stringList collects a repeatable flag
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var opts options
	flag.StringVar(&opts.source, "source", "", "CSV URL or file path (defaults to the configured source)")
	flag.StringVar(&opts.from, "from", "", "start date, YYYY-MM-DD or DD/MM/YYYY")
	flag.StringVar(&opts.to, "to", "", "end date, YYYY-MM-DD or DD/MM/YYYY")
	flag.Var(&opts.specialists, "specialist", "specialist to include (repeatable)")
	flag.BoolVar(&opts.allDates, "all-dates", false, "ignore the default date range")
	flag.StringVar(&opts.xlsxPath, "xlsx", "", "write the summary workbook to this path")
	flag.StringVar(&opts.csvPath, "csv", "", "write the summary table to this path")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	flag.Parse()

	logger := infrastructure.NewLoggerWithWriter(os.Stderr, opts.logLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, opts, os.Stdout, logger); err != nil {
		logger.Error("Report failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer, logger *slog.Logger) error {
	ctx = infrastructure.EnsureTraceID(ctx)

	cfg, err := sourceConfig(opts.source)
	if err != nil {
		return err
	}

	query, err := buildQuery(opts)
	if err != nil {
		return err
	}

	fetcher, err := source.New(cfg, logger)
	if err != nil {
		return err
	}

	cache := services.NewDatasetCache(cfg.CacheTTL, 1)
	defer cache.Stop()

	svc := services.NewFeedbackService(fetcher, cache, nil, logger).WithFetchTimeout(cfg.FetchTimeout)
	dash, err := svc.Dashboard(ctx, query)
	if err != nil {
		return err
	}

	rows := exporter.BuildSummaryRows(dash.Summary)
	if err := printReport(out, dash, rows); err != nil {
		return err
	}

	if opts.xlsxPath != "" {
		wb := exporter.Workbook{KPIs: dash.KPIs, Rows: rows, Comments: dash.Comments}
		if err := exporter.WriteWorkbookFile(opts.xlsxPath, wb); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nWorkbook written to %s\n", opts.xlsxPath)
	}
	if opts.csvPath != "" {
		if err := exporter.WriteSummaryCSVFile(opts.csvPath, rows); err != nil {
			return err
		}
		fmt.Fprintf(out, "Summary written to %s\n", opts.csvPath)
	}

	return nil
}

// sourceConfig resolves the source flag against the environment configuration
func sourceConfig(flagSource string) (config.SourceConfig, error) {
	cfg := config.SourceConfig{
		Kind:         config.SourceKindCSV,
		URL:          config.DefaultSourceURL,
		SheetRange:   "A1:Z",
		CacheTTL:     config.DefaultCacheTTL,
		FetchTimeout: config.DefaultFetchTimeout,
	}

	if loaded, err := config.Load(); err == nil {
		cfg = loaded.Source
	}

	switch {
	case flagSource == "":
	case strings.HasPrefix(flagSource, "http://"), strings.HasPrefix(flagSource, "https://"):
		cfg.Kind = config.SourceKindCSV
		cfg.URL = flagSource
	default:
		cfg.Kind = config.SourceKindFile
		cfg.Path = flagSource
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid source: %w", err)
	}
	return cfg, nil
}

func buildQuery(opts options) (services.DashboardQuery, error) {
	from, err := middleware.ParseQueryDate(opts.from)
	if err != nil {
		return services.DashboardQuery{}, fmt.Errorf("invalid -from: %w", err)
	}
	to, err := middleware.ParseQueryDate(opts.to)
	if err != nil {
		return services.DashboardQuery{}, fmt.Errorf("invalid -to: %w", err)
	}

	query := services.DashboardQuery{From: from, To: to, AllDates: opts.allDates}
	if len(opts.specialists) > 0 {
		query.Specialists = append([]string{}, opts.specialists...)
	}
	return query, nil
}

func printReport(out io.Writer, dash *services.Dashboard, rows []exporter.SummaryRow) error {
	fmt.Fprintf(out, "Fonte: %s\n", dash.Source)
	if dash.Range.From != nil || dash.Range.To != nil {
		fmt.Fprintf(out, "Período: %s a %s\n", dateLabel(dash.Range.From), dateLabel(dash.Range.To))
	}
	fmt.Fprintln(out)

	if dash.IsEmpty() {
		fmt.Fprintln(out, "Sem dados para exibir no período/seleção atual.")
		return nil
	}

	for _, card := range exporter.BuildKPICards(dash.KPIs) {
		fmt.Fprintf(out, "%s %s: %s\n", card.Icon, card.Title, card.Value)
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(exporter.SummaryHeaders, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row.Cells(), "\t"))
	}
	return tw.Flush()
}

func dateLabel(t *time.Time) string {
	if t == nil {
		return "…"
	}
	return t.Format("02/01/2006")
}

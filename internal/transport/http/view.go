package http

import (
	"time"

	"feedbackpulse/internal/exporter"
	"feedbackpulse/internal/services"
	"feedbackpulse/pkg/contracts/domain"
)

const dateInputLayout = "2006-01-02"

// Empty-state texts of the dashboard views.
const (
	NoDataMessage     = "Sem dados para exibir no período/seleção atual."
	NoCommentsMessage = "Nenhum comentário registrado no período selecionado."
)

// DashboardView is the rendered shape of a dashboard, shared by the JSON
// API and the HTML page
type DashboardView struct {
	Source   string     `json:"source"`
	LoadedAt time.Time  `json:"loaded_at"`
	Filter   FilterView `json:"filter"`
	Empty    bool       `json:"empty"`

	KPIs     domain.KPIs           `json:"kpis"`
	Cards    []exporter.KPICard    `json:"kpi_cards"`
	Summary  []exporter.SummaryRow `json:"summary"`
	Chart    []ChartBar            `json:"chart"`
	Comments []domain.CommentGroup `json:"comments"`
}

// FilterView is the effective filter, with dates as YYYY-MM-DD
type FilterView struct {
	From      string             `json:"from,omitempty"`
	To        string             `json:"to,omitempty"`
	DataFrom  string             `json:"data_from,omitempty"`
	DataTo    string             `json:"data_to,omitempty"`
	AllDates  bool               `json:"all_dates"`
	Selected  []string           `json:"specialists"`
	Available []SpecialistOption `json:"available_specialists"`
}

// SpecialistOption is one entry of the specialist selector
type SpecialistOption struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// ChartBar is one bar of the "% Avaliada por Especialista" chart
type ChartBar struct {
	Specialist string  `json:"specialist"`
	Rate       float64 `json:"rate"`
	Label      string  `json:"label"`
}

// buildDashboardView formats a computed dashboard for display
func buildDashboardView(dash *services.Dashboard, allDates bool) DashboardView {
	rows := exporter.BuildSummaryRows(dash.Summary)

	chart := make([]ChartBar, 0, len(rows))
	for _, row := range rows {
		chart = append(chart, ChartBar{
			Specialist: row.Specialist,
			Rate:       row.RawRate,
			Label:      row.Rate,
		})
	}

	comments := dash.Comments
	if comments == nil {
		comments = []domain.CommentGroup{}
	}

	return DashboardView{
		Source:   dash.Source,
		LoadedAt: dash.LoadedAt,
		Filter:   buildFilterView(dash, allDates),
		Empty:    dash.IsEmpty(),
		KPIs:     dash.KPIs,
		Cards:    exporter.BuildKPICards(dash.KPIs),
		Summary:  rows,
		Chart:    chart,
		Comments: comments,
	}
}

func buildFilterView(dash *services.Dashboard, allDates bool) FilterView {
	selected := make(map[string]bool, len(dash.Selected))
	for _, s := range dash.Selected {
		selected[s] = true
	}

	// nil means the filter applied everyone
	all := dash.Selected == nil

	options := make([]SpecialistOption, 0, len(dash.Available))
	for _, name := range dash.Available {
		options = append(options, SpecialistOption{Name: name, Selected: all || selected[name]})
	}

	return FilterView{
		From:      formatDate(dash.Range.From),
		To:        formatDate(dash.Range.To),
		DataFrom:  formatDate(dash.DataRange.From),
		DataTo:    formatDate(dash.DataRange.To),
		AllDates:  allDates,
		Selected:  dash.Selected,
		Available: options,
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateInputLayout)
}

func countComments(groups []domain.CommentGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Items)
	}
	return n
}

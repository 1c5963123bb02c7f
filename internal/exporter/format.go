package exporter

import (
	"fmt"
	"sort"
	"strconv"

	"feedbackpulse/pkg/contracts/domain"
)

const (
	// NoScore is shown in place of an undefined mean.
	NoScore = "—"

	TargetMet    = "✅ Atingida"
	TargetNotMet = "❌ Não atingida"
)

// Summary table headers, in column order.
var SummaryHeaders = []string{
	"Especialista",
	"Reuniões Realizadas",
	"Avaliadas",
	"Média 3.x",
	"% Avaliada",
	"Meta",
}

// FormatRate renders a percentage with one decimal
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}

// FormatScore renders a mean with two decimals, or NoScore when undefined
func FormatScore(score *float64) string {
	if score == nil {
		return NoScore
	}
	return fmt.Sprintf("%.2f", *score)
}

// TargetLabel renders the target flag
func TargetLabel(meets bool) string {
	if meets {
		return TargetMet
	}
	return TargetNotMet
}

// SortByEvaluationRate orders summaries by rate, highest first, breaking
// ties by specialist name.
func SortByEvaluationRate(summary map[string]domain.SpecialistSummary) []domain.SpecialistSummary {
	out := make([]domain.SpecialistSummary, 0, len(summary))
	for _, s := range summary {
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].EvaluationRate != out[j].EvaluationRate {
			return out[i].EvaluationRate > out[j].EvaluationRate
		}
		return out[i].Specialist < out[j].Specialist
	})
	return out
}

// SummaryRow is one formatted line of the specialist summary
type SummaryRow struct {
	Specialist  string   `json:"specialist"`
	Meetings    int      `json:"meetings_count"`
	Evaluated   int      `json:"evaluated_count"`
	Score       string   `json:"mean_rubric_score"`
	Rate        string   `json:"evaluation_rate"`
	Target      string   `json:"target"`
	RawRate     float64  `json:"evaluation_rate_value"`
	RawScore    *float64 `json:"mean_rubric_score_value"`
	MeetsTarget bool     `json:"meets_target"`
}

// Cells returns the row in SummaryHeaders order
func (r SummaryRow) Cells() []string {
	return []string{
		r.Specialist,
		strconv.Itoa(r.Meetings),
		strconv.Itoa(r.Evaluated),
		r.Score,
		r.Rate,
		r.Target,
	}
}

// BuildSummaryRows sorts and formats the per-specialist summary
func BuildSummaryRows(summary map[string]domain.SpecialistSummary) []SummaryRow {
	sorted := SortByEvaluationRate(summary)
	rows := make([]SummaryRow, 0, len(sorted))
	for _, s := range sorted {
		rows = append(rows, SummaryRow{
			Specialist:  s.Specialist,
			Meetings:    s.MeetingsCount,
			Evaluated:   s.EvaluatedCount,
			Score:       FormatScore(s.MeanRubric),
			Rate:        FormatRate(s.EvaluationRate),
			Target:      TargetLabel(s.MeetsTarget),
			RawRate:     s.EvaluationRate,
			RawScore:    s.MeanRubric,
			MeetsTarget: s.MeetsTarget,
		})
	}
	return rows
}

// KPICard is one formatted headline indicator
type KPICard struct {
	Title string `json:"title"`
	Icon  string `json:"icon"`
	Value string `json:"value"`
}

// BuildKPICards formats the four headline indicators in display order
func BuildKPICards(k domain.KPIs) []KPICard {
	return []KPICard{
		{Title: "Total de Reuniões", Icon: "📅", Value: strconv.Itoa(k.TotalMeetings)},
		{Title: "Recebidas/Avaliadas", Icon: "📥", Value: strconv.Itoa(k.TotalEvaluated)},
		{Title: "Taxa de Avaliação", Icon: "🎯", Value: FormatRate(k.EvaluationRate)},
		{Title: "Média 3.x (Geral)", Icon: "⭐", Value: FormatScore(k.MeanRubric)},
	}
}

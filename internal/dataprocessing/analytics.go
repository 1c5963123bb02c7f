package dataprocessing

import (
	"feedbackpulse/pkg/contracts/domain"
)

// ComputeKPIs derives the global indicators of a response set.
func ComputeKPIs(responses []domain.Response) domain.KPIs {
	kpis := domain.KPIs{TotalMeetings: len(responses)}

	means := make([]*float64, 0, len(responses))
	for _, r := range responses {
		if r.Evaluated {
			kpis.TotalEvaluated++
		}
		means = append(means, r.MeanRubric)
	}

	kpis.EvaluationRate = EvaluationRate(kpis.TotalEvaluated, kpis.TotalMeetings)
	kpis.MeanRubric = meanOf(means)
	return kpis
}

// SummarizeBySpecialist aggregates responses per specialist. The map is keyed
// by the specialist name exactly as loaded.
func SummarizeBySpecialist(responses []domain.Response) map[string]domain.SpecialistSummary {
	type acc struct {
		meetings  int
		evaluated int
		means     []*float64
	}

	groups := make(map[string]*acc)
	for _, r := range responses {
		g, ok := groups[r.Specialist]
		if !ok {
			g = &acc{}
			groups[r.Specialist] = g
		}
		g.meetings++
		if r.Evaluated {
			g.evaluated++
		}
		g.means = append(g.means, r.MeanRubric)
	}

	out := make(map[string]domain.SpecialistSummary, len(groups))
	for name, g := range groups {
		rate := EvaluationRate(g.evaluated, g.meetings)
		out[name] = domain.SpecialistSummary{
			Specialist:     name,
			MeetingsCount:  g.meetings,
			EvaluatedCount: g.evaluated,
			EvaluationRate: rate,
			MeanRubric:     meanOf(g.means),
			MeetsTarget:    MeetsTarget(rate, g.meetings),
		}
	}
	return out
}

// EvaluationRate returns evaluated/total as a percentage, 0 when total is 0.
func EvaluationRate(evaluated, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(evaluated) / float64(total) * 100
}

// MeetsTarget applies the evaluation target: rate ≥ 50% over at least 10 meetings.
func MeetsTarget(rate float64, meetings int) bool {
	return rate >= domain.TargetMinEvaluationRate && meetings >= domain.TargetMinMeetings
}

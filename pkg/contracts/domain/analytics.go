package domain

import "time"

const (
	// TargetMinEvaluationRate is the minimum evaluation rate, in percent, to meet target.
	TargetMinEvaluationRate = 50.0

	// TargetMinMeetings is the minimum number of meetings to meet target.
	TargetMinMeetings = 10
)

// KPIs are the global indicators of a filtered response set.
type KPIs struct {
	TotalMeetings  int     `json:"total_meetings"`
	TotalEvaluated int     `json:"total_evaluated"`
	EvaluationRate float64 `json:"global_evaluation_rate"`

	// MeanRubric is nil when there is no rubric data.
	MeanRubric *float64 `json:"global_mean_rubric_score"`
}

// SpecialistSummary aggregates the responses of one specialist.
type SpecialistSummary struct {
	Specialist     string  `json:"specialist"`
	MeetingsCount  int     `json:"meetings_count"`
	EvaluatedCount int     `json:"evaluated_count"`
	EvaluationRate float64 `json:"evaluation_rate"`

	// MeanRubric is nil when none of the specialist's rows has ratings.
	MeanRubric  *float64 `json:"mean_rubric_score"`
	MeetsTarget bool     `json:"meets_target"`
}

// CommentItem is one entry of the comment feed.
type CommentItem struct {
	DateLabel string `json:"date"`
	Text      string `json:"text"`
}

// CommentGroup holds the comments of one specialist in source order.
type CommentGroup struct {
	Specialist string        `json:"specialist"`
	Items      []CommentItem `json:"items"`
}

// DateRange is an inclusive calendar interval; either end may be open.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsZero reports whether neither end is set.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

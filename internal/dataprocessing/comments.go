package dataprocessing

import (
	"feedbackpulse/pkg/contracts/domain"
)

const (
	// CommentDateLayout formats comment dates as dd/mm/yyyy.
	CommentDateLayout = "02/01/2006"

	// NoDateLabel replaces the date of comments without one.
	NoDateLabel = "Data não informada"
)

// ExtractComments groups non-blank comments by specialist. Groups follow the
// order in which each specialist first appears; items keep source order.
func ExtractComments(responses []domain.Response) []domain.CommentGroup {
	groups := make([]domain.CommentGroup, 0)
	position := make(map[string]int)

	for _, r := range responses {
		if !r.HasComment() {
			continue
		}

		item := domain.CommentItem{DateLabel: NoDateLabel, Text: r.Comment}
		if r.HasDate() {
			item.DateLabel = r.SubmittedAt.Format(CommentDateLayout)
		}

		i, ok := position[r.Specialist]
		if !ok {
			i = len(groups)
			position[r.Specialist] = i
			groups = append(groups, domain.CommentGroup{Specialist: r.Specialist})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	return groups
}

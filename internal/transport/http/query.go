package http

import (
	"net/http"
	"strconv"
	"strings"

	"feedbackpulse/internal/middleware"
	"feedbackpulse/internal/services"
)

// DashboardParams are the raw dashboard query parameters
type DashboardParams struct {
	From        string   `json:"from" validate:"omitempty,querydate"`
	To          string   `json:"to" validate:"omitempty,querydate"`
	Specialists []string `json:"specialist" validate:"max=500,dive,max=200,nocontrol"`
	AllDates    string   `json:"all_dates" validate:"omitempty,boolean"`

	specialistsSet bool
}

// readDashboardParams collects the dashboard parameters from the URL
func readDashboardParams(r *http.Request) DashboardParams {
	q := r.URL.Query()
	values, present := q["specialist"]

	return DashboardParams{
		From:           strings.TrimSpace(q.Get("from")),
		To:             strings.TrimSpace(q.Get("to")),
		Specialists:    values,
		AllDates:       strings.TrimSpace(q.Get("all_dates")),
		specialistsSet: present,
	}
}

// parseDashboardQuery validates the request parameters and converts them
// into a service query.
func parseDashboardQuery(r *http.Request, v *middleware.Validator) (services.DashboardQuery, error) {
	params := readDashboardParams(r)
	if err := v.ValidateStruct(params); err != nil {
		return services.DashboardQuery{}, err
	}

	var query services.DashboardQuery

	// validated above, errors cannot occur
	query.From, _ = middleware.ParseQueryDate(params.From)
	query.To, _ = middleware.ParseQueryDate(params.To)
	if params.AllDates != "" {
		query.AllDates, _ = strconv.ParseBool(params.AllDates)
	}

	if params.specialistsSet {
		query.Specialists = make([]string, 0, len(params.Specialists))
		for _, s := range params.Specialists {
			if s = strings.TrimSpace(s); s != "" {
				query.Specialists = append(query.Specialists, s)
			}
		}
	}

	return query, nil
}

package goals

import (
	"errors"

	"github.com/2beens/stepgoal/internal/projection"
	"github.com/2beens/stepgoal/internal/render"
)

const (
	outcomeOnTrack        = "on_track"
	outcomeGoalAlreadyMet = "goal_already_met"
	outcomeError          = "error"
)

const (
	errCodeInvalidInput = "invalid_input"
	errCodeYearEnded    = "year_ended"
	errCodeInvalidDate  = "invalid_date"
	errCodeInvalidStart = "invalid_start_date"
	errCodeBadRequest   = "bad_request"
)

type periodResponse struct {
	Year          int     `json:"year"`
	TotalDays     int     `json:"total_days"`
	DaysElapsed   int     `json:"days_elapsed"`
	DaysRemaining int     `json:"days_remaining"`
	YearlyGoal    float64 `json:"yearly_goal"`
	StepsTaken    float64 `json:"steps_taken"`
}

type projectionResponse struct {
	Outcome   string `json:"outcome"`
	Headline  string `json:"headline"`
	Details   string `json:"details,omitempty"`
	Error     string `json:"error,omitempty"`
	Field     string `json:"field,omitempty"`
	StartDate string `json:"start_date,omitempty"`

	Period *periodResponse `json:"period,omitempty"`

	// on track
	RequiredAveragePerDay *float64 `json:"required_average_per_day,omitempty"`
	StepsRemaining        *float64 `json:"steps_remaining,omitempty"`
	DistanceRemainingKm   *float64 `json:"distance_remaining_km,omitempty"`

	// goal already met
	GoalAveragePerDay    *float64 `json:"goal_average_per_day,omitempty"`
	MinAverageToMaintain *float64 `json:"min_average_to_maintain,omitempty"`
	Surplus              *float64 `json:"surplus,omitempty"`
}

func newPeriodResponse(p projection.Period) *periodResponse {
	return &periodResponse{
		Year:          p.Year,
		TotalDays:     p.TotalDays,
		DaysElapsed:   p.DaysElapsed,
		DaysRemaining: p.DaysRemaining,
		YearlyGoal:    p.YearlyGoal,
		StepsTaken:    p.StepsTaken,
	}
}

func newProjectionResponse(res projection.Result, view render.View, startOpt projection.StartDateOption) projectionResponse {
	resp := projectionResponse{
		Headline:  view.Headline,
		Details:   view.Details,
		StartDate: startOpt.String(),
	}

	switch res := res.(type) {
	case projection.OnTrack:
		resp.Outcome = outcomeOnTrack
		resp.Period = newPeriodResponse(res.Period)
		resp.RequiredAveragePerDay = &res.RequiredAveragePerDay
		resp.StepsRemaining = &res.StepsRemaining
		resp.DistanceRemainingKm = res.DistanceRemaining
	case projection.GoalAlreadyMet:
		resp.Outcome = outcomeGoalAlreadyMet
		resp.Period = newPeriodResponse(res.Period)
		resp.GoalAveragePerDay = &res.GoalAveragePerDay
		resp.MinAverageToMaintain = res.MinAverageToMaintain
		resp.Surplus = &res.Surplus
	case projection.Failure:
		resp = newErrorResponse(res.Err, view.Headline)
	default:
		resp.Outcome = outcomeError
		resp.Error = errCodeBadRequest
	}

	return resp
}

func newErrorResponse(err error, headline string) projectionResponse {
	resp := projectionResponse{
		Outcome:  outcomeError,
		Headline: headline,
		Error:    errCodeBadRequest,
	}

	var inputErr *projection.InvalidInputError
	switch {
	case errors.As(err, &inputErr):
		resp.Error = errCodeInvalidInput
		resp.Field = string(inputErr.Field)
	case errors.Is(err, projection.ErrYearEnded):
		resp.Error = errCodeYearEnded
	case errors.Is(err, errInvalidDate):
		resp.Error = errCodeInvalidDate
	case errors.Is(err, projection.ErrUnknownStartDateOpt):
		resp.Error = errCodeInvalidStart
	}

	return resp
}

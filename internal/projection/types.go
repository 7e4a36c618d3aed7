package projection

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrYearEnded           = errors.New("year has already ended")
	ErrUnknownStartDateOpt = errors.New("unknown start date option")
)

// StartDateOption decides whether today counts towards the elapsed part of the
// year or towards the remaining part.
type StartDateOption int

const (
	IncludeToday StartDateOption = iota
	StartTomorrow
)

func (o StartDateOption) String() string {
	switch o {
	case IncludeToday:
		return "today"
	case StartTomorrow:
		return "tomorrow"
	default:
		return fmt.Sprintf("StartDateOption(%d)", int(o))
	}
}

func (o StartDateOption) IsValid() bool {
	return o == IncludeToday || o == StartTomorrow
}

// ParseStartDateOption accepts "today" / "tomorrow" (case insensitive).
// Empty string defaults to IncludeToday, same as the form default.
func ParseStartDateOption(s string) (StartDateOption, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return IncludeToday, nil
	case "tomorrow":
		return StartTomorrow, nil
	default:
		return IncludeToday, fmt.Errorf("%w: %q", ErrUnknownStartDateOpt, s)
	}
}

type Field string

const (
	FieldGoalAverage    Field = "goal_average"
	FieldCurrentAverage Field = "current_average"
	FieldStartDate      Field = "start_date"
)

// InvalidInputError names the input field that failed validation.
type InvalidInputError struct {
	Field Field
	Value float64
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s = %v", e.Field, e.Value)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

type Input struct {
	GoalAverage    float64
	CurrentAverage float64
	StartDate      StartDateOption
	ReferenceDate  time.Time
}

// Period describes how the reference year is split for a given start date option.
type Period struct {
	Year          int     `json:"year"`
	TotalDays     int     `json:"total_days"`
	DaysElapsed   int     `json:"days_elapsed"`
	DaysRemaining int     `json:"days_remaining"`
	YearlyGoal    float64 `json:"yearly_goal"`
	StepsTaken    float64 `json:"steps_taken"`
}

// Result is one of Failure, GoalAlreadyMet or OnTrack.
type Result interface {
	isResult()
}

type Failure struct {
	Err error
}

// GoalAlreadyMet and OnTrack expose StepsTaken and DaysRemaining through the
// embedded Period.
type GoalAlreadyMet struct {
	Period
	GoalAveragePerDay float64
	// MinAverageToMaintain is nil when no more steps are needed this year.
	MinAverageToMaintain *float64
	// Surplus is how many steps the user is ahead of the yearly goal.
	Surplus float64
}

type OnTrack struct {
	Period
	RequiredAveragePerDay float64
	StepsRemaining        float64
	// DistanceRemaining is in kilometres, nil when distance conversion is off.
	DistanceRemaining *float64
}

func (Failure) isResult()        {}
func (GoalAlreadyMet) isResult() {}
func (OnTrack) isResult()        {}

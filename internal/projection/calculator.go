package projection

import (
	"math"
)

// DefaultStepsPerKilometre assumes an average step length of 0.8 m.
const DefaultStepsPerKilometre = 1250.0

type Calculator struct {
	distanceEnabled   bool
	stepsPerKilometre float64
}

type Option func(*Calculator)

func WithDistance(enabled bool) Option {
	return func(c *Calculator) {
		c.distanceEnabled = enabled
	}
}

// WithStepsPerKilometre sets the conversion ratio; non-positive values are ignored.
func WithStepsPerKilometre(steps float64) Option {
	return func(c *Calculator) {
		if steps > 0 && !math.IsInf(steps, 0) {
			c.stepsPerKilometre = steps
		}
	}
}

func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		distanceEnabled:   false,
		stepsPerKilometre: DefaultStepsPerKilometre,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Calculator) DistanceEnabled() bool {
	return c.distanceEnabled
}

func (c *Calculator) StepsPerKilometre() float64 {
	return c.stepsPerKilometre
}

var defaultCalculator = NewCalculator(WithDistance(true))

// Compute runs the projection with distance conversion enabled.
func Compute(in Input) Result {
	return defaultCalculator.Compute(in)
}

// Compute projects the daily average needed to hit the yearly goal.
// It has no side effects and is safe to call concurrently.
func (c *Calculator) Compute(in Input) Result {
	if !validNumber(in.GoalAverage) || in.GoalAverage <= 0 {
		return Failure{Err: &InvalidInputError{Field: FieldGoalAverage, Value: in.GoalAverage}}
	}
	if !validNumber(in.CurrentAverage) || in.CurrentAverage < 0 {
		return Failure{Err: &InvalidInputError{Field: FieldCurrentAverage, Value: in.CurrentAverage}}
	}
	if !in.StartDate.IsValid() {
		return Failure{Err: &InvalidInputError{Field: FieldStartDate, Value: float64(in.StartDate)}}
	}

	daysElapsed, remainingDays := SplitYear(in.ReferenceDate, in.StartDate)
	if remainingDays <= 0 {
		return Failure{Err: ErrYearEnded}
	}

	year := civilDate(in.ReferenceDate).Year()
	totalDays := DaysInYear(year)
	yearlyGoal := in.GoalAverage * float64(totalDays)
	stepsTaken := in.CurrentAverage * float64(daysElapsed)
	// finite inputs can still overflow once scaled by the day counts
	if !validNumber(yearlyGoal) {
		return Failure{Err: &InvalidInputError{Field: FieldGoalAverage, Value: in.GoalAverage}}
	}
	if !validNumber(stepsTaken) {
		return Failure{Err: &InvalidInputError{Field: FieldCurrentAverage, Value: in.CurrentAverage}}
	}
	stepsRemaining := yearlyGoal - stepsTaken

	period := Period{
		Year:          year,
		TotalDays:     totalDays,
		DaysElapsed:   daysElapsed,
		DaysRemaining: remainingDays,
		YearlyGoal:    yearlyGoal,
		StepsTaken:    stepsTaken,
	}

	if stepsRemaining <= 0 {
		met := GoalAlreadyMet{
			Period:            period,
			GoalAveragePerDay: in.GoalAverage,
			Surplus:           -stepsRemaining,
		}
		// non-positive means the rest of the year can be spent at 0 steps
		if minAverage := stepsRemaining / float64(remainingDays); minAverage > 0 {
			met.MinAverageToMaintain = &minAverage
		}
		return met
	}

	onTrack := OnTrack{
		Period:                period,
		RequiredAveragePerDay: stepsRemaining / float64(remainingDays),
		StepsRemaining:        stepsRemaining,
	}
	if c.distanceEnabled {
		if km := stepsRemaining / c.stepsPerKilometre; validNumber(km) {
			onTrack.DistanceRemaining = &km
		}
	}

	return onTrack
}

func validNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

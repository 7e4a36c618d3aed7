package render

import (
	"errors"
	"fmt"

	"github.com/2beens/stepgoal/internal/projection"
)

type Kind string

const (
	KindError          Kind = "error"
	KindGoalAlreadyMet Kind = "goal_already_met"
	KindOnTrack        Kind = "on_track"
)

// View is what a user gets to see for a single projection.
type View struct {
	Kind     Kind   `json:"kind"`
	Headline string `json:"headline"`
	Details  string `json:"details,omitempty"`
}

const (
	msgInvalidGoal    = "Vennligst oppgi et gyldig målgjennomsnitt større enn 0."
	msgInvalidCurrent = "Vennligst oppgi et gyldig gjennomsnitt (0 eller større)."
	msgInvalidStart   = "Ugyldig startdato, velg \"today\" eller \"tomorrow\"."
	msgYearEnded      = "Året har allerede endt!"
	msgUnknownError   = "Noe gikk galt, prøv igjen."
	msgGoalMet        = "Gratulerer! Du har allerede nådd målet ditt!"
)

func (r *Renderer) Render(res projection.Result) View {
	switch res := res.(type) {
	case projection.Failure:
		return View{Kind: KindError, Headline: ErrorMessage(res.Err)}
	case projection.GoalAlreadyMet:
		return r.renderGoalMet(res)
	case projection.OnTrack:
		return r.renderOnTrack(res)
	default:
		return View{Kind: KindError, Headline: msgUnknownError}
	}
}

// ErrorMessage maps projection errors to the texts shown to the user.
func ErrorMessage(err error) string {
	var inputErr *projection.InvalidInputError
	switch {
	case errors.As(err, &inputErr) && inputErr.Field == projection.FieldCurrentAverage:
		return msgInvalidCurrent
	case errors.As(err, &inputErr) && inputErr.Field == projection.FieldStartDate,
		errors.Is(err, projection.ErrUnknownStartDateOpt):
		return msgInvalidStart
	case errors.Is(err, projection.ErrInvalidInput):
		return msgInvalidGoal
	case errors.Is(err, projection.ErrYearEnded):
		return msgYearEnded
	default:
		return msgUnknownError
	}
}

func (r *Renderer) renderGoalMet(met projection.GoalAlreadyMet) View {
	view := View{
		Kind:     KindGoalAlreadyMet,
		Headline: msgGoalMet,
	}

	if met.MinAverageToMaintain == nil {
		view.Details = fmt.Sprintf(
			"Du har tatt %s skritt, som er mer enn nok til å nå målet ditt på %s skritt per dag. "+
				"Du kan ha 0 skritt resten av året og fortsatt nå målet.",
			r.FormatSteps(met.StepsTaken),
			r.FormatSteps(met.GoalAveragePerDay),
		)
		return view
	}

	view.Details = fmt.Sprintf(
		"Du har tatt %s skritt. For å opprettholde målet ditt på %s skritt per dag, "+
			"trenger du minimum %s skritt per dag i gjennomsnitt for de %d gjenstående dagene.",
		r.FormatSteps(met.StepsTaken),
		r.FormatSteps(met.GoalAveragePerDay),
		r.FormatSteps(*met.MinAverageToMaintain),
		met.DaysRemaining,
	)
	return view
}

func (r *Renderer) renderOnTrack(onTrack projection.OnTrack) View {
	details := fmt.Sprintf(
		"Du trenger %s flere skritt over %d gjenstående dager.",
		r.FormatSteps(onTrack.StepsRemaining),
		onTrack.DaysRemaining,
	)
	if onTrack.DistanceRemaining != nil {
		details += fmt.Sprintf("\n\nDet er ca. %s km!", r.FormatKilometres(*onTrack.DistanceRemaining))
	}

	return View{
		Kind:     KindOnTrack,
		Headline: fmt.Sprintf("%s skritt per dag", r.FormatSteps(onTrack.RequiredAveragePerDay)),
		Details:  details,
	}
}

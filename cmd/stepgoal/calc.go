package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/stepgoal/internal/projection"
	"github.com/2beens/stepgoal/internal/render"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

// errProjectionFailed is returned after a failed projection has been printed.
var errProjectionFailed = errors.New("projection failed")

type calcOptions struct {
	goal              string
	current           string
	start             startOptionValue
	date              string
	noDistance        bool
	stepsPerKilometre float64
	jsonOutput        bool
	locale            string
}

type calcOutput struct {
	render.View
	StartDate             string             `json:"start_date"`
	ReferenceDate         string             `json:"reference_date"`
	Period                *projection.Period `json:"period,omitempty"`
	RequiredAveragePerDay *float64           `json:"required_average_per_day,omitempty"`
	StepsRemaining        *float64           `json:"steps_remaining,omitempty"`
	DistanceRemainingKm   *float64           `json:"distance_remaining_km,omitempty"`
	GoalAveragePerDay     *float64           `json:"goal_average_per_day,omitempty"`
	MinAverageToMaintain  *float64           `json:"min_average_to_maintain,omitempty"`
	Surplus               *float64           `json:"surplus,omitempty"`
}

func newCalcCmd(now func() time.Time) *cobra.Command {
	opts := &calcOptions{}

	calcCmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate the daily average needed for the rest of the year",
		Long: `Calculate the daily step average needed for the rest of the year to reach
the goal average, given the average so far. Numbers may be written with
spaces or commas as digit group separators, e.g. "10 000" or "10,000".

Exit code is 1 when the input is invalid or the year has ended.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd, opts, now())
		},
	}

	flags := calcCmd.Flags()
	flags.StringVarP(&opts.goal, "goal", "g", "", "Goal average steps per day")
	flags.StringVarP(&opts.current, "current", "c", "", "Current average steps per day")
	flags.VarP(&opts.start, "start", "s", "Which day the remaining period starts on (today|tomorrow)")
	flags.StringVar(&opts.date, "date", "", "Reference date as YYYY-MM-DD (default: today)")
	flags.BoolVar(&opts.noDistance, "no-distance", false, "Do not convert remaining steps to kilometres")
	flags.Float64Var(&opts.stepsPerKilometre, "steps-per-km", projection.DefaultStepsPerKilometre, "Steps per kilometre used for the distance")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")
	flags.StringVar(&opts.locale, "locale", render.DefaultLocale, "Locale used to format numbers")
	_ = calcCmd.MarkFlagRequired("goal")
	_ = calcCmd.MarkFlagRequired("current")

	return calcCmd
}

func runCalc(cmd *cobra.Command, opts *calcOptions, now time.Time) error {
	renderer, err := render.NewRenderer(opts.locale)
	if err != nil {
		return err
	}

	in := projection.Input{
		StartDate:     opts.start.opt,
		ReferenceDate: now,
	}
	if opts.date != "" {
		in.ReferenceDate, err = time.Parse(dateLayout, opts.date)
		if err != nil {
			return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", opts.date)
		}
	}

	// unparsable numbers are reported the same way as out of range ones
	var res projection.Result
	goal, goalErr := render.ParseNumber(opts.goal)
	current, currentErr := render.ParseNumber(opts.current)
	switch {
	case goalErr != nil:
		res = projection.Failure{Err: &projection.InvalidInputError{Field: projection.FieldGoalAverage}}
	case currentErr != nil:
		res = projection.Failure{Err: &projection.InvalidInputError{Field: projection.FieldCurrentAverage}}
	default:
		in.GoalAverage = goal
		in.CurrentAverage = current
		calculator := projection.NewCalculator(
			projection.WithDistance(!opts.noDistance),
			projection.WithStepsPerKilometre(opts.stepsPerKilometre),
		)
		res = calculator.Compute(in)
	}

	log.WithFields(log.Fields{
		"goal":    opts.goal,
		"current": opts.current,
		"start":   opts.start.String(),
		"date":    in.ReferenceDate.Format(dateLayout),
	}).Debugf("computed projection: %T", res)

	out := newCalcOutput(res, renderer.Render(res), in)
	if err := printCalcOutput(cmd, out, opts.jsonOutput); err != nil {
		return err
	}

	if _, failed := res.(projection.Failure); failed {
		return errProjectionFailed
	}
	return nil
}

func newCalcOutput(res projection.Result, view render.View, in projection.Input) calcOutput {
	out := calcOutput{
		View:          view,
		StartDate:     in.StartDate.String(),
		ReferenceDate: in.ReferenceDate.Format(dateLayout),
	}

	switch res := res.(type) {
	case projection.OnTrack:
		out.Period = &res.Period
		out.RequiredAveragePerDay = &res.RequiredAveragePerDay
		out.StepsRemaining = &res.StepsRemaining
		out.DistanceRemainingKm = res.DistanceRemaining
	case projection.GoalAlreadyMet:
		out.Period = &res.Period
		out.GoalAveragePerDay = &res.GoalAveragePerDay
		out.MinAverageToMaintain = res.MinAverageToMaintain
		out.Surplus = &res.Surplus
	}

	return out
}

func printCalcOutput(cmd *cobra.Command, out calcOutput, asJSON bool) error {
	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if out.Kind == render.KindError {
		_, err := fmt.Fprintln(cmd.ErrOrStderr(), out.Headline)
		return err
	}

	if _, err := fmt.Fprintln(w, out.Headline); err != nil {
		return err
	}
	if out.Details != "" {
		_, err := fmt.Fprintln(w, out.Details)
		return err
	}
	return nil
}

// startOptionValue adapts projection.StartDateOption to a command line flag.
type startOptionValue struct {
	opt projection.StartDateOption
}

var _ pflag.Value = (*startOptionValue)(nil)

func (v *startOptionValue) String() string {
	return v.opt.String()
}

func (v *startOptionValue) Set(s string) error {
	opt, err := projection.ParseStartDateOption(s)
	if err != nil {
		return err
	}
	v.opt = opt
	return nil
}

func (v *startOptionValue) Type() string {
	return strings.Join([]string{projection.IncludeToday.String(), projection.StartTomorrow.String()}, "|")
}

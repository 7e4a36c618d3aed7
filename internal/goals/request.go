package goals

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/stepgoal/internal/projection"
	"github.com/2beens/stepgoal/internal/render"
)

const dateLayout = "2006-01-02"

var errInvalidDate = errors.New("invalid date")

// projectionRequest is the raw user input, as typed into the form.
type projectionRequest struct {
	Goal      string `json:"goal_average"`
	Current   string `json:"current_average"`
	StartDate string `json:"start_date"`
	Date      string `json:"date"`
}

// UnmarshalJSON accepts both JSON numbers and strings for the averages, so
// {"goal_average": 10000} and {"goal_average": "10 000"} are the same request.
func (pr *projectionRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Goal      json.RawMessage `json:"goal_average"`
		Current   json.RawMessage `json:"current_average"`
		StartDate string          `json:"start_date"`
		Date      string          `json:"date"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	pr.StartDate = raw.StartDate
	pr.Date = raw.Date
	pr.Goal = rawNumberString(raw.Goal)
	pr.Current = rawNumberString(raw.Current)
	return nil
}

func rawNumberString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func readProjectionRequest(r *http.Request) (projectionRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if r.Method == http.MethodPost && mediaType == "application/json" {
		var req projectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return projectionRequest{}, fmt.Errorf("decode json body: %w", err)
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return projectionRequest{}, fmt.Errorf("parse form: %w", err)
	}
	return projectionRequest{
		Goal:      r.Form.Get("goal"),
		Current:   r.Form.Get("current"),
		StartDate: r.Form.Get("start"),
		Date:      r.Form.Get("date"),
	}, nil
}

// toInput resolves the raw request against now. Unparsable averages are
// reported as invalid input of the respective field, the same way a zero
// goal is.
func (pr projectionRequest) toInput(now time.Time) (projection.Input, error) {
	goal, err := render.ParseNumber(pr.Goal)
	if err != nil {
		return projection.Input{}, &projection.InvalidInputError{Field: projection.FieldGoalAverage, Value: math.NaN()}
	}
	current, err := render.ParseNumber(pr.Current)
	if err != nil {
		return projection.Input{}, &projection.InvalidInputError{Field: projection.FieldCurrentAverage, Value: math.NaN()}
	}

	startOpt, err := projection.ParseStartDateOption(pr.StartDate)
	if err != nil {
		return projection.Input{}, err
	}

	refDate := now
	if d := strings.TrimSpace(pr.Date); d != "" {
		refDate, err = time.Parse(dateLayout, d)
		if err != nil {
			return projection.Input{}, fmt.Errorf("%w: %q", errInvalidDate, d)
		}
	}

	return projection.Input{
		GoalAverage:    goal,
		CurrentAverage: current,
		StartDate:      startOpt,
		ReferenceDate:  refDate,
	}, nil
}

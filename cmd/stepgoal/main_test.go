package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var marchFirst = time.Date(2023, time.March, 1, 12, 0, 0, 0, time.UTC)

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootCmd := newRootCmd(outBuf, func() time.Time { return marchFirst })
	rootCmd.SetErr(errBuf)
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func normalizeSpaces(s string) string {
	return strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
}

func TestCalc_Text(t *testing.T) {
	stdout, _, err := runCLI(t, "calc", "--goal", "10 000", "--current", "8000")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(normalizeSpaces(stdout)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "10 386 skritt per dag", lines[0])
	assert.Equal(t, "Du trenger 3 178 000 flere skritt over 306 gjenstående dager.", lines[1])
	assert.Empty(t, lines[2])
	assert.Equal(t, "Det er ca. 2 542 km!", lines[3])
}

func TestCalc_NoDistance(t *testing.T) {
	stdout, _, err := runCLI(t, "calc", "-g", "10000", "-c", "8000", "--no-distance", "--locale", "en")
	require.NoError(t, err)
	assert.Equal(t, "10,386 skritt per dag\nDu trenger 3,178,000 flere skritt over 306 gjenstående dager.\n", stdout)
}

func TestCalc_JSON(t *testing.T) {
	stdout, _, err := runCLI(t, "calc", "--goal", "10000", "--current", "8000", "--start", "tomorrow", "--json")
	require.NoError(t, err)

	var out struct {
		Kind          string `json:"kind"`
		StartDate     string `json:"start_date"`
		ReferenceDate string `json:"reference_date"`
		Period        struct {
			DaysElapsed   int `json:"days_elapsed"`
			DaysRemaining int `json:"days_remaining"`
		} `json:"period"`
		RequiredAveragePerDay float64  `json:"required_average_per_day"`
		DistanceRemainingKm   *float64 `json:"distance_remaining_km"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)

	assert.Equal(t, "on_track", out.Kind)
	assert.Equal(t, "tomorrow", out.StartDate)
	assert.Equal(t, "2023-03-01", out.ReferenceDate)
	assert.Equal(t, 60, out.Period.DaysElapsed)
	assert.Equal(t, 305, out.Period.DaysRemaining)
	assert.InDelta(t, 3170000.0/305, out.RequiredAveragePerDay, 1e-9)
	require.NotNil(t, out.DistanceRemainingKm)
	assert.InDelta(t, 2536.0, *out.DistanceRemainingKm, 1e-9)
}

func TestCalc_GoalAlreadyMet(t *testing.T) {
	stdout, _, err := runCLI(t, "calc", "--goal", "5000", "--current", "7000", "--date", "2023-10-01")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Gratulerer! Du har allerede nådd målet ditt!\n"), stdout)
}

func TestCalc_GoalAlreadyMetJSON(t *testing.T) {
	stdout, _, err := runCLI(t, "calc", "--goal", "5000", "--current", "7000", "--date", "2023-10-01", "--json")
	require.NoError(t, err)

	var out struct {
		Kind                 string   `json:"kind"`
		GoalAveragePerDay    *float64 `json:"goal_average_per_day"`
		MinAverageToMaintain *float64 `json:"min_average_to_maintain"`
		Surplus              *float64 `json:"surplus"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)

	assert.Equal(t, "goal_already_met", out.Kind)
	require.NotNil(t, out.GoalAveragePerDay)
	assert.Equal(t, 5000.0, *out.GoalAveragePerDay)
	assert.Nil(t, out.MinAverageToMaintain)
	require.NotNil(t, out.Surplus)
	assert.InDelta(t, 86000.0, *out.Surplus, 1e-6)
}

func TestCalc_JSONOverflowingGoal(t *testing.T) {
	stdout, _, err := runCLI(t, "calc", "--goal", "1e308", "--current", "100", "--json")
	assert.ErrorIs(t, err, errProjectionFailed)

	var out struct {
		Kind     string `json:"kind"`
		Headline string `json:"headline"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	assert.Equal(t, "error", out.Kind)
	assert.Equal(t, "Vennligst oppgi et gyldig målgjennomsnitt større enn 0.", out.Headline)
}

func TestCalc_Failures(t *testing.T) {
	for caseName, tc := range map[string]struct {
		args           []string
		expectedStderr string
	}{
		"zero goal": {
			args:           []string{"calc", "--goal", "0", "--current", "100"},
			expectedStderr: "Vennligst oppgi et gyldig målgjennomsnitt større enn 0.\n",
		},
		"unparsable current": {
			args:           []string{"calc", "--goal", "10000", "--current", "many"},
			expectedStderr: "Vennligst oppgi et gyldig gjennomsnitt (0 eller større).\n",
		},
		"year ended": {
			args:           []string{"calc", "--goal", "10000", "--current", "100", "--start", "tomorrow", "--date", "2023-12-31"},
			expectedStderr: "Året har allerede endt!\n",
		},
	} {
		t.Run(caseName, func(t *testing.T) {
			stdout, stderr, err := runCLI(t, tc.args...)
			assert.ErrorIs(t, err, errProjectionFailed)
			assert.Empty(t, stdout)
			assert.Equal(t, tc.expectedStderr, stderr)
		})
	}
}

func TestCalc_UsageErrors(t *testing.T) {
	_, _, err := runCLI(t, "calc", "--goal", "10000")
	assert.ErrorContains(t, err, `required flag(s) "current" not set`)

	_, _, err = runCLI(t, "calc", "--goal", "10000", "--current", "1", "--start", "yesterday")
	assert.ErrorContains(t, err, "unknown start date option")

	_, _, err = runCLI(t, "calc", "--goal", "10000", "--current", "1", "--date", "01.03.2023")
	assert.ErrorContains(t, err, "invalid --date")

	_, _, err = runCLI(t, "calc", "--goal", "10000", "--current", "1", "--locale", "not a locale")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "dev"), stdout)
}

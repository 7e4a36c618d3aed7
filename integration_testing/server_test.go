package integration_testing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var suite *Suite

func TestMain(m *testing.M) {
	var err error
	suite, err = newSuite(context.Background())
	if err != nil {
		// no docker around, nothing to run against
		log.Warnf("skipping integration tests: %s", err)
		os.Exit(0)
	}

	code := m.Run()
	suite.cleanup()
	os.Exit(code)
}

func TestServer_Health(t *testing.T) {
	resp, err := http.Get(suite.endpoint + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", string(body))
}

func TestServer_ProjectionAndRateLimit(t *testing.T) {
	form := url.Values{}
	form.Set("goal", "10 000")
	form.Set("current", "8000")
	form.Set("date", "2023-03-01")

	doRequest := func() *http.Response {
		req, err := http.NewRequest(http.MethodPost, suite.endpoint+"/projection", strings.NewReader(form.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	for i := 0; i < allowedPerMin; i++ {
		resp := doRequest()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Outcome        string  `json:"outcome"`
			StepsRemaining float64 `json:"steps_remaining"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, "on_track", body.Outcome)
		assert.Equal(t, 3178000.0, body.StepsRemaining)
	}

	resp := doRequest()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestServer_Metrics(t *testing.T) {
	resp, err := http.Get(suite.metricsURL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "stepgoal_main_life_signal 1")
	assert.Contains(t, string(body), "stepgoal_main_projection_cache_entries")
}

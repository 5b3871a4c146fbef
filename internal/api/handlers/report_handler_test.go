package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wikid82/argus/internal/services"
)

func TestReportHandler_Summary(t *testing.T) {
	env := setupTestEnv(t)

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, env.sitePath("/events"), map[string]interface{}{
			"ip":         "203.0.113.10",
			"user_agent": "Googlebot/2.1",
			"timestamp":  "2026-08-15T10:00:00Z",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w := env.do(t, http.MethodPost, env.sitePath("/events"), map[string]interface{}{
		"ip":              "198.51.100.7",
		"user_agent":      "Mozilla/5.0 (X11; Linux x86_64) Firefox/121.0",
		"accept_language": "en-US",
		"timestamp":       "2026-08-15T11:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, env.sitePath("/bot-summary?from=2026-08-01&to=2026-08-31"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary services.BotSummary
	decodeJSON(t, w, &summary)
	assert.Equal(t, int64(3), summary.Total)
	assert.Equal(t, int64(2), summary.Bots)
	assert.Equal(t, int64(1), summary.Humans)
	require.NotEmpty(t, summary.TopUserAgents)
	assert.Equal(t, "Googlebot/2.1", summary.TopUserAgents[0].UserAgent)
}

func TestReportHandler_Report(t *testing.T) {
	env := setupTestEnv(t)

	for _, ts := range []string{"2026-08-15T10:00:00Z", "2026-08-16T10:00:00Z"} {
		w := env.do(t, http.MethodPost, env.sitePath("/events"), map[string]interface{}{
			"ip":         "203.0.113.10",
			"user_agent": "Googlebot/2.1",
			"timestamp":  ts,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(t, http.MethodGet, env.sitePath("/bot-report?from=2026-08-01&to=2026-08-31"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Days []services.DailyBucket `json:"days"`
	}
	decodeJSON(t, w, &resp)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2026-08-15", resp.Days[0].Day)
	assert.Equal(t, int64(1), resp.Days[0].Total)
}

func TestReportHandler_BadDateRange(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, env.sitePath("/bot-summary?from=lastweek"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

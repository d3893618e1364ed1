package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goksnair/resume-builder-ai-sub005/internal/models"
)

func testSources() Sources {
	return Sources{
		Snapshots: func() map[string]models.PerformanceSnapshot {
			return map[string]models.PerformanceSnapshot{
				"web": {ServiceID: "web", AvgLatencyMs: 120, Trend: models.TrendStable},
			}
		},
		States: func() []*models.ScalingState {
			return []*models.ScalingState{
				{ServiceID: "web", CurrentInstances: 2, LoadLevel: models.LoadMedium},
			}
		},
		Events: func(limit int) []models.ScalingEvent {
			events := []models.ScalingEvent{
				{ID: "e1", ServiceID: "web", Action: models.ScaleUp, FromInstances: 1, ToInstances: 2},
				{ID: "e2", ServiceID: "web", Action: models.ScaleDown, FromInstances: 2, ToInstances: 1},
			}
			if limit < len(events) {
				events = events[:limit]
			}
			return events
		},
		Config: func() models.OptimizationConfig {
			return models.DefaultOptimizationConfig()
		},
		Ticks: func() int { return 7 },
	}
}

func TestHealthz(t *testing.T) {
	srv := NewServer(0, testSources(), nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 7, resp.Ticks)
}

func TestStateEndpoint(t *testing.T) {
	srv := NewServer(0, testSources(), nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp stateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 120.0, resp.Snapshots["web"].AvgLatencyMs)
	require.Len(t, resp.Scaling, 1)
	assert.Equal(t, 2, resp.Scaling[0].CurrentInstances)
	assert.Equal(t, models.CachePolicyStandard, resp.Config.CachePolicy)
}

func TestEventsEndpointHonorsLimit(t *testing.T) {
	srv := NewServer(0, testSources(), nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events?limit=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Events []models.ScalingEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Events, 1)
}

func TestEmptySourcesDoNotPanic(t *testing.T) {
	srv := NewServer(0, Sources{}, nil)

	for _, path := range []string{"/healthz", "/api/v1/state", "/api/v1/events"} {
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

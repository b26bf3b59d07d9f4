package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/adapter/cache/memory"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/config"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/domain/authlog"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/usecase/auditlog"
	"go.uber.org/zap"
)

type memoryRepository struct {
	events map[authlog.AttemptKey][]authlog.Event
	smtp   map[string]bool
}

func (m *memoryRepository) Record(ctx context.Context, key authlog.AttemptKey, ev authlog.Event) error {
	m.events[key] = append(m.events[key], ev)
	return nil
}

func (m *memoryRepository) ListByAttempt(ctx context.Context, key authlog.AttemptKey) ([]authlog.Event, error) {
	out := append([]authlog.Event(nil), m.events[key]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

func (m *memoryRepository) ListRecentByAttempt(ctx context.Context, key authlog.AttemptKey, limit int) ([]authlog.Event, error) {
	out, _ := m.ListByAttempt(ctx, key)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepository) CountByStatus(ctx context.Context, appID string, since time.Time) ([]authlog.StatusCount, error) {
	totals := map[authlog.Status]int64{}
	for key, events := range m.events {
		if key.AppID != appID {
			continue
		}
		for _, ev := range events {
			totals[ev.Status]++
		}
	}
	var counts []authlog.StatusCount
	for _, status := range authlog.AllStatuses() {
		if n, ok := totals[status]; ok {
			counts = append(counts, authlog.StatusCount{Status: status, Count: n})
		}
	}
	return counts, nil
}

func (m *memoryRepository) ListActiveApps(ctx context.Context, since time.Time, limit int) ([]string, error) {
	return nil, nil
}

func (m *memoryRepository) HasCustomSMTP(ctx context.Context, appID string) (bool, error) {
	return m.smtp[appID], nil
}

type counterIDs struct{ n int64 }

func (c *counterIDs) GenerateID() int64 {
	c.n++
	return 1000 + c.n
}

func newTestRouter(t *testing.T) (*Router, *memoryRepository) {
	t.Helper()
	repo := &memoryRepository{
		events: make(map[authlog.AttemptKey][]authlog.Event),
		smtp:   map[string]bool{"app_smtp": true},
	}
	cfg := &config.Config{AdminAPIToken: "secret", StatsWindow: time.Hour}
	svc := auditlog.NewService(repo, repo, memory.NewStatsCache(0, 0), &counterIDs{}, cfg, zap.NewNop())
	return NewRouter(cfg, svc, zap.NewNop()), repo
}

func doRequest(t *testing.T, r *Router, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)
	return w
}

func seedLoginFlow(repo *memoryRepository, key authlog.AttemptKey, statuses ...authlog.Status) {
	for i, status := range statuses {
		repo.events[key] = append(repo.events[key], authlog.Event{
			EventID:             string(rune('1' + i)),
			Status:              status,
			Timestamp:           int64(100 + i),
			UserIdentifierValue: "user@example.com",
		})
	}
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestGetAttemptTimeline_CompletedFlow(t *testing.T) {
	r, repo := newTestRouter(t)
	key := authlog.AttemptKey{AppID: "app", AttemptID: "req"}
	seedLoginFlow(repo, key,
		authlog.StatusLoginInitiated, authlog.StatusEmailSent, authlog.StatusEmailDelivered,
		authlog.StatusEmailOpened, authlog.StatusLoginSuccess)

	w := doRequest(t, r, http.MethodGet, "/api/apps/app/attempts/req/timeline", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []timelineEntryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 5)
	assert.Equal(t, authlog.KindObserved, resp.Data[0].Kind)
	assert.Equal(t, authlog.StatusLoginSuccess, resp.Data[0].Event.Status)
	assert.Equal(t, "Login successful", resp.Data[0].Label)
	assert.Equal(t, authlog.StatusLoginInitiated, resp.Data[4].Event.Status)
}

func TestGetAttemptTimeline_PendingEntry(t *testing.T) {
	r, repo := newTestRouter(t)
	seedLoginFlow(repo, authlog.AttemptKey{AppID: "app_smtp", AttemptID: "req"},
		authlog.StatusLoginInitiated, authlog.StatusEmailSent)

	w := doRequest(t, r, http.MethodGet, "/api/apps/app_smtp/attempts/req/timeline", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []timelineEntryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	assert.Equal(t, authlog.KindPending, resp.Data[0].Kind)
	assert.Equal(t, "0", resp.Data[0].EventID)
	assert.Equal(t, authlog.StatusLoginSuccess, resp.Data[0].Status)
	assert.Equal(t, "Waiting for login", resp.Data[0].Label)
}

func TestGetAttemptTimeline_UnknownStatus(t *testing.T) {
	r, repo := newTestRouter(t)
	seedLoginFlow(repo, authlog.AttemptKey{AppID: "app", AttemptID: "req"}, "LOGIN_TELEPORTED")

	w := doRequest(t, r, http.MethodGet, "/api/apps/app/attempts/req/timeline", nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "unknown_status_code")
}

func TestGetAttemptDetail(t *testing.T) {
	r, repo := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/apps/app/attempts/missing/detail", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	seedLoginFlow(repo, authlog.AttemptKey{AppID: "app_smtp", AttemptID: "req"},
		authlog.StatusLoginInitiated, authlog.StatusEmailSent)

	w = doRequest(t, r, http.MethodGet, "/api/apps/app_smtp/attempts/req/detail", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Custom sender", resp.Data["provider_label"])
	assert.Equal(t, "Unknown", resp.Data["user_agent"])
	assert.Equal(t, "user@example.com", resp.Data["user_identifier_value"])
	assert.Equal(t, true, resp.Data["has_custom_smtp"])
}

func TestGetLoginStats(t *testing.T) {
	r, repo := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/apps/app/stats", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"conversion_rate":null`)

	seedLoginFlow(repo, authlog.AttemptKey{AppID: "app", AttemptID: "a"}, authlog.StatusLoginInitiated, authlog.StatusLoginSuccess)
	seedLoginFlow(repo, authlog.AttemptKey{AppID: "app", AttemptID: "b"}, authlog.StatusLoginInitiated, authlog.StatusEmailBounced)

	w = doRequest(t, r, http.MethodGet, "/api/apps/app/stats", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			ErrorCount     int64    `json:"error_count"`
			ConversionRate *float64 `json:"conversion_rate"`
			Counts         []statusCountResponse
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.ErrorCount)
	require.NotNil(t, resp.Data.ConversionRate)
	assert.Equal(t, 50.0, *resp.Data.ConversionRate)
	assert.Len(t, resp.Data.Counts, 3)
}

func TestRecordEvent(t *testing.T) {
	r, repo := newTestRouter(t)
	body := map[string]any{"attempt_id": "req", "status": "EMAIL_SENT", "provider": "sendgrid", "timestamp": 42}

	w := doRequest(t, r, http.MethodPost, "/admin/apps/app/events", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodPost, "/admin/apps/app/events", body, map[string]string{"Authorization": "Bearer secret"})
	require.Equal(t, http.StatusCreated, w.Code)

	stored := repo.events[authlog.AttemptKey{AppID: "app", AttemptID: "req"}]
	require.Len(t, stored, 1)
	assert.Equal(t, "1001", stored[0].EventID)
	assert.Equal(t, "sendgrid", stored[0].Provider)
	assert.Equal(t, int64(42), stored[0].Timestamp)
}

func TestRecordEvent_Rejections(t *testing.T) {
	r, _ := newTestRouter(t)
	headers := map[string]string{"X-Admin-Token": "secret"}

	w := doRequest(t, r, http.MethodPost, "/admin/apps/app/events", map[string]any{"status": "EMAIL_SENT"}, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/admin/apps/app/events", map[string]any{"attempt_id": "req", "status": "EMAIL_SENT", "group_type": "SMS"}, headers)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "unknown_group_type")

	w = doRequest(t, r, http.MethodPost, "/admin/apps/app/events", map[string]any{"attempt_id": "req", "status": "DEVICE_REGISTRATION_EMAIL_SENT"}, headers)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "group_mismatch")
}

func TestGetAttemptTimeline_GroupMismatch(t *testing.T) {
	r, repo := newTestRouter(t)
	seedLoginFlow(repo, authlog.AttemptKey{AppID: "app", AttemptID: "req"},
		authlog.StatusLoginInitiated, authlog.StatusDeviceRegistrationEmailSent)

	w := doRequest(t, r, http.MethodGet, "/api/apps/app/attempts/req/timeline", nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "group_mismatch")
}

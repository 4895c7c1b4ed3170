package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"queuewise/internal/config"
	"queuewise/internal/eventlog"
	"queuewise/internal/handlers"
	"queuewise/internal/lock"
	"queuewise/internal/service"
	"queuewise/internal/storage"
	"queuewise/internal/trace"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := storage.Open(config.Database{Driver: config.DriverMemory}, logger)
	require.NoError(t, err)
	require.NoError(t, storage.AutoMigrate(db))

	repository := storage.NewRepository(db)
	recorder := eventlog.NewRecorder(repository, nil, logger)
	queueService := service.NewQueueService(repository, lock.NewKeyedMutex(), recorder, logger)

	cfg := &config.Config{
		AppEnv:     config.TestEnv,
		APIVersion: "v1",
		HTTP:       config.HTTP{CORSOrigins: []string{"*"}},
	}
	server := New(cfg, logger)
	server.SetupAPIRoutes(handlers.NewQueueHandler(queueService, logger))

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(func() {
		ts.Close()
		if conn, err := db.DB(); err == nil {
			conn.Close()
		}
	})
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func createQueue(t *testing.T, ts *httptest.Server, name string) int {
	t.Helper()
	resp, body := doJSON(t, ts, http.MethodPost, "/queues", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, name, body["name"])
	return int(body["id"].(float64))
}

func join(t *testing.T, ts *httptest.Server, queueID int, name string) (*http.Response, map[string]interface{}) {
	t.Helper()
	return doJSON(t, ts, http.MethodPost, fmt.Sprintf("/queues/%d/join", queueID), map[string]string{"user_name": name})
}

func TestQueueFlow_ServeInJoinOrder(t *testing.T) {
	ts := setupTestServer(t)
	queueID := createQueue(t, ts, "Clinic A")

	resp, body := join(t, ts, queueID, "Alice")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(1), body["position"])
	assert.Equal(t, "WAITING", body["status"])

	resp, body = join(t, ts, queueID, "Bob")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(2), body["position"])

	serve := fmt.Sprintf("/queues/%d/serve", queueID)
	resp, body = doJSON(t, ts, http.MethodPatch, serve, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alice", body["user_name"])
	assert.Equal(t, "SERVED", body["status"])

	resp, body = doJSON(t, ts, http.MethodPatch, serve, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bob", body["user_name"])

	resp, body = doJSON(t, ts, http.MethodPatch, serve, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMPTY_QUEUE", body["rule_code"])
	assert.Contains(t, body["error"], "Sorry, that action isn't allowed: ")
}

func TestQueueFlow_SkipThenRejoin(t *testing.T) {
	ts := setupTestServer(t)
	queueID := createQueue(t, ts, "Clinic B")

	resp, first := join(t, ts, queueID, "Alice")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, ts, http.MethodPatch, fmt.Sprintf("/queues/%d/skip", queueID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alice", body["user_name"])
	assert.Equal(t, "SKIPPED", body["status"])

	resp, _ = doJSON(t, ts, http.MethodPatch, fmt.Sprintf("/queues/%d/serve", queueID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, second := join(t, ts, queueID, "Alice")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEqual(t, first["entry_id"], second["entry_id"])
	assert.Equal(t, float64(2), second["position"])
}

func TestQueueFlow_Preview(t *testing.T) {
	ts := setupTestServer(t)
	queueID := createQueue(t, ts, "Clinic C")
	preview := fmt.Sprintf("/queues/%d/preview", queueID)

	resp, body := doJSON(t, ts, http.MethodGet, preview, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "EMPTY_QUEUE", body["rule_code"])

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		resp, _ := join(t, ts, queueID, name)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body = doJSON(t, ts, http.MethodGet, preview, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alice", body["next_if_served"])
	assert.Equal(t, "Bob", body["next_if_skipped"])
	assert.Equal(t, "Alice", body["skip_target"])

	_, again := doJSON(t, ts, http.MethodGet, preview, nil)
	assert.Equal(t, body, again)
}

func TestQueueFlow_DryRun(t *testing.T) {
	ts := setupTestServer(t)
	queueID := createQueue(t, ts, "Clinic D")
	resp, _ := join(t, ts, queueID, "Alice")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, ts, http.MethodPost, fmt.Sprintf("/queues/%d/join?dry_run=true", queueID),
		map[string]string{"user_name": "Alice"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["dry_run"])
	assert.Equal(t, "would_fail", body["result"])
	assert.Equal(t, "DUPLICATE_JOIN", body["rule_code"])

	resp, body = doJSON(t, ts, http.MethodPost, fmt.Sprintf("/queues/%d/join?dry_run=true", queueID),
		map[string]string{"user_name": "Bob"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "would_succeed", body["result"])
	assert.Equal(t, float64(2), body["position"])

	resp, body = doJSON(t, ts, http.MethodPatch, fmt.Sprintf("/queues/%d/serve?dry_run=true", queueID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alice", body["user_name"])

	_, summary := doJSON(t, ts, http.MethodGet, fmt.Sprintf("/queues/%d/summary", queueID), nil)
	assert.Equal(t, float64(1), summary["waiting_count"])
	assert.Equal(t, float64(0), summary["served_count"])

	resp, _ = doJSON(t, ts, http.MethodPost, "/queues/9999/join?dry_run=true", map[string]string{"user_name": "Bob"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestQueueFlow_RequestValidation(t *testing.T) {
	ts := setupTestServer(t)
	queueID := createQueue(t, ts, "Clinic E")

	resp, body := doJSON(t, ts, http.MethodPost, "/queues", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["errors"], "name")

	resp, body = doJSON(t, ts, http.MethodPost, "/queues", map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"name": []interface{}{"Field may not be blank."}}, body["errors"])

	resp, body = doJSON(t, ts, http.MethodPost, "/queues", map[string]string{"name": "  Clinic F  "})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Clinic F", body["name"])

	resp, body = join(t, ts, queueID, "A")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["errors"], "user_name")

	resp, body = join(t, ts, queueID, "User1")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_NAME", body["rule_code"])

	resp, body = doJSON(t, ts, http.MethodGet, "/queues/abc/status", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUEUE_ID", body["code"])
}

func TestQueueFlow_NotFoundVersusConflict(t *testing.T) {
	ts := setupTestServer(t)
	queueID := createQueue(t, ts, "Clinic F")

	for _, path := range []string{"/queues/9999/status", "/queues/9999/summary", "/queues/9999/preview", "/queues/9999/events"} {
		resp, body := doJSON(t, ts, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "QUEUE_NOT_FOUND", body["rule_code"], path)
	}

	resp, body := doJSON(t, ts, http.MethodPatch, "/queues/9999/serve", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "QUEUE_NOT_FOUND", body["rule_code"])

	resp, body = doJSON(t, ts, http.MethodPatch, fmt.Sprintf("/queues/%d/skip/9999", queueID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ENTRY_NOT_FOUND", body["rule_code"])

	resp, body = doJSON(t, ts, http.MethodPatch, fmt.Sprintf("/queues/%d/skip", queueID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMPTY_QUEUE", body["rule_code"])

	resp, body = doJSON(t, ts, http.MethodPatch, fmt.Sprintf("/queues/%d/resume", queueID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_ACTIVE", body["rule_code"])
}

func TestQueueFlow_PauseAndEvents(t *testing.T) {
	ts := setupTestServer(t)
	queueID := createQueue(t, ts, "Clinic G")

	resp, body := doJSON(t, ts, http.MethodPatch, fmt.Sprintf("/queues/%d/pause", queueID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "PAUSED", body["status"])

	resp, body = join(t, ts, queueID, "Alice")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "QUEUE_PAUSED", body["rule_code"])

	resp, _ = doJSON(t, ts, http.MethodPatch, fmt.Sprintf("/queues/%d/resume", queueID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/queues/%d/events?limit=2", ts.URL, queueID), nil)
	require.NoError(t, err)
	req.Header.Set(trace.HeaderRequestID, "trace-me")
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer raw.Body.Close()

	assert.Equal(t, "trace-me", raw.Header.Get(trace.HeaderRequestID))
	assert.Equal(t, "v1", raw.Header.Get(trace.HeaderAPIVersion))

	var events []map[string]interface{}
	require.NoError(t, json.NewDecoder(raw.Body).Decode(&events))
	require.Len(t, events, 2)
	assert.Equal(t, "RESUMED", events[0]["action"])
	assert.Equal(t, "JOIN_ATTEMPT", events[1]["action"])
	assert.Equal(t, "BLOCKED", events[1]["result"])

	resp, _ = doJSON(t, ts, http.MethodGet, fmt.Sprintf("/queues/%d/events?limit=abc", queueID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestQueueFlow_ListQueues(t *testing.T) {
	ts := setupTestServer(t)
	older := createQueue(t, ts, "Older")
	createQueue(t, ts, "Newer")
	resp, _ := join(t, ts, older, "Alice")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	res, err := http.Get(ts.URL + "/queues")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.NotEmpty(t, res.Header.Get(trace.HeaderRequestID))

	var queues []service.QueueListItem
	require.NoError(t, json.NewDecoder(res.Body).Decode(&queues))
	require.Len(t, queues, 2)
	assert.Equal(t, "Newer", queues[0].Name)
	assert.Equal(t, int64(1), queues[1].WaitingCount)
	assert.Equal(t, int64(1), queues[1].TotalCount)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	res, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"queuewise/internal/trace"
)

func newTestEngine(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestID(), APIVersion("v1"), AccessLog(logger))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, trace.RequestID(c.Request.Context()))
	})
	return r
}

func TestRequestID_Generated(t *testing.T) {
	var buf bytes.Buffer
	r := newTestEngine(&buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(trace.HeaderRequestID)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())
	assert.Equal(t, "v1", w.Header().Get(trace.HeaderAPIVersion))
	assert.Contains(t, buf.String(), id)
}

func TestRequestID_Echoed(t *testing.T) {
	var buf bytes.Buffer
	r := newTestEngine(&buf)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(trace.HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(trace.HeaderRequestID))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestHeadersOnUnmatchedRoute(t *testing.T) {
	var buf bytes.Buffer
	r := newTestEngine(&buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get(trace.HeaderRequestID))
	assert.Equal(t, "v1", w.Header().Get(trace.HeaderAPIVersion))
	assert.Contains(t, buf.String(), `"status":404`)
}

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"orgmanager/internal/logger"
	"orgmanager/internal/model"
	"orgmanager/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthorizer struct{}

func (fakeAuthorizer) Authorize(token string) (*model.AdminIdentity, error) {
	if token != "good-token" {
		return nil, errors.New("bad token")
	}
	return &model.AdminIdentity{ID: "admin-1", Email: "a@x.com"}, nil
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestID_ReusesInbound(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "upstream-id", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "upstream-id", w.Body.String())
}

func newProtectedRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.DELETE("/protected", RequireBearer(fakeAuthorizer{}), func(c *gin.Context) {
		admin, ok := CurrentAdmin(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, admin.Email)
	})
	return r
}

func TestRequireBearer(t *testing.T) {
	r := newProtectedRouter()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer bad-token", http.StatusUnauthorized},
		{"valid", "Bearer good-token", http.StatusOK},
		{"lower case scheme", "bearer good-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tt.status, w.Code)

			if tt.status != http.StatusUnauthorized {
				assert.Equal(t, "a@x.com", w.Body.String())
				return
			}
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
				TraceID string `json:"trace_id"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, CodeUnauthorized, body.Error.Code)
			assert.Equal(t, w.Header().Get(RequestIDHeader), body.TraceID)
		})
	}
}

func TestMetrics(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/metrics-test/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	counter := telemetry.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/metrics-test/:id", "418")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics-test/42", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) {
		logger.FromContext(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 2, logs.Len())
	for _, entry := range logs.All() {
		assert.Equal(t, "rid-1", entry.ContextMap()["request_id"])
	}
	last := logs.All()[1].ContextMap()
	assert.Equal(t, "/ping", last["route"])
	assert.EqualValues(t, http.StatusOK, last["status"])
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

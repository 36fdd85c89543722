package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"puzzle_quiz_backend/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthBody struct {
	Code int `json:"code"`
	Data struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	} `json:"data"`
}

func checkHealth(t *testing.T, c *HealthController) (int, healthBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/health", c.HealthCheck)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	var body healthBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthCheckDatabaseOnly(t *testing.T) {
	code, body := checkHealth(t, NewHealthController(testutil.NewTestDB(t), nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Data.Status)
	assert.Equal(t, map[string]string{"database": "up"}, body.Data.Components)
}

func TestHealthCheckWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	c := NewHealthController(testutil.NewTestDB(t), rdb)

	code, body := checkHealth(t, c)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]string{"database": "up", "redis": "up"}, body.Data.Components)

	mr.Close()
	code, body = checkHealth(t, c)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body.Data.Status)
	assert.Equal(t, map[string]string{"database": "up", "redis": "down"}, body.Data.Components)
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	db := testutil.NewTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	code, body := checkHealth(t, NewHealthController(db, nil))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "down", body.Data.Components["database"])
}

package handlers

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milo0914/ChemPatent-Pro/pkg/types/common"
)

func newHealthEngine(checkers ...HealthChecker) *gin.Engine {
	r := gin.New()
	NewHealthHandler("1.2.3", nil, checkers...).RegisterRoutes(r)
	return r
}

func TestHealthHandler_Liveness(t *testing.T) {
	w := httptest.NewRecorder()
	newHealthEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body LivenessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "alive", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := CheckFunc{ComponentName: "redis", Fn: func(context.Context) error { return nil }}
	down := CheckFunc{ComponentName: "postgres", Fn: func(context.Context) error { return stdErrors.New("refused") }}

	w := httptest.NewRecorder()
	newHealthEngine(ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	newHealthEngine(ok, down).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, common.HealthDown, body.Status)
	require.Len(t, body.Components, 2)
	assert.Equal(t, "redis", body.Components[0].Name)
	assert.Equal(t, common.HealthUp, body.Components[0].Status)
	assert.Equal(t, "refused", body.Components[1].Message)
}

func TestHealthHandler_ReadinessWithoutDependencies(t *testing.T) {
	w := httptest.NewRecorder()
	newHealthEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

//Personal.AI order the ending

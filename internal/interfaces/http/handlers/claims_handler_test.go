package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/milo0914/ChemPatent-Pro/internal/interfaces/http/middleware"
	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/common"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/patent"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockClaimsService struct {
	mock.Mock
}

func (m *mockClaimsService) Analyze(ctx context.Context, req patent.AnalyzeRequest) (*patent.AnalysisResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*patent.AnalysisResult)
	return res, args.Error(1)
}

func (m *mockClaimsService) AnalyzeBatch(ctx context.Context, req patent.BatchAnalyzeRequest) (*patent.BatchAnalyzeResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*patent.BatchAnalyzeResponse)
	return res, args.Error(1)
}

func (m *mockClaimsService) GetAnalysis(ctx context.Context, id string) (*patent.AnalysisResult, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*patent.AnalysisResult)
	return res, args.Error(1)
}

func (m *mockClaimsService) ListAnalyses(ctx context.Context, limit, offset int) (*patent.AnalysisListResponse, error) {
	args := m.Called(ctx, limit, offset)
	res, _ := args.Get(0).(*patent.AnalysisListResponse)
	return res, args.Error(1)
}

func newClaimsEngine(svc *mockClaimsService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(nil))
	NewClaimsHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope[T any](t *testing.T, w *httptest.ResponseRecorder) common.APIResponse[T] {
	t.Helper()
	var env common.APIResponse[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestAnalyze_Success(t *testing.T) {
	svc := new(mockClaimsService)
	res := &patent.AnalysisResult{
		AnalysisID:       "00000000-0000-0000-0000-000000000001",
		AnalysisResponse: &patent.AnalysisResponse{TotalClaims: 2, Language: "en"},
	}
	svc.On("Analyze", mock.Anything, patent.AnalyzeRequest{Text: "1. A compound.", Language: "en"}).Return(res, nil)

	w := serve(newClaimsEngine(svc), http.MethodPost, "/api/v1/claims/analyze", `{"text":"1. A compound.","language":"en"}`)
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope[patent.AnalysisResult](t, w)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, res.AnalysisID, env.Data.AnalysisID)
	assert.Equal(t, 2, env.Data.TotalClaims)
	svc.AssertExpectations(t)
}

func TestAnalyze_EmptyText(t *testing.T) {
	svc := new(mockClaimsService)
	svc.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, errors.New(errors.ErrCodeClaimTextEmpty, "no text provided"))

	w := serve(newClaimsEngine(svc), http.MethodPost, "/api/v1/claims/analyze", `{"text":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decodeEnvelope[any](t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "CLM_001", env.Error.Code)
	assert.Equal(t, "no text provided", env.Error.Message)
}

func TestAnalyze_BadJSON(t *testing.T) {
	svc := new(mockClaimsService)
	w := serve(newClaimsEngine(svc), http.MethodPost, "/api/v1/claims/analyze", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(newClaimsEngine(svc), http.MethodPost, "/api/v1/claims/analyze", ``)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "request body is empty")
	svc.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestAnalyze_InternalErrorIsMasked(t *testing.T) {
	svc := new(mockClaimsService)
	svc.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, errors.New(errors.ErrCodeClaimAnalysisFailed, "resolver exploded at 0xdead"))

	w := serve(newClaimsEngine(svc), http.MethodPost, "/api/v1/claims/analyze", `{"text":"x"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	env := decodeEnvelope[any](t, w)
	assert.Equal(t, "COMMON_001", env.Error.Code)
	assert.NotContains(t, w.Body.String(), "0xdead")
}

func TestAnalyzeBatch(t *testing.T) {
	svc := new(mockClaimsService)
	svc.On("AnalyzeBatch", mock.Anything, mock.MatchedBy(func(r patent.BatchAnalyzeRequest) bool {
		return len(r.Items) == 2
	})).Return(&patent.BatchAnalyzeResponse{Succeeded: 1, Failed: 1}, nil)

	w := serve(newClaimsEngine(svc), http.MethodPost, "/api/v1/claims/analyze/batch",
		`{"items":[{"text":"1. A."},{"text":""}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope[patent.BatchAnalyzeResponse](t, w)
	assert.Equal(t, 1, env.Data.Failed)
}

func TestAnalyzeBatch_TooLarge(t *testing.T) {
	svc := new(mockClaimsService)
	svc.On("AnalyzeBatch", mock.Anything, mock.Anything).
		Return(nil, errors.New(errors.ErrCodeBatchTooLarge, "too many"))

	w := serve(newClaimsEngine(svc), http.MethodPost, "/api/v1/claims/analyze/batch", `{"items":[]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestGetAnalysis(t *testing.T) {
	svc := new(mockClaimsService)
	id := "00000000-0000-0000-0000-000000000007"
	svc.On("GetAnalysis", mock.Anything, id).Return(&patent.AnalysisResult{AnalysisID: id, AnalysisResponse: &patent.AnalysisResponse{}}, nil)
	svc.On("GetAnalysis", mock.Anything, "missing").Return(nil, errors.New(errors.ErrCodeAnalysisNotFound, "analysis not found"))
	r := newClaimsEngine(svc)

	w := serve(r, http.MethodGet, "/api/v1/claims/analyses/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decodeEnvelope[patent.AnalysisResult](t, w).Data.AnalysisID)

	w = serve(r, http.MethodGet, "/api/v1/claims/analyses/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAnalysis_HistoryDisabled(t *testing.T) {
	svc := new(mockClaimsService)
	svc.On("GetAnalysis", mock.Anything, "x").
		Return(nil, errors.New(errors.ErrCodeServiceUnavailable, "analysis history is not enabled"))

	w := serve(newClaimsEngine(svc), http.MethodGet, "/api/v1/claims/analyses/x", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "analysis history is not enabled")
}

func TestListAnalyses_Paging(t *testing.T) {
	svc := new(mockClaimsService)
	svc.On("ListAnalyses", mock.Anything, 200, 10).Return(&patent.AnalysisListResponse{Limit: 200, Offset: 10}, nil)
	svc.On("ListAnalyses", mock.Anything, 20, 0).Return(&patent.AnalysisListResponse{Limit: 20}, nil)
	r := newClaimsEngine(svc)

	w := serve(r, http.MethodGet, "/api/v1/claims/analyses?limit=5000&offset=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = serve(r, http.MethodGet, "/api/v1/claims/analyses?limit=abc&offset=-3", "")
	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

//Personal.AI order the ending

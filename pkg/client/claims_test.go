package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/common"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/patent"
)

func sampleResult(id string) patent.AnalysisResult {
	return patent.AnalysisResult{
		AnalysisID: id,
		CreatedAt:  time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		AnalysisResponse: &patent.AnalysisResponse{
			TotalClaims:       2,
			Language:          "en",
			IndependentClaims: []int{1},
			DependentClaims:   []int{2},
			Claims: []patent.ClaimDTO{
				{Number: 1, Type: patent.ClaimTypeProduct, IsIndependent: true},
				{Number: 2, Type: patent.ClaimTypeProduct, References: []int{1}},
			},
		},
	}
}

func TestClaimsClient_Analyze(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/claims/analyze", r.URL.Path)
		var req patent.AnalyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "zh", req.Language)
		writeEnvelope(t, w, sampleResult("a-1"))
	})

	res, err := c.Claims().Analyze(context.Background(), "1. 一种化合物。", "zh")
	require.NoError(t, err)
	assert.Equal(t, "a-1", res.AnalysisID)
	assert.Equal(t, 2, res.TotalClaims)
	assert.Equal(t, []int{1}, res.Claims[1].References)
}

func TestClaimsClient_Analyze_EmptyTextRejectedLocally(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := c.Claims().Analyze(context.Background(), "  \n", "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeClaimTextEmpty))
}

func TestClaimsClient_AnalyzeBatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/claims/analyze/batch", r.URL.Path)
		var req patent.BatchAnalyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Items, 2)
		ok := sampleResult("b-0")
		writeEnvelope(t, w, patent.BatchAnalyzeResponse{
			Results: []patent.BatchItemResult{
				{Index: 0, Result: &ok},
				{Index: 1, Error: &common.ErrorDetail{Code: string(errors.ErrCodeClaimTextEmpty), Message: "claim text is empty"}},
			},
			Succeeded: 1,
			Failed:    1,
		})
	})

	res, err := c.Claims().AnalyzeBatch(context.Background(), []patent.AnalyzeRequest{{Text: "1. A compound."}, {Text: ""}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, "b-0", res.Results[0].Result.AnalysisID)
	assert.Equal(t, string(errors.ErrCodeClaimTextEmpty), res.Results[1].Error.Code)
}

func TestClaimsClient_AnalyzeBatch_ValidatesSize(t *testing.T) {
	c, _ := NewClient("http://api.example.com")
	_, err := c.Claims().AnalyzeBatch(context.Background(), nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAnalysisRequestInvalid))

	items := make([]patent.AnalyzeRequest, patent.MaxBatchSize+1)
	_, err = c.Claims().AnalyzeBatch(context.Background(), items)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBatchTooLarge))
}

func TestClaimsClient_GetAnalysis(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/claims/analyses/a-7":
			writeEnvelope(t, w, sampleResult("a-7"))
		default:
			writeErrorEnvelope(w, http.StatusNotFound, string(errors.ErrCodeAnalysisNotFound), "analysis not found")
		}
	})

	res, err := c.Claims().GetAnalysis(context.Background(), "a-7")
	require.NoError(t, err)
	assert.Equal(t, "a-7", res.AnalysisID)

	_, err = c.Claims().GetAnalysis(context.Background(), "missing")
	assert.True(t, errors.IsNotFound(err))

	_, err = c.Claims().GetAnalysis(context.Background(), "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeAnalysisRequestInvalid))
}

func TestClaimsClient_ListAnalyses(t *testing.T) {
	var rawQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/claims/analyses", r.URL.Path)
		rawQuery = r.URL.RawQuery
		writeEnvelope(t, w, patent.AnalysisListResponse{
			Items:  []patent.AnalysisSummary{{AnalysisID: "a-2", TotalClaims: 4}},
			Limit:  10,
			Offset: 20,
		})
	})

	res, err := c.Claims().ListAnalyses(context.Background(), 10, 20)
	require.NoError(t, err)
	assert.Equal(t, "limit=10&offset=20", rawQuery)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "a-2", res.Items[0].AnalysisID)

	_, err = c.Claims().ListAnalyses(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, rawQuery)
}

//Personal.AI order the ending

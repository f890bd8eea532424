package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/common"
	ptypes "github.com/milo0914/ChemPatent-Pro/pkg/types/patent"
)

// fakeAPI serves canned claim endpoint responses in the server envelope.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	stored := ptypes.AnalysisResult{
		AnalysisID: "a-1",
		CreatedAt:  time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC),
		AnalysisResponse: &ptypes.AnalysisResponse{
			TotalClaims:       1,
			Language:          "en",
			IndependentClaims: []int{1},
			Claims:            []ptypes.ClaimDTO{{Number: 1, Type: ptypes.ClaimTypeProduct, IsIndependent: true, WordCount: 3}},
			Statistics:        ptypes.StatisticsDTO{MainProtectionType: ptypes.ClaimTypeProduct},
		},
	}

	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}
	mux.HandleFunc("/api/v1/claims/analyze", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, common.NewSuccessResponse(stored))
	})
	mux.HandleFunc("/api/v1/claims/analyses", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		write(w, http.StatusOK, common.NewSuccessResponse(ptypes.AnalysisListResponse{
			Items: []ptypes.AnalysisSummary{{AnalysisID: "a-1", Language: "en", TotalClaims: 1, IssueCount: 2, CreatedAt: stored.CreatedAt}},
			Limit: 5,
		}))
	})
	mux.HandleFunc("/api/v1/claims/analyses/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/claims/analyses/a-1" {
			write(w, http.StatusNotFound, common.NewErrorResponse(string(errors.ErrCodeAnalysisNotFound), "analysis not found"))
			return
		}
		write(w, http.StatusOK, common.NewSuccessResponse(stored))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHistory_RequiresServer(t *testing.T) {
	_, _, err := runCLI(t, "", "history", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--server")
}

func TestHistory_List(t *testing.T) {
	srv := fakeAPI(t)
	out, _, err := runCLI(t, "", "--server", srv.URL, "history", "list", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "a-1")
	assert.Contains(t, out, "Issues")

	out, _, err = runCLI(t, "", "--server", srv.URL, "-o", "json", "history", "list", "--limit", "5")
	require.NoError(t, err)
	var page ptypes.AnalysisListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 2, page.Items[0].IssueCount)
}

func TestHistory_Get(t *testing.T) {
	srv := fakeAPI(t)
	out, _, err := runCLI(t, "", "--server", srv.URL, "history", "get", "a-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Language: en, 1 claim(s)")

	_, _, err = runCLI(t, "", "--server", srv.URL, "history", "get", "nope")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestAnalyze_Remote(t *testing.T) {
	srv := fakeAPI(t)
	out, _, err := runCLI(t, "1. A compound X.", "--server", srv.URL, "-o", "json", "analyze")
	require.NoError(t, err)
	var res ptypes.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "a-1", res.AnalysisID)
}

func TestRoot_InvalidServerURL(t *testing.T) {
	_, _, err := runCLI(t, "", "--server", "ftp://x", "history", "list")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid))
}

//Personal.AI order the ending

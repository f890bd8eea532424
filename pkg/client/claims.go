package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/patent"
)

const claimsPath = "/api/v1/claims"

// ClaimsClient calls the claim analysis endpoints.
type ClaimsClient struct {
	client *Client
}

// Analyze analyses one claim set.  An empty language lets the server detect it.
func (cc *ClaimsClient) Analyze(ctx context.Context, text, language string) (*patent.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(errors.ErrCodeClaimTextEmpty, "claim text is required")
	}
	var res patent.AnalysisResult
	req := patent.AnalyzeRequest{Text: text, Language: language}
	if err := cc.client.post(ctx, claimsPath+"/analyze", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// AnalyzeBatch analyses several claim sets in one call.  A failed item is
// reported in its BatchItemResult, not as an error.
func (cc *ClaimsClient) AnalyzeBatch(ctx context.Context, items []patent.AnalyzeRequest) (*patent.BatchAnalyzeResponse, error) {
	req := patent.BatchAnalyzeRequest{Items: items}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var res patent.BatchAnalyzeResponse
	if err := cc.client.post(ctx, claimsPath+"/analyze/batch", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetAnalysis fetches a stored analysis by ID.
func (cc *ClaimsClient) GetAnalysis(ctx context.Context, id string) (*patent.AnalysisResult, error) {
	if id == "" {
		return nil, errors.New(errors.ErrCodeAnalysisRequestInvalid, "analysis id is required")
	}
	var res patent.AnalysisResult
	if err := cc.client.get(ctx, claimsPath+"/analyses/"+url.PathEscape(id), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListAnalyses pages through the stored history, newest first.  Zero values
// use the server defaults.
func (cc *ClaimsClient) ListAnalyses(ctx context.Context, limit, offset int) (*patent.AnalysisListResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if offset > 0 {
		q.Set("offset", fmt.Sprint(offset))
	}
	path := claimsPath + "/analyses"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var res patent.AnalysisListResponse
	if err := cc.client.get(ctx, path, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

//Personal.AI order the ending

package patent

import (
	"github.com/milo0914/ChemPatent-Pro/pkg/types/common"
)

// Event types carried in the message header "event_type".
const (
	EventAnalysisRequested = "claims.analysis.requested"
	EventAnalysisCompleted = "claims.analysis.completed"
)

// AnalysisRequestedEvent asks a worker to analyse a claim text.  The
// aggregate ID is the caller's correlation ID.
type AnalysisRequestedEvent struct {
	common.BaseEvent
	Request AnalyzeRequest `json:"request"`
}

// NewAnalysisRequestedEvent builds a request event.  An empty correlationID
// is replaced by the event ID.
func NewAnalysisRequestedEvent(correlationID string, req AnalyzeRequest) AnalysisRequestedEvent {
	base := common.NewBaseEvent(correlationID)
	if base.AggID == "" {
		base.AggID = base.ID
	}
	return AnalysisRequestedEvent{BaseEvent: base, Request: req}
}

// AnalysisCompletedEvent reports the outcome of a requested analysis.
type AnalysisCompletedEvent struct {
	common.BaseEvent
	AnalysisID  string              `json:"analysis_id,omitempty"`
	Language    string              `json:"language,omitempty"`
	TotalClaims int                 `json:"total_claims"`
	IssueCount  int                 `json:"issue_count"`
	IssueKinds  []string            `json:"issue_kinds,omitempty"`
	Error       *common.ErrorDetail `json:"error,omitempty"`
}

// NewAnalysisCompletedEvent summarises result for the correlation ID.
func NewAnalysisCompletedEvent(correlationID string, result *AnalysisResult) AnalysisCompletedEvent {
	ev := AnalysisCompletedEvent{BaseEvent: common.NewBaseEvent(correlationID)}
	if result == nil || result.AnalysisResponse == nil {
		return ev
	}
	ev.AnalysisID = result.AnalysisID
	ev.Language = result.Language
	ev.TotalClaims = result.TotalClaims
	ev.IssueCount = len(result.Issues)
	seen := make(map[string]bool)
	for _, is := range result.Issues {
		if !seen[is.Kind] {
			seen[is.Kind] = true
			ev.IssueKinds = append(ev.IssueKinds, is.Kind)
		}
	}
	return ev
}

// NewAnalysisFailedEvent reports a failed analysis.
func NewAnalysisFailedEvent(correlationID, code, message string) AnalysisCompletedEvent {
	return AnalysisCompletedEvent{
		BaseEvent: common.NewBaseEvent(correlationID),
		Error:     &common.ErrorDetail{Code: code, Message: message},
	}
}

//Personal.AI order the ending

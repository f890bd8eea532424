package patent

// IssueKind names the rule that produced an Issue.
type IssueKind string

const (
	IssueDanglingReference        IssueKind = "DanglingReference"
	IssueSelfReference            IssueKind = "SelfReference"
	IssueForwardReference         IssueKind = "ForwardReference"
	IssueUnresolvedReference      IssueKind = "UnresolvedReference"
	IssueUnexpectedNumbering      IssueKind = "UnexpectedNumbering"
	IssueNoNumberingDetected      IssueKind = "NoNumberingDetected"
	IssueEmptyClaim               IssueKind = "EmptyClaim"
	IssueExcessiveLength          IssueKind = "ExcessiveLength"
	IssueNoIndependentClaim       IssueKind = "NoIndependentClaim"
	IssueOrphanIndependentCluster IssueKind = "OrphanIndependentCluster"
	IssueHighComplexityOutlier    IssueKind = "HighComplexityOutlier"
	IssueTooManyIndependentClaims IssueKind = "TooManyIndependentClaims"
	IssueLanguageFallback         IssueKind = "LanguageFallback"
)

// Severity grades an issue.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DefaultSeverity returns the severity an issue of this kind carries.
func (k IssueKind) DefaultSeverity() Severity {
	switch k {
	case IssueNoIndependentClaim:
		return SeverityError
	case IssueOrphanIndependentCluster, IssueHighComplexityOutlier,
		IssueTooManyIndependentClaims, IssueLanguageFallback:
		return SeverityInfo
	default:
		return SeverityWarning
	}
}

// Issue is a non-fatal finding.  ClaimNumber is 0 for set-level issues.
type Issue struct {
	Kind        IssueKind
	ClaimNumber int
	Severity    Severity
	Message     string
	// Suggestion is the remediation text, empty when none applies.
	Suggestion string
}

// NewClaimIssue builds an issue attached to one claim.
func NewClaimIssue(kind IssueKind, claim int, message, suggestion string) Issue {
	return Issue{
		Kind:        kind,
		ClaimNumber: claim,
		Severity:    kind.DefaultSeverity(),
		Message:     message,
		Suggestion:  suggestion,
	}
}

// NewSetIssue builds an issue that concerns the whole claim set.
func NewSetIssue(kind IssueKind, message, suggestion string) Issue {
	return Issue{
		Kind:       kind,
		Severity:   kind.DefaultSeverity(),
		Message:    message,
		Suggestion: suggestion,
	}
}

// IsSetLevel reports whether the issue has no claim attached.
func (i Issue) IsSetLevel() bool {
	return i.ClaimNumber == 0
}

//Personal.AI order the ending

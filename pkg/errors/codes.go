package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeMessageQueueError  ErrorCode = "COMMON_014"
	ErrCodeConfigInvalid      ErrorCode = "COMMON_015"
)

// Claim analysis error codes
const (
	ErrCodeClaimTextEmpty         ErrorCode = "CLM_001"
	ErrCodeClaimAnalysisFailed    ErrorCode = "CLM_002"
	ErrCodePhraseTableInvalid     ErrorCode = "CLM_003"
	ErrCodeAnalysisNotFound       ErrorCode = "CLM_004"
	ErrCodeBatchTooLarge          ErrorCode = "CLM_005"
	ErrCodeUnsupportedLanguage    ErrorCode = "CLM_006"
	ErrCodeAnalysisRequestInvalid ErrorCode = "CLM_007"
)

const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessageQueueError:  http.StatusInternalServerError,
	ErrCodeConfigInvalid:      http.StatusInternalServerError,

	ErrCodeClaimTextEmpty:         http.StatusBadRequest,
	ErrCodeClaimAnalysisFailed:    http.StatusInternalServerError,
	ErrCodePhraseTableInvalid:     http.StatusInternalServerError,
	ErrCodeAnalysisNotFound:       http.StatusNotFound,
	ErrCodeBatchTooLarge:          http.StatusRequestEntityTooLarge,
	ErrCodeUnsupportedLanguage:    http.StatusBadRequest,
	ErrCodeAnalysisRequestInvalid: http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessageQueueError:  "message queue error",
	ErrCodeConfigInvalid:      "invalid configuration",

	ErrCodeClaimTextEmpty:         "no text provided",
	ErrCodeClaimAnalysisFailed:    "claim analysis failed",
	ErrCodePhraseTableInvalid:     "invalid phrase table",
	ErrCodeAnalysisNotFound:       "analysis not found",
	ErrCodeBatchTooLarge:          "batch too large",
	ErrCodeUnsupportedLanguage:    "unsupported language",
	ErrCodeAnalysisRequestInvalid: "invalid analysis request",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500
}

// ModuleForCode returns the module prefix of a code, e.g. "CLM" for "CLM_001".
func ModuleForCode(code ErrorCode) string {
	s := string(code)
	if idx := strings.Index(s, "_"); idx > 0 {
		return s[:idx]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending

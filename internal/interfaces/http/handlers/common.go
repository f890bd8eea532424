package handlers

import (
	stdErrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/milo0914/ChemPatent-Pro/internal/interfaces/http/middleware"
	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/common"
)

// respondJSON writes data in the success envelope.
func respondJSON[T any](c *gin.Context, status int, data T) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(status, resp)
}

// respondError maps err to its HTTP status.  Server-side failures other than
// unavailability and timeouts are masked; the original error is attached to
// the gin context for the access log.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	msg := errors.DefaultMessageForCode(code)
	var appErr *errors.AppError
	masked := status >= http.StatusInternalServerError &&
		status != http.StatusServiceUnavailable && status != http.StatusGatewayTimeout
	switch {
	case masked:
		code, msg = errors.ErrCodeInternal, "internal server error"
	case stdErrors.As(err, &appErr):
		msg = appErr.Message
	}

	resp := common.NewErrorResponse(string(code), msg)
	resp.RequestID = middleware.GetRequestID(c)
	c.AbortWithStatusJSON(status, resp)
}

// parseLimitOffset reads ?limit= and ?offset=.  Invalid values fall back to
// the defaults instead of failing the request.
func parseLimitOffset(c *gin.Context, defLimit, maxLimit int) (limit, offset int) {
	limit = defLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

//Personal.AI order the ending

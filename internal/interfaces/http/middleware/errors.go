package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/milo0914/ChemPatent-Pro/pkg/errors"
	"github.com/milo0914/ChemPatent-Pro/pkg/types/common"
)

var errInternal = errors.New(errors.ErrCodeInternal, "internal server error")

// abortWithError stops the chain with the standard error envelope.
func abortWithError(c *gin.Context, err *errors.AppError) {
	resp := common.NewErrorResponse(string(err.Code), err.Message)
	resp.RequestID = GetRequestID(c)
	c.AbortWithStatusJSON(errors.HTTPStatusForCode(err.Code), resp)
}

//Personal.AI order the ending

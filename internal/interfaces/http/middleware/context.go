package middleware

import (
	"context"

	"github.com/milo0914/ChemPatent-Pro/pkg/types/common"
)

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, common.ContextKeyRequestID, id)
}

// RequestIDFromContext returns the request ID stored by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(common.ContextKeyRequestID).(string)
	return id
}

//Personal.AI order the ending

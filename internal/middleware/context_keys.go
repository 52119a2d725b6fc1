package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// operatorIDKey is the key used to store the acting operator's ID in the
// request context. Using a custom type prevents collisions.
const operatorIDKey = contextKey("operatorID")

// operatorHeader identifies the acting operator; admission, workflow and
// reversal stamp it into audit fields. Defaults to "system" when absent.
const operatorHeader = "X-Operator-ID"

// OperatorMiddleware extracts the operator identifier from the request header
// and stores it in the request context.
func OperatorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		operator := c.GetHeader(operatorHeader)
		if operator == "" {
			operator = "system"
		}
		ctx := context.WithValue(c.Request.Context(), operatorIDKey, operator)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetOperatorFromCtx retrieves the operator ID from the context.
func GetOperatorFromCtx(ctx context.Context) string {
	operator, ok := ctx.Value(operatorIDKey).(string)
	if !ok || operator == "" {
		return "system"
	}
	return operator
}

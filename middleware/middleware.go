// Package middleware contains any custom middleware used in the app
package middleware

import (
	"bitwise74/resource-api/errs"

	"github.com/gin-gonic/gin"
)

// abort stops the chain with the same error body the handlers use
func abort(c *gin.Context, kind errs.Kind, message string) {
	c.AbortWithStatusJSON(kind.Status(), gin.H{
		"statusCode": kind.Status(),
		"error":      kind.String(),
		"message":    message,
		"requestID":  c.GetString("requestID"),
	})
}

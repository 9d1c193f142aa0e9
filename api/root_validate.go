package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Validate is reached only with a valid token, the middleware did the work
func (a *API) Validate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"userID": c.GetString("userID"),
	})
}

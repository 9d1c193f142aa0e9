package api

import (
	"bitwise74/resource-api/content"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) ResourceTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": content.Types(),
	})
}

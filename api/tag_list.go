package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) TagList(c *gin.Context) {
	tags, err := a.Tags.List(c.Request.Context(), c.GetString("userID"), c.Query("search"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": tags,
	})
}

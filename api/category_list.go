package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CategoryList returns every category of the user ordered by name
func (a *API) CategoryList(c *gin.Context) {
	categories, err := a.Categories.List(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": categories,
	})
}

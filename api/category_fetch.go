package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) CategoryFetch(c *gin.Context) {
	category, err := a.Categories.Get(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

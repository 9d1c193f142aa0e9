package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) ResourceFetch(c *gin.Context) {
	resource, err := a.Resources.Get(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource)
}

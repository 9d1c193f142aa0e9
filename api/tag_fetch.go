package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) TagFetch(c *gin.Context) {
	tag, err := a.Tags.Get(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tag)
}

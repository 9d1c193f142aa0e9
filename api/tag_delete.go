package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) TagDelete(c *gin.Context) {
	if err := a.Tags.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

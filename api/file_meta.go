package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) FileMeta(c *gin.Context) {
	meta, err := a.Files.Meta(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, meta)
}

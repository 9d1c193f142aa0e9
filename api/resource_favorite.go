package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) ResourceFavorite(c *gin.Context) {
	state, err := a.Resources.ToggleFavorite(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) AuthMe(c *gin.Context) {
	profile, err := a.Auth.Profile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

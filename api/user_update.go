package api

import (
	"bitwise74/resource-api/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserUpdate changes the email, password or name of the caller
func (a *API) UserUpdate(c *gin.Context) {
	var data service.UpdateProfile
	if !bindJSON(c, &data) {
		return
	}

	profile, err := a.Auth.UpdateProfile(c.Request.Context(), c.GetString("userID"), data)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

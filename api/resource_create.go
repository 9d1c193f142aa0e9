package api

import (
	"bitwise74/resource-api/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) ResourceCreate(c *gin.Context) {
	var data service.CreateResource
	if !bindJSON(c, &data) {
		return
	}

	resource, err := a.Resources.Create(c.Request.Context(), c.GetString("userID"), data)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resource)
}

package api

import (
	"bitwise74/resource-api/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResourceEdit applies a partial update. Fields left out of the body stay
// as they are, "description": null and "categoryId": null clear them.
func (a *API) ResourceEdit(c *gin.Context) {
	var data service.UpdateResource
	if !bindJSON(c, &data) {
		return
	}

	resource, err := a.Resources.Update(c.Request.Context(), c.GetString("userID"), c.Param("id"), data)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource)
}

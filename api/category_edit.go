package api

import (
	"bitwise74/resource-api/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CategoryEdit renames and/or recolors a category. Sending "color": null
// removes the color.
func (a *API) CategoryEdit(c *gin.Context) {
	var data service.UpdateCategory
	if !bindJSON(c, &data) {
		return
	}

	category, err := a.Categories.Update(c.Request.Context(), c.GetString("userID"), c.Param("id"), data)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

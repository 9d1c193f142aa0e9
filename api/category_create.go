package api

import (
	"bitwise74/resource-api/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) CategoryCreate(c *gin.Context) {
	var data service.CreateCategory
	if !bindJSON(c, &data) {
		return
	}

	category, err := a.Categories.Create(c.Request.Context(), c.GetString("userID"), data)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

package api

import (
	"bitwise74/resource-api/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) TagCreate(c *gin.Context) {
	var data service.CreateTag
	if !bindJSON(c, &data) {
		return
	}

	tag, err := a.Tags.Create(c.Request.Context(), c.GetString("userID"), data)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tag)
}

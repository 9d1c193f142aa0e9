package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CategoryDelete removes a category, its resources become uncategorized
func (a *API) CategoryDelete(c *gin.Context) {
	if err := a.Categories.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FileDelete removes a file owned by the user. Resources pointing at it keep
// their stale reference.
func (a *API) FileDelete(c *gin.Context) {
	if err := a.Files.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

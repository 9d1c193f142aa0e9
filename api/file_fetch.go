package api

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FileFetch serves the raw bytes of a file with a download filename hint
func (a *API) FileFetch(c *gin.Context) {
	file, err := a.Files.Get(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{
		"filename": file.Filename,
	}))
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, file.MimeType, file.Data)
}

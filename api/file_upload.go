package api

import (
	"bitwise74/resource-api/errs"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// FileUpload stores the "file" part of a multipart form. Re-uploading the
// same bytes returns the stored file.
func (a *API) FileUpload(c *gin.Context) {
	userID := c.GetString("userID")

	if !strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
		abortWithError(c, errs.BadRequest("Expected a multipart/form-data body"))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			abortWithError(c, errs.TooLarge("File exceeds the maximum size of %d bytes", a.maxUploadSize))
		case errors.Is(err, http.ErrMissingFile):
			abortWithError(c, errs.BadRequest("No file provided"))
		default:
			abortWithError(c, &errs.Error{Kind: errs.KindBadRequest, Message: "Invalid multipart form", Err: err})
		}
		return
	}

	if fh.Size > a.maxUploadSize {
		abortWithError(c, errs.TooLarge("File exceeds the maximum size of %d bytes", a.maxUploadSize))
		return
	}

	f, err := fh.Open()
	if err != nil {
		abortWithError(c, fmt.Errorf("failed to open uploaded file, %w", err))
		return
	}
	defer f.Close()

	// One byte over the limit is enough for the service to reject it
	data, err := io.ReadAll(io.LimitReader(f, a.maxUploadSize+1))
	if err != nil {
		abortWithError(c, fmt.Errorf("failed to read uploaded file, %w", err))
		return
	}

	meta, err := a.Files.Upload(c.Request.Context(), userID, data, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, meta)
}

package api

import (
	"bitwise74/resource-api/errs"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// abortWithError renders err as {statusCode, error, message, requestID}.
// Anything that isn't an *errs.Error is logged and hidden behind a 500.
func abortWithError(c *gin.Context, err error) {
	requestID := c.GetString("requestID")
	_ = c.Error(err)

	var e *errs.Error
	if !errors.As(err, &e) || e.Kind == errs.KindInternal {
		zap.L().Error("Request failed",
			zap.Error(err),
			zap.String("requestID", requestID),
			zap.String("route", c.FullPath()),
		)

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"statusCode": http.StatusInternalServerError,
			"error":      errs.KindInternal.String(),
			"message":    "Internal server error",
			"requestID":  requestID,
		})
		return
	}

	message := e.Message
	if message == "" {
		message = e.Kind.String()
	}

	body := gin.H{
		"statusCode": e.Kind.Status(),
		"error":      e.Kind.String(),
		"message":    message,
		"requestID":  requestID,
	}

	if len(e.Fields) > 0 {
		body["errors"] = e.Fields
	}

	c.AbortWithStatusJSON(e.Kind.Status(), body)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, bindError(err, "body"))
		return false
	}

	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		abortWithError(c, bindError(err, "query"))
		return false
	}

	return true
}

// bindError turns a binding failure into a validation error listing the
// offending fields
func bindError(err error, source string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errs.TooLarge("Request body size exceeds limit")
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		e := &errs.Error{Kind: errs.KindValidation, Message: "Validation Error"}
		for _, fe := range fieldErrs {
			e.Fields = append(e.Fields, errs.FieldError{
				Field:   fe.Field(),
				Message: fe.Field() + " " + constraint(fe),
			})
		}

		return e
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return errs.Validation(typeErr.Field, typeErr.Field+" must be a "+typeErr.Type.String())
	}

	return &errs.Error{
		Kind:    errs.KindValidation,
		Message: "Validation Error",
		Fields:  []errs.FieldError{{Field: source, Message: "Invalid request " + source}},
		Err:     err,
	}
}

func constraint(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uuid":
		return "must be a valid UUID"
	}

	return "failed on " + fe.Tag()
}

// useFieldTags makes gin's validator report fields by their query or JSON
// name
func useFieldTags() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}

		return f.Name
	})
}

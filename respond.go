package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RichardToddFidelis/reporting-backend/config"
	"github.com/RichardToddFidelis/reporting-backend/models"
	"github.com/RichardToddFidelis/reporting-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// respondError maps domain errors onto the uniform {message} wire shape:
// not-found 404, validation 422, anything else a generic 500.
func respondError(c *gin.Context, op string, err error) {
	logger := config.GetLogger()

	var nf *utils.NotFoundError
	var ve *utils.ValidationError
	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"message": nf.Message})
	case errors.Is(err, utils.ErrorRecordNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Resource not found"})
	case errors.As(err, &ve):
		config.LogError(logger, "api", op, "validation", nil, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": ve.Message})
	default:
		config.LogError(logger, "api", op, "unhandled", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred. Please try again later."})
	}
}

// respondBindError shapes request-binding failures as 422s, with
// per-field tags when the validator produced them.
func respondBindError(c *gin.Context, op string, err error) {
	logger := config.GetLogger()
	config.LogError(logger, "api", op, "bind", nil, err)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Validation error",
			"fields":  utils.ProcessValidationErrors(err),
		})
		return
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation error: " + err.Error()})
}

// pathId parses a numeric path parameter; a non-numeric id can never
// match a record, so it is a 404 rather than a validation error.
func pathId(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, utils.NotFoundf("Resource not found")
	}
	return id, nil
}

// pageParams reads page/per_page with the documented defaults.
func pageParams(c *gin.Context) (page int, perPage int, err error) {
	page = models.DefaultPage
	perPage = models.DefaultPerPage
	if v := c.Query("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, utils.Validationf("Invalid page number: %s", v)
		}
	}
	if v := c.Query("per_page"); v != "" {
		perPage, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, utils.Validationf("Invalid per_page value: %s", v)
		}
	}
	return page, perPage, nil
}

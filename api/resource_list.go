package api

import (
	"bitwise74/resource-api/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type resourceListQuery struct {
	Type       string `form:"type"`
	CategoryID string `form:"categoryId" binding:"omitempty,uuid"`
	TagIDs     string `form:"tagIds"`
	IsFavorite string `form:"isFavorite" binding:"omitempty,oneof=true false"`
	Search     string `form:"search" binding:"max=200"`
	SortBy     string `form:"sortBy" binding:"omitempty,oneof=createdAt title"`
	SortOrder  string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
	Page       *int   `form:"page" binding:"omitempty,min=1"`
	Limit      *int   `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ResourceList returns a filtered, sorted page of the user's resources
func (a *API) ResourceList(c *gin.Context) {
	var query resourceListQuery
	if !bindQuery(c, &query) {
		return
	}

	q := service.ResourceQuery{
		Type:       query.Type,
		CategoryID: query.CategoryID,
		TagIDs:     query.TagIDs,
		Search:     query.Search,
		SortBy:     query.SortBy,
		SortOrder:  query.SortOrder,
	}

	if query.IsFavorite != "" {
		fav := query.IsFavorite == "true"
		q.IsFavorite = &fav
	}

	if query.Page != nil {
		q.Page = *query.Page
	}

	if query.Limit != nil {
		q.Limit = *query.Limit
	}

	page, err := a.Resources.List(c.Request.Context(), c.GetString("userID"), q)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

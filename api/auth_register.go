package api

import (
	"bitwise74/resource-api/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	// Older clients send the display name as username
	Username string `json:"username"`
}

func (a *API) AuthRegister(c *gin.Context) {
	var data registerBody
	if !bindJSON(c, &data) {
		return
	}

	name := data.Name
	if name == "" {
		name = data.Username
	}

	token, err := a.Auth.Register(c.Request.Context(), service.Registration{
		Email:    data.Email,
		Password: data.Password,
		Name:     name,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	a.setAuthCookie(c, token)
	c.JSON(http.StatusCreated, token)
}

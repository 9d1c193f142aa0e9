package api

import (
	"bitwise74/resource-api/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type loginBody struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *API) AuthLogin(c *gin.Context) {
	var data loginBody
	if !bindJSON(c, &data) {
		return
	}

	identifier := data.Email
	if identifier == "" {
		identifier = data.Username
	}

	token, err := a.Auth.Login(c.Request.Context(), identifier, data.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	a.setAuthCookie(c, token)
	c.JSON(http.StatusOK, token)
}

func (a *API) setAuthCookie(c *gin.Context, token *service.Token) {
	maxAge := int(time.Until(token.ExpiresAt).Seconds())

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("auth_token", token.AccessToken, maxAge, "/", "", a.secureCookies, true)
	c.SetCookie("logged_in", "1", maxAge, "/", "", a.secureCookies, false)
}

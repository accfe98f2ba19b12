// Package controller implements the HTTP handlers of the VoxVault API. The
// handlers validate and sanitize input, then call into the services; they
// own no persistence logic of their own.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voxvault/voxvault/database/model"
	"github.com/voxvault/voxvault/web/session"
)

// BaseController is embedded by the API controllers; route-level
// authentication lives in middleware.LoginRequired.
type BaseController struct{}

// loginUser returns the session user, or aborts with 401.
func loginUser(c *gin.Context) *model.User {
	user := session.GetLoginUser(c)
	if user == nil {
		pureJsonMsg(c, http.StatusUnauthorized, false, "login required")
		c.Abort()
	}
	return user
}

// Package middleware provides gin middleware for the VoxVault API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voxvault/voxvault/web/entity"
	"github.com/voxvault/voxvault/web/session"
)

// LoginRequired aborts unauthenticated requests with a 401 envelope.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.IsLogin(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{
				Success: false,
				Msg:     "login required",
			})
			return
		}
		c.Next()
	}
}

// AdminRequired aborts requests from non-admin accounts.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := session.GetLoginUser(c)
		if user == nil || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, entity.Msg{
				Success: false,
				Msg:     "admin access required",
			})
			return
		}
		c.Next()
	}
}

package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voxvault/voxvault/logger"
	"github.com/voxvault/voxvault/web/middleware"
	"github.com/voxvault/voxvault/web/service"
)

// ServerController exposes admin-only host status and log retrieval.
type ServerController struct {
	BaseController

	serverService *service.ServerService
}

func NewServerController(g *gin.RouterGroup, serverService *service.ServerService) *ServerController {
	a := &ServerController{serverService: serverService}
	a.initRouter(g)
	return a
}

func (a *ServerController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/server")
	g.Use(middleware.AdminRequired())

	g.GET("/status", a.status)
	g.GET("/logs/:count", a.logs)
}

func (a *ServerController) status(c *gin.Context) {
	jsonObj(c, a.serverService.GetStatus(), nil)
}

func (a *ServerController) logs(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count <= 0 {
		count = 100
	}
	level := c.DefaultQuery("level", "INFO")
	jsonObj(c, logger.GetLogs(count, level), nil)
}

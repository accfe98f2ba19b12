package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/voxvault/voxvault/web/service"
)

// UsageController exposes the usage-statistics API.
type UsageController struct {
	BaseController

	usageService *service.UsageService
}

func NewUsageController(g *gin.RouterGroup, usageService *service.UsageService) *UsageController {
	a := &UsageController{usageService: usageService}
	a.initRouter(g)
	return a
}

func (a *UsageController) initRouter(g *gin.RouterGroup) {
	g.GET("/usage", a.usage)
}

func (a *UsageController) usage(c *gin.Context) {
	user := loginUser(c)
	if user == nil {
		return
	}

	view, err := a.usageService.GetAllTimeUsage(user.Id)
	if err != nil {
		jsonMsg(c, "get usage", err)
		return
	}
	jsonObj(c, view, nil)
}

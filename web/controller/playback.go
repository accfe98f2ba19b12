package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voxvault/voxvault/util/common"
	"github.com/voxvault/voxvault/web/service"
)

const defaultRecentLimit = 50

// PlaybackController exposes the playback-history API.
type PlaybackController struct {
	BaseController

	playbackService *service.PlaybackService
}

func NewPlaybackController(g *gin.RouterGroup, playbackService *service.PlaybackService) *PlaybackController {
	a := &PlaybackController{playbackService: playbackService}
	a.initRouter(g)
	return a
}

func (a *PlaybackController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/playback")

	g.POST("/:audioId", a.add)
	g.GET("/recent", a.recent)
	g.POST("/clear", a.clear)
}

func (a *PlaybackController) add(c *gin.Context) {
	user := loginUser(c)
	if user == nil {
		return
	}

	audioId, err := strconv.Atoi(c.Param("audioId"))
	if err != nil {
		jsonMsg(c, "log playback", common.WrapError(common.ErrValidation, "invalid audio id"))
		return
	}

	entry, err := a.playbackService.AddPlayback(user.Id, audioId)
	if err != nil {
		jsonMsg(c, "log playback", err)
		return
	}
	jsonObj(c, entry, nil)
}

func (a *PlaybackController) recent(c *gin.Context) {
	user := loginUser(c)
	if user == nil {
		return
	}

	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			jsonMsg(c, "playback history", common.WrapError(common.ErrValidation, "invalid limit"))
			return
		}
		limit = parsed
	}

	entries, err := a.playbackService.GetRecent(user.Id, limit)
	if err != nil {
		jsonMsg(c, "playback history", err)
		return
	}
	views, err := a.playbackService.Views(entries)
	if err != nil {
		jsonMsg(c, "playback history", err)
		return
	}
	jsonObj(c, views, nil)
}

func (a *PlaybackController) clear(c *gin.Context) {
	user := loginUser(c)
	if user == nil {
		return
	}
	jsonMsg(c, "clear playback history", a.playbackService.ClearUserHistory(user.Id))
}

package controller

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/voxvault/voxvault/database/model"
	"github.com/voxvault/voxvault/util/common"
	"github.com/voxvault/voxvault/web/entity"
	"github.com/voxvault/voxvault/web/service"
)

// costPerCharacter is the synthesis price applied when recording an
// artifact. Mirrors the per-character rate of the upstream TTS provider.
const costPerCharacter = 0.000015

const previewLength = 120

// SynthesizeForm carries the sanitized values recorded after a successful
// synthesis call. The audio bytes themselves are written by the synthesis
// layer; only their metadata enters the store.
type SynthesizeForm struct {
	Text        string  `json:"text" form:"text"`
	DisplayName string  `json:"displayName" form:"displayName"`
	Voice       string  `json:"voice" form:"voice"`
	Speed       float64 `json:"speed" form:"speed"`
	Category    string  `json:"category" form:"category"`
}

// UpdateAudioForm carries the two mutable fields.
type UpdateAudioForm struct {
	DisplayName *string `json:"displayName" form:"displayName"`
	Category    *string `json:"category" form:"category"`
}

// AudioController exposes the audio-artifact API.
type AudioController struct {
	BaseController

	audioService *service.AudioService
	usageService *service.UsageService
}

func NewAudioController(g *gin.RouterGroup, audioService *service.AudioService, usageService *service.UsageService) *AudioController {
	a := &AudioController{
		audioService: audioService,
		usageService: usageService,
	}
	a.initRouter(g)
	return a
}

func (a *AudioController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/audio")

	g.POST("/", a.synthesize)
	g.GET("/list", a.list)
	g.GET("/groups", a.groups)
	g.GET("/search", a.search)
	g.GET("/get/:id", a.get)
	g.POST("/update/:id", a.update)
	g.POST("/del/:id", a.del)
	g.POST("/restore/:id", a.restore)
	g.GET("/export", a.export)
}

// synthesize records a freshly synthesized artifact and its usage as the
// paired unit of work: artifact creation never counts without the matching
// stats update being requested alongside it.
func (a *AudioController) synthesize(c *gin.Context) {
	user := loginUser(c)
	if user == nil {
		return
	}

	var form SynthesizeForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, "record audio", common.WrapError(common.ErrValidation, "invalid form data"))
		return
	}

	text := strings.TrimSpace(form.Text)
	if text == "" {
		jsonMsg(c, "record audio", common.WrapError(common.ErrValidation, "text is required"))
		return
	}
	displayName := strings.TrimSpace(form.DisplayName)
	if displayName == "" {
		displayName = firstRunes(text, 40)
	}
	speed := form.Speed
	if speed == 0 {
		speed = 1.0
	}

	characters := int64(len([]rune(text)))
	cost := float64(characters) * costPerCharacter

	id, err := a.audioService.Create(service.CreateAudioParams{
		OwnerId:        user.Id,
		DisplayName:    displayName,
		Voice:          form.Voice,
		Speed:          speed,
		Category:       strings.TrimSpace(form.Category),
		TextPreview:    firstRunes(text, previewLength),
		CharacterCount: characters,
		Cost:           cost,
	})
	if err != nil {
		jsonMsg(c, "record audio", err)
		return
	}

	if err := a.usageService.UpdateStats(user.Id, characters, cost); err != nil {
		jsonMsg(c, "record usage", err)
		return
	}

	record, err := a.audioService.Get(id)
	if err != nil {
		jsonMsg(c, "record audio", err)
		return
	}
	jsonObj(c, entity.NewAudioView(record, false), nil)
}

func (a *AudioController) list(c *gin.Context) {
	user := loginUser(c)
	if user == nil {
		return
	}

	group := c.Query("group")
	var records []*model.AudioRecord
	var err error
	if group == "" {
		records, err = a.audioService.GetByOwner(user.Id)
	} else {
		records, err = a.audioService.GetByGroup(user.Id, group)
	}
	if err != nil {
		jsonMsg(c, "list audio", err)
		return
	}
	jsonObj(c, entity.NewAudioViews(records), nil)
}

func (a *AudioController) groups(c *gin.Context) {
	user := loginUser(c)
	if user == nil {
		return
	}

	groups, err := a.audioService.GetGroups(user.Id)
	if err != nil {
		jsonMsg(c, "list groups", err)
		return
	}
	jsonObj(c, groups, nil)
}

func (a *AudioController) search(c *gin.Context) {
	user := loginUser(c)
	if user == nil {
		return
	}

	records, err := a.audioService.Search(user.Id, c.Query("q"))
	if err != nil {
		jsonMsg(c, "search audio", err)
		return
	}
	jsonObj(c, entity.NewAudioViews(records), nil)
}

func (a *AudioController) get(c *gin.Context) {
	record, ok := a.fetchOwned(c)
	if !ok {
		return
	}
	withPreview := c.Query("preview") == "true"
	jsonObj(c, entity.NewAudioView(record, withPreview), nil)
}

func (a *AudioController) update(c *gin.Context) {
	record, ok := a.fetchOwned(c)
	if !ok {
		return
	}

	var form UpdateAudioForm
	if err := c.ShouldBind(&form); err != nil {
		jsonMsg(c, "update audio", common.WrapError(common.ErrValidation, "invalid form data"))
		return
	}

	fields := map[string]string{}
	if form.DisplayName != nil {
		fields["display_name"] = *form.DisplayName
	}
	if form.Category != nil {
		fields["category"] = *form.Category
	}
	jsonMsg(c, "update audio", a.audioService.Update(record.Id, fields))
}

func (a *AudioController) del(c *gin.Context) {
	record, ok := a.fetchOwned(c)
	if !ok {
		return
	}
	jsonMsg(c, "delete audio", a.audioService.SoftDelete(record.Id))
}

func (a *AudioController) restore(c *gin.Context) {
	record, ok := a.fetchOwned(c)
	if !ok {
		return
	}
	jsonMsg(c, "restore audio", a.audioService.Restore(record.Id))
}

func (a *AudioController) export(c *gin.Context) {
	user := loginUser(c)
	if user == nil {
		return
	}

	data, err := a.audioService.ExportLibrary(user.Id)
	if err != nil {
		jsonMsg(c, "export library", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="library.json"`)
	c.Data(200, "application/json", data)
}

// fetchOwned resolves the :id parameter to a record owned by the session
// user. Admins may act on any record.
func (a *AudioController) fetchOwned(c *gin.Context) (*model.AudioRecord, bool) {
	user := loginUser(c)
	if user == nil {
		return nil, false
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonMsg(c, "audio", common.WrapError(common.ErrValidation, "invalid id"))
		return nil, false
	}

	record, err := a.audioService.Get(id)
	if err != nil {
		jsonMsg(c, "audio", err)
		return nil, false
	}
	if record.UserId != user.Id && !user.IsAdmin {
		jsonMsg(c, "audio", common.WrapError(common.ErrNotFound, "audio record %d", id))
		return nil, false
	}
	return record, true
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

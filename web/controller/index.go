package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voxvault/voxvault/logger"
	"github.com/voxvault/voxvault/web/entity"
	"github.com/voxvault/voxvault/web/service"
	"github.com/voxvault/voxvault/web/session"
)

// LoginForm is the login request body.
type LoginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// RegisterForm is the account-creation request body.
type RegisterForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Email    string `json:"email" form:"email"`
}

// IndexController handles login, logout and registration.
type IndexController struct {
	BaseController

	userService *service.UserService
}

func NewIndexController(g *gin.RouterGroup, userService *service.UserService) *IndexController {
	a := &IndexController{userService: userService}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.POST("/login", a.login)
	g.POST("/register", a.register)
	g.GET("/logout", a.logout)
}

func (a *IndexController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, "invalid form data")
		return
	}
	if form.Username == "" {
		pureJsonMsg(c, http.StatusOK, false, "username is required")
		return
	}
	if form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, "password is required")
		return
	}

	user, err := a.userService.Authenticate(form.Username, form.Password)
	if err != nil {
		jsonMsg(c, "login", err)
		return
	}
	if user == nil {
		logger.Warningf("failed login attempt for %q, IP: %q", form.Username, getRemoteIp(c))
		pureJsonMsg(c, http.StatusOK, false, "wrong username or password")
		return
	}

	if err := session.SetLoginUser(c, user); err != nil {
		jsonMsg(c, "login", err)
		return
	}
	logger.Infof("%s logged in at %s", user.Username, time.Now().Format("2006-01-02 15:04:05"))
	jsonObj(c, entity.NewUserView(user), nil)
}

func (a *IndexController) register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, "invalid form data")
		return
	}

	user, err := a.userService.CreateUser(form.Username, form.Password, form.Email)
	if err != nil {
		jsonMsg(c, "register", err)
		return
	}
	jsonObj(c, entity.NewUserView(user), nil)
}

func (a *IndexController) logout(c *gin.Context) {
	user := session.GetLoginUser(c)
	if user != nil {
		logger.Infof("%s logged out", user.Username)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("clear session failed:", err)
	}
	jsonMsg(c, "logout", nil)
}

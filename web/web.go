// Package web provides the VoxVault web server: routing, sessions,
// compression and the background job scheduler.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/voxvault/voxvault/config"
	"github.com/voxvault/voxvault/logger"
	"github.com/voxvault/voxvault/util/random"
	"github.com/voxvault/voxvault/web/controller"
	"github.com/voxvault/voxvault/web/job"
	"github.com/voxvault/voxvault/web/middleware"
	"github.com/voxvault/voxvault/web/service"
)

// Server is the VoxVault web server. It owns the HTTP listener and the cron
// scheduler; the database handle is owned by the caller.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	db *gorm.DB

	index    *controller.IndexController
	audio    *controller.AudioController
	usage    *controller.UsageController
	playback *controller.PlaybackController
	server   *controller.ServerController

	userService     *service.UserService
	audioService    *service.AudioService
	usageService    *service.UsageService
	playbackService *service.PlaybackService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer(db *gorm.DB) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		db:     db,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	secret := config.GetSessionSecret()
	if secret == "" {
		// sessions won't survive a restart without a configured secret
		secret = random.Seq(32)
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   8 * 60 * 60,
		HttpOnly: true,
	})
	engine.Use(sessions.Sessions("voxvault", store))

	s.userService = service.NewUserService(s.db)
	s.audioService = service.NewAudioService(s.db)
	s.usageService = service.NewUsageService(s.db)
	s.playbackService = service.NewPlaybackService(s.db)

	root := engine.Group("/")
	s.index = controller.NewIndexController(root, s.userService)

	api := engine.Group("/api")
	api.Use(middleware.LoginRequired())
	s.audio = controller.NewAudioController(api, s.audioService, s.usageService)
	s.usage = controller.NewUsageController(api, s.usageService)
	s.playback = controller.NewPlaybackController(api, s.playbackService)
	s.server = controller.NewServerController(api, service.NewServerService(s.userService, s.audioService, s.playbackService))

	return engine, nil
}

func (s *Server) startJobs() {
	s.cron = cron.New()
	if _, err := s.cron.AddJob("@midnight", job.NewCheckpointJob(s.db)); err != nil {
		logger.Warning("schedule wal checkpoint job failed:", err)
	}
	if _, err := s.cron.AddJob("@daily", job.NewUsageSummaryJob(s.userService, s.audioService, s.usageService, s.playbackService)); err != nil {
		logger.Warning("schedule usage summary job failed:", err)
	}
	s.cron.Start()
}

// Start begins serving on the configured address.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			s.Stop()
		}
	}()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", config.GetListenAddr())
	if err != nil {
		return err
	}
	s.listener = listener

	s.startJobs()

	s.httpServer = &http.Server{
		Handler: engine,
	}

	go func() {
		if err := s.httpServer.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			logger.Error("web server error:", err)
		}
	}()

	logger.Infof("%s %s listening on %s", config.GetName(), config.GetVersion(), listener.Addr().String())
	return nil
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() error {
	s.cancel()

	if s.cron != nil {
		s.cron.Stop()
	}

	var err error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = s.httpServer.Shutdown(ctx)
	} else if s.listener != nil {
		err = s.listener.Close()
	}
	return err
}

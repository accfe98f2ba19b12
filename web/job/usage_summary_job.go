package job

import (
	"github.com/voxvault/voxvault/logger"
	"github.com/voxvault/voxvault/util/common"
	"github.com/voxvault/voxvault/web/service"
)

// UsageSummaryJob writes a daily one-line summary of the whole vault to the
// log so operators can follow growth without opening the panel.
type UsageSummaryJob struct {
	userService     *service.UserService
	audioService    *service.AudioService
	usageService    *service.UsageService
	playbackService *service.PlaybackService
}

func NewUsageSummaryJob(users *service.UserService, audio *service.AudioService, usage *service.UsageService, playback *service.PlaybackService) *UsageSummaryJob {
	return &UsageSummaryJob{
		userService:     users,
		audioService:    audio,
		usageService:    usage,
		playbackService: playback,
	}
}

func (j *UsageSummaryJob) Run() {
	defer common.Recover("usage summary job")

	users, err := j.userService.CountUsers()
	if err != nil {
		logger.Warning("usage summary:", err)
		return
	}
	records, err := j.audioService.CountRecords()
	if err != nil {
		logger.Warning("usage summary:", err)
		return
	}
	plays, err := j.playbackService.CountPlays()
	if err != nil {
		logger.Warning("usage summary:", err)
		return
	}
	characters, cost, files, err := j.usageService.GlobalTotals()
	if err != nil {
		logger.Warning("usage summary:", err)
		return
	}

	logger.Infof("vault summary: %d users, %d records, %d plays, %d files, %s characters, %s spent",
		users, records, plays, files, common.FormatCharacters(characters), common.FormatCost(cost))
}

package service

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/voxvault/voxvault/logger"
)

// Status is the host and library snapshot shown on the admin dashboard.
type Status struct {
	T        time.Time `json:"-"`
	Cpu      float64   `json:"cpu"`
	CpuCores int       `json:"cpuCores"`
	Mem      struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	Disk struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"disk"`
	Uptime uint64    `json:"uptime"`
	Loads  []float64 `json:"loads"`
	Vault  struct {
		Users   int64 `json:"users"`
		Records int64 `json:"records"`
		Plays   int64 `json:"plays"`
	} `json:"vault"`
	AppStats struct {
		Goroutines int    `json:"goroutines"`
		Mem        uint64 `json:"mem"`
	} `json:"appStats"`
}

// ServerService collects host metrics and library counters for the admin
// status endpoint.
type ServerService struct {
	userService     *UserService
	audioService    *AudioService
	playbackService *PlaybackService
}

func NewServerService(users *UserService, audio *AudioService, playback *PlaybackService) *ServerService {
	return &ServerService{
		userService:     users,
		audioService:    audio,
		playbackService: playback,
	}
}

// GetStatus gathers a point-in-time snapshot. Metric collection failures are
// logged and leave the affected field zeroed rather than failing the call.
func (s *ServerService) GetStatus() *Status {
	status := &Status{T: time.Now()}

	if percents, err := cpu.Percent(0, false); err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}
	if cores, err := cpu.Counts(false); err != nil {
		logger.Warning("get cpu cores failed:", err)
	} else {
		status.CpuCores = cores
	}

	if upTime, err := host.Uptime(); err != nil {
		logger.Warning("get uptime failed:", err)
	} else {
		status.Uptime = upTime
	}

	if memInfo, err := mem.VirtualMemory(); err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}

	if diskInfo, err := disk.Usage("/"); err != nil {
		logger.Warning("get disk usage failed:", err)
	} else {
		status.Disk.Current = diskInfo.Used
		status.Disk.Total = diskInfo.Total
	}

	if avgState, err := load.Avg(); err != nil {
		logger.Warning("get load avg failed:", err)
	} else {
		status.Loads = []float64{avgState.Load1, avgState.Load5, avgState.Load15}
	}

	if users, err := s.userService.CountUsers(); err == nil {
		status.Vault.Users = users
	}
	if records, err := s.audioService.CountRecords(); err == nil {
		status.Vault.Records = records
	}
	if plays, err := s.playbackService.CountPlays(); err == nil {
		status.Vault.Plays = plays
	}

	var rtm runtime.MemStats
	runtime.ReadMemStats(&rtm)
	status.AppStats.Goroutines = runtime.NumGoroutine()
	status.AppStats.Mem = rtm.Sys

	return status
}

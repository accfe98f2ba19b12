// Package config exposes build identity and environment-driven settings
// for the VoxVault panel.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("VV_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("VV_DEBUG") == "true"
}

func GetListenAddr() string {
	addr := os.Getenv("VV_LISTEN")
	if addr == "" {
		addr = ":8880"
	}
	return addr
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("VV_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/voxvault"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("VV_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

// GetSessionSecret returns the cookie-session signing key. An empty value
// makes the server generate a volatile one at startup.
func GetSessionSecret() string {
	return os.Getenv("VV_SESSION_SECRET")
}

// GetAdminPassword returns the password used when seeding the first admin
// account. Empty means a random one is generated and logged once.
func GetAdminPassword() string {
	return os.Getenv("VV_ADMIN_PASSWORD")
}

package common

import (
	"path/filepath"

	"github.com/20after4/configdir"
)

const AppName = "jukebox"

// ConfigDir holds config.toml.
func ConfigDir() string {
	return configdir.LocalConfig(AppName)
}

// CacheDir holds the log file and uploaded blobs.
func CacheDir() string {
	return configdir.LocalCache(AppName)
}

func UploadDir() string {
	return filepath.Join(CacheDir(), "uploads")
}

func LogFile() string {
	return filepath.Join(CacheDir(), AppName+".log")
}


package config

import (
	"github.com/fakalang/faka/pkg/storage/dbconfig"
)

// ApplicationConfiguration config specific to the faka tool.
type ApplicationConfiguration struct {
	// LogLevel is a zap logging level, "info" if empty.
	LogLevel string `yaml:"LogLevel"`
	// LogPath is a path to the log file, logs go to stderr if empty.
	LogPath string `yaml:"LogPath"`
	// DBConfiguration is the storage for shell snapshots.
	DBConfiguration dbconfig.DBConfiguration `yaml:"DBConfiguration"`
	Prometheus      BasicService             `yaml:"Prometheus"`
	Pprof           BasicService             `yaml:"Pprof"`
}

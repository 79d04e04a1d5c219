package buildinfo

import "time"

// Set via -ldflags at build time
var (
	Version    = "dev"
	BuildTime  string // when the binary was compiled
	CommitHash string // short git commit hash
)

// StartTime is recorded when the process starts
var StartTime = time.Now().UTC()

// Info returns build metadata and uptime for health reports
func Info(now time.Time) map[string]string {
	info := map[string]string{
		"version":    Version,
		"started_at": StartTime.Format(time.RFC3339),
		"uptime":     now.Sub(StartTime).Truncate(time.Second).String(),
	}
	if BuildTime != "" {
		info["build_time"] = BuildTime
	}
	if CommitHash != "" {
		info["commit"] = CommitHash
	}
	return info
}

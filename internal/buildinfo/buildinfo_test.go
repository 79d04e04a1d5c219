package buildinfo

import (
	"testing"
	"time"
)

func TestInfo(t *testing.T) {
	info := Info(StartTime.Add(90*time.Second + 300*time.Millisecond))
	if info["version"] != Version {
		t.Errorf("version = %q", info["version"])
	}
	if info["uptime"] != "1m30s" {
		t.Errorf("uptime = %q", info["uptime"])
	}
	if _, ok := info["commit"]; ok && CommitHash == "" {
		t.Error("commit should be omitted when unset")
	}
}

package version

import (
	"runtime/debug"
	"testing"
)

func TestResolve_NoBuildInfo(t *testing.T) {
	info := resolve("", "", nil)
	if info.Version != "dev" || info.String() != "dev" {
		t.Errorf("expected dev, got %+v", info)
	}
}

func TestResolve_LinkTimeWins(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Main:      debug.Module{Version: "v0.9.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "ffffffffffffffff"},
		},
	}
	info := resolve("1.2.0", "abcdef0123", bi)
	if info.Version != "1.2.0" {
		t.Errorf("expected link-time version, got %q", info.Version)
	}
	if info.GitCommit != "abcdef0" {
		t.Errorf("expected truncated link-time commit, got %q", info.GitCommit)
	}
	if info.GoVersion != "go1.26.0" {
		t.Errorf("unexpected go version %q", info.GoVersion)
	}
}

func TestResolve_FromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.9.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	info := resolve("dev", "", bi)
	if got := info.String(); got != "0.9.0-0123456-dirty" {
		t.Errorf("expected 0.9.0-0123456-dirty, got %q", got)
	}
}

func TestResolve_DevelModule(t *testing.T) {
	info := resolve("dev", "", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if info.Version != "dev" {
		t.Errorf("expected dev, got %q", info.Version)
	}
}

func TestShort(t *testing.T) {
	if Short() == "" {
		t.Error("Short must never be empty")
	}
}

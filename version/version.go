package version

import (
	"runtime/debug"
	"sync"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/kbukum/rxhttp/version.Version=v1.4.0"
var (
	Version   = "dev"
	GitCommit = ""
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	IsDirty   bool   `json:"is_dirty"`
}

var readBuildInfo = sync.OnceValues(debug.ReadBuildInfo)

// Get returns the build information, filling the commit from the module's
// VCS stamp when it was not set through ldflags.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit}
	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.modified":
			info.IsDirty = s.Value == "true"
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// Short returns "<version>[-<commit>][-dirty]".
func (i Info) Short() string {
	s := i.Version
	if i.GitCommit != "" {
		s += "-" + i.GitCommit
	}
	if i.IsDirty {
		s += "-dirty"
	}
	return s
}

// UserAgent is the User-Agent the HTTP adapter sends when the request does
// not set one.
func UserAgent() string {
	return "rxhttp/" + Get().Short()
}

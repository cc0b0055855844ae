package buildinfo

import (
	"fmt"
	"runtime"
)

// set via -ldflags at build time
var (
	Version    = "v0.1.0"
	CommitHash = "unknown"
)

type Info struct {
	About      string `json:"about,omitempty" yaml:"about,omitempty"`
	Service    string `json:"service,omitempty" yaml:"service,omitempty"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
	CommitHash string `json:"commit_hash,omitempty" yaml:"commit_hash,omitempty"`
	GoVersion  string `json:"go_version,omitempty" yaml:"go_version,omitempty"`
	Platform   string `json:"platform,omitempty" yaml:"platform,omitempty"`
}

func GetBuildInfo() Info {
	return Info{
		About:      "https://github.com/darmiel/cftools",
		Service:    "cftools",
		Version:    Version,
		CommitHash: CommitHash,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// UserAgent is sent with every API request.
func UserAgent() string {
	return fmt.Sprintf("cftools-go/%s (+%s; %s)", Version, GetBuildInfo().About, CommitHash)
}

// Package buildinfo holds build metadata set with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/dmitrijs2005/jobhub/internal/buildinfo.Version=v1.2.0"
package buildinfo

import (
	"fmt"
	"io"
	"runtime"
)

var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// PrintBuildData writes version, date and commit to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}

// UserAgent identifies the client on outbound requests.
func UserAgent() string {
	return fmt.Sprintf("jobhub-cli/%s (%s; %s)", Version, Commit, runtime.Version())
}

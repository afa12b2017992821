package cli

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/urfave/cli/v3"
)

var (
	// Version is the release version of syncctl.
	Version = "N/A"
	// Commit is the git commit hash.
	Commit = "N/A"
	// BuildDate is the date and time of the build.
	BuildDate = "N/A"
)

// SetBuildInfo records the values injected at link time. Empty values keep
// their "N/A" default.
func SetBuildInfo(version, date, commit string) {
	Version = valueOrNA(version)
	BuildDate = valueOrNA(date)
	Commit = valueOrNA(commit)
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "N/A"
	}
	return v
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Display version and build information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p := newPrinter(cmd)
			p.line(titleStyle, "syncctl version "+Version)
			p.line(faintStyle, "  commit: "+Commit)
			p.line(faintStyle, "  built: "+BuildDate)
			p.line(faintStyle, fmt.Sprintf("  go: %s", runtime.Version()))
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/resource-sync/internal/cli"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	cli.SetBuildInfo(buildVersion, buildDate, buildCommit)

	if err := cli.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "syncctl:", err)
		os.Exit(1)
	}
}

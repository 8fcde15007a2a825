package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

type VersionInfo struct {
	Version string
	Commit  string
}

var current = VersionInfo{Version: "unknown", Commit: "unknown"}

func setVersionInfo(info VersionInfo) {
	current = info
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of photolio",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "photolio %s (commit %s, %s %s/%s)\n",
				current.Version, current.Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

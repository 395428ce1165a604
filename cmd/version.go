package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/danmalone/pagemeta/cmd.version=..." at release.
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pagemeta version and build details",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		printVersion(cmd.OutOrStdout(), buildVersion())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// buildVersion prefers the ldflags value and falls back to the module
// version recorded by `go install`.
func buildVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

func printVersion(w io.Writer, v string) {
	fmt.Fprintf(w, "pagemeta %s\n", v)
	if commit != "" {
		fmt.Fprintf(w, "  commit:  %s\n", commit)
	}
	if buildDate != "" {
		fmt.Fprintf(w, "  built:   %s\n", buildDate)
	}
	fmt.Fprintf(w, "  go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

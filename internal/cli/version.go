package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version information for doomsdayd including build details and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "doomsdayd version %s\n", Version)
			fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			if info, ok := debug.ReadBuildInfo(); ok {
				for _, s := range info.Settings {
					switch s.Key {
					case "vcs.revision", "vcs.time", "vcs.modified":
						fmt.Fprintf(w, "%s: %s\n", s.Key, s.Value)
					}
				}
			}
			fmt.Fprintf(w, "Operations: %d registered\n", len(tx.RegisteredTypes()))
		},
	}
}

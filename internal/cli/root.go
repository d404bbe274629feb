package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0-dev"

// options holds the persistent flags shared by every command.
type options struct {
	configFile  string
	envFile     string
	debug       bool
	verbose     bool
	quiet       bool
	keyFile     string
	now         string
	metricsAddr string
}

// NewRootCommand builds the doomsdayd command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "doomsdayd",
		Short: "goDoomsday - DOOM/LIFE liquidity pool and prediction markets",
		Long: `doomsdayd operates a DOOM/LIFE constant-product liquidity pool and
binary prediction markets settled pari-mutuel in the opposite token.

Operations are signed with the operator key (--key or key_file) and applied
to the local ledger. Every submitted operation is recorded in the journal.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "conf", "", "configuration file path (default doomsday.toml)")
	flags.StringVar(&opts.envFile, "env", "", "dotenv file path (default .env)")
	flags.BoolVar(&opts.debug, "debug", false, "enable normally suppressed debug logging")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only log errors")
	flags.StringVar(&opts.keyFile, "key", "", "file holding the hex secret that signs operations")
	flags.StringVar(&opts.now, "now", "", "apply operations at this time (RFC 3339 or unix seconds)")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while the command runs")

	rootCmd.AddCommand(
		newPlatformCmd(opts),
		newPoolCmd(opts),
		newEventCmd(opts),
		newBetCmd(opts),
		newStatsCmd(opts),
		newTokenCmd(opts),
		newKeysCmd(opts),
		newJournalCmd(opts),
		newReplayCmd(opts),
		newConfigCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

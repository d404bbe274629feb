package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/LeJamon/goDoomsday/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write or inspect the node configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init DIR",
		Short: "Write an example doomsday.toml into DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := config.ConfigPathsFromDir(args[0])
			if _, err := os.Stat(paths.Main); err == nil && !force {
				return fmt.Errorf("%s already exists, pass --force to overwrite", paths.Main)
			}
			if err := os.MkdirAll(filepath.Dir(paths.Main), 0o755); err != nil {
				return err
			}
			if err := config.SaveExampleConfig(paths.Main); err != nil {
				return err
			}
			if _, err := config.LoadConfigFromDir(args[0]); err != nil {
				return fmt.Errorf("example config does not load: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", paths.Main)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := config.DefaultConfigPaths()
			if opts.configFile != "" {
				paths.Main = opts.configFile
			}
			if opts.envFile != "" {
				paths.Env = opts.envFile
			}
			cfg, err := config.LoadConfig(paths)
			if err != nil {
				return err
			}
			source := cfg.GetConfigPath()
			if source == "" {
				source = "(defaults)"
			}
			journalDriver := cfg.Journal.Driver
			if !cfg.Journal.IsEnabled() {
				journalDriver = "none"
			}
			return printFields(cmd.OutOrStdout(), [][2]string{
				{"config file", source},
				{"env file", cfg.GetEnvPath()},
				{"storage backend", cfg.Storage.Backend},
				{"storage path", cfg.Storage.Path},
				{"persistent", strconv.FormatBool(cfg.IsPersistent())},
				{"compression", cfg.Storage.Compression},
				{"journal driver", journalDriver},
				{"journal dsn", cfg.Journal.DSN},
				{"log level", cfg.Log.Level},
				{"metrics addr", cfg.Metrics.Addr},
				{"key file", cfg.KeyFile},
			})
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

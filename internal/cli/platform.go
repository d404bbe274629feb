package cli

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/core/tx/platform"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/spf13/cobra"
)

func newPlatformCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "platform",
		Short: "Platform configuration",
	}

	var (
		feeBps   uint16
		doomMint string
		lifeMint string
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the platform; the signer becomes authority and oracle",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			doom, err := parseMint(doomMint)
			if err != nil {
				return err
			}
			life, err := parseMint(lifeMint)
			if err != nil {
				return err
			}
			_, err = a.submit(&platform.InitializePlatform{FeeBps: feeBps, DoomMint: doom, LifeMint: life})
			return err
		}),
	}
	initCmd.Flags().Uint16Var(&feeBps, "fee-bps", 200, "fee on winnings in basis points")
	initCmd.Flags().StringVar(&doomMint, "doom-mint", "DOOM", "DOOM mint address or name")
	initCmd.Flags().StringVar(&lifeMint, "life-mint", "LIFE", "LIFE mint address or name")

	var (
		newFee    uint16
		newOracle string
		paused    bool
	)
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Change the fee, the oracle or the paused flag",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			op := &platform.UpdatePlatform{}
			if cmd.Flags().Changed("fee-bps") {
				op.FeeBps = &newFee
			}
			if cmd.Flags().Changed("oracle") {
				id, err := parseAccount(newOracle)
				if err != nil {
					return err
				}
				op.Oracle = &id
			}
			if cmd.Flags().Changed("paused") {
				op.Paused = &paused
			}
			_, err := a.submit(op)
			return err
		}),
	}
	updateCmd.Flags().Uint16Var(&newFee, "fee-bps", 0, "new fee in basis points")
	updateCmd.Flags().StringVar(&newOracle, "oracle", "", "new oracle account")
	updateCmd.Flags().BoolVar(&paused, "paused", false, "pause or unpause betting")

	var upDoom, upLife string
	upgradeCmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Rewrite a legacy platform record in the current schema",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			doom, err := parseMint(upDoom)
			if err != nil {
				return err
			}
			life, err := parseMint(upLife)
			if err != nil {
				return err
			}
			_, err = a.submit(&platform.UpgradePlatform{DoomMint: doom, LifeMint: life})
			return err
		}),
	}
	upgradeCmd.Flags().StringVar(&upDoom, "doom-mint", "DOOM", "DOOM mint address or name")
	upgradeCmd.Flags().StringVar(&upLife, "life-mint", "LIFE", "LIFE mint address or name")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the platform configuration",
		Args:  cobra.NoArgs,
		RunE:  withApp(opts, runPlatformShow),
	}

	cmd.AddCommand(initCmd, updateCmd, upgradeCmd, showCmd)
	return cmd
}

func runPlatformShow(cmd *cobra.Command, args []string, a *app) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	cfg, err := platform.Load(store)
	if errors.Is(err, platform.ErrLegacySchema) {
		return fmt.Errorf("%w: run 'platform upgrade'", err)
	}
	if err != nil {
		return err
	}
	if cfg == nil {
		return fmt.Errorf("platform is not initialized")
	}
	return printFields(a.out, [][2]string{
		{"authority", cfg.Authority.String()},
		{"oracle", cfg.Oracle.String()},
		{"doom mint", cfg.DoomMint.String()},
		{"life mint", cfg.LifeMint.String()},
		{"fee", bpsPercent(uint64(cfg.FeeBps))},
		{"paused", fmt.Sprint(cfg.Paused)},
		{"fees DOOM", fmt.Sprint(cfg.TotalDoomFees)},
		{"fees LIFE", fmt.Sprint(cfg.TotalLifeFees)},
		{"fee account DOOM", platform.FeeAccount(types.SideDoom).String()},
		{"fee account LIFE", platform.FeeAccount(types.SideLife).String()},
		{"events", fmt.Sprint(cfg.TotalEvents)},
		{"bets", fmt.Sprint(cfg.TotalBets)},
	})
}

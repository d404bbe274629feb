package cli

import (
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/core/tx/amm"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/spf13/cobra"
)

func newPoolCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "DOOM/LIFE liquidity pool",
	}

	var doomMint, lifeMint string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the pool and its LP mint",
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
			_, err = a.submit(&amm.InitializePool{DoomMint: doom, LifeMint: life})
			return err
		}),
	}
	initCmd.Flags().StringVar(&doomMint, "doom-mint", "DOOM", "DOOM mint address or name")
	initCmd.Flags().StringVar(&lifeMint, "life-mint", "LIFE", "LIFE mint address or name")

	var minLP uint64
	addCmd := &cobra.Command{
		Use:   "add DOOM LIFE",
		Short: "Deposit both tokens for LP shares",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			doom, err := parseUint("DOOM amount", args[0])
			if err != nil {
				return err
			}
			life, err := parseUint("LIFE amount", args[1])
			if err != nil {
				return err
			}
			_, err = a.submit(&amm.AddLiquidity{AmountDoom: doom, AmountLife: life, MinLP: minLP})
			return err
		}),
	}
	addCmd.Flags().Uint64Var(&minLP, "min-lp", 0, "fail if fewer LP shares would be minted")

	var minDoom, minLife uint64
	removeCmd := &cobra.Command{
		Use:   "remove LP",
		Short: "Burn LP shares for the proportional reserves",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			lp, err := parseUint("LP amount", args[0])
			if err != nil {
				return err
			}
			_, err = a.submit(&amm.RemoveLiquidity{LPAmount: lp, MinDoom: minDoom, MinLife: minLife})
			return err
		}),
	}
	removeCmd.Flags().Uint64Var(&minDoom, "min-doom", 0, "fail if less DOOM would be returned")
	removeCmd.Flags().Uint64Var(&minLife, "min-life", 0, "fail if less LIFE would be returned")

	var minOut uint64
	swapCmd := &cobra.Command{
		Use:   "swap AMOUNT DIRECTION",
		Short: "Swap along doom-to-life or life-to-doom",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			in, err := parseUint("amount", args[0])
			if err != nil {
				return err
			}
			dir, err := types.ParseDirection(args[1])
			if err != nil {
				return err
			}
			_, err = a.submit(&amm.Swap{AmountIn: in, MinAmountOut: minOut, Direction: dir})
			return err
		}),
	}
	swapCmd.Flags().Uint64Var(&minOut, "min-out", 0, "fail if less would be received")

	quoteCmd := &cobra.Command{
		Use:   "quote AMOUNT DIRECTION",
		Short: "Price a swap without applying it",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			in, err := parseUint("amount", args[0])
			if err != nil {
				return err
			}
			dir, err := types.ParseDirection(args[1])
			if err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			out, err := amm.Quote(store, in, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%d %s -> %d %s (fee %d, rate %s)\n",
				in, dir.In(), out, dir.Out(), amm.SwapFee(in), ratio(out, in))
			return nil
		}),
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print reserves, LP supply and price",
		Args:  cobra.NoArgs,
		RunE:  withApp(opts, runPoolShow),
	}

	cmd.AddCommand(initCmd, addCmd, removeCmd, swapCmd, quoteCmd, showCmd)
	return cmd
}

func runPoolShow(cmd *cobra.Command, args []string, a *app) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	p, err := amm.Load(store)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("pool is not initialized")
	}
	return printFields(a.out, [][2]string{
		{"doom mint", p.DoomMint.String()},
		{"life mint", p.LifeMint.String()},
		{"lp mint", p.LPMint.String()},
		{"DOOM reserve", fmt.Sprint(p.DoomReserve)},
		{"LIFE reserve", fmt.Sprint(p.LifeReserve)},
		{"LP supply", fmt.Sprint(p.LPSupply)},
		{"LIFE per DOOM", ratio(p.LifeReserve, p.DoomReserve)},
		{"DOOM per LIFE", ratio(p.DoomReserve, p.LifeReserve)},
		{"fees DOOM", fmt.Sprint(p.TotalFeesDoom)},
		{"fees LIFE", fmt.Sprint(p.TotalFeesLife)},
		{"authority", p.Authority.String()},
	})
}

package cli

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/core/tx/platform"
	"github.com/LeJamon/goDoomsday/internal/core/tx/prediction"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/spf13/cobra"
)

func newBetCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bet",
		Short: "Bets on prediction events",
	}

	placeCmd := &cobra.Command{
		Use:   "place ID SIDE AMOUNT",
		Short: "Stake DOOM or LIFE on an event",
		Args:  cobra.ExactArgs(3),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseUint("event id", args[0])
			if err != nil {
				return err
			}
			side, err := types.ParseSide(args[1])
			if err != nil {
				return err
			}
			amount, err := parseUint("amount", args[2])
			if err != nil {
				return err
			}
			_, err = a.submit(&prediction.PlaceBet{EventID: id, Side: side, Amount: amount})
			return err
		}),
	}

	claimCmd := &cobra.Command{
		Use:   "claim ID",
		Short: "Claim the winnings of a bet on a resolved event",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseUint("event id", args[0])
			if err != nil {
				return err
			}
			_, err = a.submit(&prediction.ClaimWinnings{EventID: id})
			return err
		}),
	}

	refundCmd := &cobra.Command{
		Use:   "refund ID",
		Short: "Reclaim the stake of a bet on a cancelled event",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseUint("event id", args[0])
			if err != nil {
				return err
			}
			_, err = a.submit(&prediction.ClaimRefund{EventID: id})
			return err
		}),
	}

	lossCmd := &cobra.Command{
		Use:   "record-loss ID USER",
		Short: "Record a losing bet in the user's statistics",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseUint("event id", args[0])
			if err != nil {
				return err
			}
			user, err := parseAccount(args[1])
			if err != nil {
				return err
			}
			_, err = a.submit(&prediction.RecordLoss{EventID: id, User: user})
			return err
		}),
	}

	showCmd := &cobra.Command{
		Use:   "show ID [USER]",
		Short: "Print a bet and what it can claim; USER defaults to the key account",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  withApp(opts, runBetShow),
	}

	cmd.AddCommand(placeCmd, claimCmd, refundCmd, lossCmd, showCmd)
	return cmd
}

// userArg returns the account in args[i], or the key account when absent.
func userArg(a *app, args []string, i int) (types.AccountID, error) {
	if len(args) > i {
		return parseAccount(args[i])
	}
	k, err := a.key()
	if err != nil {
		return types.ZeroAccount, err
	}
	defer k.Zero()
	return k.AccountID(), nil
}

func runBetShow(cmd *cobra.Command, args []string, a *app) error {
	ev, err := loadEvent(a, args[0])
	if err != nil {
		return err
	}
	user, err := userArg(a, args, 1)
	if err != nil {
		return err
	}
	store, err := a.store()
	if err != nil {
		return err
	}
	b, err := prediction.LoadBet(store, ev.ID, user)
	if err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("no bet by %s on event %d", user, ev.ID)
	}

	rows := [][2]string{
		{"event", fmt.Sprint(b.EventID)},
		{"user", b.User.String()},
		{"side", b.Side.String()},
		{"amount", fmt.Sprint(b.Amount)},
		{"placed", formatUnix(b.PlacedAt)},
		{"claimed", fmt.Sprint(b.Claimed)},
		{"refunded", fmt.Sprint(b.Refunded)},
		{"loss recorded", fmt.Sprint(b.LossRecorded)},
	}

	switch ev.Status {
	case prediction.StatusResolved:
		cfg, err := platform.Load(store)
		if err != nil {
			return err
		}
		if cfg == nil {
			break
		}
		p, err := prediction.PayoutFor(ev, b, cfg.FeeBps)
		switch {
		case errors.Is(err, prediction.ErrNoWinnings):
			rows = append(rows, [2]string{"result", "lost"})
		case err != nil:
			return err
		default:
			rows = append(rows,
				[2]string{"stake returned", fmt.Sprintf("%d %s", b.Amount, b.Side)},
				[2]string{"share", fmt.Sprintf("%d %s", p.Share, b.Side.Opposite())},
				[2]string{"fee", fmt.Sprintf("%d %s", p.Fee, b.Side.Opposite())},
			)
		}
	case prediction.StatusCancelled:
		rows = append(rows, [2]string{"refundable", fmt.Sprint(prediction.RefundAmount(ev, b))})
	}
	return printFields(a.out, rows)
}

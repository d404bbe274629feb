package cli

import (
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/core/tx/stats"
	"github.com/spf13/cobra"
)

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [USER]",
		Short: "Print betting statistics; USER defaults to the key account",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			user, err := userArg(a, args, 0)
			if err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			s, err := stats.Load(store, user)
			if err != nil {
				return err
			}
			if s == nil {
				s = stats.New(user)
			}
			return printFields(a.out, [][2]string{
				{"user", s.User.String()},
				{"bets", fmt.Sprint(s.TotalBets)},
				{"wins", fmt.Sprint(s.Wins)},
				{"losses", fmt.Sprint(s.Losses)},
				{"win rate", bpsPercent(s.WinRate())},
				{"wagered", fmt.Sprint(s.TotalWagered)},
				{"won", fmt.Sprint(s.TotalWon)},
				{"lost", fmt.Sprint(s.TotalLost)},
				{"net profit", fmt.Sprint(s.NetProfit)},
				{"events created", fmt.Sprint(s.EventsCreated)},
				{"first bet", formatUnix(s.FirstBetAt)},
				{"last bet", formatUnix(s.LastBetAt)},
				{"streak", fmt.Sprint(s.CurrentStreak)},
				{"best streak", fmt.Sprint(s.BestStreak)},
				{"worst streak", fmt.Sprint(s.WorstStreak)},
			})
		}),
	}
}

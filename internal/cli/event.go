package cli

import (
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/core/tx/prediction"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newEventCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Prediction events",
	}

	var (
		title       string
		description string
		deadline    string
		resolveBy   string
	)
	createCmd := &cobra.Command{
		Use:   "create ID",
		Short: "Create an event open for betting until its deadline",
		Long: `Create an event. Deadlines accept unix seconds, RFC 3339 or a duration
relative to the current clock such as +24h.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseUint("event id", args[0])
			if err != nil {
				return err
			}
			now := a.clock.Now()
			dl, err := parseTime(deadline, now)
			if err != nil {
				return fmt.Errorf("--deadline: %w", err)
			}
			rd, err := parseTime(resolveBy, dl)
			if err != nil {
				return fmt.Errorf("--resolution-deadline: %w", err)
			}
			_, err = a.submit(&prediction.CreateEvent{
				EventID:            id,
				Title:              title,
				Description:        description,
				Deadline:           dl.Unix(),
				ResolutionDeadline: rd.Unix(),
			})
			return err
		}),
	}
	createCmd.Flags().StringVar(&title, "title", "", "event title")
	createCmd.Flags().StringVar(&description, "description", "", "event description")
	createCmd.Flags().StringVar(&deadline, "deadline", "+24h", "betting deadline")
	createCmd.Flags().StringVar(&resolveBy, "resolution-deadline", "+168h", "resolution deadline, relative values count from the betting deadline")
	_ = createCmd.MarkFlagRequired("title")
	_ = createCmd.MarkFlagRequired("description")

	resolveCmd := &cobra.Command{
		Use:   "resolve ID OUTCOME",
		Short: "Resolve an event as doom or life (oracle only)",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseUint("event id", args[0])
			if err != nil {
				return err
			}
			outcome, err := types.ParseOutcome(args[1])
			if err != nil {
				return err
			}
			_, err = a.submit(&prediction.ResolveEvent{EventID: id, Outcome: outcome})
			return err
		}),
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel an active event so bettors can reclaim their stakes",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseUint("event id", args[0])
			if err != nil {
				return err
			}
			_, err = a.submit(&prediction.CancelEvent{EventID: id})
			return err
		}),
	}

	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print an event with its pools and odds",
		Args:  cobra.ExactArgs(1),
		RunE:  withApp(opts, runEventShow),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every event",
		Args:  cobra.NoArgs,
		RunE:  withApp(opts, runEventList),
	}

	betsCmd := &cobra.Command{
		Use:   "bets ID",
		Short: "List the bets placed on an event",
		Args:  cobra.ExactArgs(1),
		RunE:  withApp(opts, runEventBets),
	}

	cmd.AddCommand(createCmd, resolveCmd, cancelCmd, showCmd, listCmd, betsCmd)
	return cmd
}

func loadEvent(a *app, arg string) (*prediction.Event, error) {
	id, err := parseUint("event id", arg)
	if err != nil {
		return nil, err
	}
	store, err := a.store()
	if err != nil {
		return nil, err
	}
	ev, err := prediction.LoadEvent(store, id)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, fmt.Errorf("event %d not found", id)
	}
	return ev, nil
}

func runEventShow(cmd *cobra.Command, args []string, a *app) error {
	ev, err := loadEvent(a, args[0])
	if err != nil {
		return err
	}
	doomOdds, lifeOdds := ev.Odds()
	return printFields(a.out, [][2]string{
		{"id", fmt.Sprint(ev.ID)},
		{"title", ev.Title},
		{"description", ev.Description},
		{"creator", ev.Creator.String()},
		{"status", ev.Status.String()},
		{"outcome", ev.Outcome.String()},
		{"deadline", formatUnix(ev.Deadline)},
		{"resolution deadline", formatUnix(ev.ResolutionDeadline)},
		{"betting open", fmt.Sprint(ev.IsBettingOpen(a.clock.Now().Unix()))},
		{"DOOM pool", fmt.Sprint(ev.DoomPool)},
		{"LIFE pool", fmt.Sprint(ev.LifePool)},
		{"DOOM odds", bpsPercent(doomOdds)},
		{"LIFE odds", bpsPercent(lifeOdds)},
		{"bettors", fmt.Sprint(ev.TotalBettors)},
		{"created", formatUnix(ev.CreatedAt)},
		{"resolved", formatUnix(ev.ResolvedAt)},
	})
}

func runEventList(cmd *cobra.Command, args []string, a *app) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	events, err := prediction.ListEvents(store)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(a.out)
	table.Header("ID", "Title", "Status", "Outcome", "Deadline", "DOOM", "LIFE", "Bettors")
	for _, ev := range events {
		err := table.Append(
			fmt.Sprint(ev.ID),
			ev.Title,
			ev.Status.String(),
			ev.Outcome.String(),
			formatUnix(ev.Deadline),
			fmt.Sprint(ev.DoomPool),
			fmt.Sprint(ev.LifePool),
			fmt.Sprint(ev.TotalBettors),
		)
		if err != nil {
			return err
		}
	}
	return table.Render()
}

func runEventBets(cmd *cobra.Command, args []string, a *app) error {
	ev, err := loadEvent(a, args[0])
	if err != nil {
		return err
	}
	store, err := a.store()
	if err != nil {
		return err
	}
	bets, err := prediction.ListBets(store, ev.ID)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(a.out)
	table.Header("User", "Side", "Amount", "Placed", "Claimed", "Refunded", "Loss")
	for _, b := range bets {
		err := table.Append(
			b.User.String(),
			b.Side.String(),
			fmt.Sprint(b.Amount),
			formatUnix(b.PlacedAt),
			fmt.Sprint(b.Claimed),
			fmt.Sprint(b.Refunded),
			fmt.Sprint(b.LossRecorded),
		)
		if err != nil {
			return err
		}
	}
	return table.Render()
}

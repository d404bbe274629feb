package cli

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/state"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/storage/journal"
	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb/memory"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ErrJournalDisabled is returned by journal commands when journal.driver is none.
var ErrJournalDisabled = errors.New("journal is disabled")

func newJournalCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect and verify the operation journal",
	}

	var (
		fromSeq uint64
		opName  string
		caller  string
		applied bool
		limit   int
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled operations in sequence order",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			j, err := openJournal(a)
			if err != nil {
				return err
			}
			f := journal.Filter{FromSeq: fromSeq, AppliedOnly: applied, Limit: limit}
			if opName != "" {
				t, ok := tx.TypeFromName(opName)
				if !ok {
					return fmt.Errorf("unknown operation %q", opName)
				}
				f.Type = t
			}
			if caller != "" {
				if f.Caller, err = parseAccount(caller); err != nil {
					return err
				}
			}
			entries, err := j.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(a.out)
			table.Header("Seq", "Operation", "Caller", "Result", "Applied At", "ID")
			for _, e := range entries {
				err := table.Append(
					fmt.Sprint(e.Seq),
					e.Type.String(),
					e.Caller.String(),
					e.Result.String(),
					e.AppliedAt.Format(time.RFC3339),
					e.ID.String(),
				)
				if err != nil {
					return err
				}
			}
			return table.Render()
		}),
	}
	listCmd.Flags().Uint64Var(&fromSeq, "from", 0, "first sequence number")
	listCmd.Flags().StringVar(&opName, "type", "", "only this operation, e.g. place_bet")
	listCmd.Flags().StringVar(&caller, "caller", "", "only operations signed by this account")
	listCmd.Flags().BoolVar(&applied, "applied", false, "only operations that succeeded")
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of entries")

	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print one journal entry with its decoded operation",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid entry id %q: %w", args[0], err)
			}
			j, err := openJournal(a)
			if err != nil {
				return err
			}
			e, err := j.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			op, err := e.Operation()
			if err != nil {
				return err
			}
			fields, err := yaml.Marshal(op)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "id:         %s\n", e.ID)
			fmt.Fprintf(a.out, "seq:        %d\n", e.Seq)
			fmt.Fprintf(a.out, "operation:  %s\n", e.Type)
			fmt.Fprintf(a.out, "caller:     %s\n", e.Caller)
			fmt.Fprintf(a.out, "result:     %s\n", e.Result)
			fmt.Fprintf(a.out, "applied at: %s\n", e.AppliedAt.Format(time.RFC3339Nano))
			fmt.Fprintf(a.out, "payload:    %s\n", hex.EncodeToString(e.Payload))
			fmt.Fprintf(a.out, "fields:\n%s", indent(string(fields)))
			return nil
		}),
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Replay the journal on an empty ledger and compare with the stored state",
		Args:  cobra.NoArgs,
		RunE:  withApp(opts, runJournalVerify),
	}

	cmd.AddCommand(listCmd, showCmd, verifyCmd)
	return cmd
}

func openJournal(a *app) (*journal.Journal, error) {
	j, err := a.provider.GetJournal()
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrJournalDisabled
	}
	return j, nil
}

func runJournalVerify(cmd *cobra.Command, args []string, a *app) error {
	j, err := openJournal(a)
	if err != nil {
		return err
	}
	entries, err := j.List(cmd.Context(), journal.Filter{})
	if err != nil {
		return err
	}

	replayed, err := state.NewStore(memory.NewDB(), state.Options{Logger: a.logger})
	if err != nil {
		return err
	}
	tokens, err := a.provider.GetTokenFactory()
	if err != nil {
		return err
	}
	report, err := journal.Replay(cmd.Context(), entries, replayed, tokens, a.logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "replayed %d operations, %d applied\n", report.Replayed, report.Applied)
	for _, m := range report.Mismatches {
		fmt.Fprintf(a.out, "  %s\n", m)
	}

	stored, err := a.store()
	if err != nil {
		return err
	}
	diff, err := journal.DiffState(stored, replayed)
	if err != nil {
		return err
	}
	for _, key := range diff {
		fmt.Fprintf(a.out, "  state differs at %s\n", hex.EncodeToString(key[:]))
	}

	if !report.OK() || len(diff) > 0 {
		return fmt.Errorf("journal does not reproduce the ledger: %d result mismatches, %d differing entries",
			len(report.Mismatches), len(diff))
	}
	fmt.Fprintln(a.out, "ledger state matches the journal")
	return nil
}

func indent(s string) string {
	out := make([]byte, 0, len(s)+16)
	start := true
	for i := 0; i < len(s); i++ {
		if start {
			out = append(out, ' ', ' ')
		}
		out = append(out, s[i])
		start = s[i] == '\n'
	}
	return string(out)
}

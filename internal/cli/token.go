package cli

import (
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/core/tx/token"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newTokenCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Token mints and balances",
	}

	createCmd := &cobra.Command{
		Use:   "create-mint NAME",
		Short: "Create a named mint; the signer becomes its authority",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			_, err := a.submit(&token.CreateMint{Name: args[0]})
			if err == nil {
				mint, _ := parseMint(args[0])
				fmt.Fprintf(a.out, "mint %s\n", mint)
			}
			return err
		}),
	}

	issueCmd := &cobra.Command{
		Use:   "issue MINT TO AMOUNT",
		Short: "Issue new tokens (mint authority only)",
		Args:  cobra.ExactArgs(3),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			mint, err := parseMint(args[0])
			if err != nil {
				return err
			}
			to, err := parseAccount(args[1])
			if err != nil {
				return err
			}
			amount, err := parseUint("amount", args[2])
			if err != nil {
				return err
			}
			_, err = a.submit(&token.Issue{Mint: mint, To: to, Amount: amount})
			return err
		}),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every mint with its supply",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			mints, err := token.ListMints(store)
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(a.out)
			table.Header("Name", "Mint", "Authority", "Supply")
			for _, m := range mints {
				if err := table.Append(m.Name, m.Mint.String(), m.Authority.String(), fmt.Sprint(m.Supply)); err != nil {
					return err
				}
			}
			return table.Render()
		}),
	}

	balanceCmd := &cobra.Command{
		Use:   "balance [OWNER]",
		Short: "Print the balance of every mint; OWNER defaults to the key account",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			owner, err := userArg(a, args, 0)
			if err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			mints, err := token.ListMints(store)
			if err != nil {
				return err
			}
			ledger := token.NewLedger(store)
			table := tablewriter.NewWriter(a.out)
			table.Header("Name", "Mint", "Balance")
			for _, m := range mints {
				bal, err := ledger.Balance(m.Mint, owner)
				if err != nil {
					return err
				}
				if err := table.Append(m.Name, m.Mint.String(), fmt.Sprint(bal)); err != nil {
					return err
				}
			}
			return table.Render()
		}),
	}

	cmd.AddCommand(createCmd, issueCmd, listCmd, balanceCmd)
	return cmd
}

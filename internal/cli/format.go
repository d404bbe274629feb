package cli

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

// parseAccount parses a base58 account id.
func parseAccount(s string) (types.AccountID, error) {
	id, err := types.ParseAccountID(strings.TrimSpace(s))
	if err != nil {
		return types.ZeroAccount, fmt.Errorf("invalid account %q: %w", s, err)
	}
	return id, nil
}

// parseMint accepts a mint address or the name it was created with.
func parseMint(s string) (types.AccountID, error) {
	if id, err := types.ParseAccountID(s); err == nil {
		return id, nil
	}
	if s == "" {
		return types.ZeroAccount, fmt.Errorf("empty mint")
	}
	if strings.EqualFold(s, "LP") {
		return keylet.LPMint(), nil
	}
	return keylet.NamedMint(s), nil
}

// bpsPercent renders basis points as a percentage.
func bpsPercent(bps uint64) string {
	return decimal.New(int64(bps), -2).StringFixed(2) + "%"
}

// ratio returns num/den with eight decimals, or "-" when den is zero.
func ratio(num, den uint64) string {
	if den == 0 {
		return "-"
	}
	n := decimal.NewFromBigInt(new(big.Int).SetUint64(num), 0)
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(den), 0)
	return n.DivRound(d, 8).String()
}

func formatUnix(secs int64) string {
	if secs == 0 {
		return "-"
	}
	return time.Unix(secs, 0).UTC().Format(time.RFC3339)
}

// printFields renders key/value rows as a two column table.
func printFields(w io.Writer, rows [][2]string) error {
	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")
	for _, r := range rows {
		if err := table.Append(r[0], r[1]); err != nil {
			return err
		}
	}
	return table.Render()
}

package scenario

import (
	"fmt"
	"io"
	"math/big"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

// PoolPrice returns the LIFE price of one DOOM in the final pool, and false
// when the run created no pool or the pool is empty.
func (r *Result) PoolPrice() (decimal.Decimal, bool) {
	if r.Pool == nil || r.Pool.DoomReserve == 0 {
		return decimal.Zero, false
	}
	doom := decimal.NewFromBigInt(new(big.Int).SetUint64(r.Pool.DoomReserve), 0)
	life := decimal.NewFromBigInt(new(big.Int).SetUint64(r.Pool.LifeReserve), 0)
	return life.DivRound(doom, 8), true
}

// Summary aggregates a batch of results.
type Summary struct {
	Scenarios int
	Passed    int
	Steps     int
	Checks    int
}

// Summarize counts the passed scenarios of results.
func Summarize(results []*Result) Summary {
	var s Summary
	for _, r := range results {
		s.Scenarios++
		s.Steps += len(r.Steps)
		s.Checks += len(r.Checks)
		if r.Passed() {
			s.Passed++
		}
	}
	return s
}

// PassRate is the passed share of scenarios in percent.
func (s Summary) PassRate() decimal.Decimal {
	if s.Scenarios == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.Passed)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(s.Scenarios)), 2)
}

// WriteReport renders one row per scenario followed by its failures.
func WriteReport(w io.Writer, results []*Result) error {
	table := tablewriter.NewWriter(w)
	table.Header("Scenario", "Steps", "Checks", "Price", "Status")
	for _, r := range results {
		price := "-"
		if p, ok := r.PoolPrice(); ok {
			price = p.StringFixed(4)
		}
		status := "PASS"
		if !r.Passed() {
			status = "FAIL"
		}
		if err := table.Append(r.Name, fmt.Sprint(len(r.Steps)), fmt.Sprint(len(r.Checks)), price, status); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, r := range results {
		for _, f := range r.Failures() {
			if _, err := fmt.Fprintf(w, "%s: %s\n", r.Name, f); err != nil {
				return err
			}
		}
	}
	s := Summarize(results)
	_, err := fmt.Fprintf(w, "%d/%d scenarios passed (%s%%)\n", s.Passed, s.Scenarios, s.PassRate().String())
	return err
}

// Package scenario runs scripted sequences of operations from YAML files
// against a fresh in-memory ledger and checks the results.
//
// A scenario lists accounts with their starting DOOM and LIFE balances and
// a sequence of steps. Each step is signed by its actor and submitted to a
// real engine. String arguments starting with "@" are references: "@alice"
// is the address of account alice and "@mint:DOOM", "@mint:LIFE" and
// "@mint:LP" are the token mints.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAuthority names the account that creates the DOOM and LIFE mints.
const DefaultAuthority = "authority"

// DefaultStart is the clock at the beginning of a scenario without a start.
var DefaultStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	ErrNoSteps       = errors.New("scenario has no steps")
	ErrUnknownActor  = errors.New("unknown actor")
	ErrUnknownRef    = errors.New("unknown reference")
	ErrDuplicateName = errors.New("duplicate account name")
)

// Scenario is the content of one YAML file.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Start       time.Time     `yaml:"start"`
	Authority   string        `yaml:"authority"`
	Accounts    []AccountSpec `yaml:"accounts"`
	Steps       []Step        `yaml:"steps"`
	Checks      []Check       `yaml:"checks"`
}

// AccountSpec declares an account and the tokens issued to it during setup.
type AccountSpec struct {
	Name string `yaml:"name"`
	Doom uint64 `yaml:"doom"`
	Life uint64 `yaml:"life"`
}

// Step submits one operation.
type Step struct {
	Actor string `yaml:"actor"`
	Op    string `yaml:"op"`

	// Args are the operation fields by their yaml names.
	Args yaml.Node `yaml:"args"`

	// Advance moves the clock forward before the step.
	Advance time.Duration `yaml:"advance"`

	// Expect is the expected result code. Empty means tesSUCCESS.
	Expect string `yaml:"expect"`
}

// Check compares a token balance after the last step.
type Check struct {
	Account string `yaml:"account"`
	Mint    string `yaml:"mint"`
	Balance uint64 `yaml:"balance"`
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

// Validate checks actor names and fills defaults.
func (sc *Scenario) Validate() error {
	if sc.Authority == "" {
		sc.Authority = DefaultAuthority
	}
	if sc.Start.IsZero() {
		sc.Start = DefaultStart
	}
	if len(sc.Steps) == 0 {
		return ErrNoSteps
	}

	names := map[string]bool{sc.Authority: true}
	declared := make(map[string]bool, len(sc.Accounts))
	for _, acc := range sc.Accounts {
		if acc.Name == "" || declared[acc.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, acc.Name)
		}
		declared[acc.Name] = true
		names[acc.Name] = true
	}
	for i, st := range sc.Steps {
		if !names[st.Actor] {
			return fmt.Errorf("step %d: %w %q", i+1, ErrUnknownActor, st.Actor)
		}
		if st.Op == "" {
			return fmt.Errorf("step %d: missing op", i+1)
		}
	}
	for i, c := range sc.Checks {
		if !names[c.Account] {
			return fmt.Errorf("check %d: %w %q", i+1, ErrUnknownActor, c.Account)
		}
	}
	return nil
}

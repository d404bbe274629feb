// Package testing provides test infrastructure for operation tests.
//
// The package provides:
//   - TestEnv: an engine over an in-memory ledger with a manual clock
//   - Account: deterministic test accounts with secp256k1 keys
//   - Funding helpers for the DOOM and LIFE mints
//   - Assertions on result codes and balances
//   - MockTokenLedger: a gomock mock of tx.TokenLedger
//
// # Basic Usage
//
//	func TestSwap(t *testing.T) {
//	    env := testing.NewTestEnv(t)
//	    env.SetupTokens()
//
//	    alice := env.Account("alice")
//	    env.Fund(alice, 1_000_000, 1_000_000)
//
//	    res := env.Submit(alice, &amm.InitializePool{DoomMint: env.DoomMint, LifeMint: env.LifeMint})
//	    testing.RequireResult(t, res, tx.TesSUCCESS)
//	}
//
// Accounts are derived from their names, so the same name always yields the
// same key and account ID. Submit signs the operation with the account key
// and goes through signature verification. Apply skips it.
//
// The clock starts at 2025-01-01 00:00:00 UTC and only moves through
// Advance or SetTime.
package testing

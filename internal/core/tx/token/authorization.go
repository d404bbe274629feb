package token

import (
	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

type signer struct {
	account types.AccountID
}

// Signer authorizes requests on balances owned by a verified caller.
func Signer(caller types.AccountID) tx.Authorization {
	return signer{account: caller}
}

func (s signer) Account() types.AccountID { return s.account }
func (s signer) String() string           { return "signer:" + s.account.String() }

// Capability is the authority an entity holds over one of its derived
// custody accounts. It cannot be obtained for any other account.
type Capability struct {
	owner   keylet.Keylet
	purpose string
	account types.AccountID
}

// CapabilityFor returns the capability of entity owner for purpose.
func CapabilityFor(owner keylet.Keylet, purpose string) Capability {
	return Capability{
		owner:   owner,
		purpose: purpose,
		account: keylet.CustodyAccount(owner, purpose),
	}
}

func (c Capability) Account() types.AccountID { return c.account }
func (c Capability) Purpose() string          { return c.purpose }
func (c Capability) String() string           { return "capability:" + c.owner.Type.String() + "/" + c.purpose }

// VaultCapability returns the capability over an entity's side vault.
func VaultCapability(owner keylet.Keylet, side types.Side) Capability {
	return CapabilityFor(owner, keylet.VaultPurpose(side))
}

// PoolMintAuthority is the pool's authority over the LP mint.
func PoolMintAuthority() Capability {
	return CapabilityFor(keylet.Pool(), keylet.PurposeAuthority)
}

package tx

import (
	"fmt"
	"sort"
)

// Type represents an operation type code
type Type uint16

// All operation type codes
const (
	TypeInvalid Type = 0xFFFF // Invalid/unknown type

	// Liquidity pool
	TypeInitializePool  Type = 1
	TypeAddLiquidity    Type = 2
	TypeRemoveLiquidity Type = 3
	TypeSwap            Type = 4

	// Platform configuration
	TypeInitializePlatform Type = 10
	TypeUpdatePlatform     Type = 11
	TypeUpgradePlatform    Type = 12

	// Prediction market
	TypeCreateEvent   Type = 20
	TypePlaceBet      Type = 21
	TypeResolveEvent  Type = 22
	TypeCancelEvent   Type = 23
	TypeClaimWinnings Type = 24
	TypeClaimRefund   Type = 25
	TypeRecordLoss    Type = 26

	// Token ledger
	TypeCreateMint Type = 30
	TypeIssue      Type = 31
)

var typeNames = map[Type]string{
	TypeInitializePool:     "initialize_pool",
	TypeAddLiquidity:       "add_liquidity",
	TypeRemoveLiquidity:    "remove_liquidity",
	TypeSwap:               "swap",
	TypeInitializePlatform: "initialize_platform",
	TypeUpdatePlatform:     "update_platform",
	TypeUpgradePlatform:    "upgrade_platform",
	TypeCreateEvent:        "create_event",
	TypePlaceBet:           "place_bet",
	TypeResolveEvent:       "resolve_event",
	TypeCancelEvent:        "cancel_event",
	TypeClaimWinnings:      "claim_winnings",
	TypeClaimRefund:        "claim_refund",
	TypeRecordLoss:         "record_loss",
	TypeCreateMint:         "create_mint",
	TypeIssue:              "issue",
}

var nameToType = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}
	return m
}()

// String returns the operation name used in scenarios and the journal
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// TypeFromName returns the Type for an operation name
func TypeFromName(name string) (Type, bool) {
	t, ok := nameToType[name]
	return t, ok
}

// AllTypes returns every known operation type in code order
func AllTypes() []Type {
	types := make([]Type, 0, len(typeNames))
	for t := range typeNames {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Package token is the fungible-token ledger the purchase flow settles
// against. Amounts are unsigned integers in the smallest unit; there is
// no implicit rounding anywhere.
package token

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/datamarket/marketchain/logging"
	"github.com/datamarket/marketchain/revert"
	"github.com/datamarket/marketchain/runtime/account"
	"github.com/datamarket/marketchain/runtime/storage"
)

type Conf struct {
	Name          string
	Symbol        string
	Decimals      uint8
	InitialSupply uint64
	Creator       account.Address
	KVFactory     storage.KVFactory
}

type Token struct {
	logger zerolog.Logger

	name     string
	symbol   string
	decimals uint8
	supply   uint64

	balances   storage.KV // addr -> uint64
	allowances storage.KV // owner/spender -> uint64
}

// New creates the ledger and mints the initial supply to the creator.
func New(conf Conf) *Token {
	t := &Token{
		name:       conf.Name,
		symbol:     conf.Symbol,
		decimals:   conf.Decimals,
		supply:     conf.InitialSupply,
		balances:   conf.KVFactory(),
		allowances: conf.KVFactory(),
	}
	if conf.InitialSupply > 0 {
		if err := t.balances.Put(conf.Creator.String(), conf.InitialSupply); err != nil {
			panic(err)
		}
	}
	t.logger = logging.ContractLogger("Token", conf.Symbol)
	t.logger.Info().Msgf("token created: name=%s, supply=%d, creator=%s",
		conf.Name, conf.InitialSupply, conf.Creator.Short())
	return t
}

func (t *Token) Name() string    { return t.name }
func (t *Token) Symbol() string  { return t.symbol }
func (t *Token) Decimals() uint8 { return t.decimals }
func (t *Token) Supply() uint64  { return t.supply }

// BalanceOf returns 0 for accounts the ledger has never seen.
func (t *Token) BalanceOf(addr account.Address) uint64 {
	return t.readAmount(t.balances, addr.String())
}

// Allowance returns the amount spender may still move out of owner's
// balance, 0 if no approval exists.
func (t *Token) Allowance(owner, spender account.Address) uint64 {
	return t.readAmount(t.allowances, allowanceKey(owner, spender))
}

// Transfer moves amount from the caller to dest.
func (t *Token) Transfer(caller, dest account.Address, amount uint64) error {
	if amount == 0 {
		return revert.Errorf(revert.ErrInvalidArgument, "zero transfer amount")
	}
	if err := t.move(caller, dest, amount); err != nil {
		return err
	}
	t.logger.Debug().Msgf("transfer %d: %s -> %s", amount, caller.Short(), dest.Short())
	return nil
}

// Approve lets spender move up to amount out of the caller's balance.
// Re-approving overwrites the previous allowance.
func (t *Token) Approve(caller, spender account.Address, amount uint64) error {
	if err := t.allowances.Put(allowanceKey(caller, spender), amount); err != nil {
		return fmt.Errorf("store allowance: %w", err)
	}
	t.logger.Debug().Msgf("approve %d: owner=%s, spender=%s", amount, caller.Short(), spender.Short())
	return nil
}

// TransferFrom moves amount from the from account to dest, consuming the
// caller's allowance. The allowance check happens before any mutation.
func (t *Token) TransferFrom(caller, from, dest account.Address, amount uint64) error {
	if amount == 0 {
		return revert.Errorf(revert.ErrInvalidArgument, "zero transfer amount")
	}
	key := allowanceKey(from, caller)
	allowed := t.readAmount(t.allowances, key)
	if allowed < amount {
		return revert.Errorf(revert.ErrInsufficientAllowance,
			"spender %s allowed %d, needs %d", caller.Short(), allowed, amount)
	}
	if err := t.move(from, dest, amount); err != nil {
		return err
	}
	if err := t.allowances.Put(key, allowed-amount); err != nil {
		return fmt.Errorf("store allowance: %w", err)
	}
	t.logger.Debug().Msgf("transferFrom %d: %s -> %s, spender=%s",
		amount, from.Short(), dest.Short(), caller.Short())
	return nil
}

func (t *Token) move(from, dest account.Address, amount uint64) error {
	fromBalance := t.readAmount(t.balances, from.String())
	if fromBalance < amount {
		return revert.Errorf(revert.ErrInvalidArgument,
			"balance of %s is %d, needs %d", from.Short(), fromBalance, amount)
	}
	destBalance := t.readAmount(t.balances, dest.String())
	if err := t.balances.Put(from.String(), fromBalance-amount); err != nil {
		return fmt.Errorf("store balance: %w", err)
	}
	if err := t.balances.Put(dest.String(), destBalance+amount); err != nil {
		return fmt.Errorf("store balance: %w", err)
	}
	return nil
}

func (t *Token) readAmount(kv storage.KV, key string) uint64 {
	value, err := kv.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return 0
		}
		panic(err)
	}
	amount, ok := value.(uint64)
	if !ok {
		panic(fmt.Sprintf("ledger entry corrupted: %v", value))
	}
	return amount
}

func allowanceKey(owner, spender account.Address) string {
	return owner.String() + "/" + spender.String()
}

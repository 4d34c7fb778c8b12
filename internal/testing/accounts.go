// Package testing provides fixtures shared by the contract test suites.
package testing

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/datamarket/marketchain/runtime/account"
)

// NewAddresses generates n fresh externally owned account addresses.
func NewAddresses(t *testing.T, n int) []account.Address {
	addrs := make([]account.Address, n)
	for i := range addrs {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		addrs[i] = account.FromPublicKey(&key.PublicKey)
	}
	return addrs
}

// NewAccount generates one fresh account with its key pair.
func NewAccount(t *testing.T) *account.Account {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return account.NewAccount(key)
}

package account

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// Account is an externally owned account: an ECDSA key pair and the
// address derived from it. Contracts never see the key, only the Address.
type Account struct {
	addr Address
	key  *ecdsa.PrivateKey
}

// Generate creates a fresh account with a random key.
func Generate() (*Account, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate account key: %w", err)
	}
	return NewAccount(key), nil
}

func NewAccount(key *ecdsa.PrivateKey) *Account {
	return &Account{addr: FromPublicKey(&key.PublicKey), key: key}
}

func (a *Account) Addr() Address {
	return a.addr
}

func (a *Account) String() string {
	return fmt.Sprintf("{addr: %s}", a.addr.Short())
}

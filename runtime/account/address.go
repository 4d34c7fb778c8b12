package account

import (
	"crypto/ecdsa"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
)

// Address identifies an account in the contract runtime. It follows the
// Ethereum convention: 20 bytes derived from the account's public key.
type Address struct {
	addr [20]byte
}

func NewAddress(addr [20]byte) Address {
	return Address{addr: addr}
}

// FromPublicKey derives the address of an externally owned account.
func FromPublicKey(pub *ecdsa.PublicKey) Address {
	return Address{addr: crypto.PubkeyToAddress(*pub)}
}

// ContractAddress derives the address of a contract instance created by
// creator with the given nonce.
func ContractAddress(creator Address, nonce uint64) Address {
	return Address{addr: crypto.CreateAddress(creator.addr, nonce)}
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a.addr[:])
}

// Short returns an abbreviated form for log lines.
func (a Address) Short() string {
	return a.String()[:10] + "..."
}

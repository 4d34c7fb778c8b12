// Package access implements the restricted-caller guard shared by every
// contract: a call is checked against the small set of entity roles that
// may perform it, and the result is a typed decision rather than a bare
// boolean, so call sites can report which role matched.
package access

import (
	"github.com/datamarket/marketchain/runtime/account"
)

type Role uint8

const (
	None Role = iota
	Owner
	Model
	Retailer
	Requester
)

func (r Role) String() string {
	switch r {
	case Owner:
		return "owner"
	case Model:
		return "model"
	case Retailer:
		return "retailer"
	case Requester:
		return "requester"
	default:
		return "none"
	}
}

// Member binds an address to the role it plays on one entity.
type Member struct {
	Addr account.Address
	Role Role
}

type Decision struct {
	Caller  account.Address
	Role    Role
	Allowed bool
}

// Check compares the caller against the permitted members. The first
// matching member decides the role.
func Check(caller account.Address, members ...Member) Decision {
	for _, m := range members {
		if m.Addr == caller {
			return Decision{Caller: caller, Role: m.Role, Allowed: true}
		}
	}
	return Decision{Caller: caller, Role: None, Allowed: false}
}

// Package profile implements the data-access consent contract: anyone may
// file a request against the profile owner's data, only the owner may
// inspect or agree to it, and the requester retrieves the encrypted
// payload once consent is given.
package profile

import (
	"errors"
	"fmt"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/datamarket/marketchain/logging"
	"github.com/datamarket/marketchain/revert"
	"github.com/datamarket/marketchain/runtime/access"
	"github.com/datamarket/marketchain/runtime/account"
	"github.com/datamarket/marketchain/runtime/storage"
)

// MaxDataTypes caps the category codes a single request may name.
const MaxDataTypes = 5

type DataRequest struct {
	Requester   account.Address
	DataTypes   []uint8
	Period      uint64 // validity window, hours
	TokenAmount uint64
	Agreed      bool
	// payload addressed to the requester, set on agree
	EncryptedPayload string
}

type Conf struct {
	Owner     account.Address
	KVFactory storage.KVFactory
}

type Profile struct {
	logger zerolog.Logger

	id       string
	owner    account.Address
	requests storage.KV // requester addr -> *DataRequest
}

func New(conf Conf) *Profile {
	p := &Profile{
		id:       xid.New().String(),
		owner:    conf.Owner,
		requests: conf.KVFactory(),
	}
	p.logger = logging.ContractLogger("ProfileContract", p.id)
	p.logger.Info().Msgf("profile created: owner=%s", conf.Owner.Short())
	return p
}

// RequestData files (or overwrites) the caller's pending request.
func (p *Profile) RequestData(caller account.Address, dataTypes []uint8, period, tokenAmount uint64) error {
	if len(dataTypes) == 0 || len(dataTypes) > MaxDataTypes {
		return revert.Errorf(revert.ErrInvalidArgument,
			"data types length %d out of range 1..%d", len(dataTypes), MaxDataTypes)
	}
	if period == 0 {
		return revert.Errorf(revert.ErrInvalidArgument, "period must be positive")
	}
	if tokenAmount == 0 {
		return revert.Errorf(revert.ErrInvalidArgument, "token amount must be positive")
	}

	req := &DataRequest{
		Requester:   caller,
		DataTypes:   append([]uint8(nil), dataTypes...),
		Period:      period,
		TokenAmount: tokenAmount,
	}
	if err := p.requests.Put(caller.String(), req); err != nil {
		return fmt.Errorf("store request: %w", err)
	}
	p.logger.Info().Msgf("data requested by %s: types=%v, period=%dh, amount=%d",
		caller.Short(), dataTypes, period, tokenAmount)
	return nil
}

// GetRequestsFrom lets the owner inspect a requester's pending request.
func (p *Profile) GetRequestsFrom(caller, requester account.Address) (DataRequest, error) {
	if !access.Check(caller, access.Member{Addr: p.owner, Role: access.Owner}).Allowed {
		return DataRequest{}, revert.Errorf(revert.ErrUnauthorized, "get requests by %s: not owner", caller.Short())
	}
	req, ok := p.getRequest(requester)
	if !ok {
		return DataRequest{}, revert.Errorf(revert.ErrNotFound, "no pending request from %s", requester.Short())
	}
	return *req, nil
}

// Agree marks the requester's request agreed and attaches the payload
// addressed to that requester.
func (p *Profile) Agree(caller, requester account.Address, encryptedPayload string) error {
	if !access.Check(caller, access.Member{Addr: p.owner, Role: access.Owner}).Allowed {
		return revert.Errorf(revert.ErrUnauthorized, "agree by %s: not owner", caller.Short())
	}
	req, ok := p.getRequest(requester)
	if !ok {
		return revert.Errorf(revert.ErrNotFound, "no pending request from %s", requester.Short())
	}

	req.Agreed = true
	req.EncryptedPayload = encryptedPayload
	if err := p.requests.Put(requester.String(), req); err != nil {
		return fmt.Errorf("store request: %w", err)
	}
	p.logger.Info().Msgf("request from %s agreed", requester.Short())
	return nil
}

// GetEncryptedData returns the payload addressed to the caller. It is a
// read accessor: callers without an agreed request get the empty string.
func (p *Profile) GetEncryptedData(caller account.Address) string {
	req, ok := p.getRequest(caller)
	if !ok || !req.Agreed {
		return ""
	}
	return req.EncryptedPayload
}

func (p *Profile) Owner() account.Address {
	return p.owner
}

func (p *Profile) getRequest(requester account.Address) (*DataRequest, bool) {
	value, err := p.requests.Get(requester.String())
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, false
		}
		panic(err)
	}
	req, ok := value.(*DataRequest)
	if !ok {
		panic(fmt.Sprintf("profile entry corrupted: %v", value))
	}
	return req, true
}

// Package agreement implements the bilateral agreement contract: two
// named parties, an opaque conditions payload, and a signature protocol
// gating the lifecycle New -> Signed -> Terminated, with Declined as the
// alternate terminal state.
package agreement

import (
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/datamarket/marketchain/contracts/terms"
	"github.com/datamarket/marketchain/logging"
	"github.com/datamarket/marketchain/revert"
	"github.com/datamarket/marketchain/runtime/access"
	"github.com/datamarket/marketchain/runtime/account"
	"github.com/datamarket/marketchain/runtime/event"
)

type State uint8

const (
	StateNew State = iota
	StateSigned
	StateDeclined
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "New"
	case StateSigned:
		return "Signed"
	case StateDeclined:
		return "Declined"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

type Agreement struct {
	logger zerolog.Logger

	id         string
	model      account.Address // initiating party
	owner      account.Address // counterparty
	conditions string

	state      State
	signatures map[account.Address]bool

	events *event.Log
}

func New(model, owner account.Address, conditions string) *Agreement {
	a := &Agreement{
		id:         xid.New().String(),
		model:      model,
		owner:      owner,
		conditions: conditions,
		state:      StateNew,
		signatures: make(map[account.Address]bool),
	}
	a.logger = logging.ContractLogger("AgreementContract", a.id)
	a.events = event.NewLog(a.logger)
	a.logger.Info().Msgf("agreement created: model=%s, owner=%s", model.Short(), owner.Short())
	return a
}

func (a *Agreement) parties() []access.Member {
	return []access.Member{
		{Addr: a.model, Role: access.Model},
		{Addr: a.owner, Role: access.Owner},
	}
}

// SignAgreement records the caller's signature. Each party signs at most
// once; the second party's signature moves the agreement to Signed.
func (a *Agreement) SignAgreement(caller account.Address) error {
	decision := access.Check(caller, a.parties()...)
	if !decision.Allowed {
		return revert.Errorf(revert.ErrUnauthorized, "sign by %s: not model or owner", caller.Short())
	}
	if a.state != StateNew {
		return revert.Errorf(revert.ErrInvalidState, "sign in state %s", a.state)
	}
	if a.signatures[caller] {
		return revert.Errorf(revert.ErrInvalidState, "%s already signed", decision.Role)
	}

	a.signatures[caller] = true
	if a.signatures[a.model] && a.signatures[a.owner] {
		a.state = StateSigned
	}
	a.events.Emit(event.AgreementSigned{By: caller})
	a.logger.Info().Msgf("signed by %s (%s), state=%s", caller.Short(), decision.Role, a.state)
	return nil
}

// DeclineAgreement rejects a still-unsigned agreement.
func (a *Agreement) DeclineAgreement(caller account.Address, reason string) error {
	if !access.Check(caller, a.parties()...).Allowed {
		return revert.Errorf(revert.ErrUnauthorized, "decline by %s: not model or owner", caller.Short())
	}
	if a.state != StateNew {
		return revert.Errorf(revert.ErrInvalidState, "decline in state %s", a.state)
	}

	a.state = StateDeclined
	a.events.Emit(event.AgreementDeclined{By: caller, Reason: reason})
	a.logger.Info().Msgf("declined by %s: %s", caller.Short(), reason)
	return nil
}

// TerminateAgreement ends a signed agreement. Only the owner may do it.
func (a *Agreement) TerminateAgreement(caller account.Address) error {
	decision := access.Check(caller, access.Member{Addr: a.owner, Role: access.Owner})
	if !decision.Allowed {
		return revert.Errorf(revert.ErrUnauthorized, "terminate by %s: not owner", caller.Short())
	}
	if a.state != StateSigned {
		return revert.Errorf(revert.ErrInvalidState, "terminate in state %s", a.state)
	}

	a.state = StateTerminated
	a.logger.Info().Msg("terminated")
	return nil
}

// ExtendAgreement replaces the conditions of a signed agreement.
func (a *Agreement) ExtendAgreement(caller account.Address, newConditions string) error {
	if !access.Check(caller, a.parties()...).Allowed {
		return revert.Errorf(revert.ErrUnauthorized, "extend by %s: not model or owner", caller.Short())
	}
	if a.state != StateSigned {
		return revert.Errorf(revert.ErrInvalidState, "extend in state %s", a.state)
	}

	a.conditions = newConditions
	a.logger.Info().Msg("conditions extended")
	return nil
}

func (a *Agreement) ID() string {
	return a.id
}

func (a *Agreement) Model() account.Address {
	return a.model
}

func (a *Agreement) Owner() account.Address {
	return a.owner
}

func (a *Agreement) State() State {
	return a.state
}

func (a *Agreement) Conditions() string {
	return a.conditions
}

func (a *Agreement) SignedBy(addr account.Address) bool {
	return a.signatures[addr]
}

// Terms parses the conditions payload as a structured terms document.
// Free-form conditions fail the parse; the raw text stays authoritative.
func (a *Agreement) Terms() (terms.Doc, error) {
	return terms.Parse(a.conditions)
}

func (a *Agreement) Events() *event.Log {
	return a.events
}

// Package offer implements the retailer's time-bounded offer: customers
// accept it (creating an agreement with the retailer) or negotiate the
// price while the offer is active. Past activeUntil every mutating call
// fails for good; there is no extension mechanism.
package offer

import (
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/datamarket/marketchain/contracts/agreement"
	"github.com/datamarket/marketchain/contracts/terms"
	"github.com/datamarket/marketchain/logging"
	"github.com/datamarket/marketchain/revert"
	"github.com/datamarket/marketchain/runtime/access"
	"github.com/datamarket/marketchain/runtime/account"
	"github.com/datamarket/marketchain/runtime/clock"
	"github.com/datamarket/marketchain/runtime/event"
)

type Conf struct {
	Retailer     account.Address
	Price        uint64 // unit price, smallest currency unit
	DurationDays uint64
	Clock        clock.Clock
}

type Offer struct {
	logger zerolog.Logger

	id           string
	retailer     account.Address
	price        uint64
	durationDays uint64
	activeUntil  int64
	clock        clock.Clock

	// pending proposed price per requester; 0 means no open proposal
	priceChangeRequests map[account.Address]uint64

	events *event.Log
}

func New(conf Conf) *Offer {
	o := &Offer{
		id:                  xid.New().String(),
		retailer:            conf.Retailer,
		price:               conf.Price,
		durationDays:        conf.DurationDays,
		clock:               conf.Clock,
		activeUntil:         conf.Clock.Now() + clock.Days(int64(conf.DurationDays)),
		priceChangeRequests: make(map[account.Address]uint64),
	}
	o.logger = logging.ContractLogger("OfferContract", o.id)
	o.events = event.NewLog(o.logger)
	o.logger.Info().Msgf("offer created: retailer=%s, price=%d, activeUntil=%d",
		conf.Retailer.Short(), conf.Price, o.activeUntil)
	return o
}

func (o *Offer) active() bool {
	return o.clock.Now() < o.activeUntil
}

// AcceptOffer creates a new agreement between the caller and the
// retailer. The agreement conditions carry the offer terms as a
// structured document.
func (o *Offer) AcceptOffer(caller account.Address) (*agreement.Agreement, error) {
	if !o.active() {
		return nil, revert.Errorf(revert.ErrWindowExpired, "offer %s no longer active", o.id)
	}

	doc := terms.Doc{Clauses: []*terms.Clause{
		terms.Number("price", float64(o.price)),
		terms.Number("duration", float64(o.durationDays)),
	}}
	created := agreement.New(caller, o.retailer, doc.Render())
	o.events.Emit(event.AgreementCreated{Customer: caller, Retailer: o.retailer})
	o.logger.Info().Msgf("accepted by %s, agreement=%s", caller.Short(), created.ID())
	return created, nil
}

// PriceChangeRequest records the caller's proposed price, overwriting any
// earlier proposal from the same account.
func (o *Offer) PriceChangeRequest(caller account.Address, newPrice uint64) error {
	if !o.active() {
		return revert.Errorf(revert.ErrWindowExpired, "offer %s no longer active", o.id)
	}
	if newPrice == 0 {
		return revert.Errorf(revert.ErrInvalidArgument, "proposed price must be positive")
	}

	o.priceChangeRequests[caller] = newPrice
	o.events.Emit(event.OfferPriceChangeRequested{NewPrice: newPrice})
	o.logger.Info().Msgf("price change requested by %s: %d", caller.Short(), newPrice)
	return nil
}

// AcceptPriceChangeRequestFrom acknowledges and clears the requester's
// pending proposal. It does not change the listing price: the retailer is
// expected to follow up with a new offer at the agreed price.
func (o *Offer) AcceptPriceChangeRequestFrom(caller, requester account.Address) error {
	if !access.Check(caller, access.Member{Addr: o.retailer, Role: access.Retailer}).Allowed {
		return revert.Errorf(revert.ErrUnauthorized, "accept price change by %s: not retailer", caller.Short())
	}
	if o.priceChangeRequests[requester] == 0 {
		return revert.Errorf(revert.ErrNotFound, "no pending proposal from %s", requester.Short())
	}

	delete(o.priceChangeRequests, requester)
	o.events.Emit(event.PriceChangeRequestAccepted{From: requester})
	o.logger.Info().Msgf("price change from %s accepted", requester.Short())
	return nil
}

func (o *Offer) ID() string {
	return o.id
}

func (o *Offer) Retailer() account.Address {
	return o.retailer
}

func (o *Offer) Price() uint64 {
	return o.price
}

func (o *Offer) ActiveUntil() int64 {
	return o.activeUntil
}

// PendingPriceChange returns the requester's open proposal, 0 if none.
func (o *Offer) PendingPriceChange(requester account.Address) uint64 {
	return o.priceChangeRequests[requester]
}

func (o *Offer) Events() *event.Log {
	return o.events
}

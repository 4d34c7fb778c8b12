package event

import (
	"github.com/datamarket/marketchain/runtime/account"
)

// Event is a structured record emitted by a successful mutating operation.
type Event interface {
	Name() string
}

type AgreementSigned struct {
	By account.Address
}

func (AgreementSigned) Name() string { return "AgreementSigned" }

type AgreementDeclined struct {
	By     account.Address
	Reason string
}

func (AgreementDeclined) Name() string { return "AgreementDeclined" }

type AgreementCreated struct {
	Customer account.Address
	Retailer account.Address
}

func (AgreementCreated) Name() string { return "AgreementCreated" }

type OfferPriceChangeRequested struct {
	NewPrice uint64
}

func (OfferPriceChangeRequested) Name() string { return "OfferPriceChangeRequested" }

type PriceChangeRequestAccepted struct {
	From account.Address
}

func (PriceChangeRequestAccepted) Name() string { return "PriceChangeRequestAccepted" }

type ProductAdded struct {
	ID       uint64
	Price    uint64
	Retailer account.Address
}

func (ProductAdded) Name() string { return "ProductAdded" }

// Package purchase wraps the catalog with a request -> confirm purchase
// flow settled over the token ledger. The purchase contract has its own
// address: buyers approve it as spender, and the confirm step moves the
// product price from buyer to payout through that allowance.
package purchase

import (
	"github.com/rs/zerolog"

	"github.com/datamarket/marketchain/contracts/catalog"
	"github.com/datamarket/marketchain/logging"
	"github.com/datamarket/marketchain/revert"
	"github.com/datamarket/marketchain/runtime/access"
	"github.com/datamarket/marketchain/runtime/account"
	"github.com/datamarket/marketchain/runtime/storage"
	"github.com/datamarket/marketchain/runtime/token"
)

type Conf struct {
	Admin     account.Address
	Token     *token.Token
	KVFactory storage.KVFactory
	// Nonce feeds the contract-address derivation; the platform supplies
	// the admin account's transaction count here.
	Nonce uint64
}

type Purchase struct {
	logger zerolog.Logger

	addr    account.Address
	admin   account.Address
	token   *token.Token
	catalog *catalog.Catalog
}

func New(conf Conf) *Purchase {
	p := &Purchase{
		addr:  account.ContractAddress(conf.Admin, conf.Nonce),
		admin: conf.Admin,
		token: conf.Token,
	}
	// The inner catalog is owned by the contract itself; every catalog
	// mutation goes through the purchase contract's address.
	p.catalog = catalog.New(catalog.Conf{Owner: p.addr, KVFactory: conf.KVFactory})
	p.logger = logging.ContractLogger("PurchaseContract", p.addr.Short())
	p.logger.Info().Msgf("purchase contract created: admin=%s, token=%s",
		conf.Admin.Short(), conf.Token.Symbol())
	return p
}

// Addr is the address buyers approve as token spender.
func (p *Purchase) Addr() account.Address {
	return p.addr
}

func (p *Purchase) Catalog() *catalog.Catalog {
	return p.catalog
}

// AddProduct forwards to the catalog; only the admin may list products.
func (p *Purchase) AddProduct(caller account.Address, id, price uint64, retailer account.Address) error {
	if !access.Check(caller, access.Member{Addr: p.admin, Role: access.Owner}).Allowed {
		return revert.Errorf(revert.ErrUnauthorized, "add product by %s: not admin", caller.Short())
	}
	return p.catalog.AddProduct(p.addr, id, price, retailer)
}

// AddProducts forwards the batch form with the same rules.
func (p *Purchase) AddProducts(caller account.Address, ids, prices []uint64, retailers []account.Address) error {
	if !access.Check(caller, access.Member{Addr: p.admin, Role: access.Owner}).Allowed {
		return revert.Errorf(revert.ErrUnauthorized, "add products by %s: not admin", caller.Short())
	}
	return p.catalog.AddProducts(p.addr, ids, prices, retailers)
}

// PurchaseRequest registers the caller as a pending buyer for the
// product. No funds move yet.
func (p *Purchase) PurchaseRequest(caller account.Address, id uint64) error {
	if p.catalog.GetProductRetailer(id).IsZero() {
		return revert.Errorf(revert.ErrNotFound, "product %d does not exist", id)
	}
	if err := p.catalog.UpdateProduct(p.addr, id, 1, 1, caller, false); err != nil {
		return err
	}
	p.logger.Info().Msgf("purchase request: product=%d, buyer=%s", id, caller.Short())
	return nil
}

// ConfirmPurchase settles an open request: the product's retailer moves
// the price from the buyer's balance to the payout account through the
// allowance the buyer granted this contract, then closes the request.
func (p *Purchase) ConfirmPurchase(caller account.Address, id uint64, buyer, payout account.Address) error {
	retailer := p.catalog.GetProductRetailer(id)
	if retailer.IsZero() {
		return revert.Errorf(revert.ErrNotFound, "product %d does not exist", id)
	}
	if !access.Check(caller, access.Member{Addr: retailer, Role: access.Retailer}).Allowed {
		return revert.Errorf(revert.ErrUnauthorized, "confirm purchase by %s: not retailer", caller.Short())
	}
	if !p.catalog.HasOpenRequest(id, buyer) {
		return revert.Errorf(revert.ErrNotFound, "no open request for product %d from %s", id, buyer.Short())
	}

	price := p.catalog.GetProductPrice(id)
	if err := p.token.TransferFrom(p.addr, buyer, payout, price); err != nil {
		return err
	}
	if err := p.catalog.UpdateProduct(p.addr, id, 0, 0, buyer, true); err != nil {
		return err
	}
	p.logger.Info().Msgf("purchase confirmed: product=%d, buyer=%s, payout=%s, price=%d",
		id, buyer.Short(), payout.Short(), price)
	return nil
}

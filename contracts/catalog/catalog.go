// Package catalog implements the storage contract: a single-owner product
// catalog with per-product purchase-request bookkeeping. Write paths
// reject bad input; read accessors return zero values for products that
// do not exist.
package catalog

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/datamarket/marketchain/logging"
	"github.com/datamarket/marketchain/revert"
	"github.com/datamarket/marketchain/runtime/access"
	"github.com/datamarket/marketchain/runtime/account"
	"github.com/datamarket/marketchain/runtime/event"
	"github.com/datamarket/marketchain/runtime/storage"
)

type Product struct {
	ID       uint64
	Price    uint64
	Retailer account.Address
	Qty      uint64
	Buyers   []account.Address
	// open purchase requests, keyed by buyer
	Requested map[account.Address]bool
}

type Conf struct {
	Owner     account.Address
	KVFactory storage.KVFactory
}

type Catalog struct {
	logger zerolog.Logger

	id       string
	owner    account.Address
	products storage.KV // product id -> *Product

	events *event.Log
}

func New(conf Conf) *Catalog {
	c := &Catalog{
		id:       xid.New().String(),
		owner:    conf.Owner,
		products: conf.KVFactory(),
	}
	c.logger = logging.ContractLogger("StorageContract", c.id)
	c.events = event.NewLog(c.logger)
	c.logger.Info().Msgf("catalog created: owner=%s", conf.Owner.Short())
	return c
}

// AddProduct lists a new product. The id must be fresh.
func (c *Catalog) AddProduct(caller account.Address, id, price uint64, retailer account.Address) error {
	if !access.Check(caller, access.Member{Addr: c.owner, Role: access.Owner}).Allowed {
		return revert.Errorf(revert.ErrUnauthorized, "add product by %s: not owner", caller.Short())
	}
	if err := c.checkFresh(id); err != nil {
		return err
	}
	c.putProduct(id, price, retailer)
	return nil
}

// AddProducts lists a batch. The three slices must have equal lengths and
// every id must be fresh; any violation rejects the whole batch.
func (c *Catalog) AddProducts(caller account.Address, ids, prices []uint64, retailers []account.Address) error {
	if !access.Check(caller, access.Member{Addr: c.owner, Role: access.Owner}).Allowed {
		return revert.Errorf(revert.ErrUnauthorized, "add products by %s: not owner", caller.Short())
	}
	if len(ids) != len(prices) || len(ids) != len(retailers) {
		return revert.Errorf(revert.ErrInvalidArgument,
			"length mismatch: ids=%d, prices=%d, retailers=%d", len(ids), len(prices), len(retailers))
	}

	seen := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return revert.Errorf(revert.ErrInvalidArgument, "duplicate product id %d in batch", id)
		}
		seen[id] = true
		if err := c.checkFresh(id); err != nil {
			return err
		}
	}
	for i := range ids {
		c.putProduct(ids[i], prices[i], retailers[i])
	}
	return nil
}

// IsProductExist reports whether the product is listed by that retailer.
func (c *Catalog) IsProductExist(id uint64, retailer account.Address) bool {
	p, ok := c.getProduct(id)
	return ok && p.Retailer == retailer
}

// UpdateProduct records buyer activity against an existing product: the
// buyer is registered, a nonzero flag opens a purchase request for the
// buyer, and purchased closes it again once settlement went through.
// Only the catalog owner may update products.
func (c *Catalog) UpdateProduct(caller account.Address, id, qty, flag uint64, buyer account.Address, purchased bool) error {
	if !access.Check(caller, access.Member{Addr: c.owner, Role: access.Owner}).Allowed {
		return revert.Errorf(revert.ErrUnauthorized, "update product by %s: not owner", caller.Short())
	}
	p, ok := c.getProduct(id)
	if !ok {
		return revert.Errorf(revert.ErrNotFound, "product %d does not exist", id)
	}

	registered := false
	for _, b := range p.Buyers {
		if b == buyer {
			registered = true
			break
		}
	}
	if !registered {
		p.Buyers = append(p.Buyers, buyer)
	}
	if qty > 0 {
		p.Qty = qty
	}
	switch {
	case purchased:
		delete(p.Requested, buyer)
	case flag != 0:
		p.Requested[buyer] = true
	}
	if err := c.products.Put(productKey(id), p); err != nil {
		return fmt.Errorf("store product: %w", err)
	}
	c.logger.Debug().Msgf("product %d updated by %s: buyer=%s, purchased=%v",
		id, caller.Short(), buyer.Short(), purchased)
	return nil
}

// GetProductPrice returns 0 for an unlisted product.
func (c *Catalog) GetProductPrice(id uint64) uint64 {
	p, ok := c.getProduct(id)
	if !ok {
		return 0
	}
	return p.Price
}

// GetProductRetailer returns the zero address for an unlisted product.
func (c *Catalog) GetProductRetailer(id uint64) account.Address {
	p, ok := c.getProduct(id)
	if !ok {
		return account.Address{}
	}
	return p.Retailer
}

// GetProductBuyers returns nil for an unlisted product.
func (c *Catalog) GetProductBuyers(id uint64) []account.Address {
	p, ok := c.getProduct(id)
	if !ok {
		return nil
	}
	out := make([]account.Address, len(p.Buyers))
	copy(out, p.Buyers)
	return out
}

// GetRequestedProducts counts the products with at least one open
// purchase request.
func (c *Catalog) GetRequestedProducts() int {
	count := 0
	c.eachProduct(func(p *Product) {
		if len(p.Requested) > 0 {
			count++
		}
	})
	return count
}

// GetRequestedProductsBy counts the products with an open request from
// that buyer.
func (c *Catalog) GetRequestedProductsBy(buyer account.Address) int {
	count := 0
	c.eachProduct(func(p *Product) {
		if p.Requested[buyer] {
			count++
		}
	})
	return count
}

// HasOpenRequest reports whether buyer is waiting on product id.
func (c *Catalog) HasOpenRequest(id uint64, buyer account.Address) bool {
	p, ok := c.getProduct(id)
	return ok && p.Requested[buyer]
}

func (c *Catalog) Owner() account.Address {
	return c.owner
}

func (c *Catalog) Events() *event.Log {
	return c.events
}

func (c *Catalog) checkFresh(id uint64) error {
	if id == 0 {
		return revert.Errorf(revert.ErrInvalidArgument, "product id must be positive")
	}
	if _, ok := c.getProduct(id); ok {
		return revert.Errorf(revert.ErrInvalidArgument, "product %d already exists", id)
	}
	return nil
}

func (c *Catalog) putProduct(id, price uint64, retailer account.Address) {
	p := &Product{
		ID:        id,
		Price:     price,
		Retailer:  retailer,
		Requested: make(map[account.Address]bool),
	}
	if err := c.products.Put(productKey(id), p); err != nil {
		panic(err)
	}
	c.events.Emit(event.ProductAdded{ID: id, Price: price, Retailer: retailer})
	c.logger.Info().Msgf("product added: id=%d, price=%d, retailer=%s", id, price, retailer.Short())
}

func (c *Catalog) getProduct(id uint64) (*Product, bool) {
	value, err := c.products.Get(productKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, false
		}
		panic(err)
	}
	p, ok := value.(*Product)
	if !ok {
		panic(fmt.Sprintf("catalog entry corrupted: %v", value))
	}
	return p, true
}

func (c *Catalog) eachProduct(fn func(*Product)) {
	for _, key := range c.products.Keys() {
		value, err := c.products.Get(key)
		if err != nil {
			panic(err)
		}
		fn(value.(*Product))
	}
}

func productKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}

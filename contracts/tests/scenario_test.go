package tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datamarket/marketchain/contracts/agreement"
	"github.com/datamarket/marketchain/contracts/offer"
	"github.com/datamarket/marketchain/contracts/profile"
	"github.com/datamarket/marketchain/contracts/purchase"
	z "github.com/datamarket/marketchain/internal/testing"
	"github.com/datamarket/marketchain/runtime/clock"
	"github.com/datamarket/marketchain/runtime/storage"
	"github.com/datamarket/marketchain/runtime/token"
)

// End-to-end marketplace flow: a customer accepts a retailer's offer,
// both sign the resulting agreement, the customer buys a product settled
// over the token ledger, and finally obtains consent-gated profile data.
func Test_Marketplace_Scenario(t *testing.T) {
	addrs := z.NewAddresses(t, 4)
	admin, retailer, customer, payout := addrs[0], addrs[1], addrs[2], addrs[3]
	clk := clock.NewManual(1_700_000_000)

	// the retailer publishes a ten-day offer and the customer accepts
	o := offer.New(offer.Conf{Retailer: retailer, Price: 100, DurationDays: 10, Clock: clk})
	agr, err := o.AcceptOffer(customer)
	require.NoError(t, err)

	require.NoError(t, agr.SignAgreement(customer))
	require.NoError(t, agr.SignAgreement(retailer))
	require.Equal(t, agreement.StateSigned, agr.State())

	// settle a catalog purchase for the agreed price
	tok := token.New(token.Conf{
		Name: "Market token", Symbol: "MKT", Decimals: 18,
		InitialSupply: 10_000, Creator: admin,
		KVFactory: storage.CreateSimpleKV,
	})
	require.NoError(t, tok.Transfer(admin, customer, 500))

	p := purchase.New(purchase.Conf{Admin: admin, Token: tok, KVFactory: storage.CreateSimpleKV})
	require.NoError(t, p.AddProduct(admin, 1, 100, retailer))
	require.NoError(t, p.PurchaseRequest(customer, 1))
	require.NoError(t, tok.Approve(customer, p.Addr(), 100))
	require.NoError(t, p.ConfirmPurchase(retailer, 1, customer, payout))

	require.Equal(t, uint64(400), tok.BalanceOf(customer))
	require.Equal(t, uint64(100), tok.BalanceOf(payout))

	// the retailer asks for profile data, the customer consents
	prof := profile.New(profile.Conf{Owner: customer, KVFactory: storage.CreateSimpleKV})
	require.NoError(t, prof.RequestData(retailer, []uint8{1, 2, 3, 4}, 24, 100))
	require.NoError(t, prof.Agree(customer, retailer, "payload"))
	require.Equal(t, "payload", prof.GetEncryptedData(retailer))

	// the signed agreement survives until the owner terminates it
	require.NoError(t, agr.ExtendAgreement(customer, "price: 90\nduration: 10\n"))
	doc, err := agr.Terms()
	require.NoError(t, err)
	price, ok := doc.Get("price")
	require.True(t, ok)
	require.Equal(t, float64(90), *price.Number)
	require.NoError(t, agr.TerminateAgreement(retailer))
	require.Equal(t, agreement.StateTerminated, agr.State())
}

// Expiry is permanent: once the window passes, every mutating offer call
// keeps failing.
func Test_Marketplace_OfferExpiry(t *testing.T) {
	addrs := z.NewAddresses(t, 2)
	retailer, customer := addrs[0], addrs[1]
	clk := clock.NewManual(1_700_000_000)

	o := offer.New(offer.Conf{Retailer: retailer, Price: 1, DurationDays: 1, Clock: clk})
	require.NoError(t, o.PriceChangeRequest(customer, 2))

	clk.Advance(clock.Days(2))
	_, err := o.AcceptOffer(customer)
	require.Error(t, err)
	require.Error(t, o.PriceChangeRequest(customer, 3))

	clk.Advance(clock.Days(100))
	_, err = o.AcceptOffer(customer)
	require.Error(t, err)
}

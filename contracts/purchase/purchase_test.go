package purchase

import (
	"testing"

	"github.com/stretchr/testify/require"

	z "github.com/datamarket/marketchain/internal/testing"
	"github.com/datamarket/marketchain/revert"
	"github.com/datamarket/marketchain/runtime/account"
	"github.com/datamarket/marketchain/runtime/storage"
	"github.com/datamarket/marketchain/runtime/token"
)

// admin doubles as buyer, mirroring a deployer holding the token supply
func newPurchase(t *testing.T) (*Purchase, *token.Token, []account.Address) {
	addrs := z.NewAddresses(t, 6)
	tok := token.New(token.Conf{
		Name: "Test token 1", Symbol: "TT1", Decimals: 18,
		InitialSupply: 1_000_000, Creator: addrs[0],
		KVFactory: storage.CreateSimpleKV,
	})
	p := New(Conf{Admin: addrs[0], Token: tok, KVFactory: storage.CreateSimpleKV})
	return p, tok, addrs
}

func Test_Purchase_AddProduct_DuplicateID(t *testing.T) {
	p, _, addrs := newPurchase(t)
	require.NoError(t, p.AddProduct(addrs[0], 1, 100, addrs[1]))
	err := p.AddProduct(addrs[0], 1, 200, addrs[1])
	require.ErrorIs(t, err, revert.ErrInvalidArgument)
}

func Test_Purchase_AddProduct_NotAdmin(t *testing.T) {
	p, _, addrs := newPurchase(t)
	err := p.AddProduct(addrs[2], 1, 100, addrs[1])
	require.ErrorIs(t, err, revert.ErrUnauthorized)
}

func Test_Purchase_AddProducts_DuplicateID(t *testing.T) {
	p, _, addrs := newPurchase(t)
	require.NoError(t, p.AddProducts(addrs[0], []uint64{1}, []uint64{100}, []account.Address{addrs[1]}))
	err := p.AddProducts(addrs[0], []uint64{1}, []uint64{200}, []account.Address{addrs[1]})
	require.ErrorIs(t, err, revert.ErrInvalidArgument)
}

func Test_Purchase_AddProducts_LengthMismatch(t *testing.T) {
	p, _, addrs := newPurchase(t)
	err := p.AddProducts(addrs[0], []uint64{1}, []uint64{200, 300}, []account.Address{addrs[1]})
	require.ErrorIs(t, err, revert.ErrInvalidArgument)
}

func Test_Purchase_Request_MissingProduct(t *testing.T) {
	p, _, addrs := newPurchase(t)
	err := p.PurchaseRequest(addrs[0], 1)
	require.ErrorIs(t, err, revert.ErrNotFound)
}

func Test_Purchase_Request_Pass(t *testing.T) {
	p, _, addrs := newPurchase(t)
	require.NoError(t, p.AddProduct(addrs[0], 1, 100, addrs[1]))
	require.NoError(t, p.PurchaseRequest(addrs[0], 1))

	require.True(t, p.Catalog().HasOpenRequest(1, addrs[0]))
	require.Equal(t, 1, p.Catalog().GetRequestedProductsBy(addrs[0]))
}

func Test_Purchase_Confirm_NotRetailer(t *testing.T) {
	p, tok, addrs := newPurchase(t)
	require.NoError(t, p.AddProduct(addrs[0], 1, 100, addrs[1]))
	require.NoError(t, p.PurchaseRequest(addrs[0], 1))
	require.NoError(t, tok.Approve(addrs[0], p.Addr(), 100))

	err := p.ConfirmPurchase(addrs[2], 1, addrs[0], addrs[5])
	require.ErrorIs(t, err, revert.ErrUnauthorized)
	require.Equal(t, uint64(0), tok.BalanceOf(addrs[5]))
}

func Test_Purchase_Confirm_NoAllowance(t *testing.T) {
	p, tok, addrs := newPurchase(t)
	require.NoError(t, p.AddProduct(addrs[0], 1, 100, addrs[1]))
	require.NoError(t, p.PurchaseRequest(addrs[0], 1))

	err := p.ConfirmPurchase(addrs[1], 1, addrs[0], addrs[5])
	require.ErrorIs(t, err, revert.ErrInsufficientAllowance)
	require.True(t, p.Catalog().HasOpenRequest(1, addrs[0]))
	require.Equal(t, uint64(1_000_000), tok.BalanceOf(addrs[0]))
}

func Test_Purchase_Confirm_NoRequest(t *testing.T) {
	p, tok, addrs := newPurchase(t)
	require.NoError(t, p.AddProduct(addrs[0], 1, 100, addrs[1]))
	require.NoError(t, tok.Approve(addrs[0], p.Addr(), 100))

	err := p.ConfirmPurchase(addrs[1], 1, addrs[0], addrs[5])
	require.ErrorIs(t, err, revert.ErrNotFound)
}

func Test_Purchase_Confirm_Pass(t *testing.T) {
	p, tok, addrs := newPurchase(t)
	require.NoError(t, p.AddProduct(addrs[0], 1, 100, addrs[1]))
	require.NoError(t, p.PurchaseRequest(addrs[0], 1))
	require.NoError(t, tok.Approve(addrs[0], p.Addr(), 100))

	require.NoError(t, p.ConfirmPurchase(addrs[1], 1, addrs[0], addrs[5]))

	require.Equal(t, uint64(100), tok.BalanceOf(addrs[5]))
	require.Equal(t, uint64(1_000_000-100), tok.BalanceOf(addrs[0]))
	require.Equal(t, uint64(0), tok.Allowance(addrs[0], p.Addr()))
	require.False(t, p.Catalog().HasOpenRequest(1, addrs[0]))
}

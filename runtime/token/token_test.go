package token

import (
	"testing"

	"github.com/stretchr/testify/require"

	z "github.com/datamarket/marketchain/internal/testing"
	"github.com/datamarket/marketchain/revert"
	"github.com/datamarket/marketchain/runtime/account"
	"github.com/datamarket/marketchain/runtime/storage"
)

func newToken(t *testing.T) (*Token, []account.Address) {
	addrs := z.NewAddresses(t, 4)
	tok := New(Conf{
		Name: "Test token 1", Symbol: "TT1", Decimals: 18,
		InitialSupply: 1000, Creator: addrs[0],
		KVFactory: storage.CreateSimpleKV,
	})
	return tok, addrs
}

func Test_Token_InitialSupply(t *testing.T) {
	tok, addrs := newToken(t)
	require.Equal(t, uint64(1000), tok.Supply())
	require.Equal(t, uint64(1000), tok.BalanceOf(addrs[0]))
	require.Equal(t, uint64(0), tok.BalanceOf(addrs[1]))
}

func Test_Token_Transfer(t *testing.T) {
	tok, addrs := newToken(t)
	require.NoError(t, tok.Transfer(addrs[0], addrs[1], 300))
	require.Equal(t, uint64(700), tok.BalanceOf(addrs[0]))
	require.Equal(t, uint64(300), tok.BalanceOf(addrs[1]))
}

func Test_Token_Transfer_InsufficientBalance(t *testing.T) {
	tok, addrs := newToken(t)
	err := tok.Transfer(addrs[1], addrs[2], 1)
	require.ErrorIs(t, err, revert.ErrInvalidArgument)
	require.Equal(t, uint64(0), tok.BalanceOf(addrs[2]))
}

func Test_Token_Transfer_ZeroAmount(t *testing.T) {
	tok, addrs := newToken(t)
	err := tok.Transfer(addrs[0], addrs[1], 0)
	require.ErrorIs(t, err, revert.ErrInvalidArgument)
}

func Test_Token_Approve_Overwrites(t *testing.T) {
	tok, addrs := newToken(t)
	require.NoError(t, tok.Approve(addrs[0], addrs[1], 100))
	require.Equal(t, uint64(100), tok.Allowance(addrs[0], addrs[1]))
	require.NoError(t, tok.Approve(addrs[0], addrs[1], 50))
	require.Equal(t, uint64(50), tok.Allowance(addrs[0], addrs[1]))
}

func Test_Token_TransferFrom(t *testing.T) {
	tok, addrs := newToken(t)
	require.NoError(t, tok.Approve(addrs[0], addrs[1], 100))
	require.NoError(t, tok.TransferFrom(addrs[1], addrs[0], addrs[2], 60))

	require.Equal(t, uint64(940), tok.BalanceOf(addrs[0]))
	require.Equal(t, uint64(60), tok.BalanceOf(addrs[2]))
	// the spend consumed part of the allowance
	require.Equal(t, uint64(40), tok.Allowance(addrs[0], addrs[1]))
}

func Test_Token_TransferFrom_InsufficientAllowance(t *testing.T) {
	tok, addrs := newToken(t)
	require.NoError(t, tok.Approve(addrs[0], addrs[1], 10))
	err := tok.TransferFrom(addrs[1], addrs[0], addrs[2], 60)
	require.ErrorIs(t, err, revert.ErrInsufficientAllowance)
	require.Equal(t, uint64(1000), tok.BalanceOf(addrs[0]))
	require.Equal(t, uint64(10), tok.Allowance(addrs[0], addrs[1]))
}

func Test_Token_TransferFrom_NoApproval(t *testing.T) {
	tok, addrs := newToken(t)
	err := tok.TransferFrom(addrs[1], addrs[0], addrs[2], 1)
	require.ErrorIs(t, err, revert.ErrInsufficientAllowance)
}

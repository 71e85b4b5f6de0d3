package contract_test

import (
	"encoding/hex"
	"testing"

	"github.com/Mohsinsiddi/bn8004/internal/config"
	"github.com/Mohsinsiddi/bn8004/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Built-in registry
// ---------------------------------------------------------------------------

func TestBuiltinsRegistered(t *testing.T) {
	var ids []string
	for _, b := range contract.AllBuiltins() {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"bn8004", "erc20", "forwarder"}, ids)
}

func TestGetBuiltinNotFound(t *testing.T) {
	_, ok := contract.GetBuiltin("this-id-does-not-exist-xyz")
	assert.False(t, ok)
}

func TestMustBuiltinABIPanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() { contract.MustBuiltinABI("nope") })
}

func TestRegisterBuiltinPanicsOnMalformedABI(t *testing.T) {
	assert.Panics(t, func() {
		contract.RegisterBuiltin("broken", "Broken", "", `[{"type":"function",`)
	})
}

func TestERC20Methods(t *testing.T) {
	b, ok := contract.GetBuiltin(contract.ERC20)
	require.True(t, ok)
	assert.Equal(t, []string{
		"allowance(address,address)",
		"approve(address,uint256)",
		"balanceOf(address)",
		"decimals()",
		"name()",
		"symbol()",
	}, b.Methods())
}

func TestBuiltinSelectorsMatchKnownValues(t *testing.T) {
	cases := []struct {
		builtin, method, selector string
	}{
		{contract.ERC20, "approve", "095ea7b3"},
		{contract.ERC20, "balanceOf", "70a08231"},
		{contract.ERC20, "allowance", "dd62ed3e"},
		{contract.ERC20, "decimals", "313ce567"},
		{contract.MintToken, "mint", "1249c58b"},
		{contract.MintToken, "name", "06fdde03"},
		{contract.Forwarder, "getNonce", "2d0335ab"},
	}
	for _, tc := range cases {
		m, ok := contract.MustBuiltinABI(tc.builtin).Methods[tc.method]
		require.True(t, ok, tc.method)
		assert.Equal(t, tc.selector, hex.EncodeToString(m.ID), tc.method)
	}
}

// ---------------------------------------------------------------------------
// Selector / GasFallback
// ---------------------------------------------------------------------------

func TestSelector(t *testing.T) {
	sel := contract.Selector("transfer(address,uint256)")
	assert.Equal(t, "a9059cbb", hex.EncodeToString(sel[:]))
}

func TestSelectorAgreesWithABI(t *testing.T) {
	m := contract.MustBuiltinABI(contract.ERC20).Methods["approve"]
	sel := contract.Selector(m.Sig)
	assert.Equal(t, m.ID, sel[:])
}

func TestGasFallback(t *testing.T) {
	approve := contract.Selector("approve(address,uint256)")
	mint := contract.Selector("mint()")

	assert.Equal(t, config.GasLimitERC20Approve, contract.GasFallback(append(approve[:], make([]byte, 64)...)))
	assert.Equal(t, config.GasLimitMint, contract.GasFallback(mint[:]))
	assert.Equal(t, config.GasLimitContractCall, contract.GasFallback([]byte{0xde, 0xad, 0xbe, 0xef}))
	assert.Equal(t, config.GasLimitContractCall, contract.GasFallback(nil))
}

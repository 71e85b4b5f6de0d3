package wallet

import (
	"math/big"
	"testing"

	"github.com/99designs/keyring"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known Hardhat/Anvil test account #0. Never fund on mainnet.
const (
	testPrivKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testSignerAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

// testKeystore returns a file-backed Keystore isolated to a temp directory.
// Using the FileBackend avoids OS keychain prompts in CI.
func testKeystore(t *testing.T) *Keystore {
	t.Helper()
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      "bn8004-test",
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          t.TempDir(),
		FilePasswordFunc: func(string) (string, error) { return "testpass", nil },
	})
	require.NoError(t, err)
	return NewKeystore(ring)
}

// testSigner stores the test key in a fresh keystore.
func testSigner(t *testing.T) *Signer {
	t.Helper()
	t.Setenv(KeyEnvVar, "")
	ks := testKeystore(t)
	ref, err := ks.Store("dev", testPrivKeyHex)
	require.NoError(t, err)
	return NewSigner(&Wallet{Name: "dev", Address: testSignerAddr, Type: TypeSigning, KeyRef: ref}, ks)
}

func testTx() *types.Transaction {
	to := common.HexToAddress("0xAbd0c33d4A624E695BB41Ab003021CB30Be80e37")
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(56),
		Nonce:     0,
		GasTipCap: big.NewInt(1e9),
		GasFeeCap: big.NewInt(2e9),
		Gas:       21000,
		To:        &to,
		Value:     big.NewInt(0),
	})
}

// ---------------------------------------------------------------------------
// Signer.Address
// ---------------------------------------------------------------------------

func TestSignerAddress(t *testing.T) {
	w := &Wallet{Name: "w", Address: testSignerAddr, Type: TypeSigning}
	s := NewSigner(w, NewInMemoryKeystore())
	assert.Equal(t, common.HexToAddress(testSignerAddr), s.Address())
	assert.True(t, s.CanSign())
}

// ---------------------------------------------------------------------------
// Signer.SignTx
// ---------------------------------------------------------------------------

func TestSignTxWatchOnlyError(t *testing.T) {
	w := &Wallet{Name: "watcher", Address: testSignerAddr, Type: TypeWatchOnly}
	s := NewSigner(w, NewInMemoryKeystore())
	assert.False(t, s.CanSign())

	_, err := s.SignTx(testTx(), big.NewInt(56))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch-only")
}

func TestSignTxKeyNotFound(t *testing.T) {
	t.Setenv(KeyEnvVar, "")
	ks := testKeystore(t)
	w := &Wallet{Name: "missing", Address: testSignerAddr, Type: TypeSigning, KeyRef: "bn8004.doesnotexist"}

	_, err := NewSigner(w, ks).SignTx(testTx(), big.NewInt(56))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieving key")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSignTxInvalidKey(t *testing.T) {
	ks := NewInMemoryKeystore()
	ref, _ := ks.Store("bad", "not-hex")
	w := &Wallet{Name: "bad", Address: testSignerAddr, Type: TypeSigning, KeyRef: ref}

	_, err := NewSigner(w, ks).SignTx(testTx(), big.NewInt(56))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing private key")
}

func TestSignTxRecoversSender(t *testing.T) {
	s := testSigner(t)

	signed, err := s.SignTx(testTx(), big.NewInt(56))
	require.NoError(t, err)

	from, err := types.Sender(types.NewLondonSigner(big.NewInt(56)), signed)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testSignerAddr), from)
	assert.Equal(t, uint8(types.DynamicFeeTxType), signed.Type())
}

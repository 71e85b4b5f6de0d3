package wallet_test

import (
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/bn8004/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knownKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func newManager() (*wallet.Manager, *wallet.InMemoryKeystore) {
	ks := wallet.NewInMemoryKeystore()
	return wallet.NewManager(wallet.WithInMemoryStore(), wallet.WithKeystore(ks)), ks
}

func TestAddWatchOnlyWallet(t *testing.T) {
	mgr, _ := newManager()

	require.NoError(t, mgr.AddWatchOnly("watcher", "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"))

	w, err := mgr.Get("watcher")
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeWatchOnly, w.Type)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", w.Address, "address is checksummed")
	assert.Empty(t, w.KeyRef)
}

func TestAddWatchOnlyInvalidAddress(t *testing.T) {
	mgr, _ := newManager()
	assert.ErrorIs(t, mgr.AddWatchOnly("bad", "0x123"), wallet.ErrInvalidAddress)
}

func TestAddDuplicateWalletErrors(t *testing.T) {
	mgr, _ := newManager()
	require.NoError(t, mgr.AddWatchOnly("dup", "0x1234567890abcdef1234567890abcdef12345678"))
	assert.ErrorIs(t, mgr.AddWatchOnly("dup", "0x1234567890abcdef1234567890abcdef12345678"), wallet.ErrWalletExists)
	assert.ErrorIs(t, mgr.AddWithKey("dup", knownKey), wallet.ErrWalletExists)
}

func TestAddSigningWallet(t *testing.T) {
	mgr, ks := newManager()

	require.NoError(t, mgr.AddWithKey("signer", knownKey))

	w, err := mgr.Get("signer")
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeSigning, w.Type)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", w.Address) // known address for test key

	stored, err := ks.Retrieve(w.KeyRef)
	require.NoError(t, err)
	assert.Equal(t, knownKey[2:], stored)
}

func TestAddSigningWithoutKeystore(t *testing.T) {
	mgr := wallet.NewManager(wallet.WithInMemoryStore())
	assert.ErrorIs(t, mgr.AddWithKey("signer", knownKey), wallet.ErrNoKeystore)
}

func TestInvalidPrivateKey(t *testing.T) {
	mgr, _ := newManager()
	assert.ErrorIs(t, mgr.AddWithKey("bad", "not-a-valid-key"), wallet.ErrInvalidKey)
}

func TestListWalletsSorted(t *testing.T) {
	mgr, _ := newManager()
	require.NoError(t, mgr.AddWatchOnly("w2", "0x2222222222222222222222222222222222222222"))
	require.NoError(t, mgr.AddWatchOnly("w1", "0x1111111111111111111111111111111111111111"))
	require.NoError(t, mgr.AddWatchOnly("w3", "0x3333333333333333333333333333333333333333"))

	wallets, err := mgr.List()
	require.NoError(t, err)
	require.Len(t, wallets, 3)
	assert.Equal(t, "w1", wallets[0].Name)
	assert.Equal(t, "w3", wallets[2].Name)
}

func TestRemoveWalletDeletesKey(t *testing.T) {
	mgr, ks := newManager()
	require.NoError(t, mgr.AddWithKey("w1", knownKey))
	w, _ := mgr.Get("w1")

	require.NoError(t, mgr.Remove("w1"))

	_, err := mgr.Get("w1")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	_, err = ks.Retrieve(w.KeyRef)
	assert.ErrorIs(t, err, wallet.ErrKeyNotFound)
}

func TestRemoveNonExistentWallet(t *testing.T) {
	mgr, _ := newManager()
	assert.ErrorIs(t, mgr.Remove("ghost"), wallet.ErrWalletNotFound)
}

func TestFirstWalletBecomesDefault(t *testing.T) {
	mgr, _ := newManager()
	require.NoError(t, mgr.AddWatchOnly("w1", "0x1111111111111111111111111111111111111111"))
	require.NoError(t, mgr.AddWatchOnly("w2", "0x2222222222222222222222222222222222222222"))

	def := mgr.Default()
	require.NotNil(t, def)
	assert.Equal(t, "w1", def.Name)
}

func TestSetDefault(t *testing.T) {
	mgr, _ := newManager()
	require.NoError(t, mgr.AddWatchOnly("w1", "0x1111111111111111111111111111111111111111"))
	require.NoError(t, mgr.AddWatchOnly("w2", "0x2222222222222222222222222222222222222222"))

	require.NoError(t, mgr.SetDefault("w2"))

	def := mgr.Default()
	require.NotNil(t, def)
	assert.Equal(t, "w2", def.Name)
	assert.ErrorIs(t, mgr.SetDefault("ghost"), wallet.ErrWalletNotFound)
}

func TestResolve(t *testing.T) {
	mgr, _ := newManager()
	_, err := mgr.Resolve("")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)

	require.NoError(t, mgr.AddWatchOnly("w1", "0x1111111111111111111111111111111111111111"))
	require.NoError(t, mgr.AddWatchOnly("w2", "0x2222222222222222222222222222222222222222"))

	w, err := mgr.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "w1", w.Name)

	w, err = mgr.Resolve("w2")
	require.NoError(t, err)
	assert.Equal(t, "w2", w.Name)
}

func TestCreatedAtIsSet(t *testing.T) {
	mgr, _ := newManager()
	require.NoError(t, mgr.AddWatchOnly("w", "0x1111111111111111111111111111111111111111"))

	w, _ := mgr.Get("w")
	assert.NotEmpty(t, w.CreatedAt)
}

// ---------------------------------------------------------------------------
// Generate
// ---------------------------------------------------------------------------

func TestGenerateWallet(t *testing.T) {
	mgr, ks := newManager()

	addr, err := mgr.Generate("fresh")
	require.NoError(t, err)

	w, err := mgr.Get("fresh")
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeSigning, w.Type)
	assert.Equal(t, addr.Hex(), w.Address)

	key, err := ks.Retrieve(w.KeyRef)
	require.NoError(t, err)
	assert.Len(t, key, 64)
}

func TestGenerateWalletDuplicateErrors(t *testing.T) {
	mgr, _ := newManager()
	_, err := mgr.Generate("dup")
	require.NoError(t, err)

	_, err = mgr.Generate("dup")
	assert.ErrorIs(t, err, wallet.ErrWalletExists)
}

func TestGenerateUniqueAddresses(t *testing.T) {
	mgr, _ := newManager()
	a1, err := mgr.Generate("g1")
	require.NoError(t, err)
	a2, err := mgr.Generate("g2")
	require.NoError(t, err)
	assert.NotEqual(t, a1, a2, "two generated keys must differ")
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

func TestManagerPersistsToJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	ks := wallet.NewInMemoryKeystore()

	mgr := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(path)), wallet.WithKeystore(ks))
	require.NoError(t, mgr.AddWithKey("dev", knownKey))

	reloaded := wallet.NewManager(wallet.WithStore(wallet.NewJSONStore(path)), wallet.WithKeystore(ks))
	w, err := reloaded.Get("dev")
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", w.Address)
	assert.True(t, w.IsDefault)
}

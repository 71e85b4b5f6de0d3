package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/Mohsinsiddi/bn8004/internal/chain"
	"github.com/Mohsinsiddi/bn8004/internal/config"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mintToken = common.HexToAddress("0xAbd0c33d4A624E695BB41Ab003021CB30Be80e37")

func testChain(id uint64, rpcURL string) chain.Chain {
	return chain.Chain{
		Name:           "test",
		DisplayName:    "Test Chain",
		ChainID:        id,
		NativeCurrency: chain.Currency{Name: "Test", Symbol: "TST", Decimals: 18},
		RPCs:           []string{rpcURL},
	}
}

// nodeMock answers the calls a Local wallet makes to build and send a tx.
// Broadcast transactions are decoded and delivered to sent.
func nodeMock(t *testing.T, chainID uint64, sent chan<- *types.Transaction) *rpcMock {
	t.Helper()
	m := newRPCMock(t)
	m.result("eth_chainId", hexutil.Uint64(chainID))
	m.result("eth_gasPrice", "0x3b9aca00")
	m.result("eth_getTransactionCount", "0x5")
	m.result("eth_estimateGas", "0xb411")
	m.result("eth_call", "0x000000000000000000000000000000000000000000000000000000000000002a")
	m.result("eth_getTransactionReceipt", nil)
	m.on("eth_sendRawTransaction", func(params []json.RawMessage) (interface{}, *ProviderError) {
		var raw hexutil.Bytes
		if err := json.Unmarshal(params[0], &raw); err != nil {
			return nil, &ProviderError{Code: CodeInvalidParams, Message: err.Error()}
		}
		tx := new(types.Transaction)
		if err := tx.UnmarshalBinary(raw); err != nil {
			return nil, &ProviderError{Code: CodeInvalidParams, Message: err.Error()}
		}
		if sent != nil {
			sent <- tx
		}
		return tx.Hash(), nil
	})
	return m
}

// recorder is an AuthorizeFunc that logs requests and answers with allow.
type recorder struct {
	allow bool
	reqs  []AuthRequest
}

func (r *recorder) authorize(_ context.Context, req AuthRequest) bool {
	r.reqs = append(r.reqs, req)
	return r.allow
}

// ---------------------------------------------------------------------------
// Accounts / chain
// ---------------------------------------------------------------------------

func TestLocalRequestAccountsOnce(t *testing.T) {
	rec := &recorder{allow: true}
	l := NewLocal(testSigner(t), testChain(56, "http://unused"), WithAuthorizer(rec.authorize))

	for range 2 {
		accounts, err := l.RequestAccounts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []common.Address{common.HexToAddress(testSignerAddr)}, accounts)
	}
	require.Len(t, rec.reqs, 1, "access is asked only once")
	assert.Equal(t, AuthAccounts, rec.reqs[0].Kind)
}

func TestLocalRequestAccountsRejected(t *testing.T) {
	rec := &recorder{allow: false}
	l := NewLocal(testSigner(t), testChain(56, "http://unused"), WithAuthorizer(rec.authorize))

	_, err := l.RequestAccounts(context.Background())
	assert.True(t, IsUserRejected(err))
}

func TestLocalSwitchUnknownChain(t *testing.T) {
	l := NewLocal(testSigner(t), testChain(1, "http://unused"))

	err := l.SwitchChain(context.Background(), 56)
	assert.Equal(t, CodeUnrecognizedChain, ErrorCode(err))

	id, _ := l.ChainID(context.Background())
	assert.Equal(t, uint64(1), id)
}

func TestLocalSwitchKnownChainEmitsEvent(t *testing.T) {
	l := NewLocal(testSigner(t), testChain(1, "http://unused"), WithKnownChains(testChain(56, "http://unused")))
	events := make(chan Event, 1)
	sub := l.SubscribeEvents(events)
	defer sub.Unsubscribe()

	require.NoError(t, l.SwitchChain(context.Background(), 56))

	id, _ := l.ChainID(context.Background())
	assert.Equal(t, uint64(56), id)

	select {
	case ev := <-events:
		assert.Equal(t, EventChainChanged, ev.Kind)
		assert.Equal(t, uint64(56), ev.ChainID)
	case <-time.After(time.Second):
		t.Fatal("no chainChanged event")
	}
}

func TestLocalSwitchToActiveChainIsNoop(t *testing.T) {
	rec := &recorder{allow: true}
	l := NewLocal(testSigner(t), testChain(56, "http://unused"), WithAuthorizer(rec.authorize))

	require.NoError(t, l.SwitchChain(context.Background(), 56))
	assert.Empty(t, rec.reqs)
}

func TestLocalSwitchRejected(t *testing.T) {
	rec := &recorder{allow: false}
	l := NewLocal(testSigner(t), testChain(1, "http://unused"),
		WithKnownChains(testChain(56, "http://unused")), WithAuthorizer(rec.authorize))

	err := l.SwitchChain(context.Background(), 56)
	assert.True(t, IsUserRejected(err))
	id, _ := l.ChainID(context.Background())
	assert.Equal(t, uint64(1), id)
}

func TestLocalAddChainVerifiesAndSwitches(t *testing.T) {
	node := nodeMock(t, 56, nil)
	l := NewLocal(testSigner(t), testChain(1, "http://unused"))
	defer l.Close()

	params := testChain(56, node.URL).AddChainParams()
	require.NoError(t, l.AddChain(context.Background(), params))

	id, _ := l.ChainID(context.Background())
	assert.Equal(t, uint64(56), id)
	assert.Len(t, node.callsTo("eth_chainId"), 1)
}

func TestLocalAddChainWrongChainID(t *testing.T) {
	node := nodeMock(t, 97, nil)
	l := NewLocal(testSigner(t), testChain(1, "http://unused"))

	err := l.AddChain(context.Background(), testChain(56, node.URL).AddChainParams())
	assert.Equal(t, CodeInvalidParams, ErrorCode(err))

	id, _ := l.ChainID(context.Background())
	assert.Equal(t, uint64(1), id)
}

func TestLocalAddChainInvalidParams(t *testing.T) {
	l := NewLocal(testSigner(t), testChain(1, "http://unused"))
	err := l.AddChain(context.Background(), chain.AddChainParams{ChainID: 56})
	assert.Equal(t, CodeInvalidParams, ErrorCode(err))
}

// ---------------------------------------------------------------------------
// Calls / transactions
// ---------------------------------------------------------------------------

func TestLocalCallContract(t *testing.T) {
	node := nodeMock(t, 56, nil)
	l := NewLocal(testSigner(t), testChain(56, node.URL))
	defer l.Close()

	out, err := l.CallContract(context.Background(), ethereum.CallMsg{To: &mintToken, Data: []byte{0x12, 0x49, 0xc5, 0x8b}})
	require.NoError(t, err)
	assert.Equal(t, int64(42), new(big.Int).SetBytes(out).Int64())
}

func TestLocalSendTransaction(t *testing.T) {
	sent := make(chan *types.Transaction, 1)
	node := nodeMock(t, 56, sent)
	rec := &recorder{allow: true}
	l := NewLocal(testSigner(t), testChain(56, node.URL), WithAuthorizer(rec.authorize))
	defer l.Close()

	data := []byte{0x12, 0x49, 0xc5, 0x8b}
	hash, err := l.SendTransaction(context.Background(), ethereum.CallMsg{To: &mintToken, Data: data})
	require.NoError(t, err)

	tx := <-sent
	assert.Equal(t, tx.Hash(), hash)
	assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	assert.Equal(t, uint64(56), tx.ChainId().Uint64())
	assert.Equal(t, uint64(5), tx.Nonce())
	assert.Equal(t, uint64(0xb411), tx.Gas())
	assert.Equal(t, int64(1e9), tx.GasTipCap().Int64())
	assert.Equal(t, int64(2e9), tx.GasFeeCap().Int64())
	assert.Equal(t, mintToken, *tx.To())
	assert.Equal(t, data, tx.Data())

	from, err := types.Sender(types.NewLondonSigner(big.NewInt(56)), tx)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testSignerAddr), from)

	require.Len(t, rec.reqs, 1)
	assert.Equal(t, AuthTransaction, rec.reqs[0].Kind)
}

func TestLocalSendTransactionGasFallback(t *testing.T) {
	sent := make(chan *types.Transaction, 1)
	node := nodeMock(t, 56, sent)
	node.fail("eth_estimateGas", 3, "execution reverted")
	l := NewLocal(testSigner(t), testChain(56, node.URL))
	defer l.Close()

	_, err := l.SendTransaction(context.Background(), ethereum.CallMsg{To: &mintToken, Data: []byte{0x12, 0x49, 0xc5, 0x8b}})
	require.NoError(t, err)
	assert.Equal(t, config.GasLimitMint, (<-sent).Gas())
}

func TestLocalSendTransactionRejected(t *testing.T) {
	node := nodeMock(t, 56, nil)
	l := NewLocal(testSigner(t), testChain(56, node.URL), WithAuthorizer((&recorder{}).authorize))
	defer l.Close()

	_, err := l.SendTransaction(context.Background(), ethereum.CallMsg{To: &mintToken})
	assert.True(t, IsUserRejected(err))
	assert.Empty(t, node.callsTo("eth_sendRawTransaction"))
}

func TestLocalSendTransactionForeignAccount(t *testing.T) {
	l := NewLocal(testSigner(t), testChain(56, "http://unused"))
	other := common.HexToAddress("0x1111111111111111111111111111111111111111")

	_, err := l.SendTransaction(context.Background(), ethereum.CallMsg{From: other, To: &mintToken})
	assert.Equal(t, CodeUnauthorized, ErrorCode(err))
}

func TestLocalSendTransactionWatchOnly(t *testing.T) {
	w := &Wallet{Name: "watch", Address: testSignerAddr, Type: TypeWatchOnly}
	l := NewLocal(NewSigner(w, NewInMemoryKeystore()), testChain(56, "http://unused"))

	_, err := l.SendTransaction(context.Background(), ethereum.CallMsg{To: &mintToken})
	assert.Equal(t, CodeUnauthorized, ErrorCode(err))
}

func TestLocalReceiptPending(t *testing.T) {
	node := nodeMock(t, 56, nil)
	l := NewLocal(testSigner(t), testChain(56, node.URL))
	defer l.Close()

	_, err := l.TransactionReceipt(context.Background(), common.HexToHash("0x01"))
	assert.True(t, errors.Is(err, ethereum.NotFound))
}

func TestAuthRequestSummary(t *testing.T) {
	c := testChain(56, "")
	assert.Contains(t, AuthRequest{Kind: AuthSwitchChain, Chain: c}.Summary(), "chain 56")
	assert.Contains(t, AuthRequest{Kind: AuthAddChain, Chain: c}.Summary(), "Add network Test Chain")
	assert.Contains(t, AuthRequest{Kind: AuthTransaction, Tx: &ethereum.CallMsg{To: &mintToken, Data: []byte{1, 2}}}.Summary(), "2 bytes")
	assert.Contains(t, AuthRequest{Kind: AuthAccounts, Account: mintToken}.Summary(), mintToken.Hex())
}

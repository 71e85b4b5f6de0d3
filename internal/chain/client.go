package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client is an EVM JSON-RPC connection to a single endpoint.
type Client struct {
	url string
	rpc *rpc.Client
	eth *ethclient.Client
}

// Dial connects to an HTTP(S) or WS endpoint. HTTP dials are lazy, so an
// unreachable node surfaces on the first call rather than here.
func Dial(ctx context.Context, url string) (*Client, error) {
	rc, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return &Client{url: url, rpc: rc, eth: ethclient.NewClient(rc)}, nil
}

// URL returns the endpoint the client was dialed with.
func (c *Client) URL() string { return c.url }

// Eth exposes the typed eth_* API.
func (c *Client) Eth() *ethclient.Client { return c.eth }

// RPC exposes the raw JSON-RPC client.
func (c *Client) RPC() *rpc.Client { return c.rpc }

// ChainID asks the node which chain it serves.
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	id, err := c.eth.ChainID(ctx)
	if err != nil {
		return 0, err
	}
	return id.Uint64(), nil
}

// Ping measures a round trip to the endpoint and returns the head block number.
func (c *Client) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	blockNum, err = c.eth.BlockNumber(ctx)
	latency = time.Since(start)
	return latency, blockNum, err
}

// Close releases the underlying connection.
func (c *Client) Close() {
	c.rpc.Close()
}

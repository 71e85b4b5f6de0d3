package rpc_test

import (
	"testing"
	"time"

	"github.com/Mohsinsiddi/bn8004/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ep(url string, latency time.Duration, block uint64, healthy bool) rpc.Endpoint {
	return rpc.Endpoint{URL: url, Latency: latency, BlockNumber: block, Healthy: healthy}
}

func TestPickerSelectsFastest(t *testing.T) {
	endpoints := []rpc.Endpoint{
		ep("http://slow.rpc", 200*time.Millisecond, 100, true),
		ep("http://fast.rpc", 30*time.Millisecond, 100, true),
		ep("http://medium.rpc", 80*time.Millisecond, 100, true),
	}

	winner, err := rpc.NewPicker(rpc.AlgorithmFastest).Pick(endpoints)
	require.NoError(t, err)
	assert.Equal(t, "http://fast.rpc", winner.URL)
}

func TestPickerDiscardsStaleNodes(t *testing.T) {
	endpoints := []rpc.Endpoint{
		ep("http://fresh.rpc", 50*time.Millisecond, 1000, true),
		ep("http://stale.rpc", 10*time.Millisecond, 990, true),
	}

	winner, err := rpc.NewPicker(rpc.AlgorithmFastest).Pick(endpoints)
	require.NoError(t, err)
	assert.Equal(t, "http://fresh.rpc", winner.URL, "stale node should be discarded even if faster")
}

func TestPickerIgnoresUnhealthyHead(t *testing.T) {
	// A failed probe reports block 0; it must not drag the head down or win.
	endpoints := []rpc.Endpoint{
		ep("http://dead.rpc", time.Millisecond, 0, false),
		ep("http://live.rpc", 90*time.Millisecond, 500, true),
	}

	winner, err := rpc.NewPicker(rpc.AlgorithmFastest).Pick(endpoints)
	require.NoError(t, err)
	assert.Equal(t, "http://live.rpc", winner.URL)
}

func TestPickerRoundRobinCycles(t *testing.T) {
	endpoints := []rpc.Endpoint{
		ep("http://rpc1", 0, 100, true),
		ep("http://rpc2", 0, 100, false),
		ep("http://rpc3", 0, 100, true),
	}

	picker := rpc.NewPicker(rpc.AlgorithmRoundRobin)
	var urls []string
	for range 3 {
		e, err := picker.Pick(endpoints)
		require.NoError(t, err)
		urls = append(urls, e.URL)
	}
	assert.Equal(t, []string{"http://rpc1", "http://rpc3", "http://rpc1"}, urls)
}

func TestPickerFailover(t *testing.T) {
	endpoints := []rpc.Endpoint{
		ep("http://primary", 0, 100, false),
		ep("http://secondary", 90*time.Millisecond, 100, true),
		ep("http://tertiary", 10*time.Millisecond, 100, true),
	}

	winner, err := rpc.NewPicker(rpc.AlgorithmFailover).Pick(endpoints)
	require.NoError(t, err)
	assert.Equal(t, "http://secondary", winner.URL, "failover keeps configured order")
}

func TestPickerErrorsWhenAllUnhealthy(t *testing.T) {
	endpoints := []rpc.Endpoint{
		ep("http://rpc1", 0, 0, false),
		ep("http://rpc2", 0, 0, false),
	}

	for _, algo := range []rpc.Algorithm{rpc.AlgorithmFastest, rpc.AlgorithmRoundRobin, rpc.AlgorithmFailover} {
		_, err := rpc.NewPicker(algo).Pick(endpoints)
		assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC, string(algo))
	}
}

func TestPickerEmptyEndpoints(t *testing.T) {
	_, err := rpc.NewPicker(rpc.AlgorithmFastest).Pick(nil)
	assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC)
}

func TestParseAlgorithm(t *testing.T) {
	a, err := rpc.ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, rpc.AlgorithmFastest, a)

	a, err = rpc.ParseAlgorithm("failover")
	require.NoError(t, err)
	assert.Equal(t, rpc.AlgorithmFailover, a)

	_, err = rpc.ParseAlgorithm("random")
	assert.Error(t, err)
}

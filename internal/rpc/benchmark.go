package rpc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Mohsinsiddi/bn8004/internal/chain"
	"github.com/ethereum/go-ethereum/log"
)

// BenchmarkResult holds the result of probing a single endpoint.
type BenchmarkResult struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Err         error
}

// Benchmark probes all urls in parallel. An endpoint serving a chain other
// than wantChainID counts as failed.
func Benchmark(ctx context.Context, urls []string, wantChainID uint64) []BenchmarkResult {
	results := make([]BenchmarkResult, len(urls))
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()
			results[idx] = probe(ctx, u, wantChainID)
		}(i, url)
	}

	wg.Wait()
	return results
}

func probe(ctx context.Context, url string, wantChainID uint64) BenchmarkResult {
	res := BenchmarkResult{URL: url}

	c, err := chain.Dial(ctx, url)
	if err != nil {
		res.Err = err
		return res
	}
	defer c.Close()

	id, err := c.ChainID(ctx)
	if err != nil {
		res.Err = err
		return res
	}
	if id != wantChainID {
		res.Err = fmt.Errorf("endpoint serves chain %d, want %d", id, wantChainID)
		return res
	}

	res.Latency, res.BlockNumber, res.Err = c.Ping(ctx)
	return res
}

// ResultsToEndpoints converts benchmark results to picker Endpoints.
func ResultsToEndpoints(results []BenchmarkResult) []Endpoint {
	endpoints := make([]Endpoint, 0, len(results))
	for _, r := range results {
		endpoints = append(endpoints, Endpoint{
			URL:         r.URL,
			Latency:     r.Latency,
			BlockNumber: r.BlockNumber,
			Healthy:     r.Err == nil,
		})
	}
	return endpoints
}

// Select benchmarks urls and returns the one algo prefers. A single URL is
// returned without probing.
func Select(ctx context.Context, urls []string, wantChainID uint64, algo Algorithm) (string, error) {
	switch len(urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return urls[0], nil
	}

	results := Benchmark(ctx, urls, wantChainID)
	for _, r := range results {
		if r.Err != nil {
			log.Debug("RPC endpoint unusable", "url", r.URL, "err", r.Err)
		}
	}

	winner, err := NewPicker(algo).Pick(ResultsToEndpoints(results))
	if err != nil {
		return "", err
	}
	log.Debug("Selected RPC endpoint", "url", winner.URL, "latency", winner.Latency, "block", winner.BlockNumber)
	return winner.URL, nil
}

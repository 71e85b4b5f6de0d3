package rpc

import (
	"errors"
	"sync"
	"time"
)

// ErrNoHealthyRPC is returned when no endpoint is usable.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest    Algorithm = "fastest"
	AlgorithmRoundRobin Algorithm = "round-robin"
	AlgorithmFailover   Algorithm = "failover"

	// Nodes more than this many blocks behind the best head are skipped.
	staleBlockThreshold = 3
)

// ParseAlgorithm maps a config value to an Algorithm; "" means fastest.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(s); a {
	case "":
		return AlgorithmFastest, nil
	case AlgorithmFastest, AlgorithmRoundRobin, AlgorithmFailover:
		return a, nil
	default:
		return "", errors.New("unknown rpc algorithm " + s)
	}
}

// Endpoint is an RPC URL with the attributes measured by a benchmark.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Healthy     bool
}

// Picker selects one endpoint from a benchmarked list.
type Picker struct {
	algo Algorithm

	mu   sync.Mutex
	next int
}

// NewPicker creates a Picker for algo.
func NewPicker(algo Algorithm) *Picker {
	return &Picker{algo: algo}
}

// Pick returns the endpoint the algorithm prefers.
func (p *Picker) Pick(endpoints []Endpoint) (*Endpoint, error) {
	switch p.algo {
	case AlgorithmRoundRobin:
		return p.roundRobin(endpoints)
	case AlgorithmFailover:
		return failover(endpoints)
	default:
		return fastest(endpoints)
	}
}

// fastest returns the lowest-latency healthy endpoint that is not stale.
func fastest(endpoints []Endpoint) (*Endpoint, error) {
	head := bestBlock(endpoints)

	var winner *Endpoint
	for i := range endpoints {
		e := &endpoints[i]
		if !e.Healthy || head-e.BlockNumber > staleBlockThreshold {
			continue
		}
		if winner == nil || e.Latency < winner.Latency {
			winner = e
		}
	}
	if winner == nil {
		return nil, ErrNoHealthyRPC
	}
	return winner, nil
}

func (p *Picker) roundRobin(endpoints []Endpoint) (*Endpoint, error) {
	var healthy []*Endpoint
	for i := range endpoints {
		if endpoints[i].Healthy {
			healthy = append(healthy, &endpoints[i])
		}
	}
	if len(healthy) == 0 {
		return nil, ErrNoHealthyRPC
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	e := healthy[p.next%len(healthy)]
	p.next = (p.next + 1) % len(healthy)
	return e, nil
}

// failover keeps the configured order and takes the first healthy endpoint.
func failover(endpoints []Endpoint) (*Endpoint, error) {
	for i := range endpoints {
		if endpoints[i].Healthy {
			return &endpoints[i], nil
		}
	}
	return nil, ErrNoHealthyRPC
}

func bestBlock(endpoints []Endpoint) uint64 {
	var best uint64
	for _, e := range endpoints {
		if e.Healthy && e.BlockNumber > best {
			best = e.BlockNumber
		}
	}
	return best
}

// Package bitcoin implements chain access and script analysis for Bitcoin.
package bitcoin

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
	"go.uber.org/ratelimit"
)

// RPCClient wraps btc rpcclient with metrics instrumentation and a request
// rate limit, so catch-up sweeps cannot starve the node.
type RPCClient struct {
	client     NodeRPC
	rpcMetrics RPCMetrics
	rl         ratelimit.Limiter
}

// NewRPCClient constructs an instrumented RPC client capped at rps requests
// per second.
func NewRPCClient(client *rpcclient.Client, rpcMetrics RPCMetrics, rps int) *RPCClient {
	return &RPCClient{
		client:     client,
		rpcMetrics: rpcMetrics,
		rl:         ratelimit.New(rps),
	}
}

// GetBlockCount returns the latest block count.
func (r *RPCClient) GetBlockCount() (count int64, err error) {
	r.rl.Take()
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_count", err, started)
	}()
	return r.client.GetBlockCount()
}

// GetBlockHash returns the block hash for a height.
func (r *RPCClient) GetBlockHash(blockHeight int64) (hash *chainhash.Hash, err error) {
	r.rl.Take()
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_hash", err, started)
	}()
	return r.client.GetBlockHash(blockHeight)
}

// GetBlock returns the fully decoded block for a hash.
func (r *RPCClient) GetBlock(blockHash *chainhash.Hash) (block *wire.MsgBlock, err error) {
	r.rl.Take()
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block", err, started)
	}()
	return r.client.GetBlock(blockHash)
}

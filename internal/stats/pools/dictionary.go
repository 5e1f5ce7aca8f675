// Package pools attributes blocks to mining pools and derives per-pool
// feature occurrence rows.
package pools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync/atomic"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/bitcoin"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

// Dictionary resolves coinbase transactions to mining pools using a tag and
// payout-address mapping loaded from a JSON file. The active mapping is
// swapped atomically on reload, so attribution never blocks on a refresh.
type Dictionary struct {
	metrics Metrics
	params  *chaincfg.Params
	path    string

	active atomic.Pointer[index]
}

type index struct {
	pools     []model.Pool
	tags      []tagEntry
	addresses map[string]model.Pool
}

// tagEntry pairs one coinbase tag needle with its pool. Entries are kept
// sorted longest needle first so the most specific tag wins.
type tagEntry struct {
	needle []byte
	pool   model.Pool
}

type poolRecord struct {
	ID        uint32   `json:"id"`
	Name      string   `json:"name"`
	Tags      []string `json:"tags"`
	Addresses []string `json:"addresses"`
}

// NewDictionary loads the dictionary file for the given network. The initial
// load must succeed; later reloads keep the previous mapping on failure.
func NewDictionary(metrics Metrics, network model.Network, path string) (*Dictionary, error) {
	params, err := bitcoin.ChainParams(network)
	if err != nil {
		return nil, err
	}

	d := &Dictionary{
		metrics: metrics,
		params:  params,
		path:    path,
	}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload reads the dictionary file and swaps it in. On failure the
// previous dictionary stays active and the error is returned.
func (d *Dictionary) Reload() error {
	idx, err := d.load()
	if err != nil {
		d.metrics.ObserveReload(err, 0)
		return err
	}
	d.metrics.ObserveReload(nil, len(idx.pools))
	d.active.Store(idx)
	return nil
}

func (d *Dictionary) load() (*index, error) {
	raw, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("read pool dictionary: %w", err)
	}

	var records []poolRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse pool dictionary: %w", err)
	}

	idx := &index{addresses: make(map[string]model.Pool)}
	for _, rec := range records {
		pool := model.Pool{ID: rec.ID, Name: rec.Name, Tags: rec.Tags, Addresses: rec.Addresses}
		idx.pools = append(idx.pools, pool)
		for _, tag := range rec.Tags {
			if tag == "" {
				continue
			}
			idx.tags = append(idx.tags, tagEntry{needle: []byte(tag), pool: pool})
		}
		for _, addr := range rec.Addresses {
			idx.addresses[addr] = pool
		}
	}
	sort.SliceStable(idx.tags, func(i, j int) bool {
		return len(idx.tags[i].needle) > len(idx.tags[j].needle)
	})
	return idx, nil
}

// Attribute resolves the pool that produced the given coinbase transaction:
// first by tag needle against the raw coinbase scriptSig, longest needle
// first, then by payout address of any coinbase output. Returns false when
// nothing matches; an unattributed block is not an error.
func (d *Dictionary) Attribute(coinbase model.Transaction) (model.Pool, bool) {
	idx := d.active.Load()
	if idx == nil {
		return model.Pool{}, false
	}

	if len(coinbase.Inputs) > 0 {
		scriptSig := coinbase.Inputs[0].ScriptSig
		for _, entry := range idx.tags {
			if bytes.Contains(scriptSig, entry.needle) {
				return entry.pool, true
			}
		}
	}

	for _, out := range coinbase.Outputs {
		_, addrs, _, err := txscript.ExtractPkScriptAddrs(out.PkScript, d.params)
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if pool, ok := idx.addresses[addr.EncodeAddress()]; ok {
				return pool, true
			}
		}
	}

	return model.Pool{}, false
}

// Pools returns the pools of the active dictionary.
func (d *Dictionary) Pools() []model.Pool {
	idx := d.active.Load()
	if idx == nil {
		return nil
	}
	return idx.pools
}

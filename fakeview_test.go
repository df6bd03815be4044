// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

import "github.com/decred/dcrd/chaincfg/chainhash"

// fakeView is a minimal in-memory CoinView used as the base of a
// CachedCoinView under test.  Unlike LevelDBCoinView, it is allowed to keep
// a record for a spent coin, which is exactly the case CachedCoinView's
// fetchCoin must handle by materializing a FRESH entry.
type fakeView struct {
	coins     map[OutPoint]Coin
	best      chainhash.Hash
	names     map[string]NameData
	histories map[string]NameHistory
	expire    map[uint32][]string
}

func newFakeView() *fakeView {
	return &fakeView{
		coins:     make(map[OutPoint]Coin),
		names:     make(map[string]NameData),
		histories: make(map[string]NameHistory),
		expire:    make(map[uint32][]string),
	}
}

func (v *fakeView) GetCoin(outpoint OutPoint) (Coin, bool) {
	coin, ok := v.coins[outpoint]
	return coin, ok
}

func (v *fakeView) HaveCoin(outpoint OutPoint) bool {
	coin, ok := v.coins[outpoint]
	return ok && !coin.IsSpent()
}

func (v *fakeView) GetBestBlock() chainhash.Hash { return v.best }

func (v *fakeView) GetHeadBlocks() []chainhash.Hash { return nil }

func (v *fakeView) BatchWrite(coins CoinsMap, bestBlock chainhash.Hash, names *NameCache) error {
	for outpoint, entry := range coins {
		v.coins[outpoint] = entry.Coin
	}
	v.best = bestBlock
	for name, e := range names.entries {
		if e.deleted {
			delete(v.names, name)
			continue
		}
		v.names[name] = e.data
	}
	for name, h := range names.histories {
		v.histories[name] = h
	}
	for key, active := range names.expire {
		list := v.expire[key.height]
		filtered := list[:0]
		for _, n := range list {
			if n != key.name {
				filtered = append(filtered, n)
			}
		}
		v.expire[key.height] = filtered
		if active {
			v.expire[key.height] = append(v.expire[key.height], key.name)
		}
	}
	return nil
}

func (v *fakeView) Cursor() Iterator { return emptyIterator{} }

func (v *fakeView) GetName(name []byte) (NameData, bool) {
	data, ok := v.names[string(name)]
	return data, ok
}

func (v *fakeView) GetNameHistory(name []byte) (NameHistory, bool) {
	h, ok := v.histories[string(name)]
	return h, ok
}

func (v *fakeView) GetNamesForHeight(height uint32) ([][]byte, bool) {
	names := make([][]byte, 0, len(v.expire[height]))
	for _, n := range v.expire[height] {
		names = append(names, []byte(n))
	}
	return names, true
}

func (v *fakeView) IterateNames() NameIterator { return emptyNameIterator{} }

func (v *fakeView) ValidateNameDB(<-chan struct{}) error { return nil }

func (v *fakeView) EstimateSize() uint64 { return uint64(len(v.coins)) }

var _ CoinView = (*fakeView)(nil)

// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

import "github.com/decred/dcrd/chaincfg/chainhash"

// BackedCoinView holds a rebindable reference to a parent view and forwards
// every operation to it verbatim.  This indirection lets the cache layer be
// written once and used identically whether it sits atop the persistent
// store or atop another cache.
//
// The embedder guarantees base outlives every call made through this view;
// BackedCoinView itself does not own base.
type BackedCoinView struct {
	base CoinView
}

// NewBackedCoinView returns a view that forwards to base.
func NewBackedCoinView(base CoinView) *BackedCoinView {
	return &BackedCoinView{base: base}
}

// SetBackend rebinds the view to a new parent.
func (v *BackedCoinView) SetBackend(base CoinView) {
	v.base = base
}

// GetCoin forwards to the parent view.
func (v *BackedCoinView) GetCoin(outpoint OutPoint) (Coin, bool) {
	return v.base.GetCoin(outpoint)
}

// HaveCoin forwards to the parent view.
func (v *BackedCoinView) HaveCoin(outpoint OutPoint) bool {
	return v.base.HaveCoin(outpoint)
}

// GetBestBlock forwards to the parent view.
func (v *BackedCoinView) GetBestBlock() chainhash.Hash {
	return v.base.GetBestBlock()
}

// GetHeadBlocks forwards to the parent view.
func (v *BackedCoinView) GetHeadBlocks() []chainhash.Hash {
	return v.base.GetHeadBlocks()
}

// BatchWrite forwards to the parent view.
func (v *BackedCoinView) BatchWrite(coins CoinsMap, bestBlock chainhash.Hash, names *NameCache) error {
	return v.base.BatchWrite(coins, bestBlock, names)
}

// Cursor forwards to the parent view.
func (v *BackedCoinView) Cursor() Iterator {
	return v.base.Cursor()
}

// GetName forwards to the parent view.
func (v *BackedCoinView) GetName(name []byte) (NameData, bool) {
	return v.base.GetName(name)
}

// GetNameHistory forwards to the parent view.
func (v *BackedCoinView) GetNameHistory(name []byte) (NameHistory, bool) {
	return v.base.GetNameHistory(name)
}

// GetNamesForHeight forwards to the parent view.
func (v *BackedCoinView) GetNamesForHeight(height uint32) ([][]byte, bool) {
	return v.base.GetNamesForHeight(height)
}

// IterateNames forwards to the parent view.
func (v *BackedCoinView) IterateNames() NameIterator {
	return v.base.IterateNames()
}

// ValidateNameDB forwards to the parent view.
func (v *BackedCoinView) ValidateNameDB(interrupt <-chan struct{}) error {
	return v.base.ValidateNameDB(interrupt)
}

// EstimateSize forwards to the parent view.
func (v *BackedCoinView) EstimateSize() uint64 {
	return v.base.EstimateSize()
}

// var _ CoinView = (*BackedCoinView)(nil) documents that BackedCoinView
// satisfies the CoinView contract, matching the teacher's interface
// assertion idiom.
var _ CoinView = (*BackedCoinView)(nil)

// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

import "github.com/decred/dcrd/chaincfg/chainhash"

const (
	// maxBlockWeight is the consensus block weight limit this module
	// borrows, without owning, purely to bound AccessByTxid's linear probe.
	maxBlockWeight = 4_000_000

	// minTxOutWeight is the minimum possible serialized weight of a single
	// transaction output.
	minTxOutWeight = 4 * 9

	// MaxOutputsPerBlock bounds the number of sequential output indices
	// AccessByTxid probes before giving up, derived the same way the
	// original bounds its linear scan: the most outputs a single block
	// could possibly contain.
	MaxOutputsPerBlock = maxBlockWeight / minTxOutWeight
)

// Tx is the minimal transaction shape the free helpers below need: enough
// to walk outputs for AddCoins and inputs for HaveInputs, without pulling
// in a full wire transaction type that belongs to the out-of-scope block
// processor.
type Tx interface {
	Hash() chainhash.Hash
	IsCoinBase() bool
	TxOuts() []TxOut
	TxIns() []OutPoint
}

// AddCoins calls AddCoin for every output of tx at height.  Coinbase
// transactions are allowed to overwrite an existing coin whenever the
// caller does not ask for the check, to correctly handle the historical
// duplicate-coinbase transactions that predate BIP30; when the caller does
// ask for the check, the check itself decides regardless of coinbase-ness.
func AddCoins(view *CachedCoinView, tx Tx, height uint32, checkForOverwrite bool) error {
	coinbase := tx.IsCoinBase()
	txid := tx.Hash()
	for i, out := range tx.TxOuts() {
		outpoint := NewOutPoint(&txid, uint32(i))

		overwrite := coinbase
		if checkForOverwrite {
			overwrite = view.HaveCoin(outpoint)
		}

		coin := NewCoin(out, height, coinbase)
		if err := view.AddCoin(outpoint, coin, overwrite); err != nil {
			return err
		}
	}
	return nil
}

// AccessByTxid scans outputs 0..MaxOutputsPerBlock of txid for the first
// live coin, since a caller may know a transaction's hash but not which of
// its outputs is still unspent.  It returns the sentinel empty coin on a
// miss.
func AccessByTxid(view *CachedCoinView, txid chainhash.Hash) Coin {
	outpoint := NewOutPoint(&txid, 0)
	for outpoint.Index < MaxOutputsPerBlock {
		coin := view.AccessCoin(outpoint)
		if !coin.IsSpent() {
			return coin
		}
		outpoint.Index++
	}
	return emptyCoin
}

// HaveInputs reports whether every input of a non-coinbase transaction has
// a live coin in view.  Coinbase transactions trivially have their inputs
// satisfied since they have none that reference prior outputs.
func HaveInputs(view *CachedCoinView, tx Tx) bool {
	if tx.IsCoinBase() {
		return true
	}
	for _, prevout := range tx.TxIns() {
		if !view.HaveCoin(prevout) {
			return false
		}
	}
	return true
}

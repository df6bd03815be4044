// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

import "github.com/decred/dcrd/chaincfg/chainhash"

// Iterator walks the coins held by a CoinView in key order, for auditing
// and for building a fresh backing store from an existing one.  It follows
// the same contract as a database iterator: Release must always be called
// after use, and an iteration method returns false once exhausted.
type Iterator interface {
	// First moves the iterator to the first outpoint.  It returns whether
	// an entry exists.
	First() bool

	// Next moves the iterator to the next outpoint.  It returns false once
	// the iterator is exhausted.
	Next() bool

	// OutPoint returns the outpoint of the current entry.
	OutPoint() OutPoint

	// Coin returns the coin of the current entry.
	Coin() Coin

	// Error returns any accumulated error.  Exhausting all entries is not
	// itself an error.
	Error() error

	// Release releases the iterator.  It must always be called after use.
	Release()
}

// NameIterator walks a name index.  The order depends on the view:
// LevelDBCoinView yields names in key order, while the iterator a
// CachedCoinView returns yields the parent's names first and then the
// cache's own live entries, so its overall sequence is not sorted.
type NameIterator interface {
	// Next advances the iterator and returns the next name and its record.
	// It reports false once the iterator is exhausted.
	Next() (name []byte, data NameData, ok bool)
}

// CoinView is the read/write contract shared by every leaf and proxy in the
// cache stack: it answers lookups for coins and names, reports the best
// block the view reflects, and accepts batches of accumulated changes.
type CoinView interface {
	// GetCoin returns the coin record known for outpoint, live or spent,
	// and whether any record is known at all.  A spent coin is still
	// "found"; HaveCoin is the operation that additionally checks
	// liveness.
	GetCoin(outpoint OutPoint) (Coin, bool)

	// HaveCoin reports whether a live, unspent coin exists at outpoint.
	HaveCoin(outpoint OutPoint) bool

	// GetBestBlock returns the hash of the block whose state this view
	// reflects, or the zero hash if the view has never been written to.
	GetBestBlock() chainhash.Hash

	// GetHeadBlocks returns the hashes of chain heads mid-flush, for crash
	// recovery bookkeeping.  A view with no in-progress flush returns nil.
	GetHeadBlocks() []chainhash.Hash

	// BatchWrite consumes a batch of coin and name changes, associating the
	// batch with bestBlock.  Implementations treat the batch as atomic:
	// either all of it is applied or none of it is.
	BatchWrite(coins CoinsMap, bestBlock chainhash.Hash, names *NameCache) error

	// Cursor returns an iterator over every coin this view holds.
	Cursor() Iterator

	// GetName returns the current record for name and whether it exists.
	GetName(name []byte) (NameData, bool)

	// GetNameHistory returns the history stack for name and whether it has
	// ever been touched.
	GetNameHistory(name []byte) (NameHistory, bool)

	// GetNamesForHeight returns the names that expire at height and
	// whether the view could answer the query.
	GetNamesForHeight(height uint32) ([][]byte, bool)

	// IterateNames returns an iterator over every name this view holds.
	IterateNames() NameIterator

	// ValidateNameDB walks the name index checking internal consistency.
	// interrupt, if it closes, aborts the walk cleanly.
	ValidateNameDB(interrupt <-chan struct{}) error

	// EstimateSize returns an implementation-defined scalar used by flush
	// heuristics in the embedding program.
	EstimateSize() uint64
}

// NopCoinView is the zero-value base implementation of CoinView: every
// operation returns the empty/false result except HaveCoin, which composes
// GetCoin as the interface itself requires.  It exists so a leaf view need
// only implement the handful of operations it actually supports.
type NopCoinView struct{}

// GetCoin always reports not found.
func (NopCoinView) GetCoin(OutPoint) (Coin, bool) { return Coin{}, false }

// HaveCoin composes GetCoin.  Because it calls v.GetCoin on the statically
// typed NopCoinView receiver rather than through an interface value, an
// embedder that overrides GetCoin but not HaveCoin still gets this
// always-reads-the-embedded-zero-value version; any such embedder must
// override HaveCoin too.
func (v NopCoinView) HaveCoin(outpoint OutPoint) bool {
	coin, ok := v.GetCoin(outpoint)
	return ok && !coin.IsSpent()
}

// GetBestBlock always returns the zero hash.
func (NopCoinView) GetBestBlock() chainhash.Hash { return chainhash.Hash{} }

// GetHeadBlocks always returns nil.
func (NopCoinView) GetHeadBlocks() []chainhash.Hash { return nil }

// BatchWrite always fails; a nop view accepts no writes.
func (NopCoinView) BatchWrite(CoinsMap, chainhash.Hash, *NameCache) error {
	return ruleError(ErrNotSupported, "nop coin view does not accept writes")
}

// Cursor returns an iterator with no entries.
func (NopCoinView) Cursor() Iterator { return emptyIterator{} }

// GetName always reports not found.
func (NopCoinView) GetName([]byte) (NameData, bool) { return NameData{}, false }

// GetNameHistory always reports not found.
func (NopCoinView) GetNameHistory([]byte) (NameHistory, bool) { return NameHistory{}, false }

// GetNamesForHeight always reports failure, matching the abstract view's
// "base definitions return empty/false" contract.
func (NopCoinView) GetNamesForHeight(uint32) ([][]byte, bool) { return nil, false }

// IterateNames returns an iterator with no entries.
func (NopCoinView) IterateNames() NameIterator { return emptyNameIterator{} }

// ValidateNameDB always fails.
func (NopCoinView) ValidateNameDB(<-chan struct{}) error {
	return ruleError(ErrNotSupported, "nop coin view has no name index to validate")
}

// EstimateSize always returns zero.
func (NopCoinView) EstimateSize() uint64 { return 0 }

// emptyIterator is an Iterator with no entries.
type emptyIterator struct{}

func (emptyIterator) First() bool      { return false }
func (emptyIterator) Next() bool       { return false }
func (emptyIterator) OutPoint() OutPoint { return OutPoint{} }
func (emptyIterator) Coin() Coin       { return Coin{} }
func (emptyIterator) Error() error     { return nil }
func (emptyIterator) Release()         {}

// emptyNameIterator is a NameIterator with no entries.
type emptyNameIterator struct{}

func (emptyNameIterator) Next() ([]byte, NameData, bool) { return nil, NameData{}, false }

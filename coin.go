// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

// TxOut houses an individual transaction output: the number of base units
// it pays and the locking script that gates spending it.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// Coin is a transaction output together with the context needed to spend or
// revert it: the height of the block that created it and whether that block
// was a coinbase.
//
// A Coin is spent by clearing its output to the zero value; Clear is the
// only mutator a cache is allowed to apply to a coin already inserted in a
// map, since every other field is set once at creation.
type Coin struct {
	TxOut
	Height   uint32
	CoinBase bool
}

// NewCoin builds a Coin from a transaction output, the height at which it
// was created, and whether the containing transaction was a coinbase.
func NewCoin(out TxOut, height uint32, coinBase bool) Coin {
	return Coin{TxOut: out, Height: height, CoinBase: coinBase}
}

// IsSpent reports whether the coin has been cleared to the spend sentinel.
func (c Coin) IsSpent() bool {
	return c.PkScript == nil
}

// Clear spends the coin in place by resetting it to the sentinel value.
// The coin is retained in a cache entry after this call purely to record
// that the spend must still be written down to the parent view.
func (c *Coin) Clear() {
	c.Value = 0
	c.PkScript = nil
}

// DynamicMemoryUsage returns the number of heap bytes this coin owns beyond
// its own struct footprint, which for a Coin is exactly its script.  The
// struct footprint itself is covered by the cache's per-entry overhead.
func (c Coin) DynamicMemoryUsage() uint64 {
	return uint64(len(c.PkScript))
}

// Clone returns an independent copy of the coin.  The script bytes are
// shared rather than deep-copied since nothing ever mutates a script in
// place; only Clear ever reassigns it, which replaces the slice header.
func (c Coin) Clone() Coin {
	return c
}

// emptyCoin is the sentinel returned by AccessCoin and AccessByTxid when no
// coin is present for the queried outpoint.
var emptyCoin = Coin{}

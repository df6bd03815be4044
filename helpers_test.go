// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

import (
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// fakeTx is a minimal Tx implementation for exercising the free helpers.
type fakeTx struct {
	hash     chainhash.Hash
	coinbase bool
	outs     []TxOut
	ins      []OutPoint
}

func (tx fakeTx) Hash() chainhash.Hash { return tx.hash }
func (tx fakeTx) IsCoinBase() bool      { return tx.coinbase }
func (tx fakeTx) TxOuts() []TxOut       { return tx.outs }
func (tx fakeTx) TxIns() []OutPoint     { return tx.ins }

func TestAddCoinsCoinbaseAlwaysOverwrites(t *testing.T) {
	cache := NewCachedCoinView(newFakeView())
	tx := fakeTx{
		hash:     chainhash.Hash{1},
		coinbase: true,
		outs:     []TxOut{{Value: 5, PkScript: []byte{0x51}}},
	}

	if err := AddCoins(cache, tx, 1, false); err != nil {
		t.Fatalf("AddCoins() first pass = %v", err)
	}
	// A second coinbase at the same outpoint must not fail even though the
	// first is still live, matching the historical duplicate-coinbase
	// allowance.
	if err := AddCoins(cache, tx, 2, false); err != nil {
		t.Fatalf("AddCoins() second pass = %v", err)
	}
}

func TestAddCoinsChecksOverwriteWhenAsked(t *testing.T) {
	cache := NewCachedCoinView(newFakeView())
	tx := fakeTx{
		hash: chainhash.Hash{1},
		outs: []TxOut{{Value: 5, PkScript: []byte{0x51}}},
	}

	if err := AddCoins(cache, tx, 1, true); err != nil {
		t.Fatalf("AddCoins() first pass = %v", err)
	}
	// With the check enabled, HaveCoin finds the live coin and so permits
	// the overwrite instead of reporting ErrOverwriteUnspent.
	if err := AddCoins(cache, tx, 2, true); err != nil {
		t.Fatalf("AddCoins() with the overwrite check rejected a coin the check found live: %v", err)
	}
}

func TestAccessByTxidScansOutputs(t *testing.T) {
	cache := NewCachedCoinView(newFakeView())
	txid := chainhash.Hash{1}

	cache.AddCoin(NewOutPoint(&txid, 0), liveCoin(1), true)
	cache.SpendCoin(NewOutPoint(&txid, 0))
	if err := cache.AddCoin(NewOutPoint(&txid, 1), liveCoin(2), true); err != nil {
		t.Fatalf("AddCoin() = %v", err)
	}

	coin := AccessByTxid(cache, txid)
	if coin.IsSpent() {
		t.Fatal("AccessByTxid() returned a spent coin")
	}
	if coin.Value != 2 {
		t.Fatalf("AccessByTxid() returned value %d, want 2", coin.Value)
	}
}

func TestAccessByTxidMissReturnsEmptyCoin(t *testing.T) {
	cache := NewCachedCoinView(newFakeView())
	coin := AccessByTxid(cache, chainhash.Hash{99})
	if !coin.IsSpent() {
		t.Fatal("AccessByTxid() on a miss did not return the empty sentinel")
	}
}

func TestHaveInputsCoinbaseAlwaysTrue(t *testing.T) {
	cache := NewCachedCoinView(newFakeView())
	if !HaveInputs(cache, fakeTx{coinbase: true}) {
		t.Fatal("HaveInputs() reported false for a coinbase transaction")
	}
}

func TestHaveInputsRequiresEveryPrevout(t *testing.T) {
	cache := NewCachedCoinView(newFakeView())
	available := outpointFor(1)
	missing := outpointFor(2)
	cache.AddCoin(available, liveCoin(1), true)

	tx := fakeTx{ins: []OutPoint{available}}
	if !HaveInputs(cache, tx) {
		t.Fatal("HaveInputs() reported false when every input is available")
	}

	tx.ins = append(tx.ins, missing)
	if HaveInputs(cache, tx) {
		t.Fatal("HaveInputs() reported true despite a missing input")
	}
}

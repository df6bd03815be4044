// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

import (
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

func openTestLevelDBCoinView(t *testing.T) *LevelDBCoinView {
	t.Helper()
	view, err := NewLevelDBCoinView(&LevelDBCoinViewConfig{DBPath: t.TempDir()})
	if err != nil {
		t.Fatalf("NewLevelDBCoinView() = %v", err)
	}
	t.Cleanup(func() { view.Close() })
	return view
}

func TestLevelDBCoinViewWriteAndReadCoin(t *testing.T) {
	view := openTestLevelDBCoinView(t)
	outpoint := outpointFor(1)
	coin := liveCoin(42)
	best := chainhash.Hash{7}

	coins := CoinsMap{outpoint: {Coin: coin, flags: entryDirty}}
	if err := view.BatchWrite(coins, best, NewNameCache()); err != nil {
		t.Fatalf("BatchWrite() = %v", err)
	}

	got, ok := view.GetCoin(outpoint)
	if !ok {
		t.Fatal("GetCoin() did not find the written coin")
	}
	if got.Value != coin.Value || got.Height != coin.Height {
		t.Fatalf("GetCoin() = %+v, want %+v", got, coin)
	}
	if view.GetBestBlock() != best {
		t.Fatal("GetBestBlock() did not return the committed best block")
	}
}

func TestLevelDBCoinViewDeletesSpentCoin(t *testing.T) {
	view := openTestLevelDBCoinView(t)
	outpoint := outpointFor(1)

	coins := CoinsMap{outpoint: {Coin: liveCoin(1), flags: entryDirty}}
	if err := view.BatchWrite(coins, chainhash.Hash{1}, NewNameCache()); err != nil {
		t.Fatalf("BatchWrite() = %v", err)
	}

	spent := liveCoin(1)
	spent.Clear()
	coins = CoinsMap{outpoint: {Coin: spent, flags: entryDirty}}
	if err := view.BatchWrite(coins, chainhash.Hash{2}, NewNameCache()); err != nil {
		t.Fatalf("BatchWrite() = %v", err)
	}

	if _, ok := view.GetCoin(outpoint); ok {
		t.Fatal("GetCoin() found a coin after it was flushed as spent")
	}
	if view.HaveCoin(outpoint) {
		t.Fatal("HaveCoin() reported a coin after it was flushed as spent")
	}
}

func TestLevelDBCoinViewCursorWalksEveryCoin(t *testing.T) {
	view := openTestLevelDBCoinView(t)
	coins := CoinsMap{
		outpointFor(1): {Coin: liveCoin(1), flags: entryDirty},
		outpointFor(2): {Coin: liveCoin(2), flags: entryDirty},
	}
	if err := view.BatchWrite(coins, chainhash.Hash{1}, NewNameCache()); err != nil {
		t.Fatalf("BatchWrite() = %v", err)
	}

	cursor := view.Cursor()
	defer cursor.Release()

	count := 0
	for ok := cursor.First(); ok; ok = cursor.Next() {
		count++
		if cursor.Coin().IsSpent() {
			t.Fatal("Cursor() walked a spent coin")
		}
	}
	if err := cursor.Error(); err != nil {
		t.Fatalf("Cursor().Error() = %v", err)
	}
	if count != 2 {
		t.Fatalf("Cursor() walked %d coins, want 2", count)
	}
}

func TestLevelDBCoinViewNameRoundTrip(t *testing.T) {
	view := openTestLevelDBCoinView(t)
	name := []byte("d/example")
	data := NameData{Value: []byte("hello"), Height: 10, Output: outpointFor(1)}

	names := NewNameCache()
	names.set(name, data)
	names.addExpireIndex(name, data.Height)

	if err := view.BatchWrite(nil, chainhash.Hash{}, names); err != nil {
		t.Fatalf("BatchWrite() = %v", err)
	}

	got, ok := view.GetName(name)
	if !ok || !got.Equal(data) {
		t.Fatalf("GetName() = %+v, %v, want %+v, true", got, ok, data)
	}

	expiring, ok := view.GetNamesForHeight(10)
	if !ok || len(expiring) != 1 || string(expiring[0]) != string(name) {
		t.Fatalf("GetNamesForHeight() = %v, %v", expiring, ok)
	}
}

func TestLevelDBCoinViewValidateNameDBDetectsMissingExpireEntry(t *testing.T) {
	view := openTestLevelDBCoinView(t)
	name := []byte("d/example")
	data := NameData{Value: []byte("hello"), Height: 10}

	names := NewNameCache()
	names.set(name, data)
	// Deliberately omit addExpireIndex to simulate a corrupted index.
	if err := view.BatchWrite(nil, chainhash.Hash{}, names); err != nil {
		t.Fatalf("BatchWrite() = %v", err)
	}

	if err := view.ValidateNameDB(nil); err == nil {
		t.Fatal("ValidateNameDB() did not detect the missing expire-index entry")
	}
}

func TestLevelDBCoinViewValidateNameDBPassesOnConsistentIndex(t *testing.T) {
	view := openTestLevelDBCoinView(t)
	name := []byte("d/example")
	data := NameData{Value: []byte("hello"), Height: 10}

	names := NewNameCache()
	names.set(name, data)
	names.addExpireIndex(name, data.Height)
	if err := view.BatchWrite(nil, chainhash.Hash{}, names); err != nil {
		t.Fatalf("BatchWrite() = %v", err)
	}

	if err := view.ValidateNameDB(nil); err != nil {
		t.Fatalf("ValidateNameDB() = %v on a consistent index", err)
	}
}

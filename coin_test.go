// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

import (
	"reflect"
	"testing"
)

func TestCoinIsSpent(t *testing.T) {
	live := NewCoin(TxOut{Value: 5, PkScript: []byte{0x51}}, 10, false)
	if live.IsSpent() {
		t.Fatal("freshly constructed coin reports spent")
	}

	live.Clear()
	if !live.IsSpent() {
		t.Fatal("cleared coin does not report spent")
	}
	if live.Value != 0 {
		t.Fatalf("cleared coin retains value %d", live.Value)
	}
}

func TestCoinDynamicMemoryUsage(t *testing.T) {
	coin := NewCoin(TxOut{Value: 1, PkScript: make([]byte, 25)}, 1, false)
	want := uint64(25)
	if got := coin.DynamicMemoryUsage(); got != want {
		t.Fatalf("DynamicMemoryUsage() = %d, want %d", got, want)
	}
}

func TestCoinClone(t *testing.T) {
	coin := NewCoin(TxOut{Value: 1, PkScript: []byte{0x51}}, 7, true)
	clone := coin.Clone()
	if !reflect.DeepEqual(clone, coin) {
		t.Fatalf("clone %+v does not equal original %+v", clone, coin)
	}
}

func TestOutPointString(t *testing.T) {
	op := NewOutPoint(&zeroHash, 3)
	want := zeroHash.String() + ":3"
	if got := op.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

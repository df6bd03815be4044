// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

import "testing"

func TestNameCacheSetGetRemove(t *testing.T) {
	nc := NewNameCache()
	name := []byte("d/example")

	if _, ok := nc.get(name); ok {
		t.Fatal("untouched cache reports a value for name")
	}

	data := NameData{Value: []byte("v1"), Height: 100}
	nc.set(name, data)

	got, ok := nc.get(name)
	if !ok || !got.Equal(data) {
		t.Fatalf("get() = %+v, %v, want %+v, true", got, ok, data)
	}

	nc.remove(name)
	if _, ok := nc.get(name); ok {
		t.Fatal("get() reports a value for a removed name")
	}
	if !nc.isDeleted(name) {
		t.Fatal("isDeleted() false after remove")
	}
}

func TestNameCacheExpireIndex(t *testing.T) {
	nc := NewNameCache()
	name := []byte("d/example")

	nc.addExpireIndex(name, 50)
	names := map[string]struct{}{}
	nc.updateNamesForHeight(50, names)
	if _, ok := names["d/example"]; !ok {
		t.Fatal("addExpireIndex did not surface the name at its height")
	}

	nc.removeExpireIndex(name, 50)
	names = map[string]struct{}{}
	nc.updateNamesForHeight(50, names)
	if _, ok := names["d/example"]; ok {
		t.Fatal("removeExpireIndex left the name surfaced at its height")
	}
}

func TestNameCacheApplyOverridesParent(t *testing.T) {
	parent := NewNameCache()
	parent.set([]byte("d/old"), NameData{Value: []byte("parent value")})

	child := NewNameCache()
	child.set([]byte("d/old"), NameData{Value: []byte("child value")})
	child.remove([]byte("d/other"))

	parent.apply(child)

	got, ok := parent.get([]byte("d/old"))
	if !ok || string(got.Value) != "child value" {
		t.Fatalf("apply() did not let the child override the parent: %+v, %v", got, ok)
	}
	if !parent.isDeleted([]byte("d/other")) {
		t.Fatal("apply() did not fold in the child's tombstone")
	}
}

func TestNameCacheApplyMergesExpireIndexKeyByKey(t *testing.T) {
	parent := NewNameCache()
	parent.addExpireIndex([]byte("d/a"), 10)
	parent.addExpireIndex([]byte("d/b"), 10)

	child := NewNameCache()
	child.removeExpireIndex([]byte("d/a"), 10)

	parent.apply(child)

	names := map[string]struct{}{}
	parent.updateNamesForHeight(10, names)
	if _, ok := names["d/a"]; ok {
		t.Fatal("child's removal did not subtract from the parent's addition")
	}
	if _, ok := names["d/b"]; !ok {
		t.Fatal("child's unrelated removal affected an untouched name")
	}
}

func TestNameCacheEmptyAndClear(t *testing.T) {
	nc := NewNameCache()
	if !nc.empty() {
		t.Fatal("freshly constructed cache is not empty")
	}

	nc.set([]byte("d/example"), NameData{})
	if nc.empty() {
		t.Fatal("cache with a pending mutation reports empty")
	}

	nc.clear()
	if !nc.empty() {
		t.Fatal("cache is not empty after clear")
	}
}

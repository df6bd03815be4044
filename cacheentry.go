// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

// cacheFlag defines the in-memory state of a cache entry relative to its
// parent view.
//
// The bit representation is:
//   bit 0 - entry differs from the parent and must be written down on flush
//   bit 1 - the parent view has no live coin for this outpoint
type cacheFlag uint8

const (
	// entryDirty indicates the entry differs from what the parent view
	// holds and must be written down on flush.
	entryDirty cacheFlag = 1 << iota

	// entryFresh indicates the parent view holds no live coin for this
	// outpoint, either because it is absent there or present and spent.
	// It allows a coin created and then spent within the same cache to
	// collapse to a no-op at flush time.
	entryFresh
)

// CacheEntry pairs a coin with its cache flags.  An entry with neither flag
// set is a pure read-through image of the parent view and carries no
// obligation on flush.
type CacheEntry struct {
	Coin  Coin
	flags cacheFlag
}

// isDirty reports whether the entry differs from the parent view.
func (e *CacheEntry) isDirty() bool {
	return e.flags&entryDirty != 0
}

// isFresh reports whether the parent view has no live coin for this
// outpoint.
func (e *CacheEntry) isFresh() bool {
	return e.flags&entryFresh != 0
}

// CoinsMap is the in-memory working set of a cache: outpoint to cache
// entry.  Lookups are average O(1); iteration order is unspecified.
type CoinsMap map[OutPoint]*CacheEntry

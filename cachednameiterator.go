// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

// cacheNameIterator overlays a NameCache's pending changes onto a base
// iterator: names the cache has tombstoned or replaced are hidden from the
// base sequence, and the cache's own live entries are surfaced once the
// base sequence is exhausted.
type cacheNameIterator struct {
	cache *NameCache
	base  NameIterator

	seen  map[string]struct{}
	extra []string
	next  int
}

// newCacheNameIterator returns an iterator over every name known either to
// cache or to base.
func newCacheNameIterator(cache *NameCache, base NameIterator) *cacheNameIterator {
	extra := make([]string, 0, len(cache.entries))
	for name, e := range cache.entries {
		if !e.deleted {
			extra = append(extra, name)
		}
	}
	return &cacheNameIterator{
		cache: cache,
		base:  base,
		seen:  make(map[string]struct{}),
		extra: extra,
	}
}

// Next returns the next name and record known to either layer.
func (it *cacheNameIterator) Next() ([]byte, NameData, bool) {
	for {
		name, data, ok := it.base.Next()
		if !ok {
			break
		}
		if _, touched := it.cache.entries[string(name)]; touched {
			// Redefined or tombstoned in the cache; its current state (if
			// still live) is surfaced from extra instead.
			continue
		}
		it.seen[string(name)] = struct{}{}
		return name, data, true
	}

	for it.next < len(it.extra) {
		name := it.extra[it.next]
		it.next++
		if _, already := it.seen[name]; already {
			continue
		}
		e, ok := it.cache.entries[name]
		if !ok || e.deleted {
			continue
		}
		return []byte(name), e.data, true
	}
	return nil, NameData{}, false
}

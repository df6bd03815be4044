// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

// nameEntry is the cached state for a single name: either a live value or a
// tombstone recording that the name was deleted.
type nameEntry struct {
	data    NameData
	deleted bool
}

// expireKey indexes the expiration set by the height a name expires at and
// the name itself.
type expireKey struct {
	height uint32
	name   string
}

// NameCache is the in-memory buffer of pending name-registry mutations
// overlaid on a persistent name index.  It tracks changes only; it is never
// an authoritative snapshot of the full name set.
type NameCache struct {
	entries   map[string]nameEntry
	histories map[string]NameHistory

	// expire indexes pending changes to the expiration set.  A true value
	// means the (height, name) pair is newly active in this cache; a false
	// value means it has been explicitly removed and must be subtracted
	// from whatever the parent or backend reports.
	expire map[expireKey]bool
}

// NewNameCache returns an empty name cache.
func NewNameCache() *NameCache {
	return &NameCache{
		entries:   make(map[string]nameEntry),
		histories: make(map[string]NameHistory),
		expire:    make(map[expireKey]bool),
	}
}

// empty reports whether the cache holds no pending mutations at all.
func (nc *NameCache) empty() bool {
	return len(nc.entries) == 0 && len(nc.histories) == 0 && len(nc.expire) == 0
}

// clear drops all pending mutations, returning the cache to its zero state.
func (nc *NameCache) clear() {
	nc.entries = make(map[string]nameEntry)
	nc.histories = make(map[string]NameHistory)
	nc.expire = make(map[expireKey]bool)
}

// isDeleted reports whether name is tombstoned in this cache.
func (nc *NameCache) isDeleted(name []byte) bool {
	e, ok := nc.entries[string(name)]
	return ok && e.deleted
}

// get returns the cached value for name, if this cache has one.  It
// reports false both when the cache has never touched the name and when
// the name is tombstoned here.
func (nc *NameCache) get(name []byte) (NameData, bool) {
	e, ok := nc.entries[string(name)]
	if !ok || e.deleted {
		return NameData{}, false
	}
	return e.data, true
}

// set records data as the current value for name.
func (nc *NameCache) set(name []byte, data NameData) {
	nc.entries[string(name)] = nameEntry{data: data}
}

// remove tombstones name.
func (nc *NameCache) remove(name []byte) {
	nc.entries[string(name)] = nameEntry{deleted: true}
}

// getHistory returns the pending history stack for name, if this cache has
// one recorded.
func (nc *NameCache) getHistory(name []byte) (NameHistory, bool) {
	h, ok := nc.histories[string(name)]
	return h, ok
}

// setHistory records h as the pending history stack for name.
func (nc *NameCache) setHistory(name []byte, h NameHistory) {
	nc.histories[string(name)] = h
}

// addExpireIndex marks (height, name) as newly active in the expiration
// set.
func (nc *NameCache) addExpireIndex(name []byte, height uint32) {
	nc.expire[expireKey{height: height, name: string(name)}] = true
}

// removeExpireIndex marks (height, name) as removed from the expiration
// set.
func (nc *NameCache) removeExpireIndex(name []byte, height uint32) {
	nc.expire[expireKey{height: height, name: string(name)}] = false
}

// updateNamesForHeight folds this cache's pending expiration changes at
// height into names, which is expected to already hold whatever the
// backend reports for that height.  Names the cache newly expires at this
// height are added; names the cache has moved away from this height are
// removed.
func (nc *NameCache) updateNamesForHeight(height uint32, names map[string]struct{}) {
	for key, active := range nc.expire {
		if key.height != height {
			continue
		}
		if active {
			names[key.name] = struct{}{}
		} else {
			delete(names, key.name)
		}
	}
}

// apply folds child's pending mutations into nc.  Tombstones and live
// values in child override whatever nc already holds for the same name,
// since child represents more recent changes; the expiration set is merged
// key by key so that child's removals subtract from nc's own additions.
func (nc *NameCache) apply(child *NameCache) {
	for name, e := range child.entries {
		nc.entries[name] = e
	}
	for name, h := range child.histories {
		nc.histories[name] = h
	}
	for key, active := range child.expire {
		nc.expire[key] = active
	}
}

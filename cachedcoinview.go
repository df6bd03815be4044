// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/txscript/v4"
)

// entryOverhead approximates the per-entry bookkeeping a CoinsMap carries
// beyond the coins it stores (the map's own bucket/pointer overhead),
// folded into the cache's size estimate the same way utxocache.go folds a
// fixed per-entry cost into totalSize.
const entryOverhead = 48

// zeroHash is the sentinel "no writes since construction" value for
// hashBlock, matching uint256::IsNull() in the original.
var zeroHash chainhash.Hash

// CachedCoinView is an in-memory mutation buffer layered on top of another
// CoinView.  It holds a working set of coin changes plus a NameCache of
// pending name-registry changes, both of which are merged into the parent
// view on Flush.
//
// A CachedCoinView is not safe for concurrent use; the embedding validator
// must serialize access to any one instance.
type CachedCoinView struct {
	*BackedCoinView

	coins CoinsMap
	names *NameCache

	cachedCoinsUsage uint64
	hashBlock        chainhash.Hash
}

// NewCachedCoinView returns an empty cache layered on top of base.
func NewCachedCoinView(base CoinView) *CachedCoinView {
	return &CachedCoinView{
		BackedCoinView: NewBackedCoinView(base),
		coins:          make(CoinsMap),
		names:          NewNameCache(),
	}
}

// fetchCoin returns the cache entry for outpoint, fetching it from the
// parent view and materializing it locally on a cache miss.  A coin that
// the parent reports as spent is materialized with the FRESH flag, since a
// spent parent entry means the parent holds no live coin there.
func (c *CachedCoinView) fetchCoin(outpoint OutPoint) (*CacheEntry, bool) {
	if entry, ok := c.coins[outpoint]; ok {
		return entry, true
	}
	coin, ok := c.base.GetCoin(outpoint)
	if !ok {
		return nil, false
	}
	entry := &CacheEntry{Coin: coin}
	if coin.IsSpent() {
		entry.flags = entryFresh
	}
	c.coins[outpoint] = entry
	c.cachedCoinsUsage += entry.Coin.DynamicMemoryUsage()
	return entry, true
}

// GetCoin returns the coin at outpoint, live or spent, and whether any
// record for it is known.
func (c *CachedCoinView) GetCoin(outpoint OutPoint) (Coin, bool) {
	entry, ok := c.fetchCoin(outpoint)
	if !ok {
		return Coin{}, false
	}
	return entry.Coin, true
}

// HaveCoin reports whether a live coin exists at outpoint, reading through
// to the parent view on a cache miss.
func (c *CachedCoinView) HaveCoin(outpoint OutPoint) bool {
	entry, ok := c.fetchCoin(outpoint)
	return ok && !entry.Coin.IsSpent()
}

// HaveCoinInCache is like HaveCoin but never reads through to the parent
// view, for callers that must not pay the cost of a miss (mempool
// acceptance under a lock).
func (c *CachedCoinView) HaveCoinInCache(outpoint OutPoint) bool {
	entry, ok := c.coins[outpoint]
	return ok && !entry.Coin.IsSpent()
}

// AccessCoin returns the coin at outpoint, or the sentinel empty coin if
// none is known, so callers can chain accesses without handling a missing
// entry specially.
func (c *CachedCoinView) AccessCoin(outpoint OutPoint) Coin {
	entry, ok := c.fetchCoin(outpoint)
	if !ok {
		return emptyCoin
	}
	return entry.Coin
}

// AddCoin inserts coin at outpoint.  Unspendable coins are silently
// dropped.  If possibleOverwrite is false and a live coin already occupies
// outpoint, AddCoin fails with ErrOverwriteUnspent: two different
// transactions would otherwise be trying to create the same outpoint.
func (c *CachedCoinView) AddCoin(outpoint OutPoint, coin Coin, possibleOverwrite bool) error {
	if coin.IsSpent() {
		panic(AssertError("AddCoin called with an already-spent coin"))
	}
	if txscript.IsUnspendable(coin.Value, coin.PkScript) {
		return nil
	}

	entry, exists := c.coins[outpoint]
	if !exists {
		entry = &CacheEntry{}
		c.coins[outpoint] = entry
	}

	fresh := false
	if !possibleOverwrite {
		if !entry.Coin.IsSpent() {
			return ruleErrorf(ErrOverwriteUnspent,
				"attempted to overwrite unspent coin at %s", outpoint)
		}
		// A spent-but-dirty entry means the parent hasn't yet been told
		// about the spend. If this new coin is marked fresh and later
		// spent before a flush, the spend would collapse to nothing and
		// the parent would never learn the original coin was spent.
		fresh = !entry.isDirty()
	}

	c.cachedCoinsUsage -= entry.Coin.DynamicMemoryUsage()
	entry.Coin = coin
	entry.flags |= entryDirty
	if fresh {
		entry.flags |= entryFresh
	}
	c.cachedCoinsUsage += entry.Coin.DynamicMemoryUsage()

	emitTrace(TraceAdd, outpoint, coin)
	return nil
}

// EmplaceCoinInternalDANGER inserts coin at outpoint unconditionally,
// marking it DIRTY without any of AddCoin's overwrite or freshness
// bookkeeping.
//
// It must never be called on live or contested data: it exists only for
// bulk-loading a cache from an already-validated source (for example,
// replaying a trusted snapshot) where AddCoin's per-call checks would be
// pure overhead and could even misfire.
func (c *CachedCoinView) EmplaceCoinInternalDANGER(outpoint OutPoint, coin Coin) {
	c.cachedCoinsUsage += coin.DynamicMemoryUsage()
	c.coins[outpoint] = &CacheEntry{Coin: coin, flags: entryDirty}
}

// SpendCoin marks the coin at outpoint as spent, returning the coin as it
// stood immediately before the spend.  If the entry was FRESH — meaning the
// parent never had a live coin there — it is erased outright instead,
// collapsing the create-then-spend sequence to a no-op.
func (c *CachedCoinView) SpendCoin(outpoint OutPoint) (Coin, bool) {
	entry, ok := c.fetchCoin(outpoint)
	if !ok {
		return Coin{}, false
	}

	c.cachedCoinsUsage -= entry.Coin.DynamicMemoryUsage()
	spent := entry.Coin
	emitTrace(TraceSpent, outpoint, entry.Coin)

	if entry.isFresh() {
		delete(c.coins, outpoint)
	} else {
		entry.flags |= entryDirty
		entry.Coin.Clear()
	}
	return spent, true
}

// Uncache drops the entry at outpoint if, and only if, it is a pure
// read-through image of the parent view (no flags set).  Dirty or fresh
// entries are retained since dropping them would lose data the parent
// doesn't have yet.
func (c *CachedCoinView) Uncache(outpoint OutPoint) {
	entry, ok := c.coins[outpoint]
	if !ok || entry.flags != 0 {
		return
	}
	c.cachedCoinsUsage -= entry.Coin.DynamicMemoryUsage()
	emitTrace(TraceUncache, outpoint, entry.Coin)
	delete(c.coins, outpoint)
}

// BatchWrite merges coins and names, the accumulated state of a child
// cache, into c and adopts bestBlock as the new best-block marker.  The
// child's map is drained as it is walked; the caller is expected to
// discard it afterward.
func (c *CachedCoinView) BatchWrite(coins CoinsMap, bestBlock chainhash.Hash, names *NameCache) error {
	for outpoint, childEntry := range coins {
		delete(coins, outpoint)

		if !childEntry.isDirty() {
			continue
		}

		selfEntry, exists := c.coins[outpoint]
		if !exists {
			// The parent has no entry. If the child's is both fresh and
			// spent, the grandparent lacks it too and the spend collapses.
			if childEntry.isFresh() && childEntry.Coin.IsSpent() {
				continue
			}
			entry := &CacheEntry{Coin: childEntry.Coin, flags: entryDirty}
			// Only propagate FRESH if the child itself was fresh; otherwise
			// this coin may simply have been evicted from the parent's
			// cache earlier and still exist in the grandparent.
			if childEntry.isFresh() {
				entry.flags |= entryFresh
			}
			c.coins[outpoint] = entry
			c.cachedCoinsUsage += entry.Coin.DynamicMemoryUsage()
			continue
		}

		if childEntry.isFresh() && !selfEntry.Coin.IsSpent() {
			return ruleErrorf(ErrFreshAppliedToExisting,
				"FRESH flag misapplied to coin that exists in parent cache at %s", outpoint)
		}

		if selfEntry.isFresh() && childEntry.Coin.IsSpent() {
			// The grandparent has no entry and the coin has been spent;
			// just drop it from the parent too.
			c.cachedCoinsUsage -= selfEntry.Coin.DynamicMemoryUsage()
			delete(c.coins, outpoint)
			continue
		}

		// A normal modification. FRESH is never propagated here: if the
		// parent's entry was already spent before this merge, marking it
		// fresh now would prevent that spentness from ever reaching the
		// grandparent.
		c.cachedCoinsUsage -= selfEntry.Coin.DynamicMemoryUsage()
		selfEntry.Coin = childEntry.Coin
		c.cachedCoinsUsage += selfEntry.Coin.DynamicMemoryUsage()
		selfEntry.flags |= entryDirty
	}

	c.hashBlock = bestBlock
	c.names.apply(names)
	return nil
}

// Flush drains c into its parent view via BatchWrite, then clears c's
// state.  A cache with nothing cached and no best block recorded flushes
// trivially: this makes it valid to flush an untouched cache, which happens
// during mempool validation.
func (c *CachedCoinView) Flush() error {
	if c.hashBlock == zeroHash && len(c.coins) == 0 && c.names.empty() {
		return nil
	}

	log.Debugf("flushing coin cache (%d entries, %d bytes, best block %s)",
		len(c.coins), c.cachedCoinsUsage, c.hashBlock)

	if err := c.base.BatchWrite(c.coins, c.hashBlock, c.names); err != nil {
		return err
	}
	c.coins = make(CoinsMap)
	c.cachedCoinsUsage = 0
	c.names.clear()
	emitFlushTrace()
	return nil
}

// ReallocateCache discards the underlying storage of the coin map.  It is
// only valid to call on an empty cache; it exists to release fragmented
// capacity after a full flush.
func (c *CachedCoinView) ReallocateCache() {
	if len(c.coins) != 0 {
		panic(AssertError("ReallocateCache called on a non-empty cache"))
	}
	c.coins = make(CoinsMap)
}

// GetBestBlock returns the cached best-block hash, reading it from the
// parent view the first time it is requested after construction.
func (c *CachedCoinView) GetBestBlock() chainhash.Hash {
	if c.hashBlock == zeroHash {
		c.hashBlock = c.base.GetBestBlock()
	}
	return c.hashBlock
}

// SetBestBlock overrides the cached best-block hash without going through
// BatchWrite.
func (c *CachedCoinView) SetBestBlock(hash chainhash.Hash) {
	c.hashBlock = hash
}

// GetCacheSize returns the number of entries currently held in the coin
// map.  Name-registry changes are not counted.
func (c *CachedCoinView) GetCacheSize() int {
	return len(c.coins)
}

// DynamicMemoryUsage returns the total heap footprint of the coin cache:
// the sum of each entry's map overhead plus its coin's own
// DynamicMemoryUsage.
func (c *CachedCoinView) DynamicMemoryUsage() uint64 {
	return uint64(len(c.coins))*entryOverhead + c.cachedCoinsUsage
}

// EstimateSize reports the same figure as DynamicMemoryUsage; it exists as
// a distinct method because it is part of the CoinView contract that flush
// heuristics in the embedding program call against, independent of
// whatever a concrete implementation's real accounting looks like.
func (c *CachedCoinView) EstimateSize() uint64 {
	return c.DynamicMemoryUsage()
}

// GetName returns the current record for name, preferring the cache's own
// pending change and falling through to the parent view when the cache has
// not touched the name.
func (c *CachedCoinView) GetName(name []byte) (NameData, bool) {
	if c.names.isDeleted(name) {
		return NameData{}, false
	}
	if data, ok := c.names.get(name); ok {
		return data, true
	}
	return c.base.GetName(name)
}

// GetNameHistory returns the pending history stack for name, falling
// through to the parent view when the cache has not touched it.
//
// The cache never caches a read of the backend's own history; it only
// tracks changes it has itself made.
func (c *CachedCoinView) GetNameHistory(name []byte) (NameHistory, bool) {
	if h, ok := c.names.getHistory(name); ok {
		return h, true
	}
	return c.base.GetNameHistory(name)
}

// GetNamesForHeight queries the parent view for names expiring at height,
// then overlays the cache's own pending expiration changes.
func (c *CachedCoinView) GetNamesForHeight(height uint32) ([][]byte, bool) {
	baseNames, ok := c.base.GetNamesForHeight(height)
	if !ok {
		return nil, false
	}

	set := make(map[string]struct{}, len(baseNames))
	for _, n := range baseNames {
		set[string(n)] = struct{}{}
	}
	c.names.updateNamesForHeight(height, set)

	out := make([][]byte, 0, len(set))
	for n := range set {
		out = append(out, []byte(n))
	}
	return out, true
}

// IterateNames returns an iterator over every name known to this view,
// folding the cache's pending changes over the parent's iterator.
func (c *CachedCoinView) IterateNames() NameIterator {
	return newCacheNameIterator(c.names, c.base.IterateNames())
}

// SetName records data as the new value for name.  undo selects between
// the two ways a name mutation happens: forward (undo is false), which
// pushes whatever the name's prior value was onto its history stack so a
// later disconnect can restore it; and undo (undo is true), which pops the
// history stack and asserts the popped value equals data, the value being
// restored.
//
// If name has no prior record, undo must be false; setting a name for the
// first time is never itself an undo.
func (c *CachedCoinView) SetName(name []byte, data NameData, undo bool) {
	oldData, hadOld := c.GetName(name)
	if hadOld {
		c.names.removeExpireIndex(name, oldData.Height)

		history, ok := c.GetNameHistory(name)
		if !ok {
			if !history.IsEmpty() {
				panic(AssertError("name history should be empty after a failed lookup"))
			}
		}

		if undo {
			history.Pop(data)
		} else {
			history.Push(oldData)
		}
		c.names.setHistory(name, history)
	} else if undo {
		panic(AssertError("undo SetName called on a name with no prior record"))
	}

	c.names.set(name, data)
	c.names.addExpireIndex(name, data.Height)
	emitNameTrace(TraceNameSet, name, data.Height)
}

// DeleteName removes name.  A prior record must exist: names cannot be
// deleted without having been created. The history stack for the name must
// already be empty, since a name should never be deleted while an
// in-progress reorg still has undo data pending for it.
func (c *CachedCoinView) DeleteName(name []byte) {
	oldData, ok := c.GetName(name)
	if !ok {
		panic(AssertError("DeleteName called on a name with no prior record"))
	}
	c.names.removeExpireIndex(name, oldData.Height)

	if history, ok := c.GetNameHistory(name); ok && !history.IsEmpty() {
		panic(AssertError("DeleteName called while name history is not empty"))
	}

	c.names.remove(name)
}

var _ CoinView = (*CachedCoinView)(nil)

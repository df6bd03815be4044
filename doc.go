// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package coinview implements the layered unspent transaction output (UTXO)
// cache used by block validation, together with the parallel name-registry
// cache that backs a Namecoin-style auxiliary naming system.
//
// The cache mediates between an in-memory working set and a persistent
// key/value backing store.  It supports chain reorganizations, multi-level
// stacking of caches (a temporary cache flushed into a longer-lived parent),
// and the dirty/fresh bookkeeping that lets a coin created and spent between
// two flushes collapse to a no-op.
//
// Construction of the cache hierarchy, feeding it from connected blocks, and
// scheduling flushes is the job of the embedding node and is out of scope
// for this package.
package coinview

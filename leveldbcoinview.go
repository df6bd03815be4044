// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBCoinViewConfig describes how to open or create the on-disk store a
// LevelDBCoinView persists to, mirroring the path/cache-size shape a cache
// configuration takes elsewhere in the stack.
type LevelDBCoinViewConfig struct {
	// DBPath is the directory the underlying leveldb database lives in.
	DBPath string

	// BlockCacheSize is the size, in bytes, of leveldb's block cache.  Zero
	// selects leveldb's own default.
	BlockCacheSize int
}

// LevelDBCoinView is the durable leaf of the cache stack: every coin and
// name record flushed down from a CachedCoinView eventually lands here.  It
// implements CoinView directly against a leveldb database rather than
// against any higher-level storage abstraction.
type LevelDBCoinView struct {
	db *leveldb.DB
}

// NewLevelDBCoinView opens (creating if necessary) the database described by
// config.
func NewLevelDBCoinView(config *LevelDBCoinViewConfig) (*LevelDBCoinView, error) {
	opts := &opt.Options{
		Filter: filter.NewBloomFilter(10),
	}
	if config.BlockCacheSize > 0 {
		opts.BlockCacheCapacity = config.BlockCacheSize
	}
	db, err := leveldb.OpenFile(config.DBPath, opts)
	if err != nil {
		return nil, convertLdbErr(err, "open coin database")
	}
	return &LevelDBCoinView{db: db}, nil
}

// Close releases the underlying database handle.
func (v *LevelDBCoinView) Close() error {
	return v.db.Close()
}

// convertLdbErr translates a leveldb-specific error into one that does not
// leak the storage engine across the CoinView boundary.
func convertLdbErr(err error, desc string) error {
	if err == nil {
		return nil
	}
	switch {
	case ldberrors.IsCorrupted(err):
		return fmt.Errorf("%s: corrupt coin database: %w", desc, err)
	case errors.Is(err, leveldb.ErrClosed):
		return fmt.Errorf("%s: coin database is closed: %w", desc, err)
	case errors.Is(err, leveldb.ErrSnapshotReleased):
		return fmt.Errorf("%s: coin database snapshot released: %w", desc, err)
	case errors.Is(err, leveldb.ErrIterReleased):
		return fmt.Errorf("%s: coin database iterator released: %w", desc, err)
	default:
		return fmt.Errorf("%s: %w", desc, err)
	}
}

// GetCoin returns the coin stored for outpoint.  The store never retains a
// record for a spent coin, so a lookup here always reports a live coin when
// it reports one at all.
func (v *LevelDBCoinView) GetCoin(outpoint OutPoint) (Coin, bool) {
	data, err := v.db.Get(coinKey(outpoint), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return Coin{}, false
		}
		panic(convertLdbErr(err, "read coin"))
	}
	coin, err := decodeCoin(data)
	if err != nil {
		panic(err)
	}
	return coin, true
}

// HaveCoin reports whether outpoint has a live coin on disk.
func (v *LevelDBCoinView) HaveCoin(outpoint OutPoint) bool {
	ok, err := v.db.Has(coinKey(outpoint), nil)
	if err != nil {
		panic(convertLdbErr(err, "probe coin"))
	}
	return ok
}

// GetBestBlock returns the best block hash recorded in the database, or the
// zero hash if none has been written yet.
func (v *LevelDBCoinView) GetBestBlock() chainhash.Hash {
	data, err := v.db.Get(bestBlockKey, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return chainhash.Hash{}
		}
		panic(convertLdbErr(err, "read best block"))
	}
	var hash chainhash.Hash
	copy(hash[:], data)
	return hash
}

// GetHeadBlocks always reports no outstanding heads: a LevelDBCoinView
// writes its best-block record in the same atomic transaction as the coin
// and name changes it accompanies, so there is never an interrupted flush
// for a caller to detect and recover from.
func (v *LevelDBCoinView) GetHeadBlocks() []chainhash.Hash {
	return nil
}

// BatchWrite commits coins and names, along with bestBlock, in a single
// leveldb transaction so that a crash mid-flush can never leave the coin
// set, name index, and recorded best block mutually inconsistent.
func (v *LevelDBCoinView) BatchWrite(coins CoinsMap, bestBlock chainhash.Hash, names *NameCache) error {
	tx, err := v.db.OpenTransaction()
	if err != nil {
		return convertLdbErr(err, "open flush transaction")
	}

	for outpoint, entry := range coins {
		key := coinKey(outpoint)
		if entry.Coin.IsSpent() {
			if err := tx.Delete(key, nil); err != nil {
				tx.Discard()
				return convertLdbErr(err, "delete spent coin")
			}
			continue
		}
		if err := tx.Put(key, encodeCoin(entry.Coin), nil); err != nil {
			tx.Discard()
			return convertLdbErr(err, "write coin")
		}
	}

	if err := v.applyNames(tx, names); err != nil {
		tx.Discard()
		return err
	}

	if bestBlock != (chainhash.Hash{}) {
		if err := tx.Put(bestBlockKey, bestBlock[:], nil); err != nil {
			tx.Discard()
			return convertLdbErr(err, "write best block")
		}
	}

	if err := tx.Commit(); err != nil {
		return convertLdbErr(err, "commit flush transaction")
	}
	return nil
}

// applyNames writes every pending name-cache mutation into tx.
func (v *LevelDBCoinView) applyNames(tx *leveldb.Transaction, names *NameCache) error {
	for name, e := range names.entries {
		key := nameKey([]byte(name))
		if e.deleted {
			if err := tx.Delete(key, nil); err != nil {
				return convertLdbErr(err, "delete name record")
			}
			continue
		}
		if err := tx.Put(key, encodeNameData(e.data), nil); err != nil {
			return convertLdbErr(err, "write name record")
		}
	}

	for name, h := range names.histories {
		key := nameHistoryKey([]byte(name))
		if h.IsEmpty() {
			if err := tx.Delete(key, nil); err != nil {
				return convertLdbErr(err, "delete name history")
			}
			continue
		}
		if err := tx.Put(key, encodeNameHistory(h), nil); err != nil {
			return convertLdbErr(err, "write name history")
		}
	}

	for key, active := range names.expire {
		dbKey := expireKeyBytes(key.height, []byte(key.name))
		if active {
			if err := tx.Put(dbKey, nil, nil); err != nil {
				return convertLdbErr(err, "write expire index")
			}
			continue
		}
		if err := tx.Delete(dbKey, nil); err != nil {
			return convertLdbErr(err, "delete expire index")
		}
	}
	return nil
}

// GetName returns the current record for name, if one is stored.
func (v *LevelDBCoinView) GetName(name []byte) (NameData, bool) {
	data, err := v.db.Get(nameKey(name), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return NameData{}, false
		}
		panic(convertLdbErr(err, "read name"))
	}
	decoded, err := decodeNameData(data)
	if err != nil {
		panic(err)
	}
	return decoded, true
}

// GetNameHistory returns the stored history stack for name, if any.
func (v *LevelDBCoinView) GetNameHistory(name []byte) (NameHistory, bool) {
	data, err := v.db.Get(nameHistoryKey(name), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return NameHistory{}, false
		}
		panic(convertLdbErr(err, "read name history"))
	}
	h, err := decodeNameHistory(data)
	if err != nil {
		panic(err)
	}
	return h, true
}

// GetNamesForHeight returns every name whose expiration is indexed at
// height.  The backing store always has an opinion on this question, even
// if the answer is the empty set, so the reported bool is always true.
func (v *LevelDBCoinView) GetNamesForHeight(height uint32) ([][]byte, bool) {
	prefix := expireHeightPrefix(height)
	iter := v.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	var names [][]byte
	for iter.Next() {
		name := expireKeyName(iter.Key())
		names = append(names, append([]byte(nil), name...))
	}
	if err := iter.Error(); err != nil {
		panic(convertLdbErr(err, "scan expire index"))
	}
	return names, true
}

// IterateNames walks every current name record in key order.  The
// underlying leveldb iterator releases itself once exhausted; a caller
// that abandons the scan early is responsible for the same cost an
// abandoned Cursor carries.
func (v *LevelDBCoinView) IterateNames() NameIterator {
	prefix := []byte{keySetName}
	iter := v.db.NewIterator(util.BytesPrefix(prefix), nil)
	return &levelDBNameIterator{iter: iter}
}

type levelDBNameIterator struct {
	iter interface {
		Next() bool
		Key() []byte
		Value() []byte
		Error() error
		Release()
	}
}

// Next returns the next name record in the scan.
func (it *levelDBNameIterator) Next() ([]byte, NameData, bool) {
	if !it.iter.Next() {
		it.iter.Release()
		return nil, NameData{}, false
	}
	name := append([]byte(nil), it.iter.Key()[1:]...)
	data, err := decodeNameData(it.iter.Value())
	if err != nil {
		panic(err)
	}
	return name, data, true
}

// Cursor walks every coin in the database in key order.
func (v *LevelDBCoinView) Cursor() Iterator {
	prefix := []byte{keySetCoin}
	return &levelDBCoinIterator{iter: v.db.NewIterator(util.BytesPrefix(prefix), nil)}
}

type levelDBCoinIterator struct {
	iter iterator.Iterator
}

func (it *levelDBCoinIterator) First() bool {
	return it.iter.First()
}

func (it *levelDBCoinIterator) Next() bool {
	return it.iter.Next()
}

func (it *levelDBCoinIterator) OutPoint() OutPoint {
	outpoint, err := decodeCoinKey(it.iter.Key())
	if err != nil {
		panic(err)
	}
	return outpoint
}

func (it *levelDBCoinIterator) Coin() Coin {
	coin, err := decodeCoin(it.iter.Value())
	if err != nil {
		panic(err)
	}
	return coin
}

func (it *levelDBCoinIterator) Error() error {
	return convertLdbErr(it.iter.Error(), "iterate coins")
}

func (it *levelDBCoinIterator) Release() {
	it.iter.Release()
}

// ValidateNameDB walks the entire name index and reports the first name
// whose current record is undecodable or has no expiration-index entry at
// its height.  It does not check the reverse direction (expire entries
// without a matching name record) and does not inspect history stacks.
// interrupt allows a caller running this as a maintenance task to abort a
// large scan early.
func (v *LevelDBCoinView) ValidateNameDB(interrupt <-chan struct{}) error {
	prefix := []byte{keySetName}
	iter := v.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		select {
		case <-interrupt:
			return fmt.Errorf("name database validation interrupted")
		default:
		}

		name := append([]byte(nil), iter.Key()[1:]...)
		data, err := decodeNameData(iter.Value())
		if err != nil {
			return fmt.Errorf("corrupt name record for %q: %w", name, err)
		}

		indexed, err := v.db.Has(expireKeyBytes(data.Height, name), nil)
		if err != nil {
			return convertLdbErr(err, "validate expire index")
		}
		if !indexed {
			return fmt.Errorf("name %q has no expire-index entry at height %d", name, data.Height)
		}
	}
	if err := iter.Error(); err != nil {
		return convertLdbErr(err, "scan name database")
	}
	return nil
}

// EstimateSize approximates the on-disk footprint of the coin and name
// data, in bytes.
func (v *LevelDBCoinView) EstimateSize() uint64 {
	sizes, err := v.db.SizeOf([]util.Range{
		{Start: []byte{keySetCoin}, Limit: []byte{keySetCoin + 1}},
		{Start: []byte{keySetName}, Limit: []byte{keySetExpire + 1}},
	})
	if err != nil {
		return 0
	}
	return uint64(sizes.Sum())
}

var _ CoinView = (*LevelDBCoinView)(nil)

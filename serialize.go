// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

import (
	"encoding/binary"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// The LevelDBCoinView key space is split into five prefixed key sets, each
// carrying a one-byte identifier so the key sets can be iterated
// independently with a range scan.  Heights and indices are encoded big
// endian so that lexicographic key order matches numeric order, which
// GetNamesForHeight and Cursor rely on.
const (
	keySetCoin        byte = 1
	keySetBestBlock   byte = 2
	keySetName        byte = 3
	keySetNameHistory byte = 4
	keySetExpire      byte = 5
)

var bestBlockKey = []byte{keySetBestBlock}

// coinKey returns the database key for outpoint.
func coinKey(outpoint OutPoint) []byte {
	key := make([]byte, 1+chainhash.HashSize+4)
	key[0] = keySetCoin
	copy(key[1:], outpoint.Hash[:])
	binary.BigEndian.PutUint32(key[1+chainhash.HashSize:], outpoint.Index)
	return key
}

// decodeCoinKey parses a key produced by coinKey.
func decodeCoinKey(key []byte) (OutPoint, error) {
	if len(key) != 1+chainhash.HashSize+4 || key[0] != keySetCoin {
		return OutPoint{}, fmt.Errorf("invalid coin key")
	}
	var hash chainhash.Hash
	copy(hash[:], key[1:1+chainhash.HashSize])
	index := binary.BigEndian.Uint32(key[1+chainhash.HashSize:])
	return OutPoint{Hash: hash, Index: index}, nil
}

// encodeCoin serializes a coin for storage.  A coin is never written once
// it is spent; the backing store represents spentness by deleting the key
// outright.
func encodeCoin(coin Coin) []byte {
	buf := make([]byte, 4+1+8+len(coin.PkScript))
	binary.BigEndian.PutUint32(buf[0:4], coin.Height)
	if coin.CoinBase {
		buf[4] = 1
	}
	binary.BigEndian.PutUint64(buf[5:13], uint64(coin.Value))
	copy(buf[13:], coin.PkScript)
	return buf
}

// decodeCoin deserializes a coin previously written by encodeCoin.
func decodeCoin(data []byte) (Coin, error) {
	if len(data) < 13 {
		return Coin{}, fmt.Errorf("short coin record: %d bytes", len(data))
	}
	coin := Coin{
		Height:   binary.BigEndian.Uint32(data[0:4]),
		CoinBase: data[4] != 0,
	}
	coin.Value = int64(binary.BigEndian.Uint64(data[5:13]))
	if len(data) > 13 {
		coin.PkScript = append([]byte(nil), data[13:]...)
	} else {
		// No script bytes followed the fixed 13-byte header, so this coin
		// had an empty PkScript. Use an explicit non-nil empty slice here,
		// since IsSpent checks for a nil PkScript.
		coin.PkScript = []byte{}
	}
	return coin, nil
}

// nameKey returns the database key for a name's current record.
func nameKey(name []byte) []byte {
	key := make([]byte, 1+len(name))
	key[0] = keySetName
	copy(key[1:], name)
	return key
}

// encodeNameData serializes a name record.
func encodeNameData(data NameData) []byte {
	buf := make([]byte, 4+chainhash.HashSize+4+4+len(data.Value))
	off := 0
	binary.BigEndian.PutUint32(buf[off:], data.Height)
	off += 4
	copy(buf[off:], data.Output.Hash[:])
	off += chainhash.HashSize
	binary.BigEndian.PutUint32(buf[off:], data.Output.Index)
	off += 4
	binary.BigEndian.PutUint32(buf[off:], uint32(len(data.Value)))
	off += 4
	copy(buf[off:], data.Value)
	return buf
}

// decodeNameData deserializes a name record previously written by
// encodeNameData.
func decodeNameData(buf []byte) (NameData, error) {
	const headerSize = 4 + chainhash.HashSize + 4 + 4
	if len(buf) < headerSize {
		return NameData{}, fmt.Errorf("short name record: %d bytes", len(buf))
	}
	var data NameData
	off := 0
	data.Height = binary.BigEndian.Uint32(buf[off:])
	off += 4
	copy(data.Output.Hash[:], buf[off:off+chainhash.HashSize])
	off += chainhash.HashSize
	data.Output.Index = binary.BigEndian.Uint32(buf[off:])
	off += 4
	valueLen := int(binary.BigEndian.Uint32(buf[off:]))
	off += 4
	if len(buf)-off != valueLen {
		return NameData{}, fmt.Errorf("name record value length mismatch")
	}
	data.Value = append([]byte(nil), buf[off:]...)
	return data, nil
}

// nameHistoryKey returns the database key for a name's history stack.
func nameHistoryKey(name []byte) []byte {
	key := make([]byte, 1+len(name))
	key[0] = keySetNameHistory
	copy(key[1:], name)
	return key
}

// encodeNameHistory serializes a history stack as a count followed by each
// entry in stack order (bottom first).
func encodeNameHistory(h NameHistory) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(len(h.entries)))
	for _, entry := range h.entries {
		encoded := encodeNameData(entry)
		lenPrefix := make([]byte, 4)
		binary.BigEndian.PutUint32(lenPrefix, uint32(len(encoded)))
		buf = append(buf, lenPrefix...)
		buf = append(buf, encoded...)
	}
	return buf
}

// decodeNameHistory deserializes a history stack previously written by
// encodeNameHistory.
func decodeNameHistory(buf []byte) (NameHistory, error) {
	if len(buf) < 4 {
		return NameHistory{}, fmt.Errorf("short name history record")
	}
	count := binary.BigEndian.Uint32(buf[0:4])
	buf = buf[4:]
	entries := make([]NameData, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(buf) < 4 {
			return NameHistory{}, fmt.Errorf("truncated name history record")
		}
		entryLen := binary.BigEndian.Uint32(buf[0:4])
		buf = buf[4:]
		if uint32(len(buf)) < entryLen {
			return NameHistory{}, fmt.Errorf("truncated name history entry")
		}
		data, err := decodeNameData(buf[:entryLen])
		if err != nil {
			return NameHistory{}, err
		}
		entries = append(entries, data)
		buf = buf[entryLen:]
	}
	return NameHistory{entries: entries}, nil
}

// expireKeyBytes returns the database key for an (height, name) pair,
// height-major so that a prefix scan over the height bytes yields every
// name expiring at that height.
func expireKeyBytes(height uint32, name []byte) []byte {
	key := make([]byte, 1+4+len(name))
	key[0] = keySetExpire
	binary.BigEndian.PutUint32(key[1:5], height)
	copy(key[5:], name)
	return key
}

// expireHeightPrefix returns the key prefix shared by every expire-index
// entry at height.
func expireHeightPrefix(height uint32) []byte {
	prefix := make([]byte, 1+4)
	prefix[0] = keySetExpire
	binary.BigEndian.PutUint32(prefix[1:5], height)
	return prefix
}

// expireKeyName extracts the name from a key produced by expireKeyBytes.
func expireKeyName(key []byte) []byte {
	return key[5:]
}

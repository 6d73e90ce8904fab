// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/MKhiriev/go-proof-ledger/internal/logger"
)

// Log names of the four append-only logs kept by a node.
const (
	LogPublicLedger     = "public-ledger"
	LogValidationLedger = "validation-ledger"
	LogInsurance        = "insurance"
	LogExchange         = "exchange"
)

// Key layout:
//
//	log/<name>/len          big-endian uint64 record count
//	log/<name>/r/<index>    record at big-endian index
//	log/<name>/u/<key>      idempotency key -> index
//	chain/live/len          number of live blocks
//	chain/live/b/<index>    live block
//	chain/stage/b/<index>   block of a rebuild in progress
const chainLockName = "chain"

var (
	chainLiveLen  = []byte("chain/live/len")
	chainLivePfx  = []byte("chain/live/b/")
	chainStagePfx = []byte("chain/stage/b/")
	syncWrite     = &opt.WriteOptions{Sync: true}
)

// LevelDB is the embedded key/value store backing every append-only log and
// the block chain of a node.
type LevelDB struct {
	db     *leveldb.DB
	locker Locker
	logger *logger.Logger
}

// OpenLevelDB opens (or creates) the database at path. Appends are
// serialized through locker; a nil locker falls back to an in-process mutex.
func OpenLevelDB(path string, locker Locker, log *logger.Logger) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		log.Err(err).Str("func", "OpenLevelDB").Str("path", path).Msg("failed to open leveldb")
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	if locker == nil {
		locker = NewMutexLocker()
	}
	log.Debug().Str("func", "OpenLevelDB").Str("path", path).Msg("leveldb opened")

	return &LevelDB{db: db, locker: locker, logger: log}, nil
}

// Close releases the database file lock.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

// Log returns the append-only log called name.
func (l *LevelDB) Log(name string) AppendLog {
	prefix := "log/" + name + "/"
	return &levelLog{
		store:     l,
		name:      name,
		lockName:  "log/" + name,
		lenKey:    []byte(prefix + "len"),
		recPrefix: []byte(prefix + "r/"),
		keyPrefix: []byte(prefix + "u/"),
	}
}

// Chain returns the block chain store.
func (l *LevelDB) Chain() ChainStore {
	return &levelChain{store: l}
}

type levelLog struct {
	store     *LevelDB
	name      string
	lockName  string
	lenKey    []byte
	recPrefix []byte
	keyPrefix []byte
}

func (g *levelLog) Name() string {
	return g.name
}

func (g *levelLog) Append(ctx context.Context, build RecordBuilder) (uint64, error) {
	index, _, err := g.append(ctx, "", build)
	return index, err
}

func (g *levelLog) AppendUnique(ctx context.Context, uniqueKey string, build RecordBuilder) (uint64, bool, error) {
	if uniqueKey == "" {
		return 0, false, fmt.Errorf("%w: empty idempotency key", ErrInvalidKey)
	}
	return g.append(ctx, uniqueKey, build)
}

// append writes the record, the new length and the optional idempotency
// key in one synced batch while holding the log lock.
func (g *levelLog) append(ctx context.Context, uniqueKey string, build RecordBuilder) (uint64, bool, error) {
	unlock, err := g.store.locker.Lock(ctx, g.lockName)
	if err != nil {
		return 0, false, err
	}
	defer unlock()

	if uniqueKey != "" {
		existing, err := g.store.db.Get(g.uniqueKey(uniqueKey), nil)
		switch {
		case err == nil:
			return decodeIndex(existing), false, nil
		case !errors.Is(err, leveldb.ErrNotFound):
			return 0, false, fmt.Errorf("read idempotency key of %s: %w", g.name, err)
		}
	}

	length, err := readLength(g.store.db, g.lenKey)
	if err != nil {
		return 0, false, fmt.Errorf("read length of %s: %w", g.name, err)
	}

	record, err := build(length)
	if err != nil {
		return 0, false, err
	}

	batch := new(leveldb.Batch)
	batch.Put(indexKey(g.recPrefix, length), record)
	batch.Put(g.lenKey, encodeIndex(length+1))
	if uniqueKey != "" {
		batch.Put(g.uniqueKey(uniqueKey), encodeIndex(length))
	}
	if err = g.store.db.Write(batch, syncWrite); err != nil {
		g.store.logger.Err(err).
			Str("func", "*levelLog.append").
			Str("log", g.name).
			Uint64("index", length).
			Msg("failed to write append batch")
		return 0, false, fmt.Errorf("append to %s: %w", g.name, err)
	}

	return length, true, nil
}

func (g *levelLog) Get(_ context.Context, index uint64) ([]byte, error) {
	record, err := g.store.db.Get(indexKey(g.recPrefix, index), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s[%d]: %w", g.name, index, err)
	}
	return record, nil
}

func (g *levelLog) Len(_ context.Context) (uint64, error) {
	return readLength(g.store.db, g.lenKey)
}

func (g *levelLog) HasKey(_ context.Context, uniqueKey string) (bool, error) {
	return g.store.db.Has(g.uniqueKey(uniqueKey), nil)
}

// Scan reads from a snapshot, so records appended during the scan are not
// visited.
func (g *levelLog) Scan(ctx context.Context, fn func(index uint64, record []byte) error) error {
	snap, err := g.store.db.GetSnapshot()
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", g.name, err)
	}
	defer snap.Release()

	length, err := readLength(snap, g.lenKey)
	if err != nil {
		return err
	}

	iter := snap.NewIterator(util.BytesPrefix(g.recPrefix), nil)
	defer iter.Release()

	var expected uint64
	for iter.Next() && expected < length {
		if err = ctx.Err(); err != nil {
			return err
		}
		index := decodeIndex(iter.Key()[len(g.recPrefix):])
		if index != expected {
			return fmt.Errorf("%w: %s has no record %d", ErrLogCorrupted, g.name, expected)
		}
		// iterator buffers are reused; hand out a copy
		record := append([]byte(nil), iter.Value()...)
		if err = fn(index, record); err != nil {
			return err
		}
		expected++
	}
	if err = iter.Error(); err != nil {
		return fmt.Errorf("iterate %s: %w", g.name, err)
	}
	if expected != length {
		return fmt.Errorf("%w: %s has %d of %d records", ErrLogCorrupted, g.name, expected, length)
	}

	return nil
}

func (g *levelLog) uniqueKey(key string) []byte {
	return append(append([]byte(nil), g.keyPrefix...), key...)
}

type levelChain struct {
	store *LevelDB
}

// ReplaceChain writes blocks under the staging prefix first, then swaps them
// in with a single batch. A crash before the swap leaves the live chain
// untouched; the next rebuild overwrites the leftovers.
func (c *levelChain) ReplaceChain(ctx context.Context, blocks [][]byte) error {
	unlock, err := c.store.locker.Lock(ctx, chainLockName)
	if err != nil {
		return err
	}
	defer unlock()

	stage := new(leveldb.Batch)
	c.clearPrefix(stage, chainStagePfx)
	for i, block := range blocks {
		stage.Put(indexKey(chainStagePfx, uint64(i)), block)
	}
	if err = c.store.db.Write(stage, syncWrite); err != nil {
		c.store.logger.Err(err).Str("func", "*levelChain.ReplaceChain").Msg("failed to stage chain")
		return fmt.Errorf("stage chain: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	oldLen, err := readLength(c.store.db, chainLiveLen)
	if err != nil {
		return err
	}

	swap := new(leveldb.Batch)
	for i, block := range blocks {
		swap.Put(indexKey(chainLivePfx, uint64(i)), block)
		swap.Delete(indexKey(chainStagePfx, uint64(i)))
	}
	for i := uint64(len(blocks)); i < oldLen; i++ {
		swap.Delete(indexKey(chainLivePfx, i))
	}
	swap.Put(chainLiveLen, encodeIndex(uint64(len(blocks))))
	if err = c.store.db.Write(swap, syncWrite); err != nil {
		c.store.logger.Err(err).Str("func", "*levelChain.ReplaceChain").Msg("failed to swap chain")
		return fmt.Errorf("swap chain: %w", err)
	}

	return nil
}

func (c *levelChain) Blocks(_ context.Context) ([][]byte, error) {
	snap, err := c.store.db.GetSnapshot()
	if err != nil {
		return nil, fmt.Errorf("snapshot chain: %w", err)
	}
	defer snap.Release()

	length, err := readLength(snap, chainLiveLen)
	if err != nil {
		return nil, err
	}

	blocks := make([][]byte, 0, length)
	for i := uint64(0); i < length; i++ {
		block, err := snap.Get(indexKey(chainLivePfx, i), nil)
		if err != nil {
			return nil, fmt.Errorf("%w: chain block %d: %w", ErrLogCorrupted, i, err)
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

func (c *levelChain) Block(_ context.Context, index uint64) ([]byte, error) {
	block, err := c.store.db.Get(indexKey(chainLivePfx, index), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get block %d: %w", index, err)
	}
	return block, nil
}

func (c *levelChain) Len(_ context.Context) (uint64, error) {
	return readLength(c.store.db, chainLiveLen)
}

func (c *levelChain) clearPrefix(batch *leveldb.Batch, prefix []byte) {
	iter := c.store.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
}

type getter interface {
	Get(key []byte, ro *opt.ReadOptions) ([]byte, error)
}

func readLength(g getter, key []byte) (uint64, error) {
	raw, err := g.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}
	return decodeIndex(raw), nil
}

func indexKey(prefix []byte, index uint64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], index)
	return key
}

func encodeIndex(index uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, index)
}

func decodeIndex(raw []byte) uint64 {
	if len(raw) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(raw)
}

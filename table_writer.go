package mphf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
)

// tableWriter writes a table file through a memory-mapped, preallocated
// region. The section sizes are known before the first byte is written, so
// the file is allocated at its final size.
// File layout: [Header 48B][UserMetaLen 4B][UserMeta][Seeds][Fingerprints]
// [KeyOffsets][KeyBlob][ValueOffsets][ValueBlob][Footer 16B]
type tableWriter struct {
	file *os.File
	mmap mmap.MMap
	data []byte

	header       header
	layout       layout
	userMetadata []byte
}

// WriteFile writes t to path in the table file format. Open reads it back.
//
// By default keys and values are stored; WithoutKeys replaces the keys with
// fingerprints and WithoutValues drops the values. A keys-only table is
// written without values regardless of options.
func WriteFile(path string, t *Table[string], opts ...WriteOption) error {
	cfg := &writeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if t.Len() > math.MaxUint32 || len(t.seeds) > math.MaxUint32 {
		return fmt.Errorf("write table: %d keys, %d seeds exceed the format limits", t.Len(), len(t.seeds))
	}

	h := header{
		Magic:    magic,
		Version:  version,
		NumSeeds: uint32(len(t.seeds)),
		NumKeys:  uint32(t.Len()),
	}
	if cfg.omitKeys {
		h.Flags |= flagFingerprints
	} else {
		h.Flags |= flagKeys
		h.KeyBlobSize = blobSize(t.keys)
	}
	if t.HasValues() && !cfg.omitValues {
		h.Flags |= flagValues
		h.ValueBlobSize = blobSize(t.values)
	}

	tw, err := newTableWriter(path, h, cfg.userMetadata)
	if err != nil {
		return err
	}
	tw.writeSections(t)
	if err := tw.finalize(); err != nil {
		return errors.Join(err, os.Remove(path))
	}
	return nil
}

// mapRegion maps the table file for writing. Tests replace it to exercise
// the cleanup of a failed write.
var mapRegion = mmap.MapRegion

// newTableWriter creates path, preallocates it and maps it for writing.
func newTableWriter(path string, h header, userMetadata []byte) (*tableWriter, error) {
	l := computeLayout(&h, uint64(len(userMetadata)))
	size := l.size()

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create table file: %w", err)
	}

	// Pre-allocate disk blocks to prevent SIGBUS on disk full
	if err := fallocateFile(file, int64(size)); err != nil {
		primaryErr := fmt.Errorf("failed to allocate disk space: %w", err)
		return nil, errors.Join(primaryErr, file.Close(), os.Remove(path))
	}

	mm, err := mapRegion(file, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		primaryErr := fmt.Errorf("failed to mmap file: %w", err)
		return nil, errors.Join(primaryErr, file.Close(), os.Remove(path))
	}

	tw := &tableWriter{
		file:         file,
		mmap:         mm,
		data:         []byte(mm),
		header:       h,
		layout:       l,
		userMetadata: userMetadata,
	}

	// Every byte of the mapping is written exactly once below.
	prefaultRegion(tw.data)
	return tw, nil
}

// writeSections fills every section between the header and the footer.
func (tw *tableWriter) writeSections(t *Table[string]) {
	tw.header.encodeTo(tw.data[0:headerSize])

	// UserMetadata: [length 4B][data]
	binary.LittleEndian.PutUint32(tw.data[headerSize:], uint32(len(tw.userMetadata)))
	copy(tw.data[headerSize+4:], tw.userMetadata)

	for i, seed := range t.seeds {
		binary.LittleEndian.PutUint32(tw.data[tw.layout.seeds+uint64(i)*seedSize:], seed)
	}

	if tw.header.hasFingerprints() {
		for i, key := range t.keys {
			binary.LittleEndian.PutUint32(tw.data[tw.layout.fingerprints+uint64(i)*fingerprintSize:], fingerprint(key))
		}
	}
	if tw.header.hasKeys() {
		tw.writeBlob(tw.layout.keyOffsets, tw.layout.keyBlob, t.keys)
	}
	if tw.header.hasValues() {
		tw.writeBlob(tw.layout.valueOffsets, tw.layout.valueBlob, t.values)
	}
}

// writeBlob writes the offsets table at offsetsAt and the concatenated
// strings at blobAt.
func (tw *tableWriter) writeBlob(offsetsAt, blobAt uint64, items []string) {
	var pos uint64
	for i, s := range items {
		binary.LittleEndian.PutUint64(tw.data[offsetsAt+uint64(i)*offsetSize:], pos)
		copy(tw.data[blobAt+pos:], s)
		pos += uint64(len(s))
	}
	binary.LittleEndian.PutUint64(tw.data[offsetsAt+uint64(len(items))*offsetSize:], pos)
}

// finalize writes the footer, flushes the mapping and closes the file.
// On error, delegates to close() for idempotent cleanup.
func (tw *tableWriter) finalize() error {
	ftr := footer{
		DataHash: xxhash.Sum64(tw.data[:tw.layout.footer]),
	}
	ftr.encodeTo(tw.data[tw.layout.footer:])

	// Flush dirty pages to file (ensures writes visible before unmap)
	if err := tw.mmap.Flush(); err != nil {
		primaryErr := fmt.Errorf("mmap flush failed: %w", err)
		return errors.Join(primaryErr, tw.close())
	}

	// Nil mmap regardless of outcome to prevent close() from retrying.
	unmapErr := tw.mmap.Unmap()
	tw.mmap = nil
	if unmapErr != nil {
		primaryErr := fmt.Errorf("mmap unmap failed: %w", unmapErr)
		return errors.Join(primaryErr, tw.close())
	}

	closeErr := tw.file.Close()
	tw.file = nil
	return closeErr
}

// close closes the writer without finalizing (for error cleanup).
// Idempotent: safe to call multiple times.
func (tw *tableWriter) close() error {
	var unmapErr error
	if tw.mmap != nil {
		unmapErr = tw.mmap.Unmap()
		tw.mmap = nil
	}
	var closeErr error
	if tw.file != nil {
		closeErr = tw.file.Close()
		tw.file = nil
	}
	return errors.Join(unmapErr, closeErr)
}

func blobSize(items []string) uint64 {
	var n uint64
	for _, s := range items {
		n += uint64(len(s))
	}
	return n
}

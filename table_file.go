package mphf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	mphferrors "github.com/tamirms/mphf/errors"
)

// minFileSize is the size of a file with one seed, no keys and no metadata.
const minFileSize = headerSize + 4 + seedSize + footerSize

// File is a read-only table file opened for lookups.
//
// Thread Safety:
// - Index, Value, Key and the other read methods are safe for concurrent use
// - Close is NOT safe to call concurrently with lookups
// - After Close returns, lookups return ErrTableClosed
type File struct {
	// Memory map (no file handle needed after mmap)
	mmap mmap.MMap
	data []byte

	header       *header
	layout       layout
	userMetadata []byte

	// Seed table decoded at open time; it is small and read on every lookup.
	seeds []uint32

	closed atomic.Bool
}

// Open opens a table file for lookups.
// It opens the file, memory-maps it, and closes the file descriptor.
func Open(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table file: %w", err)
	}
	defer file.Close()
	return OpenFile(file)
}

// OpenFile opens a table by memory-mapping the given file.
// The caller is responsible for closing f. Per POSIX mmap(2), f may be
// closed immediately after OpenFile returns.
func OpenFile(f *os.File) (*File, error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat table file: %w", err)
	}
	fileSize := stat.Size()

	if fileSize < int64(minFileSize) {
		return nil, mphferrors.ErrTruncatedFile
	}

	// The seed table is decoded right away and lookups touch the rest at
	// random, so ask for the whole file up front.
	fadviseWillNeed(int(f.Fd()), 0, fileSize)

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap table file: %w", err)
	}

	tf := &File{
		mmap: mm,
		data: []byte(mm),
	}
	if err := tf.initFromData(); err != nil {
		return nil, errors.Join(err, tf.Close())
	}
	return tf, nil
}

// OpenBytes reads a table from an in-memory byte slice.
// No file is opened or memory-mapped; Close is a no-op.
// The caller must ensure data is not modified while the File is in use.
func OpenBytes(data []byte) (*File, error) {
	if len(data) < minFileSize {
		return nil, mphferrors.ErrTruncatedFile
	}
	tf := &File{
		data: data,
	}
	if err := tf.initFromData(); err != nil {
		return nil, err
	}
	return tf, nil
}

// initFromData parses the header, user metadata and seed table.
// The footer is only decoded by Verify.
func (tf *File) initFromData() error {
	fileSize := uint64(len(tf.data))

	hdr, err := decodeHeader(tf.data[:headerSize])
	if err != nil {
		return err
	}
	tf.header = hdr

	userMetadataLen := uint64(binary.LittleEndian.Uint32(tf.data[headerSize:]))

	// Bounding each term by the file size keeps computeLayout from
	// overflowing on a corrupted header.
	if userMetadataLen > fileSize || hdr.KeyBlobSize > fileSize || hdr.ValueBlobSize > fileSize {
		return mphferrors.ErrTruncatedFile
	}
	tf.layout = computeLayout(hdr, userMetadataLen)
	if tf.layout.size() != fileSize {
		if tf.layout.size() > fileSize {
			return mphferrors.ErrTruncatedFile
		}
		return mphferrors.ErrCorruptedTable
	}
	tf.userMetadata = tf.data[headerSize+4 : headerSize+4+userMetadataLen]

	tf.seeds = make([]uint32, hdr.NumSeeds)
	for i := range tf.seeds {
		tf.seeds[i] = binary.LittleEndian.Uint32(tf.data[tf.layout.seeds+uint64(i)*seedSize:])
	}
	return nil
}

// Close closes the table and releases resources.
func (tf *File) Close() error {
	if tf.closed.Swap(true) {
		return nil // Already closed
	}

	if tf.mmap != nil {
		return tf.mmap.Unmap()
	}
	return nil
}

// Index returns the slot of key. It returns ErrNotFound if key is not in the
// table; with WithoutKeys files this check is probabilistic.
func (tf *File) Index(key string) (int, error) {
	if tf.closed.Load() {
		return 0, mphferrors.ErrTableClosed
	}

	i, err := Index(key, tf.seeds, int(tf.header.NumKeys))
	if err != nil {
		return 0, mphferrors.ErrNotFound
	}

	switch {
	case tf.header.hasKeys():
		stored, err := tf.entry(tf.layout.keyOffsets, tf.layout.keyBlob, tf.header.KeyBlobSize, i)
		if err != nil {
			return 0, err
		}
		if !bytes.Equal(stored, stringBytes(key)) {
			return 0, mphferrors.ErrNotFound
		}
	case tf.header.hasFingerprints():
		stored := binary.LittleEndian.Uint32(tf.data[tf.layout.fingerprints+uint64(i)*fingerprintSize:])
		if stored != fingerprint(key) {
			return 0, mphferrors.ErrNotFound
		}
	}
	return i, nil
}

// Value returns the value of key. The returned slice is backed by the
// memory-mapped file and must not be modified or used after Close.
func (tf *File) Value(key string) ([]byte, error) {
	if tf.closed.Load() {
		return nil, mphferrors.ErrTableClosed
	}
	if !tf.header.hasValues() {
		return nil, mphferrors.ErrNoValues
	}
	i, err := tf.Index(key)
	if err != nil {
		return nil, err
	}
	return tf.entry(tf.layout.valueOffsets, tf.layout.valueBlob, tf.header.ValueBlobSize, i)
}

// Key returns the key stored at slot i.
func (tf *File) Key(i int) (string, error) {
	if tf.closed.Load() {
		return "", mphferrors.ErrTableClosed
	}
	if !tf.header.hasKeys() {
		return "", mphferrors.ErrNoKeys
	}
	if i < 0 || i >= int(tf.header.NumKeys) {
		return "", mphferrors.ErrNotFound
	}
	b, err := tf.entry(tf.layout.keyOffsets, tf.layout.keyBlob, tf.header.KeyBlobSize, i)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// entry returns item i of the blob whose offsets table starts at offsetsAt.
func (tf *File) entry(offsetsAt, blobAt, blobSize uint64, i int) ([]byte, error) {
	at := offsetsAt + uint64(i)*offsetSize
	start := binary.LittleEndian.Uint64(tf.data[at:])
	end := binary.LittleEndian.Uint64(tf.data[at+offsetSize:])
	if start > end || end > blobSize {
		return nil, mphferrors.ErrCorruptedTable
	}
	return tf.data[blobAt+start : blobAt+end], nil
}

// Len returns the number of keys in the table.
func (tf *File) Len() int {
	return int(tf.header.NumKeys)
}

// Seeds returns the seed table. The slice must not be modified.
func (tf *File) Seeds() []uint32 {
	return tf.seeds
}

// HasKeys reports whether the file stores keys.
func (tf *File) HasKeys() bool {
	return tf.header.hasKeys()
}

// HasValues reports whether the file stores values.
func (tf *File) HasValues() bool {
	return tf.header.hasValues()
}

// UserMetadata returns the variable-length user-defined metadata.
// The returned slice is backed by the memory-mapped file data.
func (tf *File) UserMetadata() []byte {
	return tf.userMetadata
}

// Verify checks the footer checksum against the whole file.
func (tf *File) Verify() error {
	if tf.closed.Load() {
		return mphferrors.ErrTableClosed
	}

	ft, err := decodeFooter(tf.data[tf.layout.footer:])
	if err != nil {
		return err
	}
	if xxhash.Sum64(tf.data[:tf.layout.footer]) != ft.DataHash {
		return mphferrors.ErrChecksumFailed
	}
	return nil
}

// Table copies the file contents into a Table. The file must store keys;
// values are included when present.
func (tf *File) Table() (*Table[string], error) {
	if tf.closed.Load() {
		return nil, mphferrors.ErrTableClosed
	}
	if !tf.header.hasKeys() {
		return nil, mphferrors.ErrNoKeys
	}

	n := tf.Len()
	keys := make([]string, n)
	var values []string
	if tf.header.hasValues() {
		values = make([]string, n)
	}
	for i := range n {
		k, err := tf.entry(tf.layout.keyOffsets, tf.layout.keyBlob, tf.header.KeyBlobSize, i)
		if err != nil {
			return nil, err
		}
		keys[i] = string(k)
		if values != nil {
			v, err := tf.entry(tf.layout.valueOffsets, tf.layout.valueBlob, tf.header.ValueBlobSize, i)
			if err != nil {
				return nil, err
			}
			values[i] = string(v)
		}
	}

	t, err := FromParts(append([]uint32(nil), tf.seeds...), keys, values)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mphferrors.ErrCorruptedTable, err)
	}
	return t, nil
}

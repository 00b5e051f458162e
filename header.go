package mphf

import (
	"encoding/binary"

	mphferrors "github.com/tamirms/mphf/errors"
)

const (
	// magic number for table files, "MPHF" in little-endian
	magic = uint32(0x4648504D)

	// version is the current format version
	version = uint16(0x0001)

	// headerSize is the exact size of the serialized header (48 bytes)
	headerSize = 48

	// footerSize is the exact size of the serialized footer (16 bytes)
	footerSize = 16

	seedSize   = 4
	offsetSize = 8
)

// Header flags
const (
	flagKeys         = uint16(1 << 0)
	flagValues       = uint16(1 << 1)
	flagFingerprints = uint16(1 << 2)
)

// header is the 48-byte file header.
//
// Layout:
//
//	Offset  Size  Field          Type
//	0       4     Magic          0x4648504D ("MPHF")
//	4       2     Version        0x0001
//	6       2     Flags          uint16_le (keys, values, fingerprints)
//	8       4     NumSeeds       uint32_le
//	12      4     NumKeys        uint32_le
//	16      8     KeyBlobSize    uint64_le
//	24      8     ValueBlobSize  uint64_le
//	32      16    Reserved       [16]byte (zero)
//
// The header is followed by [UserMetaLen 4B][UserMeta], then the sections
// described by layout, then the footer.
type header struct {
	Magic         uint32
	Version       uint16
	Flags         uint16
	NumSeeds      uint32
	NumKeys       uint32
	KeyBlobSize   uint64
	ValueBlobSize uint64
	Reserved      [16]byte
}

// encodeTo serializes the header to an existing buffer.
func (h *header) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint16(buf[6:8], h.Flags)
	binary.LittleEndian.PutUint32(buf[8:12], h.NumSeeds)
	binary.LittleEndian.PutUint32(buf[12:16], h.NumKeys)
	binary.LittleEndian.PutUint64(buf[16:24], h.KeyBlobSize)
	binary.LittleEndian.PutUint64(buf[24:32], h.ValueBlobSize)
	copy(buf[32:48], h.Reserved[:])
}

// decodeHeader parses a 48-byte header.
func decodeHeader(buf []byte) (*header, error) {
	if len(buf) < headerSize {
		return nil, mphferrors.ErrTruncatedFile
	}

	h := &header{
		Magic:         binary.LittleEndian.Uint32(buf[0:4]),
		Version:       binary.LittleEndian.Uint16(buf[4:6]),
		Flags:         binary.LittleEndian.Uint16(buf[6:8]),
		NumSeeds:      binary.LittleEndian.Uint32(buf[8:12]),
		NumKeys:       binary.LittleEndian.Uint32(buf[12:16]),
		KeyBlobSize:   binary.LittleEndian.Uint64(buf[16:24]),
		ValueBlobSize: binary.LittleEndian.Uint64(buf[24:32]),
	}
	copy(h.Reserved[:], buf[32:48])

	if h.Magic != magic {
		return nil, mphferrors.ErrInvalidMagic
	}
	if h.Version != version {
		return nil, mphferrors.ErrInvalidVersion
	}
	if h.NumSeeds == 0 {
		return nil, mphferrors.ErrCorruptedTable
	}
	if h.hasKeys() && h.hasFingerprints() {
		return nil, mphferrors.ErrCorruptedTable
	}
	if !h.hasKeys() && h.KeyBlobSize != 0 || !h.hasValues() && h.ValueBlobSize != 0 {
		return nil, mphferrors.ErrCorruptedTable
	}

	return h, nil
}

func (h *header) hasKeys() bool {
	return h.Flags&flagKeys != 0
}

func (h *header) hasValues() bool {
	return h.Flags&flagValues != 0
}

func (h *header) hasFingerprints() bool {
	return h.Flags&flagFingerprints != 0
}

// footer is the 16-byte file footer.
//
// Layout:
//
//	Offset  Size  Field     Type
//	0       8     DataHash  uint64_le (xxHash64 of every byte before the footer)
//	8       8     Reserved  [8]byte (zero)
type footer struct {
	DataHash uint64
	Reserved [8]byte
}

// encodeTo serializes the footer into an existing buffer.
func (f *footer) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], f.DataHash)
	copy(buf[8:16], f.Reserved[:])
}

// decodeFooter parses a 16-byte footer.
func decodeFooter(buf []byte) (*footer, error) {
	if len(buf) < footerSize {
		return nil, mphferrors.ErrTruncatedFile
	}

	f := &footer{
		DataHash: binary.LittleEndian.Uint64(buf[0:8]),
	}
	copy(f.Reserved[:], buf[8:16])

	return f, nil
}

// layout holds the absolute offsets of the sections that follow the user
// metadata. Absent sections have zero length.
//
//	[Seeds 4B×S][Fingerprints 4B×N][KeyOffsets 8B×(N+1)][KeyBlob]
//	[ValueOffsets 8B×(N+1)][ValueBlob]
//
// Blob offsets are relative to the start of their blob; entry i spans
// [offsets[i], offsets[i+1]).
type layout struct {
	seeds        uint64
	fingerprints uint64
	keyOffsets   uint64
	keyBlob      uint64
	valueOffsets uint64
	valueBlob    uint64
	footer       uint64
}

// computeLayout derives section offsets from the header and the user
// metadata length.
func computeLayout(h *header, userMetadataLen uint64) layout {
	var l layout
	n := uint64(h.NumKeys)

	l.seeds = headerSize + 4 + userMetadataLen
	l.fingerprints = l.seeds + uint64(h.NumSeeds)*seedSize

	l.keyOffsets = l.fingerprints
	if h.hasFingerprints() {
		l.keyOffsets += n * fingerprintSize
	}

	l.keyBlob = l.keyOffsets
	if h.hasKeys() {
		l.keyBlob += (n + 1) * offsetSize
	}

	l.valueOffsets = l.keyBlob + h.KeyBlobSize

	l.valueBlob = l.valueOffsets
	if h.hasValues() {
		l.valueBlob += (n + 1) * offsetSize
	}

	l.footer = l.valueBlob + h.ValueBlobSize
	return l
}

// size returns the total file size.
func (l layout) size() uint64 {
	return l.footer + footerSize
}

package lpak

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// Wire-format constants, reverse-documented from known-good sample bundles.
// The magic doubles as the byte-order marker: "LPAK" means every later field
// is big-endian, "KAPL" little-endian.
const (
	versionOffset = 6  // uint16 format version
	headOffset    = 12 // seven uint32 directory-header fields
	headSize      = 28

	// Versions at or above this value use the post-Full Throttle record
	// layout, which has a different directory shape and is rejected outright.
	siblingVersion = 16320

	entryRecordSize = 20

	// Stored names are NUL-terminated; anything longer than this is not a
	// name the format ever produces.
	maxNameLen = 255
)

var (
	magicBE = []byte("LPAK")
	magicLE = []byte("KAPL")
)

// directoryHead is the fixed-layout record at headOffset. Two of the seven
// fields are unused by this reader, as they are by the original format docs.
type directoryHead struct {
	entryTableOff uint32
	nameTableOff  uint32
	dataOff       uint32
	entryTableLen uint32
}

// ParseIndex reads the bundle's header and directory into an Index. It reads
// only directory bytes, never entry payloads, and returns no partial result:
// a single malformed record invalidates trust in the whole table.
func ParseIndex(b *Bundle) (*Index, error) {
	order, err := readMagic(b)
	if err != nil {
		return nil, err
	}

	var verBuf [2]byte
	if _, err := b.ReadAt(verBuf[:], versionOffset); err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	version := order.Uint16(verBuf[:])

	if version >= siblingVersion {
		return nil, fmt.Errorf("version %d: %w", version, ErrUnsupportedVariant)
	}

	head, err := readDirectoryHead(b, order)
	if err != nil {
		return nil, err
	}

	entries, err := readEntries(b, order, head)
	if err != nil {
		return nil, err
	}

	return &Index{
		Version:   version,
		ByteOrder: order,
		Entries:   entries,
	}, nil
}

func readMagic(b *Bundle) (binary.ByteOrder, error) {
	var magic [4]byte
	if _, err := b.ReadAt(magic[:], 0); err != nil {
		return nil, fmt.Errorf("reading magic: %w", ErrBadSignature)
	}

	switch {
	case bytes.Equal(magic[:], magicBE):
		return binary.BigEndian, nil
	case bytes.Equal(magic[:], magicLE):
		return binary.LittleEndian, nil
	default:
		return nil, fmt.Errorf("magic %q: %w", magic[:], ErrBadSignature)
	}
}

func readDirectoryHead(b *Bundle, order binary.ByteOrder) (directoryHead, error) {
	var buf [headSize]byte
	if _, err := b.ReadAt(buf[:], headOffset); err != nil {
		return directoryHead{}, fmt.Errorf("reading directory header: %w", err)
	}

	head := directoryHead{
		entryTableOff: order.Uint32(buf[0:]),
		nameTableOff:  order.Uint32(buf[4:]),
		dataOff:       order.Uint32(buf[8:]),
		entryTableLen: order.Uint32(buf[16:]),
	}

	tableEnd := int64(head.entryTableOff) + int64(head.entryTableLen)
	if tableEnd > b.Size() {
		return directoryHead{}, fmt.Errorf(
			"entry table [%d,%d) exceeds bundle of %d bytes: %w",
			head.entryTableOff, tableEnd, b.Size(), ErrTruncated)
	}
	if int64(head.nameTableOff) > b.Size() {
		return directoryHead{}, fmt.Errorf(
			"name table offset %d exceeds bundle of %d bytes: %w",
			head.nameTableOff, b.Size(), ErrTruncated)
	}

	return head, nil
}

func readEntries(b *Bundle, order binary.ByteOrder, head directoryHead) ([]Entry, error) {
	count := int(head.entryTableLen / entryRecordSize)

	table := make([]byte, head.entryTableLen)
	if _, err := b.ReadAt(table, int64(head.entryTableOff)); err != nil {
		return nil, fmt.Errorf("reading entry table: %w", err)
	}

	entries := make([]Entry, 0, count)
	nameCursor := int64(head.nameTableOff)

	for i := 0; i < count; i++ {
		rec := table[i*entryRecordSize:]

		// Record layout: data offset (relative to the data section), name
		// offset, size, compressed size, compressed flag. The name offset
		// field is vestigial; names are packed back to back in record order.
		dataOffset := int64(order.Uint32(rec[0:]))
		size := int64(order.Uint32(rec[8:]))
		compressedSize := int64(order.Uint32(rec[12:]))
		compressed := order.Uint32(rec[16:]) != 0

		name, next, err := readName(b, nameCursor)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		nameCursor = next

		entry := Entry{
			Path:           normalizePath(name),
			Offset:         int64(head.dataOff) + dataOffset,
			Size:           size,
			CompressedSize: compressedSize,
			Compressed:     compressed,
		}

		if entry.Offset+entry.Size > b.Size() {
			return nil, fmt.Errorf(
				"entry %q: data [%d,%d) exceeds bundle of %d bytes: %w",
				entry.Path, entry.Offset, entry.Offset+entry.Size, b.Size(), ErrTruncated)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// readName reads one NUL-terminated name at off and returns it along with
// the offset of the next name.
func readName(b *Bundle, off int64) (string, int64, error) {
	n := int64(maxNameLen + 1)
	if off+n > b.Size() {
		n = b.Size() - off
	}
	if n <= 0 {
		return "", 0, fmt.Errorf("name at offset %d past end of bundle: %w", off, ErrTruncated)
	}

	buf := make([]byte, n)
	if _, err := b.ReadAt(buf, off); err != nil {
		return "", 0, fmt.Errorf("reading name at offset %d: %w", off, err)
	}

	end := bytes.IndexByte(buf, 0)
	if end < 0 {
		return "", 0, fmt.Errorf("unterminated name at offset %d: %w", off, ErrTruncated)
	}

	return string(buf[:end]), off + int64(end) + 1, nil
}

// normalizePath canonicalizes stored path separators to forward slashes.
func normalizePath(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}

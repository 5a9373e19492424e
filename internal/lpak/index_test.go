package lpak

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFile holds data for building synthetic bundle entries.
type testFile struct {
	name       string
	data       []byte
	compressed bool
}

// buildBundle assembles a well-formed bundle image: 40-byte header, entry
// table, packed NUL-terminated name table, then the data section.
func buildBundle(tb testing.TB, order binary.ByteOrder, version uint16, files []testFile) []byte {
	tb.Helper()

	magic := magicBE
	if order == binary.LittleEndian {
		magic = magicLE
	}

	entryTableOff := uint32(headOffset + headSize)
	entryTableLen := uint32(len(files) * entryRecordSize)
	nameTableOff := entryTableOff + entryTableLen

	var names bytes.Buffer
	nameOffsets := make([]uint32, len(files))
	for i, f := range files {
		nameOffsets[i] = uint32(names.Len())
		names.WriteString(f.name)
		names.WriteByte(0)
	}

	dataOff := nameTableOff + uint32(names.Len())

	buf := &bytes.Buffer{}
	buf.Write(magic)
	buf.Write([]byte{0, 0})
	require.NoError(tb, binary.Write(buf, order, version))
	buf.Write([]byte{0, 0, 0, 0})

	head := []uint32{entryTableOff, nameTableOff, dataOff, 0, entryTableLen, 0, 0}
	require.NoError(tb, binary.Write(buf, order, head))

	dataCursor := uint32(0)
	for i, f := range files {
		compressed := uint32(0)
		if f.compressed {
			compressed = 1
		}
		rec := []uint32{dataCursor, nameOffsets[i], uint32(len(f.data)), 0, compressed}
		require.NoError(tb, binary.Write(buf, order, rec))
		dataCursor += uint32(len(f.data))
	}

	buf.Write(names.Bytes())
	for _, f := range files {
		buf.Write(f.data)
	}

	return buf.Bytes()
}

func parseBytes(tb testing.TB, data []byte) (*Index, error) {
	tb.Helper()
	return ParseIndex(NewBundle(bytes.NewReader(data), int64(len(data))))
}

func TestParseIndexDirectoryOrder(t *testing.T) {
	files := []testFile{
		{name: "maniac/a.bin", data: []byte("0123456789")},
		{name: "maniac/b.bin", data: nil},
		{name: "readme.txt", data: []byte("hello")},
	}
	data := buildBundle(t, binary.LittleEndian, 1, files)

	index, err := parseBytes(t, data)
	require.NoError(t, err)

	assert.Equal(t, []string{"maniac/a.bin", "maniac/b.bin", "readme.txt"}, index.Paths())
	assert.Equal(t, uint16(1), index.Version)

	// Every entry's declared range must point at its original payload.
	for i, f := range files {
		entry := index.Entries[i]
		assert.Equal(t, int64(len(f.data)), entry.Size, f.name)
		assert.False(t, entry.Compressed, f.name)

		got := make([]byte, entry.Size)
		if entry.Size > 0 {
			copy(got, data[entry.Offset:entry.Offset+entry.Size])
			assert.Equal(t, f.data, got, f.name)
		}
	}
}

func TestParseIndexBigEndian(t *testing.T) {
	files := []testFile{
		{name: "room/door.wav", data: []byte("payload")},
	}

	le, err := parseBytes(t, buildBundle(t, binary.LittleEndian, 2, files))
	require.NoError(t, err)
	be, err := parseBytes(t, buildBundle(t, binary.BigEndian, 2, files))
	require.NoError(t, err)

	assert.Equal(t, le.Paths(), be.Paths())
	assert.Equal(t, le.Entries[0].Size, be.Entries[0].Size)
	assert.Equal(t, binary.ByteOrder(binary.LittleEndian), le.ByteOrder)
	assert.Equal(t, binary.ByteOrder(binary.BigEndian), be.ByteOrder)
}

func TestParseIndexEmptyDirectory(t *testing.T) {
	index, err := parseBytes(t, buildBundle(t, binary.LittleEndian, 1, nil))
	require.NoError(t, err)
	assert.Empty(t, index.Entries)
}

func TestParseIndexBadSignature(t *testing.T) {
	data := buildBundle(t, binary.LittleEndian, 1, []testFile{{name: "a", data: []byte("x")}})
	copy(data, "ZIP!")

	_, err := parseBytes(t, data)
	require.ErrorIs(t, err, ErrBadSignature)

	// A file shorter than the magic is also a signature failure, not a panic.
	_, err = parseBytes(t, []byte("LP"))
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestParseIndexUnsupportedVariant(t *testing.T) {
	data := buildBundle(t, binary.LittleEndian, siblingVersion, []testFile{
		{name: "a", data: []byte("x")},
	})

	_, err := parseBytes(t, data)
	require.ErrorIs(t, err, ErrUnsupportedVariant)
	assert.NotErrorIs(t, err, ErrBadSignature)
}

func TestParseIndexTruncatedEntryTable(t *testing.T) {
	data := buildBundle(t, binary.LittleEndian, 1, []testFile{
		{name: "a.bin", data: []byte("x")},
	})

	// Cut the file inside the entry table: the declared extent now exceeds
	// the physical size.
	_, err := parseBytes(t, data[:headOffset+headSize+4])
	require.ErrorIs(t, err, ErrTruncated)
}

func TestParseIndexTruncatedEntryData(t *testing.T) {
	data := buildBundle(t, binary.LittleEndian, 1, []testFile{
		{name: "a.bin", data: []byte("0123456789")},
	})

	index, err := parseBytes(t, data[:len(data)-1])
	require.ErrorIs(t, err, ErrTruncated)
	assert.Nil(t, index)
}

func TestParseIndexUnterminatedName(t *testing.T) {
	data := buildBundle(t, binary.LittleEndian, 1, []testFile{
		{name: "some/long/entry.bin", data: nil},
	})

	// Cut the file in the middle of the name table, before the NUL.
	_, err := parseBytes(t, data[:len(data)-4])
	require.ErrorIs(t, err, ErrTruncated)
}

func TestParseIndexNormalizesSeparators(t *testing.T) {
	index, err := parseBytes(t, buildBundle(t, binary.LittleEndian, 1, []testFile{
		{name: `maniac\tentacle\day1.nut`, data: []byte("x")},
	}))
	require.NoError(t, err)
	assert.Equal(t, "maniac/tentacle/day1.nut", index.Entries[0].Path)
}

func TestParseIndexCompressedFlag(t *testing.T) {
	index, err := parseBytes(t, buildBundle(t, binary.LittleEndian, 1, []testFile{
		{name: "a.z", data: []byte("zz"), compressed: true},
		{name: "b.raw", data: []byte("rr")},
	}))
	require.NoError(t, err)
	assert.True(t, index.Entries[0].Compressed)
	assert.False(t, index.Entries[1].Compressed)
}

package lpak

import "encoding/binary"

// Entry is one packed file described by the bundle directory.
type Entry struct {
	// Path is the stored relative path, forward-slash separated. It is used
	// verbatim as the on-disk relative path during extraction.
	Path string
	// Offset is the absolute byte offset of the entry's data in the bundle.
	Offset int64
	// Size is the byte length of the entry's data.
	Size int64
	// CompressedSize is the stored compressed length; meaningful only when
	// Compressed is set.
	CompressedSize int64
	// Compressed reports whether the payload is stored compressed. Compressed
	// payloads are listed but not extracted.
	Compressed bool
}

// Index is the parsed bundle directory. Entries preserve directory order,
// and the slice is read-only once returned by ParseIndex.
type Index struct {
	// Version is the format version from the header.
	Version uint16
	// ByteOrder is the field byte order selected by the magic.
	ByteOrder binary.ByteOrder
	// Entries lists every packed file in directory order.
	Entries []Entry
}

// Paths returns the stored relative path of every entry, in directory order.
func (idx *Index) Paths() []string {
	paths := make([]string, len(idx.Entries))
	for i, e := range idx.Entries {
		paths[i] = e.Path
	}
	return paths
}

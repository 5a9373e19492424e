package lpak

import (
	"fmt"
	"io"
	"os"
)

// Bundle is an opened LPAK container: a read-only byte source of known total
// length. It is an explicit value handed to both the index parser and the
// extractor, so tests can hold several synthetic bundles open at once.
type Bundle struct {
	data   io.ReaderAt
	size   int64
	closer io.Closer
}

// Open opens the bundle file at path. The returned Bundle owns the file
// handle; Close releases it.
func Open(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bundle: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat bundle: %w", err)
	}

	return &Bundle{data: f, size: fi.Size(), closer: f}, nil
}

// NewBundle wraps an in-memory or otherwise pre-opened byte source. The
// caller retains ownership of r.
func NewBundle(r io.ReaderAt, size int64) *Bundle {
	return &Bundle{data: r, size: size}
}

// Size returns the total length of the container in bytes.
func (b *Bundle) Size() int64 {
	return b.size
}

// ReadAt reads len(p) bytes starting at off. Reads past the end of the
// container are rejected rather than short-read, since every caller works
// from directory-declared extents that were validated against Size.
func (b *Bundle) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > b.size {
		return 0, fmt.Errorf("read [%d,%d) outside bundle of %d bytes: %w",
			off, off+int64(len(p)), b.size, ErrTruncated)
	}
	return b.data.ReadAt(p, off)
}

// Section returns a reader over the byte range [off, off+n) of the container,
// used to stream one entry's payload without loading it whole.
func (b *Bundle) Section(off, n int64) *io.SectionReader {
	return io.NewSectionReader(b.data, off, n)
}

// Close releases the underlying file handle, if the Bundle owns one.
func (b *Bundle) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

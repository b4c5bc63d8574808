// Package binary provides bounds-checked reads over an io.ReaderAt.
// Every read carries a "what" string so errors name the structure being
// parsed instead of a bare offset.
package binary

import (
	"encoding/binary"
	"io"
)

// OutOfBoundsError mirrors audiometa.OutOfBoundsError without importing it
// (the root package wraps these before returning them to callers).
type OutOfBoundsError struct {
	Path   string
	Offset int64
	Length int
	Size   int64
	What   string
}

func (e *OutOfBoundsError) Error() string {
	return e.Path + ": out of bounds reading " + e.What
}

// SafeReader wraps an io.ReaderAt with known size and rejects any read that
// would cross the end of the data.
type SafeReader struct {
	r    io.ReaderAt
	size int64
	path string
}

// NewSafeReader creates a bounds-checked reader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{r: r, size: size, path: path}
}

// Size returns the total size of the underlying data.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// Path returns the file path used in error messages.
func (sr *SafeReader) Path() string {
	return sr.path
}

// ReadAt fills buf from the given offset, failing if the read would cross
// the end of the data.
func (sr *SafeReader) ReadAt(buf []byte, offset int64, what string) error {
	if offset < 0 || offset+int64(len(buf)) > sr.size {
		return &OutOfBoundsError{
			Path:   sr.path,
			Offset: offset,
			Length: len(buf),
			Size:   sr.size,
			What:   what,
		}
	}
	_, err := sr.r.ReadAt(buf, offset)
	return err
}

// Integer is the set of fixed-width unsigned types readable from a stream.
type Integer interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Read reads a big-endian integer at offset.
func Read[T Integer](sr *SafeReader, offset int64, what string) (T, error) {
	return readInt[T](sr, offset, what, binary.BigEndian)
}

// ReadLE reads a little-endian integer at offset (RIFF/WAV structures).
func ReadLE[T Integer](sr *SafeReader, offset int64, what string) (T, error) {
	return readInt[T](sr, offset, what, binary.LittleEndian)
}

func readInt[T Integer](sr *SafeReader, offset int64, what string, order binary.ByteOrder) (T, error) {
	var zero T
	n := size[T]()
	buf := make([]byte, n)
	if err := sr.ReadAt(buf, offset, what); err != nil {
		return zero, err
	}
	switch n {
	case 1:
		return T(buf[0]), nil
	case 2:
		return T(order.Uint16(buf)), nil
	case 4:
		return T(order.Uint32(buf)), nil
	default:
		return T(order.Uint64(buf)), nil
	}
}

func size[T Integer]() int {
	var v T
	switch any(v).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// ReadSyncsafe reads an ID3v2 28-bit syncsafe integer (4 bytes, 7 bits each).
func ReadSyncsafe(sr *SafeReader, offset int64, what string) (uint32, error) {
	buf := make([]byte, 4)
	if err := sr.ReadAt(buf, offset, what); err != nil {
		return 0, err
	}
	return uint32(buf[0]&0x7f)<<21 | uint32(buf[1]&0x7f)<<14 |
		uint32(buf[2]&0x7f)<<7 | uint32(buf[3]&0x7f), nil
}

// ReadFourCC reads a 4-byte chunk/frame identifier as a string.
func ReadFourCC(sr *SafeReader, offset int64, what string) (string, error) {
	buf := make([]byte, 4)
	if err := sr.ReadAt(buf, offset, what); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Package codec implements the little-endian byte primitives that every
// other PFA package builds on: length-prefixed strings, fixed-width
// null-padded names, and the 48-byte catalog entry record.
package codec

import (
	"encoding/binary"
	"fmt"
	"io"
)

// NameSize is the fixed width of a catalog entry's name field.
const NameSize = 32

// EntrySize is the fixed width of a serialized catalog entry:
// NameSize bytes of name, 8 bytes of size, 8 bytes of offset/index.
const EntrySize = NameSize + 8 + 8

// FlagByteIndex is the offset within the 32-byte name field that carries
// the per-file DataFlags byte; directory entries never read or write it.
const FlagByteIndex = NameSize - 1

// MaxNameBytes is the longest a raw (file or directory) name may be once
// UTF-8 encoded. It is two less than NameSize, not one: a file name of
// MaxNameBytes bytes fills indices [0, MaxNameBytes), leaving index
// MaxNameBytes itself zero (the NUL terminator ReadFixedName's scan
// relies on) ahead of the always-nonzero flag byte at FlagByteIndex. A
// directory name gets the same budget plus the trailing "/" ReadEntry
// strips, which lands its own implicit terminator at FlagByteIndex.
const MaxNameBytes = NameSize - 2

// ErrFieldTooLarge is returned when a string does not fit in its field.
type ErrFieldTooLarge struct {
	Field string
	Len   int
	Max   int
}

func (e *ErrFieldTooLarge) Error() string {
	return fmt.Sprintf("pfa: %s of length %d exceeds max size %d", e.Field, e.Len, e.Max)
}

// WriteU8String writes a one-byte length prefix followed by the string's
// UTF-8 bytes. Fails if the string is longer than 255 bytes.
func WriteU8String(w io.Writer, s string) error {
	if len(s) > 255 {
		return &ErrFieldTooLarge{Field: "u8-sized string", Len: len(s), Max: 255}
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

// WriteU8Bytes writes a one-byte length prefix followed by raw bytes.
func WriteU8Bytes(w io.Writer, b []byte) error {
	if len(b) > 255 {
		return &ErrFieldTooLarge{Field: "u8-sized blob", Len: len(b), Max: 255}
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadU8String reads a WriteU8String-encoded string.
func ReadU8String(r io.Reader) (string, error) {
	buf, err := ReadU8Bytes(r)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadU8Bytes reads a one-byte length prefix followed by that many raw bytes.
func ReadU8Bytes(r io.Reader) ([]byte, error) {
	var n uint8
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// WriteFixedName writes name left-justified into a NameSize-byte field,
// zero-padded. If flagByte is non-nil, it is written at FlagByteIndex
// after the zero padding (only meaningful for file entries), which
// requires name to leave at least one zero pad byte ahead of
// FlagByteIndex (max MaxNameBytes); without a flag byte the full field
// minus one byte is available, leaving at least the last byte as the
// zero pad that terminates the name.
func WriteFixedName(w io.Writer, name string, flagByte *byte) error {
	max := NameSize - 1
	if flagByte != nil {
		max = MaxNameBytes
	}
	if len(name) > max {
		return &ErrFieldTooLarge{Field: "catalog entry name", Len: len(name), Max: max}
	}
	buf := make([]byte, NameSize)
	copy(buf, name)
	if flagByte != nil {
		buf[FlagByteIndex] = *flagByte
	}
	_, err := w.Write(buf)
	return err
}

// ReadFixedName reads a NameSize-byte fixed name field, returning the
// NUL-terminated prefix as the name and the byte at FlagByteIndex as the
// (possibly meaningless, for directories) flag byte.
func ReadFixedName(r io.Reader) (name string, flagByte byte, err error) {
	buf := make([]byte, NameSize)
	if _, err = io.ReadFull(r, buf); err != nil {
		return "", 0, err
	}
	flagByte = buf[FlagByteIndex]
	end := NameSize
	for i, b := range buf {
		if b == 0 {
			end = i
			break
		}
	}
	return string(buf[:end]), flagByte, nil
}

// CatalogSlice is the decoded (size, offset) pair of a catalog entry.
// For file entries, Offset is a byte offset into the data region. For
// directory entries, Offset is an entry-count displacement to the first
// child and Size is the number of contiguous children.
type CatalogSlice struct {
	Size   uint64
	Offset uint64
}

// WriteEntry writes one 48-byte catalog entry. isDir controls whether the
// name is suffixed with '/' and whether flagByte is emitted.
func WriteEntry(w io.Writer, name string, isDir bool, flagByte byte, slice CatalogSlice) error {
	var err error
	if isDir {
		err = WriteFixedName(w, name+"/", nil)
	} else {
		err = WriteFixedName(w, name, &flagByte)
	}
	if err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, slice.Size); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, slice.Offset)
}

// ReadEntry reads one 48-byte catalog entry.
func ReadEntry(r io.Reader) (name string, isDir bool, flagByte byte, slice CatalogSlice, err error) {
	name, flagByte, err = ReadFixedName(r)
	if err != nil {
		return
	}
	if len(name) > 0 && name[len(name)-1] == '/' {
		isDir = true
		name = name[:len(name)-1]
	}
	if err = binary.Read(r, binary.LittleEndian, &slice.Size); err != nil {
		return
	}
	err = binary.Read(r, binary.LittleEndian, &slice.Offset)
	return
}

// Package image reads and writes program images: Intel HEX text, or raw
// little-endian binary words.
package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/marcinbor85/gohex"

	"github.com/ezrec/avrsim/cpu"
)

const (
	MAX_BYTES    = cpu.FLASHEND + 1 // Largest image, in bytes.
	RECORD_BYTES = 16               // Data bytes per written record.
)

// isHex is true if data looks like Intel HEX text.
func isHex(data []byte) bool {
	text := bytes.TrimSpace(data)
	if len(text) == 0 || text[0] != ':' {
		return false
	}
	for _, c := range text {
		switch {
		case c == ':', c == '\r', c == '\n', c == ' ', c == '\t':
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Decode reads a program image, as either Intel HEX or raw binary.
func Decode(r io.Reader) (words []uint16, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	if isHex(data) {
		return DecodeHex(bytes.NewReader(data))
	}

	return DecodeBinary(bytes.NewReader(data))
}

// DecodeBinary reads raw little-endian program words.
func DecodeBinary(r io.Reader) (words []uint16, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	if len(data)%2 != 0 {
		err = ErrOddLength
		return
	}
	if len(data) > MAX_BYTES {
		err = ErrAddressRange
		return
	}
	if len(data) == 0 {
		return
	}

	words = make([]uint16, len(data)/2)
	_, err = binary.Decode(data, binary.LittleEndian, words)

	return
}

// DecodeHex reads Intel HEX records. Gaps between data records read as
// zero, and the start address is ignored.
func DecodeHex(r io.Reader) (words []uint16, err error) {
	mem := gohex.NewMemory()
	err = mem.ParseIntelHex(r)
	if err != nil {
		err = &ErrRecord{Err: errors.Join(ErrRecordSyntax, err)}
		return
	}

	segments := mem.GetDataSegments()

	size := 0
	for _, seg := range segments {
		end := int(seg.Address) + len(seg.Data)
		if end > MAX_BYTES {
			err = &ErrRecord{Err: ErrAddressRange}
			return
		}
		size = max(size, end)
	}

	data := make([]byte, size+size%2)
	for _, seg := range segments {
		copy(data[seg.Address:], seg.Data)
	}

	words = make([]uint16, len(data)/2)
	for n := range words {
		words[n] = uint16(data[n*2]) | uint16(data[n*2+1])<<8
	}

	return
}

// EncodeHex writes program words as Intel HEX.
func EncodeHex(w io.Writer, words []uint16) (err error) {
	data := make([]byte, len(words)*2)
	for n, word := range words {
		data[n*2] = byte(word)
		data[n*2+1] = byte(word >> 8)
	}

	mem := gohex.NewMemory()
	if len(data) > 0 {
		err = mem.AddBinary(0, data)
		if err != nil {
			return
		}
	}

	return mem.DumpIntelHex(w, RECORD_BYTES)
}

// EncodeBinary writes program words as raw little-endian binary.
func EncodeBinary(w io.Writer, words []uint16) (err error) {
	return binary.Write(w, binary.LittleEndian, words)
}

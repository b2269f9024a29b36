package snapshot

import (
	"encoding/binary"
	"io"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

var endian = binary.BigEndian

func readU8(r io.Reader) (v uint8) {
	check(binary.Read(r, endian, &v))
	return
}

func readU16(r io.Reader) (v uint16) {
	check(binary.Read(r, endian, &v))
	return
}

func readRaw(r io.Reader, n int) []byte {
	p := make([]byte, n)
	_, err := io.ReadFull(r, p)
	check(err)
	return p
}

// readBits unpacks len(dst) flags, eight per byte, most significant bit first.
func readBits(r io.Reader, dst []bool) {
	p := readRaw(r, (len(dst)+7)/8)
	for i := range dst {
		dst[i] = p[i/8]&(0x80>>(i%8)) != 0
	}
}

func writeU8(w io.Writer, v uint8) {
	check(binary.Write(w, endian, v))
}

func writeU16(w io.Writer, v uint16) {
	check(binary.Write(w, endian, v))
}

func writeRaw(w io.Writer, p []byte) {
	_, err := w.Write(p)
	check(err)
}

// writeBits packs src into bytes, eight flags per byte, most significant bit first.
func writeBits(w io.Writer, src []bool) {
	p := make([]byte, (len(src)+7)/8)
	for i, v := range src {
		if v {
			p[i/8] |= 0x80 >> (i % 8)
		}
	}
	writeRaw(w, p)
}

// Package save implements the versioned binary save format: a magic and
// version header, a zstd-compressed body of fixed-order stages with
// little-endian integers and count-prefixed collections, and a sorted
// extension map tail. Restores are exclusive and staged; migrations bump
// old versions forward and refuse versions from the future.
package save

import (
	"encoding/binary"
	"fmt"
	"math"
)

// writer accumulates the little-endian body.
type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) u16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *writer) u32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) u64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *writer) i32(v int32) {
	w.u32(uint32(v))
}

func (w *writer) f64(v float64) {
	w.u64(math.Float64bits(v))
}

func (w *writer) boolean(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *writer) str(s string) {
	w.u32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) bytes(b []byte) {
	w.u32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// reader consumes the body with a sticky error, so decode code reads
// straight through and checks once.
type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) fail(what string) {
	if r.err == nil {
		r.err = fmt.Errorf("reading %s: truncated at offset %d", what, r.off)
	}
}

func (r *reader) take(n int, what string) []byte {
	if r.err != nil || r.off+n > len(r.data) {
		r.fail(what)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8(what string) uint8 {
	b := r.take(1, what)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u16(what string) uint16 {
	b := r.take(2, what)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) u32(what string) uint32 {
	b := r.take(4, what)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) u64(what string) uint64 {
	b := r.take(8, what)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) i32(what string) int32 {
	return int32(r.u32(what))
}

func (r *reader) f64(what string) float64 {
	return math.Float64frombits(r.u64(what))
}

func (r *reader) boolean(what string) bool {
	return r.u8(what) != 0
}

func (r *reader) str(what string) string {
	n := int(r.u32(what))
	b := r.take(n, what)
	return string(b)
}

func (r *reader) byteSlice(what string) []byte {
	n := int(r.u32(what))
	b := r.take(n, what)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// count reads a collection length and sanity-bounds it against the
// remaining bytes so a corrupt stream cannot trigger a huge allocation.
func (r *reader) count(what string) int {
	n := int(r.u32(what))
	if r.err == nil && n > len(r.data)-r.off {
		r.fail(what + " count")
		return 0
	}
	return n
}

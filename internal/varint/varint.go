// Package varint encodes strictly-increasing, duplicate-free lists of
// non-negative integer ids (posting lists) as a compact delta-nibble byte
// stream, matching the sidecar's on-disk posting compression.
//
// Each element is stored as the delta from the previous element (with an
// implicit predecessor of -1 before the first element), split into 7-bit
// nibbles, least-significant first, with the high bit of every byte except
// the last set to mark continuation.
package varint

import "fmt"

// Encode appends the varint-delta encoding of ids to dst and returns the
// extended slice. ids must be strictly increasing; callers that violate
// this produce an undefined (but still decodable) stream.
func Encode(dst []byte, ids []uint32) []byte {
	var prev int64 = -1
	for _, id := range ids {
		delta := int64(id) - prev
		prev = int64(id)
		dst = appendDelta(dst, uint64(delta))
	}
	return dst
}

func appendDelta(dst []byte, d uint64) []byte {
	for {
		b := byte(d & 0x7f)
		d >>= 7
		if d != 0 {
			dst = append(dst, b|0x80)
		} else {
			dst = append(dst, b)
			return dst
		}
	}
}

// Decode parses a varint-delta stream of exactly count elements, returning
// the reconstructed strictly-increasing id list.
func Decode(buf []byte, count int) ([]uint32, error) {
	ids := make([]uint32, 0, count)
	prev := int64(-1)
	pos := 0
	for i := 0; i < count; i++ {
		var d uint64
		var shift uint
		for {
			if pos >= len(buf) {
				return nil, fmt.Errorf("varint: truncated stream at element %d of %d", i, count)
			}
			b := buf[pos]
			pos++
			d |= uint64(b&0x7f) << shift
			if b&0x80 == 0 {
				break
			}
			shift += 7
		}
		prev += int64(d)
		ids = append(ids, uint32(prev))
	}
	return ids, nil
}

// EncodedLen computes the byte length Encode would produce for ids without
// allocating the output.
func EncodedLen(ids []uint32) int {
	n := 0
	prev := int64(-1)
	for _, id := range ids {
		delta := uint64(int64(id) - prev)
		prev = int64(id)
		for {
			n++
			delta >>= 7
			if delta == 0 {
				break
			}
		}
	}
	return n
}

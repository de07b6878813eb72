// Package simdbytes provides fast byte-scanning primitives for the runtime
// diagnostics path (diag.LineAt's forward scan to the end of the current
// line is the only caller of IndexByte in this module): SWAR (SIMD within a
// register) byte search processing 8 bytes per uint64 comparison, with
// golang.org/x/sys/cpu feature detection reported for callers that want to
// log which code path ran. The retrieved pack's AVX2 routines ship as
// //go:noescape declarations backed by a .s file that was not part of the
// retrieval, so only the portable SWAR tier is implemented here; Features
// still reports what the CPU supports so a caller can tell a "fast enough"
// platform from one running the degraded byte-by-byte tail loop.
package simdbytes

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// CPUFeatures reports vector instruction support on the current CPU.
type CPUFeatures struct {
	AVX2  bool
	SSE42 bool
}

// Features returns the detected CPUFeatures, read once at package init.
func Features() CPUFeatures { return features }

var features = CPUFeatures{
	AVX2:  cpu.X86.HasAVX2,
	SSE42: cpu.X86.HasSSE42,
}

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// IndexByte returns the index of the first occurrence of needle in
// haystack, or -1 if absent.
func IndexByte(haystack []byte, needle byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if haystack[i] == needle {
				return i
			}
		}
		return -1
	}

	mask := uint64(needle) * lo8
	i := 0
	for i+8 <= n {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		xor := chunk ^ mask
		if hasZero := (xor - lo8) &^ xor & hi8; hasZero != 0 {
			return i + bits.TrailingZeros64(hasZero)/8
		}
		i += 8
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// IndexAny2 returns the index of the first occurrence of either needle1 or
// needle2 in haystack, or -1 if neither is present.
func IndexAny2(haystack []byte, needle1, needle2 byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if b := haystack[i]; b == needle1 || b == needle2 {
				return i
			}
		}
		return -1
	}

	mask1 := uint64(needle1) * lo8
	mask2 := uint64(needle2) * lo8
	i := 0
	for i+8 <= n {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		xor1 := chunk ^ mask1
		xor2 := chunk ^ mask2
		hasZero := (xor1-lo8)&^xor1&hi8 | (xor2-lo8)&^xor2&hi8
		if hasZero != 0 {
			return i + bits.TrailingZeros64(hasZero)/8
		}
		i += 8
	}
	for ; i < n; i++ {
		if b := haystack[i]; b == needle1 || b == needle2 {
			return i
		}
	}
	return -1
}

// IndexAny3 returns the index of the first occurrence of needle1, needle2,
// or needle3 in haystack, or -1 if none is present.
func IndexAny3(haystack []byte, needle1, needle2, needle3 byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if b := haystack[i]; b == needle1 || b == needle2 || b == needle3 {
				return i
			}
		}
		return -1
	}

	mask1 := uint64(needle1) * lo8
	mask2 := uint64(needle2) * lo8
	mask3 := uint64(needle3) * lo8
	i := 0
	for i+8 <= n {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		xor1 := chunk ^ mask1
		xor2 := chunk ^ mask2
		xor3 := chunk ^ mask3
		hasZero := (xor1-lo8)&^xor1&hi8 | (xor2-lo8)&^xor2&hi8 | (xor3-lo8)&^xor3&hi8
		if hasZero != 0 {
			return i + bits.TrailingZeros64(hasZero)/8
		}
		i += 8
	}
	for ; i < n; i++ {
		if b := haystack[i]; b == needle1 || b == needle2 || b == needle3 {
			return i
		}
	}
	return -1
}

package utils

import "strings"

// HashBits is the fingerprint length in bits.
const HashBits = 64

// ImageHash derives a fixed-length binary fingerprint from raw image bytes by
// sampling evenly across the buffer, one bit per sample against a midpoint
// threshold. Short inputs are zero-padded.
func ImageHash(data []byte) string {
	var b strings.Builder
	b.Grow(HashBits)

	step := len(data) / HashBits
	if step < 1 {
		step = 1
	}
	for i := 0; i < len(data) && b.Len() < HashBits; i += step {
		if data[i] > 128 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	for b.Len() < HashBits {
		b.WriteByte('0')
	}
	return b.String()
}

// HammingDistance counts differing positions over the common prefix.
func HammingDistance(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	dist := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			dist++
		}
	}
	return dist
}

// HashScore maps two fingerprints to a 0..1 similarity.
func HashScore(a, b string) float64 {
	return float64(HashBits-HammingDistance(a, b)) / float64(HashBits)
}

package store

import (
	"encoding/binary"
	"math"
)

// EncodeEmbedding serialises a vector as little-endian float32 bits
// for BLOB/bytea storage. Both engines share this encoding, so a
// database file moved between them stays readable.
func EncodeEmbedding(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// DecodeEmbedding is the inverse of EncodeEmbedding. Trailing bytes
// that do not form a whole float32 are ignored.
func DecodeEmbedding(data []byte) []float32 {
	n := len(data) / 4
	v := make([]float32, n)
	for i := 0; i < n; i++ {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return v
}

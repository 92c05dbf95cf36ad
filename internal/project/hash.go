package project

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Digest - фиксированный 256 битный хеш.
type Digest [32]byte

// Sum hashes a byte slice.
func Sum(data []byte) Digest {
	return Digest(sha256.Sum256(data))
}

// SumStrings hashes a list of strings, each one length-prefixed so that
// ("ab", "c") and ("a", "bc") differ.
func SumStrings(parts ...string) Digest {
	h := sha256.New()
	var lenBuf [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(p)))
		_, _ = h.Write(lenBuf[:])
		_, _ = h.Write([]byte(p))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Combine строит составной хеш: H( first || rest1 || rest2 ... ).
// Порядок аргументов значим.
func Combine(first Digest, rest ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(first[:])
	for _, d := range rest {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// IsZero reports whether the digest was never set.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// String returns the hex form of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

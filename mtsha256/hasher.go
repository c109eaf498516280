package mtsha256

import (
	"crypto/sha256"
)

const HashSize = sha256.Size

// Hasher is an [mtree.Hasher] backed by SHA-256 hashes.
//
// Leaf hashes are SHA-256 of the element bytes,
// and node hashes are SHA-256 of the left hash followed by the right hash,
// with no separator and no domain tags.
type Hasher struct{}

func (Hasher) Leaf(in []byte, dst []byte) {
	h := sha256.New()
	_, _ = h.Write(in)
	h.Sum(dst)
}

func (Hasher) Node(left, right []byte, dst []byte) {
	h := sha256.New()
	_, _ = h.Write(left)
	_, _ = h.Write(right)
	h.Sum(dst)
}

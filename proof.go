package mtree

import (
	"bytes"
	"fmt"
)

// Side records which operand position a sibling hash takes
// when it is combined during verification.
type Side uint8

const (
	// Left means the sibling hash is the left operand of the combination.
	Left Side = iota

	// Right means the sibling hash is the right operand of the combination.
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", uint8(s))
	}
}

// AnchoredHash is one step of an existence proof:
// a sibling hash annotated with the side it occupies in its pair.
type AnchoredHash struct {
	Hash []byte
	Side Side
}

// ExistenceProof is the ordered list of sibling hashes, leaf to root,
// sufficient to recompute the root hash from a single element.
//
// A proof is a standalone value: it can be serialized, transmitted,
// and verified later without access to the tree that produced it.
// It carries no element identity and no index;
// it is valid for exactly the element and root it is checked against.
type ExistenceProof struct {
	path []AnchoredHash
}

// ProofFromPath wraps an ordered leaf-to-root sibling path as a proof.
// It is intended for reconstructing a proof that was
// serialized through [ExistenceProof.Path].
func ProofFromPath(path []AnchoredHash) ExistenceProof {
	return ExistenceProof{path: path}
}

// Path returns the ordered sibling path backing the proof,
// for callers that need to serialize it.
// The caller must not modify the returned slice or its hashes.
func (p ExistenceProof) Path() []AnchoredHash {
	return p.path
}

// Len returns the number of steps in the proof.
func (p ExistenceProof) Len() int {
	return len(p.path)
}

// Valid reports whether the proof connects the element
// with the given canonical bytes to the claimed root hash.
//
// Valid never fails: a tampered element, a tampered sibling hash,
// and a mismatched root all surface uniformly as false.
func (p ExistenceProof) Valid(leafData, claimedRoot []byte, cfg TreeConfig) bool {
	if cfg.Hasher == nil {
		panic(fmt.Errorf("BUG: TreeConfig.Hasher must not be nil"))
	}
	if cfg.HashSize <= 0 {
		panic(fmt.Errorf(
			"BUG: TreeConfig.HashSize must be positive (got %d)", cfg.HashSize,
		))
	}

	h := cfg.Hasher

	cur := make([]byte, cfg.HashSize)
	h.Leaf(leafData, cur[:0])

	next := make([]byte, cfg.HashSize)
	for _, a := range p.path {
		if a.Side == Left {
			h.Node(a.Hash, cur, next[:0])
		} else {
			h.Node(cur, a.Hash, next[:0])
		}
		cur, next = next, cur
	}

	return bytes.Equal(cur, claimedRoot)
}

// VerifyExistence reports whether the proof connects the given element
// to the claimed root hash, encoding the element with enc.
//
// The enc and cfg values must match the ones
// the tree was originally built with.
func VerifyExistence[T any](
	p ExistenceProof,
	elem T,
	enc Encoder[T],
	claimedRoot []byte,
	cfg TreeConfig,
) bool {
	return p.Valid(enc(elem), claimedRoot, cfg)
}

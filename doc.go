// Package mtree implements a binary Merkle tree
// over an ordered collection of opaque elements,
// with compact existence proofs for individual elements.
//
// The tree is built once from a finite sequence with [NewTree],
// and is immutable afterwards,
// so concurrent reads of one tree are safe without locking.
// Leaf counts that are not a power of two are handled by
// duplicating the last hash of each odd-length layer,
// so the layers form a pyramid where every layer is
// half the size of the one below it, rounded up.
//
// [*Tree.ProveExistence] extracts an [ExistenceProof] for one leaf;
// the proof is a standalone value, independent of the tree,
// and can be verified later against a claimed root hash
// without access to the original collection.
//
// Hashing is pluggable through the [Hasher] interface;
// see the mtsha256 subpackage for a SHA-256 implementation.
package mtree

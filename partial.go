package mtree

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bits-and-blooms/bitset"
)

// ErrLeafOutOfRange is returned from [*PartialTree.AddLeaf]
// when the given index does not name a leaf of the tree.
var ErrLeafOutOfRange = errors.New("leaf index out of range")

// ErrAlreadyHadLeaf is returned from [*PartialTree.AddLeaf]
// when the leaf at the given index was already accepted.
var ErrAlreadyHadLeaf = errors.New("already had leaf at given index")

// ErrProofMismatch is returned from [*PartialTree.AddLeaf]
// when the proof does not connect the leaf data to the trusted root,
// or when its shape does not match the path for the given index.
var ErrProofMismatch = errors.New("proof did not match leaf and root")

// PartialTree accumulates individually proven leaves
// against a single trusted root hash.
//
// It is the receiving-side counterpart of [*Tree.ProveExistence]:
// a consumer that knows only the root and the leaf count
// can collect (index, element bytes, proof) triples from untrusted sources,
// admitting each one only after its proof verifies.
//
// PartialTree never stores leaf data; the caller keeps accepted data
// externally, using [*PartialTree.HasLeaf] to decide what is still needed.
//
// PartialTree is not safe for concurrent use.
type PartialTree struct {
	log *slog.Logger

	root []byte

	// Which leaves have been accepted.
	// Technically the caller could track this externally,
	// but a bitset simplifies things.
	haveLeaves *bitset.BitSet

	nLeaves uint

	cfg TreeConfig
}

// PartialTreeConfig contains all the details for [NewPartialTree].
type PartialTreeConfig struct {
	// The number of leaves of the original tree.
	// Required to validate the shape of incoming proofs.
	NLeaves uint

	// The trusted root hash that every accepted leaf must prove into.
	Root []byte

	Tree TreeConfig

	// Optional logger; nil discards all log output.
	Log *slog.Logger
}

// NewPartialTree returns a PartialTree with no accepted leaves.
func NewPartialTree(cfg PartialTreeConfig) *PartialTree {
	if cfg.NLeaves == 0 {
		panic(fmt.Errorf("BUG: NLeaves must be positive"))
	}
	if len(cfg.Root) != cfg.Tree.HashSize {
		panic(fmt.Errorf(
			"BUG: root hash must be %d bytes (got %d)",
			cfg.Tree.HashSize, len(cfg.Root),
		))
	}

	log := cfg.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &PartialTree{
		log: log,

		root: cfg.Root,

		haveLeaves: bitset.MustNew(cfg.NLeaves),

		nLeaves: cfg.NLeaves,

		cfg: cfg.Tree,
	}
}

// AddLeaf accepts the leaf data claimed for the given index
// if the accompanying proof connects it to the trusted root.
//
// The proof must also have the exact shape of the path for idx:
// the number of steps and the side of every step are fully determined
// by the index and the leaf count, and any deviation is rejected
// with [ErrProofMismatch] before any hashing happens.
func (t *PartialTree) AddLeaf(idx uint, leafData []byte, p ExistenceProof) error {
	if idx >= t.nLeaves {
		return ErrLeafOutOfRange
	}

	if !t.pathShapeMatches(idx, p) {
		t.log.Debug(
			"Rejected leaf with wrong proof shape",
			"idx", idx,
			"proof_len", p.Len(),
		)
		return ErrProofMismatch
	}

	if !p.Valid(leafData, t.root, t.cfg) {
		t.log.Debug("Rejected leaf with failed proof", "idx", idx)
		return ErrProofMismatch
	}

	if t.haveLeaves.Test(idx) {
		return ErrAlreadyHadLeaf
	}

	t.haveLeaves.Set(idx)

	t.log.Debug(
		"Accepted leaf",
		"idx", idx,
		"remaining", t.Remaining(),
	)
	return nil
}

// pathShapeMatches reports whether p has the step count and side tags
// of the unique proof path for idx in a tree over t.nLeaves elements.
func (t *PartialTree) pathShapeMatches(idx uint, p ExistenceProof) bool {
	path := p.Path()

	i := 0
	pos := idx

	// Walk the same layer widths construction would produce.
	// The proof excludes the root layer, hence the width > 1 condition.
	for w := t.nLeaves; w > 1; w = (w + 1) / 2 {
		if i >= len(path) {
			return false
		}

		sib := siblingIndex(w, pos)
		side := Right
		if sib%2 == 0 {
			side = Left
		}

		if path[i].Side != side {
			return false
		}

		i++
		pos /= 2
	}

	return i == len(path)
}

// HasLeaf reports whether the leaf at the given index
// has already been accepted via [*PartialTree.AddLeaf].
//
// HasLeaf reports false if idx is out of bounds.
func (t *PartialTree) HasLeaf(idx uint) bool {
	return t.haveLeaves.Test(idx)
}

// Remaining returns how many leaves have not been accepted yet.
func (t *PartialTree) Remaining() uint {
	return t.nLeaves - uint(t.haveLeaves.Count())
}

// Complete reports whether every leaf has been accepted.
func (t *PartialTree) Complete() bool {
	return t.Remaining() == 0
}

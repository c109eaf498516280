package mtree

import (
	"fmt"
)

// Tree is a binary Merkle tree over an ordered element collection.
//
// The tree stores only hashes, never the elements themselves.
// Layer 0 holds one hash per input element, in input order;
// each following layer holds the pairwise combinations of the layer below,
// with the last hash of an odd-length layer combined with itself.
// The topmost layer always holds the single root hash.
//
// A Tree is immutable once returned from [NewTree] or [NewEmptyTree],
// so it is safe to query from multiple goroutines concurrently.
type Tree struct {
	// Layers from leaves to root.
	// Every hash is a view into one backing slice,
	// allocated up front for the whole pyramid.
	layers [][][]byte

	hashSize int
}

// NewEmptyTree returns the tree over zero elements.
// It has no layers and no root hash.
func NewEmptyTree() *Tree {
	return &Tree{}
}

// NewTree builds the Merkle tree over the given elements, in order.
// Each element is converted to bytes with enc and hashed with cfg.Hasher.
//
// Building is a one-shot batch operation;
// there is no incremental insertion into an existing tree.
// An empty elems slice produces the same result as [NewEmptyTree].
func NewTree[T any](elems []T, enc Encoder[T], cfg TreeConfig) *Tree {
	if cfg.Hasher == nil {
		panic(fmt.Errorf("BUG: TreeConfig.Hasher must not be nil"))
	}
	if cfg.HashSize <= 0 {
		panic(fmt.Errorf(
			"BUG: TreeConfig.HashSize must be positive (got %d)", cfg.HashSize,
		))
	}

	if len(elems) == 0 {
		return NewEmptyTree()
	}

	widths := layerWidths(uint(len(elems)))

	// The number of hashes in the whole pyramid is known up front,
	// so back every layer with a single allocation.
	var nNodes int
	for _, w := range widths {
		nNodes += int(w)
	}
	mem := make([]byte, nNodes*cfg.HashSize)

	layers := make([][][]byte, len(widths))
	var off int
	for li, w := range widths {
		layer := make([][]byte, w)
		for i := range layer {
			layer[i] = mem[off : off+cfg.HashSize]
			off += cfg.HashSize
		}
		layers[li] = layer
	}

	h := cfg.Hasher

	// Bottom layer: leaf hashes in input order.
	for i, e := range elems {
		h.Leaf(enc(e), layers[0][i][:0])
	}

	// Combine adjacent hashes, layer by layer, up to the root.
	// A trailing hash on an odd-length layer is combined with itself,
	// not carried upward unchanged.
	for li := 1; li < len(layers); li++ {
		below := layers[li-1]
		for i, node := range layers[li] {
			left := below[2*i]
			right := left
			if 2*i+1 < len(below) {
				right = below[2*i+1]
			}
			h.Node(left, right, node[:0])
		}
	}

	return &Tree{
		layers:   layers,
		hashSize: cfg.HashSize,
	}
}

// RootHash returns the root hash of the tree,
// or nil if the tree is empty.
// The caller must not modify the returned slice.
func (t *Tree) RootHash() []byte {
	if len(t.layers) == 0 {
		return nil
	}
	return t.layers[len(t.layers)-1][0]
}

// NumLeaves returns the number of elements the tree was built over.
func (t *Tree) NumLeaves() int {
	if len(t.layers) == 0 {
		return 0
	}
	return len(t.layers[0])
}

// Leaf returns the hash of the element at the given index.
// The caller must not modify the returned slice.
func (t *Tree) Leaf(idx int) []byte {
	if idx < 0 || idx >= t.NumLeaves() {
		panic(fmt.Errorf(
			"BUG: attempted to get leaf at index %d; must be in range [0, %d)",
			idx, t.NumLeaves(),
		))
	}
	return t.layers[0][idx]
}

// ProveExistence extracts the existence proof for the element
// at the given bottom-layer index.
//
// The second return value is false if the tree is empty
// or idx is out of range; those are the only failure conditions.
// The returned proof references the tree's hashes
// but is otherwise independent of the tree.
func (t *Tree) ProveExistence(idx uint) (ExistenceProof, bool) {
	var path []AnchoredHash

	layer := 0
	pos := idx

	// Trace from the bottom layer to the top,
	// collecting the sibling hash at every step.
	for layer < len(t.layers) && pos < uint(len(t.layers[layer])) {
		sib := siblingIndex(uint(len(t.layers[layer])), pos)

		side := Right
		if sib%2 == 0 {
			// An even index is always the left member of its pair,
			// so during verification this sibling is the left operand.
			side = Left
		}
		path = append(path, AnchoredHash{
			Hash: t.layers[layer][sib],
			Side: side,
		})

		layer++
		pos /= 2
	}

	// No entries means the index was invalid (or the tree was empty).
	if len(path) == 0 {
		return ExistenceProof{}, false
	}

	// The final entry came from the root layer, where the root pairs
	// with itself. Verification stops one layer below the root,
	// so that entry is never consumed; drop it.
	path = path[:len(path)-1]

	return ProofFromPath(path), true
}

// siblingIndex returns the index paired with pos
// in a layer of the given width.
// The last index of an odd-width layer pairs with itself.
func siblingIndex(width, pos uint) uint {
	if width%2 != 0 && pos == width-1 {
		return pos
	}
	if pos%2 == 0 {
		return pos + 1
	}
	return pos - 1
}

// layerWidths returns the layer sizes for a tree over nLeaves elements,
// bottom to top. The widths halve, rounding up, until a single root remains.
func layerWidths(nLeaves uint) []uint {
	if nLeaves == 0 {
		return nil
	}

	widths := []uint{nLeaves}
	for w := nLeaves; w > 1; {
		w = (w + 1) / 2
		widths = append(widths, w)
	}
	return widths
}

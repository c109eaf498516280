package mtree

// Hasher is the user-defined interface for hashing leaves and internal nodes.
// The [Tree] passes canonical element bytes to the Leaf method
// to create a leaf hash, and it passes two adjacent hashes to the Node method
// to create their parent hash.
//
// Node must be order-sensitive:
// Node(a, b, ...) and Node(b, a, ...) must differ in general,
// as the tree binds leaf hashes to their positions through operand order.
//
// Leaf and node hashing are deliberately not domain-separated here.
// An implementation that wants to rule out leaf/node confusion
// can prefix its own tags inside Leaf and Node;
// both sides of a verification must then use the same implementation.
//
// To be allocation-efficient, the Hasher implementation
// must append its hash output to dst, instead of creating a new byte slice.
// Hasher must not retain references to the dst slice.
//
// Furthermore, Hasher methods must be safe to call concurrently.
type Hasher interface {
	Leaf(in []byte, dst []byte)
	Node(left, right []byte, dst []byte)
}

// TreeConfig carries the hashing details
// shared by tree construction and proof verification.
type TreeConfig struct {
	Hasher Hasher

	// The size, in bytes, of the hashes produced by Hasher.
	// Every hash in a tree occupies exactly this many bytes.
	HashSize int
}

// Encoder converts an element into its canonical byte sequence for hashing.
// The same logical value must always yield identical bytes;
// otherwise proofs produced for the element will not verify.
type Encoder[T any] func(T) []byte

// RawBytes is an [Encoder] for elements that already are byte slices.
func RawBytes(b []byte) []byte { return b }

// StringBytes is an [Encoder] for string elements.
func StringBytes(s string) []byte { return []byte(s) }

package mtshard

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gordian-engine/mtree"
	"github.com/klauspost/reedsolomon"
)

// ErrShardMismatch is returned from [Reconstruct]
// when a shard does not verify against its proof and the root hash.
var ErrShardMismatch = errors.New("shard did not match its proof")

// ProtectConfig is the config for [Protect].
type ProtectConfig struct {
	// How many data and parity shards to split the blob into.
	// Any DataShards of the DataShards+ParityShards total
	// suffice to reconstruct the blob.
	DataShards, ParityShards int

	// How to hash entries in the underlying Merkle tree.
	Tree mtree.TreeConfig
}

// Protected is the value returned by [Protect].
type Protected struct {
	// The Merkle root over all of the shards.
	// This is the only value a consumer has to obtain
	// through a trusted channel.
	Root []byte

	// The data shards followed by the parity shards.
	// The slices must not be modified after Protect returns,
	// as the proofs reference hashes computed over them.
	Shards [][]byte

	// Proofs is aligned one-to-one with Shards.
	Proofs []mtree.ExistenceProof

	DataShards, ParityShards int

	// The length of the original blob in bytes.
	// Required when joining reconstructed shards,
	// since shards are padded to a uniform size.
	Size int
}

// Protect erasure-codes the given blob and builds the Merkle tree
// binding every shard to a single root hash.
func Protect(data []byte, cfg ProtectConfig) (Protected, error) {
	enc, err := reedsolomon.New(cfg.DataShards, cfg.ParityShards)
	if err != nil {
		return Protected{}, fmt.Errorf(
			"failed to build Reed-Solomon encoder: %w", err,
		)
	}

	shards, err := enc.Split(data)
	if err != nil {
		return Protected{}, fmt.Errorf(
			"failed to split data into shards: %w", err,
		)
	}

	if err := enc.Encode(shards); err != nil {
		return Protected{}, fmt.Errorf(
			"failed to erasure-code data: %w", err,
		)
	}

	tree := mtree.NewTree(shards, mtree.RawBytes, cfg.Tree)

	proofs := make([]mtree.ExistenceProof, len(shards))
	for i := range shards {
		p, ok := tree.ProveExistence(uint(i))
		if !ok {
			// Unreachable: every shard index is a valid leaf index.
			panic(fmt.Errorf(
				"BUG: no proof for shard %d of %d", i, len(shards),
			))
		}
		proofs[i] = p
	}

	return Protected{
		Root: tree.RootHash(),

		Shards: shards,
		Proofs: proofs,

		DataShards:   cfg.DataShards,
		ParityShards: cfg.ParityShards,

		Size: len(data),
	}, nil
}

// VerifyShard reports whether shard is the authentic content
// of the shard at index i.
//
// This is how a consumer checks a shard received from an untrusted source,
// given the root and proofs from a trusted origin.
func (p Protected) VerifyShard(i int, shard []byte, cfg mtree.TreeConfig) bool {
	if i < 0 || i >= len(p.Proofs) {
		return false
	}
	return p.Proofs[i].Valid(shard, p.Root, cfg)
}

// Reconstruct rebuilds the original blob from the given shards,
// where a nil entry marks a missing shard.
//
// Surviving shards are verified against their proofs before
// any reconstruction happens, and reconstructed shards are verified after,
// so a corrupted input shard cannot silently poison the output.
func Reconstruct(shards [][]byte, p Protected, cfg mtree.TreeConfig) ([]byte, error) {
	total := p.DataShards + p.ParityShards
	if len(shards) != total {
		return nil, fmt.Errorf(
			"expected %d shards (including nil placeholders), got %d",
			total, len(shards),
		)
	}

	for i, s := range shards {
		if s == nil {
			continue
		}
		if !p.Proofs[i].Valid(s, p.Root, cfg) {
			return nil, fmt.Errorf("shard %d: %w", i, ErrShardMismatch)
		}
	}

	enc, err := reedsolomon.New(p.DataShards, p.ParityShards)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to build Reed-Solomon encoder: %w", err,
		)
	}

	if err := enc.Reconstruct(shards); err != nil {
		return nil, fmt.Errorf("failed to reconstruct shards: %w", err)
	}

	for i, s := range shards {
		if !p.Proofs[i].Valid(s, p.Root, cfg) {
			return nil, fmt.Errorf(
				"reconstructed shard %d: %w", i, ErrShardMismatch,
			)
		}
	}

	var buf bytes.Buffer
	if err := enc.Join(&buf, shards, p.Size); err != nil {
		return nil, fmt.Errorf("failed to join shards: %w", err)
	}

	return buf.Bytes(), nil
}

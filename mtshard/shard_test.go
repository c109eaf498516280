package mtshard_test

import (
	"bytes"
	"testing"

	"github.com/gordian-engine/mtree"
	"github.com/gordian-engine/mtree/mtsha256"
	"github.com/gordian-engine/mtree/mtshard"
	"github.com/stretchr/testify/require"
)

func TestProtect_roundTrip(t *testing.T) {
	t.Parallel()

	data := testBlob(1000)

	p, err := mtshard.Protect(data, mtshard.ProtectConfig{
		DataShards:   4,
		ParityShards: 2,
		Tree:         sha256Config(),
	})
	require.NoError(t, err)

	require.Len(t, p.Shards, 6)
	require.Len(t, p.Proofs, 6)
	require.Equal(t, len(data), p.Size)

	for i, shard := range p.Shards {
		require.True(t, p.VerifyShard(i, shard, sha256Config()))
	}

	// With every shard intact, reconstruction is the identity.
	got, err := mtshard.Reconstruct(
		copyShards(p.Shards), p, sha256Config(),
	)
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, got))
}

func TestReconstruct_missingShards(t *testing.T) {
	t.Parallel()

	data := testBlob(2500)

	p, err := mtshard.Protect(data, mtshard.ProtectConfig{
		DataShards:   5,
		ParityShards: 3,
		Tree:         sha256Config(),
	})
	require.NoError(t, err)

	// Losing as many shards as there is parity is still recoverable.
	shards := copyShards(p.Shards)
	shards[0] = nil
	shards[3] = nil
	shards[6] = nil

	got, err := mtshard.Reconstruct(shards, p, sha256Config())
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, got))
}

func TestReconstruct_tamperedShard(t *testing.T) {
	t.Parallel()

	data := testBlob(1200)

	p, err := mtshard.Protect(data, mtshard.ProtectConfig{
		DataShards:   4,
		ParityShards: 2,
		Tree:         sha256Config(),
	})
	require.NoError(t, err)

	shards := copyShards(p.Shards)
	shards[1] = nil
	shards[2][0] ^= 0x01

	_, err = mtshard.Reconstruct(shards, p, sha256Config())
	require.ErrorIs(t, err, mtshard.ErrShardMismatch)
}

func TestVerifyShard_tamper(t *testing.T) {
	t.Parallel()

	data := testBlob(800)

	p, err := mtshard.Protect(data, mtshard.ProtectConfig{
		DataShards:   4,
		ParityShards: 2,
		Tree:         sha256Config(),
	})
	require.NoError(t, err)

	tampered := make([]byte, len(p.Shards[0]))
	copy(tampered, p.Shards[0])
	tampered[len(tampered)-1] ^= 0x80

	require.False(t, p.VerifyShard(0, tampered, sha256Config()))

	// A shard presented under the wrong index must not verify either.
	require.False(t, p.VerifyShard(1, p.Shards[0], sha256Config()))
	require.False(t, p.VerifyShard(-1, p.Shards[0], sha256Config()))
	require.False(t, p.VerifyShard(6, p.Shards[0], sha256Config()))
}

func sha256Config() mtree.TreeConfig {
	return mtree.TreeConfig{
		Hasher:   mtsha256.Hasher{},
		HashSize: mtsha256.HashSize,
	}
}

// testBlob returns n bytes of varied, deterministic content.
func testBlob(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i*7 + i/251)
	}
	return data
}

func copyShards(shards [][]byte) [][]byte {
	out := make([][]byte, len(shards))
	for i, s := range shards {
		out[i] = make([]byte, len(s))
		copy(out[i], s)
	}
	return out
}

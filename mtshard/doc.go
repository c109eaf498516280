// Package mtshard protects an erasure-coded blob with a Merkle tree.
//
// [Protect] splits a blob into data and parity shards,
// builds a Merkle tree over all of the shards,
// and hands out one existence proof per shard.
// A consumer that trusts only the root hash can then
// verify shards individually as they arrive, from any source,
// and reconstruct the original blob once enough shards survive.
package mtshard

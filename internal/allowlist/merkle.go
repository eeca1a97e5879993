package allowlist

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Mode selects how entry limits contribute to leaves.
type Mode string

const (
	// ModePresence ignores per-wallet limits; every leaf commits to limit 0.
	ModePresence Mode = "presence-only"
	// ModeVariableLimit commits to each wallet's own limit (0 when absent).
	ModeVariableLimit Mode = "variable-limit"
)

var ErrAddressNotIncluded = errors.New("address is not in the allowlist")

// ParseMode maps a config value to a Mode. Empty selects presence-only.
func ParseMode(value string) (Mode, error) {
	switch Mode(value) {
	case "", ModePresence:
		return ModePresence, nil
	case ModeVariableLimit:
		return ModeVariableLimit, nil
	default:
		return "", fmt.Errorf("unknown allowlist mode %q (expected %s or %s)", value, ModePresence, ModeVariableLimit)
	}
}

// Commitment is a Merkle tree over allowlist leaves. Leaves are sorted and every
// parent hashes its children in ascending order, so the root is independent of
// input order.
type Commitment struct {
	Root   common.Hash
	layers [][]common.Hash
	leaves map[common.Address]common.Hash
}

// Leaf hashes abi.encodePacked(address, uint32 limit) with keccak256, matching
// the on-chain verifier.
func Leaf(address common.Address, limit uint32) common.Hash {
	var packed [common.AddressLength + 4]byte
	copy(packed[:common.AddressLength], address.Bytes())
	binary.BigEndian.PutUint32(packed[common.AddressLength:], limit)

	return crypto.Keccak256Hash(packed[:])
}

// Compile builds the commitment for a set of entries. An empty set yields the
// zero root, which the contract treats as "no allowlist".
func Compile(entries []Entry, mode Mode) *Commitment {
	c := &Commitment{leaves: make(map[common.Address]common.Hash, len(entries))}
	for _, entry := range entries {
		var limit uint32
		if mode == ModeVariableLimit && entry.Limit != nil {
			limit = *entry.Limit
		}
		c.leaves[entry.Address] = Leaf(entry.Address, limit)
	}
	if len(c.leaves) == 0 {
		return c
	}

	level := make([]common.Hash, 0, len(c.leaves))
	for _, leaf := range c.leaves {
		level = append(level, leaf)
	}
	slices.SortFunc(level, compareHashes)
	level = slices.Compact(level)

	c.layers = append(c.layers, level)
	for len(level) > 1 {
		next := make([]common.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			next = append(next, hashPair(level[i], level[i+1]))
		}
		c.layers = append(c.layers, next)
		level = next
	}
	c.Root = level[0]

	return c
}

// LeafCount is the number of distinct leaves in the tree.
func (c *Commitment) LeafCount() int {
	if len(c.layers) == 0 {
		return 0
	}
	return len(c.layers[0])
}

// LeafFor returns the leaf hash committed for an address.
func (c *Commitment) LeafFor(address common.Address) (common.Hash, bool) {
	leaf, ok := c.leaves[address]
	return leaf, ok
}

// Proof returns the sibling path from the address's leaf up to the root.
func (c *Commitment) Proof(address common.Address) ([]common.Hash, error) {
	leaf, ok := c.leaves[address]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAddressNotIncluded, address.Hex())
	}

	idx, found := slices.BinarySearchFunc(c.layers[0], leaf, compareHashes)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrAddressNotIncluded, address.Hex())
	}

	var proof []common.Hash
	for _, layer := range c.layers[:len(c.layers)-1] {
		if sibling := idx ^ 1; sibling < len(layer) {
			proof = append(proof, layer[sibling])
		}
		idx /= 2
	}

	return proof, nil
}

// Verify folds a proof the same way the on-chain verifier does.
func Verify(root, leaf common.Hash, proof []common.Hash) bool {
	computed := leaf
	for _, sibling := range proof {
		computed = hashPair(computed, sibling)
	}
	return computed == root
}

func hashPair(a, b common.Hash) common.Hash {
	if compareHashes(a, b) > 0 {
		a, b = b, a
	}
	return crypto.Keccak256Hash(a.Bytes(), b.Bytes())
}

func compareHashes(a, b common.Hash) int {
	return bytes.Compare(a[:], b[:])
}

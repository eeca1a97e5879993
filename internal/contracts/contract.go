package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

type (
	ContractName string

	CompiledContract struct {
		ABI    abi.ABI
		RawABI string
	}

	// Stage721 is the tuple layout of one ERC721M mint stage.
	Stage721 struct {
		Price                *big.Int
		MintFee              *big.Int
		WalletLimit          uint32
		MerkleRoot           [32]byte
		MaxStageSupply       *big.Int
		StartTimeUnixSeconds *big.Int
		EndTimeUnixSeconds   *big.Int
	}

	// Stage1155 is the tuple layout of one ERC1155M mint stage; every slice is
	// indexed by token id.
	Stage1155 struct {
		Price                []*big.Int
		MintFee              []*big.Int
		WalletLimit          []uint32
		MerkleRoot           [][32]byte
		MaxStageSupply       []*big.Int
		StartTimeUnixSeconds uint64
		EndTimeUnixSeconds   uint64
	}
)

const (
	ContractNameERC721M  ContractName = "ERC721M"
	ContractNameERC1155M ContractName = "ERC1155M"
)

var Contracts = map[ContractName]struct{}{
	ContractNameERC721M:  {},
	ContractNameERC1155M: {},
}

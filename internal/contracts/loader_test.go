package contracts

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCompiledContracts(t *testing.T) {
	compiled, err := LoadCompiledContracts()
	require.NoError(t, err)
	require.Len(t, compiled, len(Contracts))

	for name, contract := range compiled {
		assert.Contains(t, contract.ABI.Methods, "setup", name)
		assert.Contains(t, contract.ABI.Methods, "setStages", name)
	}
}

func TestParseContractsRequiresEveryContract(t *testing.T) {
	_, err := parseContracts([]byte(`{"ERC721M": {"abi": []}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERC1155M")
}

func TestSetStagesEncodesTuples(t *testing.T) {
	method, err := LoadMethod(ContractNameERC721M, "setStages")
	require.NoError(t, err)

	stages := []Stage721{{
		Price:                big.NewInt(10),
		MintFee:              big.NewInt(1),
		WalletLimit:          3,
		MerkleRoot:           common.Hash{0xab},
		MaxStageSupply:       big.NewInt(500),
		StartTimeUnixSeconds: big.NewInt(1_700_000_000),
		EndTimeUnixSeconds:   big.NewInt(1_700_003_600),
	}}

	data, err := method.EncodeArgs(stages)
	require.NoError(t, err)
	assert.Equal(t, method.Selector(), [4]byte(data[:4]))

	values, err := method.Inputs().Unpack(data[4:])
	require.NoError(t, err)

	decoded := *abi.ConvertType(values[0], new([]Stage721)).(*[]Stage721)
	assert.Equal(t, stages, decoded)
}

func TestLoadMethodUnknown(t *testing.T) {
	_, err := LoadMethod(ContractNameERC1155M, "burnEverything")
	require.Error(t, err)
}

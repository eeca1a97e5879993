package chains

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	registry, err := Default()
	require.NoError(t, err)

	all := registry.All()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ChainID, all[i].ChainID)
	}

	for _, d := range all {
		assert.NotEqual(t, common.Address{}, d.FactoryAddress, d.Name)
		assert.NotEqual(t, common.Address{}, d.RegistryAddress, d.Name)
		assert.NotEmpty(t, d.ExplorerURL, d.Name)
	}
}

func TestLookupAndResolve(t *testing.T) {
	registry, err := Default()
	require.NoError(t, err)

	base, err := registry.Lookup(8453)
	require.NoError(t, err)
	assert.Equal(t, "base", base.Name)

	byName, err := registry.Resolve("Base")
	require.NoError(t, err)
	assert.Equal(t, base, byName)

	byID, err := registry.Resolve("8453")
	require.NoError(t, err)
	assert.Equal(t, base, byID)

	_, err = registry.Lookup(999999)
	require.ErrorIs(t, err, ErrUnsupportedChain)

	_, err = registry.Resolve("nowhere")
	require.ErrorIs(t, err, ErrUnsupportedChain)
}

func TestChainSpecificOverrides(t *testing.T) {
	registry, err := Default()
	require.NoError(t, err)

	ape, err := registry.ByName("apechain")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), ape.TransferListID)

	abstract, err := registry.ByName("abstract")
	require.NoError(t, err)
	assert.True(t, abstract.LegacyGas)
	assert.Equal(t, uint32(1), abstract.ImplementationID("ERC721"))

	eth, err := registry.ByName("ethereum")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), eth.ImplementationID("ERC721"))
}

func TestWithRPCOverrides(t *testing.T) {
	registry, err := Default()
	require.NoError(t, err)

	overridden, err := registry.WithRPCOverrides(map[uint64]string{8453: "http://localhost:8545"})
	require.NoError(t, err)

	base, err := overridden.Lookup(8453)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8545", base.RPCURL)

	original, err := registry.Lookup(8453)
	require.NoError(t, err)
	assert.Equal(t, "https://mainnet.base.org", original.RPCURL)

	_, err = registry.WithRPCOverrides(map[uint64]string{424242: "http://x"})
	require.ErrorIs(t, err, ErrUnsupportedChain)
}

func TestParseRejectsBadEntries(t *testing.T) {
	_, err := Parse([]byte(`
chains:
  - name: broken
    chain-id: 5
    explorer-url: https://example.org
    factory: nope
    registry: "0x00000000caF1E3978e291c5Fb53FeedB957eC146"
    transfer-validator: "0x721C008fdff27BF06E7E123956E2Fe03B63342e3"
  - name: twin
    chain-id: 7
    explorer-url: https://example.org
    factory: "0x000000009e44eBa131196847C685F20Cd4b68aC4"
    registry: "0x00000000caF1E3978e291c5Fb53FeedB957eC146"
    transfer-validator: "0x721C008fdff27BF06E7E123956E2Fe03B63342e3"
  - name: twin-again
    chain-id: 7
    explorer-url: https://example.org
    factory: "0x000000009e44eBa131196847C685F20Cd4b68aC4"
    registry: "0x00000000caF1E3978e291c5Fb53FeedB957eC146"
    transfer-validator: "0x721C008fdff27BF06E7E123956E2Fe03B63342e3"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "factory")
	assert.Contains(t, err.Error(), "declared twice")
}

func TestParseAllowsChainWithoutTransferValidator(t *testing.T) {
	registry, err := Parse([]byte(`
chains:
  - name: plain
    chain-id: 9
    explorer-url: https://example.org
    factory: "0x000000009e44eBa131196847C685F20Cd4b68aC4"
    registry: "0x00000000caF1E3978e291c5Fb53FeedB957eC146"
`))
	require.NoError(t, err)

	plain, err := registry.Lookup(9)
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, plain.TransferValidator)

	_, err = Parse([]byte(`
chains:
  - name: typo
    chain-id: 9
    explorer-url: https://example.org
    factory: "0x000000009e44eBa131196847C685F20Cd4b68aC4"
    registry: "0x00000000caF1E3978e291c5Fb53FeedB957eC146"
    transfer-validator: "0x721C"
`))
	require.ErrorContains(t, err, "transfer-validator")
}

func TestExplorerLinks(t *testing.T) {
	d := Descriptor{ExplorerURL: "https://basescan.org"}
	hash := common.HexToHash("0x01")
	assert.Equal(t, "https://basescan.org/tx/"+hash.Hex(), d.TxURL(hash))
}

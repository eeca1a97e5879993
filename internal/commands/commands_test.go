package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropforge/launchpad/configs"
	"github.com/dropforge/launchpad/internal/allowlist"
	"github.com/dropforge/launchpad/internal/chains"
	"github.com/dropforge/launchpad/internal/orchestrator"
	"github.com/dropforge/launchpad/internal/project"
)

const (
	addrA = "0x1111111111111111111111111111111111111111"
	addrB = "0x2222222222222222222222222222222222222222"
)

func withValues(t *testing.T, values configs.Config) {
	t.Helper()
	previous := configs.Values
	configs.Values = values
	t.Cleanup(func() { configs.Values = previous })
}

func TestAllowlistRootAndProof(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte(addrA+",2\n"+addrB+",3\nnot-an-address\n"), 0o644))

	entries := []allowlist.Entry{
		{Address: common.HexToAddress(addrA)},
		{Address: common.HexToAddress(addrB)},
	}
	want := allowlist.Compile(entries, allowlist.ModePresence)

	var out bytes.Buffer
	allowlistCmd.SetOut(&out)
	allowlistCmd.SetArgs([]string{"root", path, "--mode", "presence-only"})
	require.NoError(t, allowlistCmd.Execute())
	assert.Contains(t, out.String(), want.Root.Hex())
	assert.Contains(t, out.String(), "invalid:    1")

	original, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(original), "not-an-address")

	out.Reset()
	allowlistCmd.SetArgs([]string{"proof", path, addrB, "--mode", "presence-only"})
	require.NoError(t, allowlistCmd.Execute())
	proof, err := want.Proof(common.HexToAddress(addrB))
	require.NoError(t, err)
	for _, node := range proof {
		assert.Contains(t, out.String(), node.Hex())
	}

	allowlistCmd.SetArgs([]string{"proof", path, "0x3333333333333333333333333333333333333333", "--mode", "presence-only"})
	require.ErrorIs(t, allowlistCmd.Execute(), allowlist.ErrAddressNotIncluded)
}

func TestStatusListsCollections(t *testing.T) {
	dir := t.TempDir()
	withValues(t, configs.Config{CollectionsDir: dir})

	draft := &project.CollectionConfig{Name: "Drop", Symbol: "DROP", TokenStandard: project.StandardERC721, ChainID: 8453}
	require.NoError(t, project.NewStore(dir, "DROP").Write(draft))

	deployed := &project.CollectionConfig{
		Name:          "Keys",
		Symbol:        "KEYS",
		TokenStandard: project.StandardERC1155,
		ChainID:       8453,
		Deployment: &project.DeploymentRecord{
			ContractAddress: common.HexToAddress("0xc0ffee254729296a45a3885639AC7E10F9d54979"),
			Progress: project.Progress{
				CapabilityChecked:    true,
				CreatorToken:         true,
				TransferValidatorSet: true,
				TransferValidator:    common.HexToAddress("0x7777777777777777777777777777777777777777"),
			},
		},
	}
	require.NoError(t, project.NewStore(dir, "KEYS").Write(deployed))

	var out bytes.Buffer
	statusCmd.SetOut(&out)
	statusCmd.SetArgs([]string{})
	require.NoError(t, statusCmd.Execute())

	assert.Contains(t, out.String(), "Drop (DROP): draft")
	assert.Contains(t, out.String(), "Keys (KEYS): capability-detected")
	assert.Contains(t, out.String(), "0xc0ffee254729296a45a3885639AC7E10F9d54979")
	assert.Contains(t, out.String(), "0x7777777777777777777777777777777777777777")
}

func TestChainsListsCatalog(t *testing.T) {
	withValues(t, configs.Config{RPCOverrides: map[string]string{"base": "http://localhost:8545"}})

	var out bytes.Buffer
	chainsCmd.SetOut(&out)
	chainsCmd.SetArgs([]string{})
	require.NoError(t, chainsCmd.Execute())

	assert.Contains(t, out.String(), "base-sepolia")
	assert.Contains(t, out.String(), "http://localhost:8545")
	assert.Contains(t, out.String(), "legacy")
}

func TestLoadRegistryRejectsUnknownOverride(t *testing.T) {
	_, err := loadRegistry(configs.Config{RPCOverrides: map[string]string{"atlantis": "http://x"}})
	require.ErrorIs(t, err, chains.ErrUnsupportedChain)

	registry, err := loadRegistry(configs.Config{RPCOverrides: map[string]string{"84532": "http://node"}})
	require.NoError(t, err)
	chain, err := registry.Lookup(84532)
	require.NoError(t, err)
	assert.Equal(t, "http://node", chain.RPCURL)
}

func TestApplyChainOverride(t *testing.T) {
	registry, err := chains.Default()
	require.NoError(t, err)

	cfg := &project.CollectionConfig{Symbol: "DROP", ChainID: 8453}
	require.NoError(t, applyChainOverride(registry, cfg, "sepolia"))
	assert.Equal(t, uint64(11155111), cfg.ChainID)

	require.NoError(t, applyChainOverride(registry, cfg, ""))
	assert.Equal(t, uint64(11155111), cfg.ChainID)

	cfg.Deployment = &project.DeploymentRecord{}
	require.Error(t, applyChainOverride(registry, cfg, "base"))
	require.NoError(t, applyChainOverride(registry, cfg, "11155111"))
}

func TestGasOptions(t *testing.T) {
	opts, err := gasOptions(configs.Gas{Limit: 500_000, MaxFeePerGasWei: "30000000000"})
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000), opts.GasLimit)
	assert.Nil(t, opts.GasPriceWei)
	assert.Equal(t, int64(30_000_000_000), opts.MaxFeePerGasWei.Int64())

	_, err = gasOptions(configs.Gas{PriceWei: "fast"})
	require.Error(t, err)
}

func TestOpenSessionRequiresSymbolAndSigner(t *testing.T) {
	withValues(t, configs.Config{CollectionsDir: t.TempDir()})
	_, err := openSession(deployCmd, orchestrator.Options{})
	require.ErrorIs(t, err, errSymbolRequired)

	withValues(t, configs.Config{CollectionsDir: t.TempDir(), Symbol: "DROP"})
	_, err = openSession(deployCmd, orchestrator.Options{})
	require.ErrorContains(t, err, "signer.private-key or signer.keystore is required")

	withValues(t, configs.Config{
		CollectionsDir: t.TempDir(),
		Symbol:         "DROP",
		Signer:         configs.Signer{PrivateKey: "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"},
	})
	_, err = openSession(deployCmd, orchestrator.Options{})
	require.ErrorIs(t, err, project.ErrNotFound)
}

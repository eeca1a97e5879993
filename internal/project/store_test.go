package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleERC1155() *CollectionConfig {
	return &CollectionConfig{
		Name:              "Sky Keys",
		Symbol:            "KEYS",
		TokenStandard:     StandardERC1155,
		ChainID:           8453,
		TokenCount:        2,
		MaxMintableSupply: Many[uint64](100, 200),
		GlobalWalletLimit: Many[uint64](0, 5),
		FundReceiver:      "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		RoyaltyReceiver:   "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		RoyaltyFeeBps:     500,
		URI:               "ipfs://bafy/{id}.json",
		Stages: []StageConfig{{
			Price:                Many("0.01", "0"),
			WalletLimit:          Many[uint32](1, 2),
			MaxStageSupply:       Many[uint32](10, 20),
			StartTimeUnixSeconds: 1_700_000_000,
			EndTimeUnixSeconds:   1_700_003_600,
		}},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), "KEYS")
	assert.False(t, store.Exists())

	cfg := sampleERC1155()
	cfg.Deployment = &DeploymentRecord{
		ContractAddress:     common.HexToAddress("0xc0ffee254729296a45a3885639AC7E10F9d54979"),
		InitialOwner:        common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"),
		DeployedAtTimestamp: 1_700_000_123,
		TransactionHash:     common.HexToHash("0xabc"),
		Progress: Progress{
			CapabilityChecked:    true,
			CreatorToken:         true,
			TransferValidatorSet: true,
			TransferValidator:    common.HexToAddress("0x721C008fdff27BF06E7E123956E2Fe03B63342e3"),
		},
	}

	require.NoError(t, store.Write(cfg))
	assert.True(t, store.Exists())

	got, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestStoreRoundTripScalarShapes(t *testing.T) {
	store := NewStore(t.TempDir(), "Drop")
	cfg := &CollectionConfig{
		Name:              "Drop",
		Symbol:            "Drop",
		TokenStandard:     StandardERC721,
		ChainID:           1,
		MaxMintableSupply: One[uint64](1000),
		GlobalWalletLimit: One[uint64](0),
		Stages: []StageConfig{{
			Price:                One("0.05"),
			MintFee:              One("0.0001"),
			WalletLimit:          One[uint32](0),
			MaxStageSupply:       One[uint32](0),
			Allowlist:            One("allowlist.txt"),
			AllowlistMode:        "variable-limit",
			StartTimeUnixSeconds: 10,
			EndTimeUnixSeconds:   20,
		}},
	}
	require.NoError(t, store.Write(cfg))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"maxMintableSupply": 1000,`)
	assert.Contains(t, string(raw), `"price": "0.05",`)
	assert.NotContains(t, string(raw), `"deployment"`)

	got, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestStoreReadMissing(t *testing.T) {
	_, err := NewStore(t.TempDir(), "NONE").Read()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreReadCorrupt(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "BAD")
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

	_, err := store.Read()
	require.ErrorIs(t, err, ErrStoreIO)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestStorePathIsKeyedBySymbol(t *testing.T) {
	assert.Equal(t, filepath.Join("base", "keys", "collection.json"), CollectionPath("base", "KEYS"))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewStore(dir, "B").Write(sampleERC1155()))
	require.NoError(t, NewStore(dir, "A").Write(sampleERC1155()))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0755))

	symbols, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, symbols)

	symbols, err = List(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, symbols)
}

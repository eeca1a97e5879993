package project

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleERC721() *CollectionConfig {
	return &CollectionConfig{
		Name:              "Drop",
		Symbol:            "DROP",
		TokenStandard:     StandardERC721,
		ChainID:           8453,
		MaxMintableSupply: One[uint64](1000),
		GlobalWalletLimit: One[uint64](0),
		FundReceiver:      "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		RoyaltyReceiver:   "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		URI:               "ipfs://bafy/",
		Stages: []StageConfig{
			{
				Price:                One("0.01"),
				WalletLimit:          One[uint32](2),
				MaxStageSupply:       One[uint32](100),
				StartTimeUnixSeconds: 1_000,
				EndTimeUnixSeconds:   2_000,
			},
			{
				Price:                One("0.02"),
				WalletLimit:          One[uint32](0),
				MaxStageSupply:       One[uint32](0),
				StartTimeUnixSeconds: 2_060,
				EndTimeUnixSeconds:   3_000,
			},
		},
	}
}

func TestValidateAcceptsWellFormedConfigs(t *testing.T) {
	require.NoError(t, sampleERC721().Validate())
	require.NoError(t, sampleERC1155().Validate())
}

func TestValidateRejectsStageGapViolation(t *testing.T) {
	cfg := sampleERC721()
	cfg.Stages[1].StartTimeUnixSeconds = 2_059

	err := cfg.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Problems, 1)
	assert.Contains(t, verr.Problems[0].Error(), "at least 60s after stages[0]")
}

func TestValidateRejectsOverlappingStages(t *testing.T) {
	cfg := sampleERC721()
	cfg.Stages[1].StartTimeUnixSeconds = 1_500

	require.Error(t, cfg.Validate())
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := sampleERC721()
	cfg.Name = ""
	cfg.Symbol = "../etc"
	cfg.FundReceiver = "0x123"
	cfg.RoyaltyFeeBps = 20_000
	cfg.Stages[0].EndTimeUnixSeconds = 500
	cfg.Stages[0].Price = One("-1")

	err := cfg.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	msg := err.Error()
	for _, want := range []string{"name is required", "symbol", "fundReceiver", "royaltyFeeBps", "before endTimeUnixSeconds", "non-negative"} {
		assert.Contains(t, msg, want)
	}
	assert.GreaterOrEqual(t, len(verr.Problems), 6)
}

func TestValidateAddresses(t *testing.T) {
	tests := map[string]struct {
		mutate  func(*CollectionConfig)
		wantErr string
	}{
		"lowercase receiver": {
			mutate: func(c *CollectionConfig) { c.FundReceiver = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed" },
		},
		"bad checksum receiver": {
			mutate:  func(c *CollectionConfig) { c.FundReceiver = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAeD" },
			wantErr: "fundReceiver",
		},
		"bad checksum royalty receiver": {
			mutate:  func(c *CollectionConfig) { c.RoyaltyReceiver = "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed" },
			wantErr: "royaltyReceiver",
		},
		"bad checksum currency": {
			mutate:  func(c *CollectionConfig) { c.MintCurrency = "0x036cbD53842c5426634e7929541eC2318f3dCF7e" },
			wantErr: "mintCurrency",
		},
		"bad checksum cosigner": {
			mutate:  func(c *CollectionConfig) { c.Cosigner = "0xFB6916095ca1df60bB79Ce92cE3Ea74c37c5d359" },
			wantErr: "cosigner",
		},
		"missing prefix": {
			mutate:  func(c *CollectionConfig) { c.Cosigner = "5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed" },
			wantErr: "cosigner",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := sampleERC721()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateShapesPerStandard(t *testing.T) {
	single := sampleERC721()
	single.MaxMintableSupply = Many[uint64](1, 2)
	assert.ErrorContains(t, single.Validate(), "maxMintableSupply must be a single value")

	multi := sampleERC1155()
	multi.GlobalWalletLimit = One[uint64](5)
	assert.ErrorContains(t, multi.Validate(), "globalWalletLimit must be an array")

	multi = sampleERC1155()
	multi.Stages[0].WalletLimit = Many[uint32](1)
	assert.ErrorContains(t, multi.Validate(), "stages[0].walletLimit has 1 entries, expected 2")

	multi = sampleERC1155()
	multi.TokenCount = 0
	assert.ErrorContains(t, multi.Validate(), "tokenCount must be at least 1")
}

func TestValidateStageSupplyFitsOnChainField(t *testing.T) {
	cfg := sampleERC721()
	cfg.Stages[0].MaxStageSupply = One[uint32](MaxStageSupply)
	require.NoError(t, cfg.Validate())

	cfg.Stages[0].MaxStageSupply = One[uint32](20_000_000)
	assert.ErrorContains(t, cfg.Validate(), "stages[0].maxStageSupply[0] 20000000 exceeds 16777215")
}

func TestValidateAllowlistMode(t *testing.T) {
	cfg := sampleERC721()
	cfg.Stages[0].AllowlistMode = "sometimes"
	assert.ErrorContains(t, cfg.Validate(), "allowlistMode")
}

func TestValidateEmptyStagesAllowed(t *testing.T) {
	cfg := sampleERC721()
	cfg.Stages = nil
	require.NoError(t, cfg.Validate())
}

func TestParseTokenStandard(t *testing.T) {
	for input, want := range map[string]TokenStandard{"erc721": StandardERC721, "ERC-1155": StandardERC1155, "1155": StandardERC1155} {
		got, err := ParseTokenStandard(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseTokenStandard("erc20")
	require.Error(t, err)

	assert.Equal(t, uint8(0), StandardERC721.Code())
	assert.Equal(t, uint8(1), StandardERC1155.Code())
}

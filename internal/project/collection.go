package project

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// StageGapSeconds is the minimum pause between one stage's end and the next stage's
// start. Cosigner signatures are checked against block time, so back-to-back
// stages would reject mints signed with a slightly skewed clock.
const StageGapSeconds = 60

type (
	TokenStandard string

	CollectionConfig struct {
		Name              string            `json:"name"`
		Symbol            string            `json:"symbol"`
		TokenStandard     TokenStandard     `json:"tokenStandard"`
		ChainID           uint64            `json:"chainId"`
		TokenCount        int               `json:"tokenCount,omitempty"`
		MaxMintableSupply OneOrMany[uint64] `json:"maxMintableSupply"`
		GlobalWalletLimit OneOrMany[uint64] `json:"globalWalletLimit"`
		MintCurrency      string            `json:"mintCurrency,omitempty"`
		FundReceiver      string            `json:"fundReceiver"`
		RoyaltyReceiver   string            `json:"royaltyReceiver"`
		RoyaltyFeeBps     uint32            `json:"royaltyFeeBps"`
		Cosigner          string            `json:"cosigner,omitempty"`
		TokenURISuffix    string            `json:"tokenUriSuffix,omitempty"`
		URI               string            `json:"uri"`
		Stages            []StageConfig     `json:"stages"`
		Deployment        *DeploymentRecord `json:"deployment,omitempty"`
	}

	StageConfig struct {
		Price                OneOrMany[string] `json:"price"`
		MintFee              OneOrMany[string] `json:"mintFee,omitzero"`
		WalletLimit          OneOrMany[uint32] `json:"walletLimit"`
		MaxStageSupply       OneOrMany[uint32] `json:"maxStageSupply"`
		Allowlist            OneOrMany[string] `json:"allowlist,omitzero"`
		AllowlistMode        string            `json:"allowlistMode,omitempty"`
		StartTimeUnixSeconds int64             `json:"startTimeUnixSeconds"`
		EndTimeUnixSeconds   int64             `json:"endTimeUnixSeconds"`
	}

	// DeploymentRecord is written exactly once, right after the creation
	// transaction confirms. Progress tracks the optional follow-up steps so an
	// interrupted workflow can resume.
	DeploymentRecord struct {
		ContractAddress     common.Address `json:"contractAddress"`
		InitialOwner        common.Address `json:"initialOwner"`
		DeployedAtTimestamp int64          `json:"deployedAtTimestamp"`
		TransactionHash     common.Hash    `json:"transactionHash"`
		Progress            Progress       `json:"progress"`
	}

	Progress struct {
		CapabilityChecked    bool           `json:"capabilityChecked"`
		CreatorToken         bool           `json:"creatorToken"`
		TransferValidatorSet bool           `json:"transferValidatorSet"`
		TransferValidator    common.Address `json:"transferValidator,omitzero"`
		TransferListApplied  bool           `json:"transferListApplied"`
		Frozen               bool           `json:"frozen"`
		SetupComplete        bool           `json:"setupComplete"`
	}
)

const (
	StandardERC721  TokenStandard = "ERC721"
	StandardERC1155 TokenStandard = "ERC1155"
)

// ParseTokenStandard accepts the canonical names plus common spellings.
func ParseTokenStandard(value string) (TokenStandard, error) {
	switch strings.ToUpper(strings.ReplaceAll(value, "-", "")) {
	case "ERC721", "721":
		return StandardERC721, nil
	case "ERC1155", "1155":
		return StandardERC1155, nil
	default:
		return "", fmt.Errorf("unknown token standard %q (expected %s or %s)", value, StandardERC721, StandardERC1155)
	}
}

// Code is the enum value the factory and registry expect.
func (s TokenStandard) Code() uint8 {
	if s == StandardERC1155 {
		return 1
	}
	return 0
}

func (s TokenStandard) Valid() bool {
	return s == StandardERC721 || s == StandardERC1155
}

// MultiToken reports whether fields are per-token-id vectors.
func (s TokenStandard) MultiToken() bool {
	return s == StandardERC1155
}

// Tokens is the number of token ids the array fields must cover.
func (c *CollectionConfig) Tokens() int {
	if c.TokenStandard.MultiToken() {
		return c.TokenCount
	}
	return 1
}

func (c *CollectionConfig) Deployed() bool {
	return c.Deployment != nil
}

// MintCurrencyAddress returns the ERC-20 mint currency, or the zero address for
// the native token.
func (c *CollectionConfig) MintCurrencyAddress() common.Address {
	if c.MintCurrency == "" {
		return common.Address{}
	}
	return common.HexToAddress(c.MintCurrency)
}

func (c *CollectionConfig) NativeCurrency() bool {
	return c.MintCurrencyAddress() == (common.Address{})
}

func (c *CollectionConfig) FundReceiverAddress() common.Address {
	return common.HexToAddress(c.FundReceiver)
}

func (c *CollectionConfig) RoyaltyReceiverAddress() common.Address {
	return common.HexToAddress(c.RoyaltyReceiver)
}

func (c *CollectionConfig) CosignerAddress() common.Address {
	if c.Cosigner == "" {
		return common.Address{}
	}
	return common.HexToAddress(c.Cosigner)
}

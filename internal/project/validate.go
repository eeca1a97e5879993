package project

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dropforge/launchpad/internal/allowlist"
)

const maxRoyaltyBps = 10_000

// MaxStageSupply is the largest per-stage supply the uint24 field holds.
const MaxStageSupply = 1<<24 - 1

var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidationError carries every violation found in a collection config.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return "collection config is invalid: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error {
	return e.Problems
}

// Validate checks the whole config and reports all violations at once.
func (c *CollectionConfig) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !symbolPattern.MatchString(c.Symbol) {
		errs = append(errs, fmt.Errorf("symbol %q must be alphanumeric (dashes and underscores allowed)", c.Symbol))
	}
	if !c.TokenStandard.Valid() {
		errs = append(errs, fmt.Errorf("tokenStandard %q must be %s or %s", c.TokenStandard, StandardERC721, StandardERC1155))
	}
	if c.ChainID == 0 {
		errs = append(errs, errors.New("chainId is required"))
	}

	tokens := c.Tokens()
	if c.TokenStandard.MultiToken() && c.TokenCount < 1 {
		errs = append(errs, errors.New("tokenCount must be at least 1 for ERC1155"))
	}
	if c.TokenStandard == StandardERC721 && c.TokenCount > 1 {
		errs = append(errs, errors.New("tokenCount is only valid for ERC1155"))
	}

	errs = append(errs, checkShape("maxMintableSupply", c.MaxMintableSupply, c.TokenStandard, tokens)...)
	errs = append(errs, checkShape("globalWalletLimit", c.GlobalWalletLimit, c.TokenStandard, tokens)...)
	for i, supply := range c.MaxMintableSupply.Values {
		if supply == 0 {
			errs = append(errs, fmt.Errorf("maxMintableSupply[%d] must be greater than 0", i))
		}
	}

	errs = append(errs, checkAddress("fundReceiver", c.FundReceiver, true)...)
	errs = append(errs, checkAddress("royaltyReceiver", c.RoyaltyReceiver, true)...)
	errs = append(errs, checkAddress("mintCurrency", c.MintCurrency, false)...)
	errs = append(errs, checkAddress("cosigner", c.Cosigner, false)...)

	if c.RoyaltyFeeBps > maxRoyaltyBps {
		errs = append(errs, fmt.Errorf("royaltyFeeBps %d exceeds %d", c.RoyaltyFeeBps, maxRoyaltyBps))
	}

	errs = append(errs, ValidateStages(c.Stages, c.TokenStandard, tokens)...)

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}

// ValidateStages checks per-stage fields plus ordering and the gap between
// consecutive stages.
func ValidateStages(stages []StageConfig, standard TokenStandard, tokens int) []error {
	var errs []error

	for i, stage := range stages {
		field := func(name string) string { return fmt.Sprintf("stages[%d].%s", i, name) }

		errs = append(errs, checkShape(field("price"), stage.Price, standard, tokens)...)
		errs = append(errs, checkShape(field("walletLimit"), stage.WalletLimit, standard, tokens)...)
		errs = append(errs, checkShape(field("maxStageSupply"), stage.MaxStageSupply, standard, tokens)...)
		if !stage.MintFee.IsZero() {
			errs = append(errs, checkShape(field("mintFee"), stage.MintFee, standard, tokens)...)
		}
		if !stage.Allowlist.IsZero() {
			errs = append(errs, checkShape(field("allowlist"), stage.Allowlist, standard, tokens)...)
		}

		for j, supply := range stage.MaxStageSupply.Values {
			if supply > MaxStageSupply {
				errs = append(errs, fmt.Errorf("%s[%d] %d exceeds %d", field("maxStageSupply"), j, supply, MaxStageSupply))
			}
		}
		for j, price := range stage.Price.Values {
			if _, err := ParseUnits(price, 18); err != nil {
				errs = append(errs, fmt.Errorf("%s[%d]: %w", field("price"), j, err))
			}
		}
		for j, fee := range stage.MintFee.Values {
			if _, err := ParseUnits(fee, 18); err != nil {
				errs = append(errs, fmt.Errorf("%s[%d]: %w", field("mintFee"), j, err))
			}
		}
		if _, err := allowlist.ParseMode(stage.AllowlistMode); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field("allowlistMode"), err))
		}

		if stage.StartTimeUnixSeconds <= 0 {
			errs = append(errs, fmt.Errorf("%s is required", field("startTimeUnixSeconds")))
		}
		if stage.StartTimeUnixSeconds >= stage.EndTimeUnixSeconds {
			errs = append(errs, fmt.Errorf("%s must be before endTimeUnixSeconds", field("startTimeUnixSeconds")))
		}

		if i == 0 {
			continue
		}
		previous := stages[i-1]
		if previous.EndTimeUnixSeconds > stage.StartTimeUnixSeconds-StageGapSeconds {
			errs = append(errs, fmt.Errorf(
				"stages[%d] must start at least %ds after stages[%d] ends (ends %d, next starts %d)",
				i, StageGapSeconds, i-1, previous.EndTimeUnixSeconds, stage.StartTimeUnixSeconds,
			))
		}
	}

	return errs
}

func checkShape[T any](name string, value OneOrMany[T], standard TokenStandard, tokens int) []error {
	switch {
	case value.Len() == 0:
		return []error{fmt.Errorf("%s is required", name)}
	case standard.MultiToken() && !value.Many:
		return []error{fmt.Errorf("%s must be an array with one entry per token id for %s", name, standard)}
	case standard.MultiToken() && value.Len() != tokens:
		return []error{fmt.Errorf("%s has %d entries, expected %d (tokenCount)", name, value.Len(), tokens)}
	case !standard.MultiToken() && value.Many:
		return []error{fmt.Errorf("%s must be a single value for %s", name, standard)}
	}
	return nil
}

func checkAddress(name, value string, required bool) []error {
	if value == "" {
		if required {
			return []error{fmt.Errorf("%s is required", name)}
		}
		return nil
	}
	if !allowlist.IsValidAddress(value) {
		return []error{fmt.Errorf("%s %q is not a valid address (mixed case must match the EIP-55 checksum)", name, value)}
	}
	return nil
}

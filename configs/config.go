package configs

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

var Values Config

type (
	Config struct {
		CollectionsDir      string            `mapstructure:"collections-dir"`
		Symbol              string            `mapstructure:"symbol"`
		Chain               string            `mapstructure:"chain"`
		Yes                 bool              `mapstructure:"yes"`
		ConfirmationTimeout time.Duration     `mapstructure:"confirmation-timeout"`
		Log                 Log               `mapstructure:"log"`
		Signer              Signer            `mapstructure:"signer"`
		Gas                 Gas               `mapstructure:"gas"`
		RPCOverrides        map[string]string `mapstructure:"rpc-overrides"`
	}

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	}

	Signer struct {
		PrivateKey string `mapstructure:"private-key"`
		Keystore   string `mapstructure:"keystore"`
		Password   string `mapstructure:"password"`
	}

	// Gas values are wei amounts as decimal strings; empty means "ask the node".
	Gas struct {
		Limit             int    `mapstructure:"limit"`
		PriceWei          string `mapstructure:"price-wei"`
		MaxFeePerGasWei   string `mapstructure:"max-fee-per-gas-wei"`
		MaxPriorityFeeWei string `mapstructure:"max-priority-fee-wei"`
	}
)

func (c *Config) Validate() error {
	var errs []error

	if c.CollectionsDir == "" {
		errs = append(errs, errors.New("collections-dir is required"))
	}
	if c.ConfirmationTimeout < 0 {
		errs = append(errs, errors.New("confirmation-timeout must not be negative"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}

	if c.Gas.Limit < 0 {
		errs = append(errs, errors.New("gas.limit must not be negative"))
	}
	for key, value := range map[string]string{
		"gas.price-wei":            c.Gas.PriceWei,
		"gas.max-fee-per-gas-wei":  c.Gas.MaxFeePerGasWei,
		"gas.max-priority-fee-wei": c.Gas.MaxPriorityFeeWei,
	} {
		if _, err := ParseWei(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}

	for chain, url := range c.RPCOverrides {
		if url == "" {
			errs = append(errs, fmt.Errorf("rpc-overrides.%s must not be empty", chain))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

// Validate checks that exactly one key source is configured. Only
// commands that broadcast transactions need it.
func (s *Signer) Validate() error {
	switch {
	case s.PrivateKey == "" && s.Keystore == "":
		return errors.New("signer.private-key or signer.keystore is required")
	case s.PrivateKey != "" && s.Keystore != "":
		return errors.New("signer.private-key and signer.keystore are mutually exclusive")
	}
	return nil
}

// ParseWei parses an optional decimal wei amount. Empty yields nil.
func ParseWei(value string) (*big.Int, error) {
	if value == "" {
		return nil, nil
	}
	wei, ok := new(big.Int).SetString(value, 10)
	if !ok || wei.Sign() < 0 {
		return nil, fmt.Errorf("%q is not a non-negative integer amount of wei", value)
	}
	return wei, nil
}

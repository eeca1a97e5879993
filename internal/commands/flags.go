package commands

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dropforge/launchpad/configs"
)

// flagDef defines a command-line flag together with the viper key it feeds.
type (
	flagType interface {
		string | int | bool
	}

	flagDef[T flagType] struct {
		name         string
		viperKey     string
		defaultValue T
		description  string
	}
)

var defaults = configs.MustDefaults()

var (
	stringFlags = []flagDef[string]{
		// Collection selection
		{"symbol", "symbol", "", "Collection symbol (directory name under collections-dir)"},
		{"chain", "chain", "", "Chain name or id, overriding the collection's chainId before deployment"},
		{"collections-dir", "collections-dir", defaults.CollectionsDir, "Directory holding <symbol>/collection.json"},

		// Signer
		{"private-key", "signer.private-key", "", "Hex private key of the deployer"},
		{"keystore", "signer.keystore", "", "Path to a go-ethereum keystore file"},
		{"password", "signer.password", "", "Keystore passphrase"},

		// Gas overrides
		{"gas-price-wei", "gas.price-wei", "", "Legacy gas price in wei"},
		{"max-fee-per-gas-wei", "gas.max-fee-per-gas-wei", "", "EIP-1559 max fee per gas in wei"},
		{"max-priority-fee-wei", "gas.max-priority-fee-wei", "", "EIP-1559 priority fee in wei"},

		// Runtime
		{"confirmation-timeout", "confirmation-timeout", defaults.ConfirmationTimeout.String(), "How long to wait for a receipt after broadcast"},
		{"log-level", "log.level", defaults.Log.Level, "Log level (debug, info, warn, error)"},
		{"log-format", "log.format", defaults.Log.Format, "Log format (text or json)"},
	}

	intFlags = []flagDef[int]{
		{"gas-limit", "gas.limit", 0, "Gas limit, skipping estimation"},
	}

	boolFlags = []flagDef[bool]{
		{"yes", "yes", false, "Approve every confirmation without prompting"},
	}
)

// DeclarePersistentFlags declares the shared flags on the root command and
// binds each one to its viper key.
func DeclarePersistentFlags(flags *pflag.FlagSet) error {
	if err := declareFlags(flags, stringFlags); err != nil {
		return err
	}
	if err := declareFlags(flags, intFlags); err != nil {
		return err
	}
	return declareFlags(flags, boolFlags)
}

func declareFlags[T flagType](flags *pflag.FlagSet, defs []flagDef[T]) error {
	for _, def := range defs {
		if err := declareFlag(flags, def); err != nil {
			return err
		}
	}
	return nil
}

// declareFlag declares a single flag. The type parameter T selects the pflag
// constructor.
func declareFlag[T flagType](flags *pflag.FlagSet, def flagDef[T]) error {
	switch value := any(def.defaultValue).(type) {
	case string:
		flags.String(def.name, value, def.description)
	case int:
		flags.Int(def.name, value, def.description)
	case bool:
		flags.Bool(def.name, value, def.description)
	}
	return viper.BindPFlag(def.viperKey, flags.Lookup(def.name))
}

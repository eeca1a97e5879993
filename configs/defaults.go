package configs

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	//go:embed config.example.yaml
	exampleYAML string

	defaultsOnce sync.Once
	defaults     Config
	defaultsErr  error
)

// ExampleYAML is the annotated example configuration shipped with the binary.
func ExampleYAML() string {
	return exampleYAML
}

// Defaults returns the embedded example configuration, decoded once.
func Defaults() (Config, error) {
	defaultsOnce.Do(func() {
		v, err := readExample()
		if err != nil {
			defaultsErr = err
			return
		}
		if err := v.Unmarshal(&defaults); err != nil {
			defaultsErr = fmt.Errorf("failed to decode embedded config.example.yaml: %w", err)
		}
	})

	return defaults, defaultsErr
}

// MustDefaults returns embedded defaults or panics if they cannot be loaded.
func MustDefaults() Config {
	cfg, err := Defaults()
	if err != nil {
		panic(err)
	}
	return cfg
}

// RegisterDefaults seeds v with every key of the example configuration so
// values missing from flags, environment and config file still resolve.
func RegisterDefaults(v *viper.Viper) error {
	example, err := readExample()
	if err != nil {
		return err
	}
	for _, key := range example.AllKeys() {
		v.SetDefault(key, example.Get(key))
	}
	return nil
}

func readExample() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(exampleYAML)); err != nil {
		return nil, fmt.Errorf("failed to read embedded config.example.yaml: %w", err)
	}
	return v, nil
}

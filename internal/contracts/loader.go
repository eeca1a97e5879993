package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed compiled/contracts.json
var compiledContractsFS embed.FS

var (
	loadOnce  sync.Once
	loaded    map[ContractName]CompiledContract
	loadedErr error
)

// LoadCompiledContracts loads the embedded collection ABIs. The result is cached.
func LoadCompiledContracts() (map[ContractName]CompiledContract, error) {
	loadOnce.Do(func() {
		data, err := compiledContractsFS.ReadFile("compiled/contracts.json")
		if err != nil {
			loadedErr = fmt.Errorf("failed to read embedded contracts: %w", err)
			return
		}
		loaded, loadedErr = parseContracts(data)
	})

	return loaded, loadedErr
}

// parseContracts parses contract JSON data into CompiledContract map
func parseContracts(data []byte) (map[ContractName]CompiledContract, error) {
	var result map[string]struct {
		ABI json.RawMessage `json:"abi"`
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse compiled contracts: %w", err)
	}

	loadedContracts := make(map[ContractName]CompiledContract)

	for name, contract := range result {
		if _, ok := Contracts[ContractName(name)]; !ok {
			continue
		}

		parsedABI, err := abi.JSON(strings.NewReader(string(contract.ABI)))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ABI for %s: %w", name, err)
		}

		loadedContracts[ContractName(name)] = CompiledContract{
			ABI:    parsedABI,
			RawABI: string(contract.ABI),
		}
	}

	for name := range Contracts {
		if _, ok := loadedContracts[name]; !ok {
			return nil, fmt.Errorf("compiled contracts are missing %s", name)
		}
	}

	return loadedContracts, nil
}

// LoadMethod returns an ABI-backed method of a compiled contract.
func LoadMethod(contract ContractName, name string) (*ABIMethod, error) {
	compiled, err := LoadCompiledContracts()
	if err != nil {
		return nil, err
	}

	method, ok := compiled[contract].ABI.Methods[name]
	if !ok {
		return nil, fmt.Errorf("%s has no method %q", contract, name)
	}

	return &ABIMethod{contract: compiled[contract].ABI, method: method}, nil
}

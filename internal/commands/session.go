package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dropforge/launchpad/configs"
	"github.com/dropforge/launchpad/internal/allowlist"
	"github.com/dropforge/launchpad/internal/chains"
	"github.com/dropforge/launchpad/internal/contracts"
	"github.com/dropforge/launchpad/internal/infra/filesystem/json"
	"github.com/dropforge/launchpad/internal/orchestrator"
	"github.com/dropforge/launchpad/internal/project"
)

var errSymbolRequired = errors.New("--symbol is required")

// session is everything a transaction-sending command needs, built from the
// loaded configuration.
type session struct {
	registry *chains.Registry
	client   *contracts.Client
	store    *project.Store
	orch     *orchestrator.Orchestrator
	cfg      *project.CollectionConfig
	wf       orchestrator.WorkflowContext
}

func openSession(cmd *cobra.Command, opts orchestrator.Options) (*session, error) {
	values := configs.Values
	if err := values.Validate(); err != nil {
		return nil, err
	}
	if values.Symbol == "" {
		return nil, errSymbolRequired
	}
	if err := values.Signer.Validate(); err != nil {
		return nil, err
	}

	registry, err := loadRegistry(values)
	if err != nil {
		return nil, err
	}

	signer, err := newSigner(values.Signer)
	if err != nil {
		return nil, err
	}

	gas, err := gasOptions(values.Gas)
	if err != nil {
		return nil, err
	}

	store := project.NewStore(values.CollectionsDir, values.Symbol)
	cfg, err := store.Read()
	if err != nil {
		return nil, err
	}
	if err := applyChainOverride(registry, cfg, values.Chain); err != nil {
		return nil, err
	}

	var confirmer orchestrator.Confirmer = orchestrator.NewPromptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
	if values.Yes {
		confirmer = orchestrator.AutoConfirmer{Out: cmd.OutOrStdout()}
	}
	opts.NonInteractive = values.Yes

	client := contracts.NewClient(registry, contracts.DialRPC, contracts.Options{
		Gas:                 gas,
		ConfirmationTimeout: values.ConfirmationTimeout,
	})
	orch, err := orchestrator.New(client, registry, store, allowlist.NewCompiler(json.NewWriter()), confirmer, signer)
	if err != nil {
		client.Close()
		return nil, err
	}

	wf, err := orch.NewWorkflow(cfg, opts)
	if err != nil {
		client.Close()
		return nil, err
	}

	slog.With("symbol", cfg.Symbol, "chain", wf.Chain.Name, "signer", wf.Signer, "state", orchestrator.StateOf(cfg)).
		Info("collection loaded")

	return &session{
		registry: registry,
		client:   client,
		store:    store,
		orch:     orch,
		cfg:      cfg,
		wf:       wf,
	}, nil
}

func (s *session) Close() {
	s.client.Close()
}

func loadRegistry(values configs.Config) (*chains.Registry, error) {
	registry, err := chains.Default()
	if err != nil {
		return nil, err
	}
	if len(values.RPCOverrides) == 0 {
		return registry, nil
	}

	overrides := make(map[uint64]string, len(values.RPCOverrides))
	for selector, url := range values.RPCOverrides {
		chain, err := registry.Resolve(selector)
		if err != nil {
			return nil, fmt.Errorf("invalid rpc override %q: %w", selector, err)
		}
		overrides[chain.ChainID] = url
	}

	return registry.WithRPCOverrides(overrides)
}

func newSigner(cfg configs.Signer) (contracts.Signer, error) {
	if cfg.PrivateKey != "" {
		return contracts.NewPrivateKeySigner(cfg.PrivateKey)
	}
	return contracts.NewKeystoreSigner(cfg.Keystore, cfg.Password)
}

func gasOptions(cfg configs.Gas) (contracts.GasOptions, error) {
	var (
		opts contracts.GasOptions
		err  error
	)
	opts.GasLimit = uint64(cfg.Limit)
	if opts.GasPriceWei, err = configs.ParseWei(cfg.PriceWei); err != nil {
		return opts, err
	}
	if opts.MaxFeePerGasWei, err = configs.ParseWei(cfg.MaxFeePerGasWei); err != nil {
		return opts, err
	}
	if opts.MaxPriorityFeeWei, err = configs.ParseWei(cfg.MaxPriorityFeeWei); err != nil {
		return opts, err
	}
	return opts, nil
}

// applyChainOverride lets --chain pick the network of a collection that has
// not been deployed yet. A deployed collection is pinned to its chain.
func applyChainOverride(registry *chains.Registry, cfg *project.CollectionConfig, selector string) error {
	if selector == "" {
		return nil
	}

	chain, err := registry.Resolve(selector)
	if err != nil {
		return err
	}
	if cfg.Deployed() && chain.ChainID != cfg.ChainID {
		return fmt.Errorf("collection %s is deployed on chain %d, refusing to switch to %s", cfg.Symbol, cfg.ChainID, chain.Name)
	}

	cfg.ChainID = chain.ChainID
	return nil
}

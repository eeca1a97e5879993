package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dropforge/launchpad/internal/allowlist"
	"github.com/dropforge/launchpad/internal/chains"
	"github.com/dropforge/launchpad/internal/contracts"
	"github.com/dropforge/launchpad/internal/logger"
	"github.com/dropforge/launchpad/internal/project"
)

type (
	// ChainClient is the part of contracts.Client the workflow drives.
	ChainClient interface {
		Call(ctx context.Context, chainID uint64, to common.Address, method contracts.ReadMethod, args []any, returns ...any) error
		Send(ctx context.Context, chainID uint64, signer contracts.Signer, to common.Address, method contracts.Method, args []any, value *big.Int) (*contracts.Outcome, error)
		Balance(ctx context.Context, chainID uint64, account common.Address) (*big.Int, error)
	}

	// Orchestrator sequences the lifecycle of one collection: deploy through the
	// chain's factory, detect creator-token support, wire the transfer policy,
	// optionally freeze transfers, then configure supply and mint stages in one
	// setup call. Every broadcast is confirmed first and persisted as soon as it
	// succeeds.
	Orchestrator struct {
		client    ChainClient
		registry  *chains.Registry
		store     *project.Store
		compiler  *allowlist.Compiler
		confirmer Confirmer
		signer    contracts.Signer
		now       func() time.Time
		logger    *slog.Logger
	}
)

// New wires an orchestrator for the collection behind store. Every broadcast
// goes through confirmer, so it must not be nil.
func New(
	client ChainClient,
	registry *chains.Registry,
	store *project.Store,
	compiler *allowlist.Compiler,
	confirmer Confirmer,
	signer contracts.Signer,
) (*Orchestrator, error) {
	if confirmer == nil {
		return nil, ErrNoConfirmer
	}

	return &Orchestrator{
		client:    client,
		registry:  registry,
		store:     store,
		compiler:  compiler,
		confirmer: confirmer,
		signer:    signer,
		now:       time.Now,
		logger:    logger.Named("orchestrator"),
	}, nil
}

// Run is the full deploy workflow. It resumes from whatever the collection
// file records and stops at the first error.
func (o *Orchestrator) Run(ctx context.Context, wf WorkflowContext, cfg *project.CollectionConfig) error {
	log := o.logger.With("symbol", cfg.Symbol, "chain", wf.Chain.Name)
	log.With("state", StateOf(cfg), "non_interactive", wf.Options.NonInteractive).Info("starting deploy workflow")

	if !cfg.Deployed() {
		if _, err := o.Deploy(ctx, wf, cfg); err != nil {
			return fmt.Errorf("failed to deploy collection: %w", err)
		}
	} else {
		log.With("address", cfg.Deployment.ContractAddress).Info("collection already deployed, resuming")
	}

	if err := o.WirePolicy(ctx, wf, cfg); err != nil {
		return fmt.Errorf("failed to wire transfer policy: %w", err)
	}

	if wf.Options.Freeze && !cfg.Deployment.Progress.Frozen {
		if err := o.Freeze(ctx, wf, cfg); err != nil {
			return fmt.Errorf("failed to freeze transfers: %w", err)
		}
	}

	if wf.Options.Setup && !cfg.Deployment.Progress.SetupComplete {
		if err := o.Setup(ctx, wf, cfg); err != nil {
			return fmt.Errorf("failed to set up collection: %w", err)
		}
	}

	log.With("state", StateOf(cfg), "address", cfg.Deployment.ContractAddress).Info("deploy workflow finished")
	return nil
}

func (o *Orchestrator) confirm(ctx context.Context, summary Summary) error {
	ok, err := o.confirmer.Confirm(ctx, summary)
	if err != nil {
		return fmt.Errorf("failed to confirm %s: %w", summary.Title, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", summary.Title, ErrCancelled)
	}
	return nil
}

func (o *Orchestrator) persist(cfg *project.CollectionConfig) error {
	if err := o.store.Write(cfg); err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}
	return nil
}

func (o *Orchestrator) send(
	ctx context.Context,
	wf WorkflowContext,
	to common.Address,
	method contracts.Method,
	args []any,
	value *big.Int,
) (*contracts.Outcome, error) {
	return o.client.Send(ctx, wf.ChainID(), o.signer, to, method, args, value)
}

func requireDeployed(cfg *project.CollectionConfig) error {
	if !cfg.Deployed() {
		return fmt.Errorf("%s: %w", cfg.Symbol, ErrNotDeployed)
	}
	return nil
}

func baseSummary(title string, wf WorkflowContext, cfg *project.CollectionConfig) Summary {
	summary := Summary{Title: title}
	summary.Add("Collection", fmt.Sprintf("%s (%s)", cfg.Name, cfg.Symbol))
	summary.Add("Chain", fmt.Sprintf("%s (%d)", wf.Chain.Name, wf.Chain.ChainID))
	if cfg.Deployed() {
		summary.Add("Contract", cfg.Deployment.ContractAddress.Hex())
	}
	summary.Add("Signer", wf.Signer.Hex())
	return summary
}

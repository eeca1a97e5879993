package orchestrator

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dropforge/launchpad/internal/chains"
	"github.com/dropforge/launchpad/internal/project"
)

type (
	// Options select the optional stages of a full run.
	Options struct {
		NonInteractive bool
		Freeze         bool
		Setup          bool
	}

	// WorkflowContext is built once per invocation and passed by value through
	// every step.
	WorkflowContext struct {
		Chain   chains.Descriptor
		Signer  common.Address
		Options Options
	}
)

// NewWorkflow resolves the collection's chain and binds it to the signer.
func (o *Orchestrator) NewWorkflow(cfg *project.CollectionConfig, opts Options) (WorkflowContext, error) {
	chain, err := o.registry.Lookup(cfg.ChainID)
	if err != nil {
		return WorkflowContext{}, fmt.Errorf("failed to resolve chain for %s: %w", cfg.Symbol, err)
	}

	return WorkflowContext{
		Chain:   chain,
		Signer:  o.signer.Address(),
		Options: opts,
	}, nil
}

func (w WorkflowContext) ChainID() uint64 {
	return w.Chain.ChainID
}

package orchestrator

import (
	"context"
	"fmt"
	"math/big"

	"github.com/dropforge/launchpad/internal/contracts"
	"github.com/dropforge/launchpad/internal/project"
)

const nativeDecimals = 18

// Deploy creates the collection contract through the chain's factory and
// records it. The record is saved before anything else happens so a later
// failure never loses the address.
func (o *Orchestrator) Deploy(ctx context.Context, wf WorkflowContext, cfg *project.CollectionConfig) (*project.DeploymentRecord, error) {
	if cfg.Deployed() {
		return nil, fmt.Errorf("%s at %s: %w", cfg.Symbol, cfg.Deployment.ContractAddress.Hex(), ErrAlreadyDeployed)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := o.logger.With("symbol", cfg.Symbol, "chain", wf.Chain.Name, "standard", cfg.TokenStandard)

	standard := cfg.TokenStandard.Code()
	implementationID := wf.Chain.ImplementationID(string(cfg.TokenStandard))

	fee := new(big.Int)
	if err := o.client.Call(
		ctx, wf.ChainID(), wf.Chain.RegistryAddress, contracts.FuncGetDeploymentFee,
		[]any{standard, implementationID}, fee,
	); err != nil {
		return nil, fmt.Errorf("failed to query deployment fee: %w", err)
	}
	log.With("fee_wei", fee).Info("deployment fee resolved")

	balance, err := o.client.Balance(ctx, wf.ChainID(), wf.Signer)
	if err != nil {
		return nil, fmt.Errorf("failed to query signer balance: %w", err)
	}
	if balance.Cmp(fee) < 0 {
		return nil, fmt.Errorf("%w: balance %s %s, fee %s %s", ErrInsufficientFunds,
			project.FormatUnits(balance, nativeDecimals), wf.Chain.NativeSymbol,
			project.FormatUnits(fee, nativeDecimals), wf.Chain.NativeSymbol)
	}

	summary := baseSummary("Deploy collection", wf, cfg)
	summary.Add("Standard", string(cfg.TokenStandard))
	summary.Add("Initial owner", wf.Signer.Hex())
	summary.Add("Factory", wf.Chain.FactoryAddress.Hex())
	summary.Add("Deployment fee", project.FormatUnits(fee, nativeDecimals)+" "+wf.Chain.NativeSymbol)
	summary.Add("Signer balance", project.FormatUnits(balance, nativeDecimals)+" "+wf.Chain.NativeSymbol)
	if err := o.confirm(ctx, summary); err != nil {
		return nil, err
	}

	outcome, err := o.send(
		ctx, wf, wf.Chain.FactoryAddress, contracts.FuncCreateContract,
		[]any{cfg.Name, cfg.Symbol, standard, wf.Signer, implementationID}, fee,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	address, err := contracts.ExtractAddress(outcome, contracts.EventNewContractInitialized.Topic0)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployed address from %s: %w", outcome.TransactionHash.Hex(), err)
	}

	record := &project.DeploymentRecord{
		ContractAddress:     address,
		InitialOwner:        wf.Signer,
		DeployedAtTimestamp: o.now().Unix(),
		TransactionHash:     outcome.TransactionHash,
	}
	cfg.Deployment = record
	if err := o.persist(cfg); err != nil {
		log.With("address", address, "tx", outcome.TransactionHash).Error("contract deployed but the record could not be saved")
		return record, err
	}

	log.With("address", address, "explorer", wf.Chain.AddressURL(address)).Info("collection deployed")
	return record, nil
}

package orchestrator

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dropforge/launchpad/internal/contracts"
	"github.com/dropforge/launchpad/internal/project"
)

// DetectCapability asks the collection whether it implements the creator-token
// interface. The answer is cached in the collection file.
func (o *Orchestrator) DetectCapability(ctx context.Context, wf WorkflowContext, cfg *project.CollectionConfig) (bool, error) {
	if err := requireDeployed(cfg); err != nil {
		return false, err
	}

	progress := &cfg.Deployment.Progress
	if progress.CapabilityChecked {
		return progress.CreatorToken, nil
	}

	var supported bool
	if err := o.client.Call(
		ctx, wf.ChainID(), cfg.Deployment.ContractAddress, contracts.FuncSupportsInterface,
		[]any{contracts.CreatorTokenInterfaceID}, &supported,
	); err != nil {
		return false, fmt.Errorf("failed to query creator token support: %w", err)
	}

	progress.CapabilityChecked = true
	progress.CreatorToken = supported
	if err := o.persist(cfg); err != nil {
		return supported, err
	}

	o.logger.With("symbol", cfg.Symbol, "creator_token", supported).Info("capability detected")
	return supported, nil
}

// WirePolicy points the collection at the chain's transfer validator and
// applies the chain's list. Finished sub-steps are skipped, so a failed run
// can be repeated.
func (o *Orchestrator) WirePolicy(ctx context.Context, wf WorkflowContext, cfg *project.CollectionConfig) error {
	supported, err := o.DetectCapability(ctx, wf, cfg)
	if err != nil {
		return err
	}

	log := o.logger.With("symbol", cfg.Symbol, "chain", wf.Chain.Name)
	if !supported {
		log.Info("collection is not a creator token, skipping transfer policy")
		return nil
	}
	if wf.Chain.TransferValidator == (common.Address{}) {
		log.Warn("chain has no transfer validator, skipping transfer policy")
		return nil
	}

	if !cfg.Deployment.Progress.TransferValidatorSet {
		if err := o.SetTransferValidator(ctx, wf, cfg, wf.Chain.TransferValidator); err != nil {
			return err
		}
	} else {
		log.Debug("transfer validator already set")
	}

	if !cfg.Deployment.Progress.TransferListApplied {
		if err := o.ApplyTransferList(ctx, wf, cfg, wf.Chain.TransferListID); err != nil {
			return err
		}
	} else {
		log.Debug("transfer list already applied")
	}

	return nil
}

// SetTransferValidator sets the validator on the collection. A zero validator
// falls back to the chain default.
func (o *Orchestrator) SetTransferValidator(ctx context.Context, wf WorkflowContext, cfg *project.CollectionConfig, validator common.Address) error {
	if err := requireDeployed(cfg); err != nil {
		return err
	}
	if progress := cfg.Deployment.Progress; progress.CapabilityChecked && !progress.CreatorToken {
		return fmt.Errorf("%s: %w", cfg.Deployment.ContractAddress.Hex(), ErrNotCreatorToken)
	}
	if validator == (common.Address{}) {
		validator = wf.Chain.TransferValidator
	}
	if validator == (common.Address{}) {
		return fmt.Errorf("%s: %w", wf.Chain.Name, ErrNoTransferPolicy)
	}

	summary := baseSummary("Set transfer validator", wf, cfg)
	summary.Add("Validator", validator.Hex())
	if err := o.confirm(ctx, summary); err != nil {
		return err
	}

	outcome, err := o.send(
		ctx, wf, cfg.Deployment.ContractAddress, contracts.FuncSetTransferValidator,
		[]any{validator}, nil,
	)
	if err != nil {
		return fmt.Errorf("failed to set transfer validator: %w", err)
	}

	cfg.Deployment.Progress.TransferValidatorSet = true
	cfg.Deployment.Progress.TransferValidator = validator
	if err := o.persist(cfg); err != nil {
		return err
	}

	o.logger.With("symbol", cfg.Symbol, "validator", validator, "tx", outcome.ExplorerURL).Info("transfer validator set")
	return nil
}

// ApplyTransferList applies a validator list to the collection. The call goes
// to the validator the collection was pointed at (the chain default when none
// was recorded), which checks that the signer owns the collection.
func (o *Orchestrator) ApplyTransferList(ctx context.Context, wf WorkflowContext, cfg *project.CollectionConfig, listID uint64) error {
	if err := requireDeployed(cfg); err != nil {
		return err
	}
	validator := cfg.Deployment.Progress.TransferValidator
	if validator == (common.Address{}) {
		validator = wf.Chain.TransferValidator
	}
	if validator == (common.Address{}) {
		return fmt.Errorf("%s: %w", wf.Chain.Name, ErrNoTransferPolicy)
	}

	summary := baseSummary("Apply transfer list", wf, cfg)
	summary.Add("Validator", validator.Hex())
	summary.Add("List id", fmt.Sprint(listID))
	if err := o.confirm(ctx, summary); err != nil {
		return err
	}

	outcome, err := o.send(
		ctx, wf, validator, contracts.FuncApplyListToCollection,
		[]any{cfg.Deployment.ContractAddress, new(big.Int).SetUint64(listID)}, nil,
	)
	if err != nil {
		return fmt.Errorf("failed to apply transfer list %d: %w", listID, err)
	}

	cfg.Deployment.Progress.TransferListApplied = true
	if err := o.persist(cfg); err != nil {
		return err
	}

	o.logger.With("symbol", cfg.Symbol, "list_id", listID, "tx", outcome.ExplorerURL).Info("transfer list applied")
	return nil
}

// Freeze disables token transfers.
func (o *Orchestrator) Freeze(ctx context.Context, wf WorkflowContext, cfg *project.CollectionConfig) error {
	return o.setTransferable(ctx, wf, cfg, false)
}

// Thaw re-enables token transfers.
func (o *Orchestrator) Thaw(ctx context.Context, wf WorkflowContext, cfg *project.CollectionConfig) error {
	return o.setTransferable(ctx, wf, cfg, true)
}

func (o *Orchestrator) setTransferable(ctx context.Context, wf WorkflowContext, cfg *project.CollectionConfig, transferable bool) error {
	if err := requireDeployed(cfg); err != nil {
		return err
	}

	title := "Freeze transfers"
	if transferable {
		title = "Thaw transfers"
	}
	summary := baseSummary(title, wf, cfg)
	summary.Add("Transferable", fmt.Sprint(transferable))
	if err := o.confirm(ctx, summary); err != nil {
		return err
	}

	outcome, err := o.send(
		ctx, wf, cfg.Deployment.ContractAddress, contracts.FuncSetTransferable,
		[]any{transferable}, nil,
	)
	if err != nil {
		return fmt.Errorf("failed to set transferable to %t: %w", transferable, err)
	}

	cfg.Deployment.Progress.Frozen = !transferable
	if err := o.persist(cfg); err != nil {
		return err
	}

	o.logger.With("symbol", cfg.Symbol, "transferable", transferable, "tx", outcome.ExplorerURL).Info("transferability updated")
	return nil
}

package orchestrator

import (
	"context"
	"fmt"
	"math/big"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dropforge/launchpad/internal/allowlist"
	"github.com/dropforge/launchpad/internal/contracts"
	"github.com/dropforge/launchpad/internal/project"
)

// stagePlan holds the encoded stages for exactly one token standard plus the
// Merkle roots per stage and token, kept for display.
type stagePlan struct {
	erc721  []contracts.Stage721
	erc1155 []contracts.Stage1155
	roots   [][]common.Hash
}

func (p stagePlan) arg(standard project.TokenStandard) any {
	if standard.MultiToken() {
		return p.erc1155
	}
	return p.erc721
}

// Setup configures supply, receivers, royalties and every mint stage in one
// transaction. The contract accepts setup once; afterwards only SetStages works.
func (o *Orchestrator) Setup(ctx context.Context, wf WorkflowContext, cfg *project.CollectionConfig) error {
	if err := requireDeployed(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var locked bool
	if err := o.client.Call(
		ctx, wf.ChainID(), cfg.Deployment.ContractAddress, contracts.FuncSetupLocked, nil, &locked,
	); err != nil {
		return fmt.Errorf("failed to query setup lock: %w", err)
	}
	if locked {
		return fmt.Errorf("%s: %w (use set-stages to change stages)", cfg.Deployment.ContractAddress.Hex(), ErrSetupLocked)
	}

	decimals, err := o.currencyDecimals(ctx, wf, cfg)
	if err != nil {
		return err
	}

	plan, err := o.buildStages(cfg, cfg.Stages, decimals)
	if err != nil {
		return err
	}

	summary := baseSummary("Set up collection", wf, cfg)
	summary.Add("URI", cfg.URI)
	summary.Add("Max mintable supply", formatValues(cfg.MaxMintableSupply))
	summary.Add("Global wallet limit", formatValues(cfg.GlobalWalletLimit))
	summary.Add("Mint currency", currencyLabel(cfg, wf))
	summary.Add("Fund receiver", cfg.FundReceiverAddress().Hex())
	summary.Add("Royalty", fmt.Sprintf("%d bps to %s", cfg.RoyaltyFeeBps, cfg.RoyaltyReceiverAddress().Hex()))
	addStageRows(&summary, cfg.Stages, plan)
	if err := o.confirm(ctx, summary); err != nil {
		return err
	}

	method, err := contracts.LoadMethod(contractName(cfg.TokenStandard), "setup")
	if err != nil {
		return err
	}

	outcome, err := o.send(ctx, wf, cfg.Deployment.ContractAddress, method, setupArgs(cfg, plan), nil)
	if err != nil {
		return fmt.Errorf("failed to send setup: %w", err)
	}

	cfg.Deployment.Progress.SetupComplete = true
	if err := o.persist(cfg); err != nil {
		return err
	}

	o.logger.With("symbol", cfg.Symbol, "stages", len(cfg.Stages), "tx", outcome.ExplorerURL).Info("collection set up")
	return nil
}

// SetStages replaces the mint stages of a collection that is already set up.
func (o *Orchestrator) SetStages(ctx context.Context, wf WorkflowContext, cfg *project.CollectionConfig) error {
	if err := requireDeployed(cfg); err != nil {
		return err
	}
	if problems := project.ValidateStages(cfg.Stages, cfg.TokenStandard, cfg.Tokens()); len(problems) > 0 {
		return &project.ValidationError{Problems: problems}
	}

	decimals, err := o.currencyDecimals(ctx, wf, cfg)
	if err != nil {
		return err
	}

	plan, err := o.buildStages(cfg, cfg.Stages, decimals)
	if err != nil {
		return err
	}

	summary := baseSummary("Set mint stages", wf, cfg)
	summary.Add("Mint currency", currencyLabel(cfg, wf))
	addStageRows(&summary, cfg.Stages, plan)
	if err := o.confirm(ctx, summary); err != nil {
		return err
	}

	method, err := contracts.LoadMethod(contractName(cfg.TokenStandard), "setStages")
	if err != nil {
		return err
	}

	outcome, err := o.send(ctx, wf, cfg.Deployment.ContractAddress, method, []any{plan.arg(cfg.TokenStandard)}, nil)
	if err != nil {
		return fmt.Errorf("failed to send stages: %w", err)
	}

	if err := o.persist(cfg); err != nil {
		return err
	}

	o.logger.With("symbol", cfg.Symbol, "stages", len(cfg.Stages), "tx", outcome.ExplorerURL).Info("mint stages updated")
	return nil
}

// SetCosigner sets the address whose signatures authorize cosigned mints.
func (o *Orchestrator) SetCosigner(ctx context.Context, wf WorkflowContext, cfg *project.CollectionConfig, cosigner common.Address) error {
	if err := requireDeployed(cfg); err != nil {
		return err
	}

	summary := baseSummary("Set cosigner", wf, cfg)
	summary.Add("Cosigner", cosigner.Hex())
	if err := o.confirm(ctx, summary); err != nil {
		return err
	}

	outcome, err := o.send(ctx, wf, cfg.Deployment.ContractAddress, contracts.FuncSetCosigner, []any{cosigner}, nil)
	if err != nil {
		return fmt.Errorf("failed to set cosigner: %w", err)
	}

	cfg.Cosigner = cosigner.Hex()
	if err := o.persist(cfg); err != nil {
		return err
	}

	o.logger.With("symbol", cfg.Symbol, "cosigner", cosigner, "tx", outcome.ExplorerURL).Info("cosigner set")
	return nil
}

func (o *Orchestrator) currencyDecimals(ctx context.Context, wf WorkflowContext, cfg *project.CollectionConfig) (uint8, error) {
	if cfg.NativeCurrency() {
		return nativeDecimals, nil
	}

	var decimals uint8
	if err := o.client.Call(ctx, wf.ChainID(), cfg.MintCurrencyAddress(), contracts.FuncDecimals, nil, &decimals); err != nil {
		return 0, fmt.Errorf("failed to query decimals of %s: %w", cfg.MintCurrency, err)
	}
	return decimals, nil
}

func (o *Orchestrator) buildStages(cfg *project.CollectionConfig, stages []project.StageConfig, decimals uint8) (stagePlan, error) {
	plan := stagePlan{roots: make([][]common.Hash, len(stages))}
	tokens := cfg.Tokens()

	// Amount widths depend on the currency decimals, so they are checked here
	// rather than in Validate.
	var problems []error

	for i, stage := range stages {
		mode, err := allowlist.ParseMode(stage.AllowlistMode)
		if err != nil {
			return plan, fmt.Errorf("stage %d: %w", i, err)
		}

		var (
			prices   = make([]*big.Int, tokens)
			fees     = make([]*big.Int, tokens)
			limits   = make([]uint32, tokens)
			roots    = make([][32]byte, tokens)
			supplies = make([]*big.Int, tokens)
		)
		for t := range tokens {
			if prices[t], err = project.ParseStageAmount(stage.Price.At(t), decimals); err != nil {
				problems = append(problems, fmt.Errorf("stages[%d].price[%d]: %w", i, t, err))
			}
			if fees[t], err = project.ParseStageAmount(stage.MintFee.At(t), decimals); err != nil {
				problems = append(problems, fmt.Errorf("stages[%d].mintFee[%d]: %w", i, t, err))
			}
			limits[t] = stage.WalletLimit.At(t)
			supplies[t] = new(big.Int).SetUint64(uint64(stage.MaxStageSupply.At(t)))

			commitment, _, err := o.compiler.CompileFile(o.allowlistPath(stage.Allowlist.At(t)), mode)
			if err != nil {
				return plan, fmt.Errorf("stage %d allowlist: %w", i, err)
			}
			roots[t] = commitment.Root
			plan.roots[i] = append(plan.roots[i], commitment.Root)
		}

		if cfg.TokenStandard.MultiToken() {
			plan.erc1155 = append(plan.erc1155, contracts.Stage1155{
				Price:                prices,
				MintFee:              fees,
				WalletLimit:          limits,
				MerkleRoot:           roots,
				MaxStageSupply:       supplies,
				StartTimeUnixSeconds: uint64(stage.StartTimeUnixSeconds),
				EndTimeUnixSeconds:   uint64(stage.EndTimeUnixSeconds),
			})
			continue
		}

		plan.erc721 = append(plan.erc721, contracts.Stage721{
			Price:                prices[0],
			MintFee:              fees[0],
			WalletLimit:          limits[0],
			MerkleRoot:           roots[0],
			MaxStageSupply:       supplies[0],
			StartTimeUnixSeconds: big.NewInt(stage.StartTimeUnixSeconds),
			EndTimeUnixSeconds:   big.NewInt(stage.EndTimeUnixSeconds),
		})
	}

	if len(problems) > 0 {
		return plan, &project.ValidationError{Problems: problems}
	}
	return plan, nil
}

// allowlistPath resolves relative allowlist paths against the collection's
// directory.
func (o *Orchestrator) allowlistPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(o.store.Path()), path)
}

func setupArgs(cfg *project.CollectionConfig, plan stagePlan) []any {
	royalty := new(big.Int).SetUint64(uint64(cfg.RoyaltyFeeBps))

	if cfg.TokenStandard.MultiToken() {
		return []any{
			cfg.URI,
			bigValues(cfg.MaxMintableSupply),
			bigValues(cfg.GlobalWalletLimit),
			cfg.MintCurrencyAddress(),
			cfg.FundReceiverAddress(),
			plan.erc1155,
			cfg.RoyaltyReceiverAddress(),
			royalty,
		}
	}

	return []any{
		cfg.URI,
		cfg.TokenURISuffix,
		new(big.Int).SetUint64(cfg.MaxMintableSupply.Scalar()),
		new(big.Int).SetUint64(cfg.GlobalWalletLimit.Scalar()),
		cfg.MintCurrencyAddress(),
		cfg.FundReceiverAddress(),
		plan.erc721,
		cfg.RoyaltyReceiverAddress(),
		royalty,
	}
}

func contractName(standard project.TokenStandard) contracts.ContractName {
	if standard.MultiToken() {
		return contracts.ContractNameERC1155M
	}
	return contracts.ContractNameERC721M
}

func bigValues(values project.OneOrMany[uint64]) []*big.Int {
	out := make([]*big.Int, values.Len())
	for i, v := range values.Values {
		out[i] = new(big.Int).SetUint64(v)
	}
	return out
}

func formatValues[T any](values project.OneOrMany[T]) string {
	if !values.Many {
		return fmt.Sprint(values.Scalar())
	}
	return fmt.Sprint(values.Values)
}

func currencyLabel(cfg *project.CollectionConfig, wf WorkflowContext) string {
	if cfg.NativeCurrency() {
		return wf.Chain.NativeSymbol + " (native)"
	}
	return cfg.MintCurrencyAddress().Hex()
}

func addStageRows(summary *Summary, stages []project.StageConfig, plan stagePlan) {
	for i, stage := range stages {
		roots := make([]string, len(plan.roots[i]))
		for t, root := range plan.roots[i] {
			roots[t] = root.Hex()
		}
		summary.Add(fmt.Sprintf("Stage %d", i), fmt.Sprintf(
			"price %s, wallet limit %s, supply %s, %s to %s, root %s",
			formatValues(stage.Price),
			formatValues(stage.WalletLimit),
			formatValues(stage.MaxStageSupply),
			time.Unix(stage.StartTimeUnixSeconds, 0).UTC().Format(time.RFC3339),
			time.Unix(stage.EndTimeUnixSeconds, 0).UTC().Format(time.RFC3339),
			strings.Join(roots, ","),
		))
	}
}

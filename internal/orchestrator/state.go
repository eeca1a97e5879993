package orchestrator

import "github.com/dropforge/launchpad/internal/project"

// State is the workflow position derived from a collection file.
type State string

const (
	StateDraft              State = "draft"
	StateDeployed           State = "deployed"
	StateCapabilityDetected State = "capability-detected"
	StatePolicyWired        State = "policy-wired"
	StateFrozen             State = "frozen"
	StateConfigured         State = "configured"
)

// StateOf reports the furthest step the collection has completed. Setup wins
// over the transfer policy steps since those are optional.
func StateOf(cfg *project.CollectionConfig) State {
	if !cfg.Deployed() {
		return StateDraft
	}

	progress := cfg.Deployment.Progress
	switch {
	case progress.SetupComplete:
		return StateConfigured
	case progress.Frozen:
		return StateFrozen
	case progress.TransferValidatorSet && progress.TransferListApplied:
		return StatePolicyWired
	case progress.CapabilityChecked:
		return StateCapabilityDetected
	default:
		return StateDeployed
	}
}

package converge

import (
	"context"

	"github.com/temirov/checkout/internal/gitrepo"
)

// ConvergenceState enumerates the planner's top-level branches. It is fully
// determined by metadata presence and the caller's update flag.
type ConvergenceState int

// Planner states.
const (
	// StateAbsent marks a destination without repository metadata.
	StateAbsent ConvergenceState = iota
	// StatePresentNoUpdate marks an existing repository with updates disabled.
	StatePresentNoUpdate
	// StatePresentUpdate marks an existing repository that should converge.
	StatePresentUpdate
)

// PlanRequest carries everything the planner needs to build a plan.
type PlanRequest struct {
	State            gitrepo.RepositoryState
	RepositoryURL    string
	RemoteName       string
	Resolved         ResolvedRevision
	Update           bool
	Force            bool
	Depth            int
	SubmodulePresent bool
}

// ClassifyConvergenceState selects the planner branch from metadata presence
// and the update flag; no other state influences the selection.
func ClassifyConvergenceState(repositoryExists bool, updateRequested bool) ConvergenceState {
	if !repositoryExists {
		return StateAbsent
	}
	if !updateRequested {
		return StatePresentNoUpdate
	}
	return StatePresentUpdate
}

// BuildPlan produces the ordered operation sequence for one invocation. An
// absent destination is served by a single clone; an existing destination with
// updates enabled is discarded, fetched, and checked out, recursing into
// submodules only when a manifest is present.
func BuildPlan(request PlanRequest) ConvergencePlan {
	switch ClassifyConvergenceState(request.State.Exists, request.Update) {
	case StateAbsent:
		return ConvergencePlan{Steps: []PlanStep{
			{
				Kind:          StepClone,
				RepositoryURL: request.RepositoryURL,
				RemoteName:    request.RemoteName,
				BranchName:    cloneBranchName(request.Resolved),
				Revision:      request.Resolved.CommitID,
				Depth:         request.Depth,
			},
		}}
	case StatePresentNoUpdate:
		return ConvergencePlan{}
	default:
		steps := []PlanStep{
			{Kind: StepReset, Force: request.Force},
			{Kind: StepFetch, RemoteName: request.RemoteName, Depth: request.Depth},
			{
				Kind:       StepCheckout,
				RemoteName: request.RemoteName,
				BranchName: checkoutBranchName(request.Resolved),
				Revision:   checkoutRevision(request.Resolved),
				Force:      request.Force,
			},
		}
		if request.SubmodulePresent {
			steps = append(steps, PlanStep{Kind: StepSubmoduleSync})
		}
		return ConvergencePlan{Steps: steps}
	}
}

// LocalCommitProber answers whether a commit is already known to local history.
type LocalCommitProber interface {
	HasLocalCommit(executionContext context.Context, destinationPath string, revision string) (bool, error)
}

// PredictOutcome evaluates a plan without executing it. For a revision that
// already named a concrete commit id the prediction checks local presence of
// that commit; otherwise it compares the resolved commit truncated to the
// abbreviated width against the current commit. A divergence past the
// abbreviated width is invisible to this prediction.
func PredictOutcome(executionContext context.Context, state gitrepo.RepositoryState, destinationPath string, resolved ResolvedRevision, commitProber LocalCommitProber) (Outcome, error) {
	predictedAfter := TruncateToShortID(resolved.CommitID)

	if !state.Exists {
		return Outcome{AfterCommit: predictedAfter, Changed: true}, nil
	}

	if resolved.Kind == RevisionKindCommit {
		commitKnown, probeError := commitProber.HasLocalCommit(executionContext, destinationPath, resolved.CommitID)
		if probeError != nil {
			return Outcome{}, probeError
		}
		return Outcome{
			BeforeCommit: state.CurrentCommit,
			AfterCommit:  predictedAfter,
			Changed:      !commitKnown,
		}, nil
	}

	return Outcome{
		BeforeCommit: state.CurrentCommit,
		AfterCommit:  predictedAfter,
		Changed:      predictedAfter != state.CurrentCommit,
	}, nil
}

// TruncateToShortID abbreviates a full commit id to the fixed reporting width.
func TruncateToShortID(commitID string) string {
	if len(commitID) > gitrepo.ShortCommitLength {
		return commitID[:gitrepo.ShortCommitLength]
	}
	return commitID
}

func cloneBranchName(resolved ResolvedRevision) string {
	if resolved.Kind == RevisionKindBranch || resolved.Kind == RevisionKindTag {
		return resolved.Name
	}
	return ""
}

func checkoutBranchName(resolved ResolvedRevision) string {
	if resolved.Kind == RevisionKindBranch {
		return resolved.Name
	}
	return ""
}

func checkoutRevision(resolved ResolvedRevision) string {
	if resolved.Kind == RevisionKindTag {
		return resolved.Name
	}
	return resolved.CommitID
}

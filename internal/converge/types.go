package converge

import (
	"errors"
	"fmt"
)

const (
	dirtyWorkingTreeMessageConstant        = "destination has local modifications and force is disabled"
	remoteResolutionFailureTemplate        = "unable to resolve %q against %s: %s"
	submoduleFailureTemplateConstant       = "submodule synchronization failed: %s"
	repositoryURLRequiredMessageConstant   = "repository url must be provided"
	destinationPathRequiredMessageConstant = "destination path must be provided"
)

// ErrDirtyWorkingTree indicates local modifications blocked a forced discard.
var ErrDirtyWorkingTree = errors.New(dirtyWorkingTreeMessageConstant)

// ErrRepositoryURLRequired indicates the repository URL option was empty.
var ErrRepositoryURLRequired = errors.New(repositoryURLRequiredMessageConstant)

// ErrDestinationPathRequired indicates the destination path option was empty.
var ErrDestinationPathRequired = errors.New(destinationPathRequiredMessageConstant)

// RemoteResolutionError reports a revision spec that could not be pinned to a
// remote commit: the remote was unreachable, the ref namespace produced no
// match, or no default branch could be derived for the HEAD spec.
type RemoteResolutionError struct {
	Revision      string
	RepositoryURL string
	Cause         error
}

// Error describes the resolution failure including the underlying diagnostic.
func (resolutionError RemoteResolutionError) Error() string {
	causeText := ""
	if resolutionError.Cause != nil {
		causeText = resolutionError.Cause.Error()
	}
	return fmt.Sprintf(remoteResolutionFailureTemplate, resolutionError.Revision, resolutionError.RepositoryURL, causeText)
}

// Unwrap exposes the underlying cause.
func (resolutionError RemoteResolutionError) Unwrap() error {
	return resolutionError.Cause
}

// SubmoduleFailureError reports a failed submodule synchronization, kept
// distinct from top-level fetch and checkout failures.
type SubmoduleFailureError struct {
	Cause error
}

// Error describes the submodule failure including the raw diagnostic.
func (submoduleError SubmoduleFailureError) Error() string {
	return fmt.Sprintf(submoduleFailureTemplateConstant, submoduleError.Cause)
}

// Unwrap exposes the underlying cause.
func (submoduleError SubmoduleFailureError) Unwrap() error {
	return submoduleError.Cause
}

// RevisionKind classifies what a revision spec named on the remote.
type RevisionKind string

// Revision classifications, tested in branch-before-tag order.
const (
	RevisionKindBranch RevisionKind = "branch"
	RevisionKindTag    RevisionKind = "tag"
	RevisionKindCommit RevisionKind = "commit"
)

// ResolvedRevision pins a revision spec to a concrete remote commit identity.
// Name carries the matched branch or tag name; for RevisionKindCommit it holds
// the spec verbatim and CommitID equals it.
type ResolvedRevision struct {
	Kind     RevisionKind
	Name     string
	CommitID string
}

// StepKind names one planned repository operation.
type StepKind string

// Plan step kinds. A plan never contains both StepClone and StepReset.
const (
	StepClone         StepKind = "clone"
	StepReset         StepKind = "reset"
	StepFetch         StepKind = "fetch"
	StepCheckout      StepKind = "checkout"
	StepSubmoduleSync StepKind = "submodule-sync"
)

// PlanStep is one operation with the parameters needed to execute it.
type PlanStep struct {
	Kind          StepKind
	RepositoryURL string
	RemoteName    string
	BranchName    string
	Revision      string
	Depth         int
	Force         bool
}

// ConvergencePlan is the ordered operation sequence for one invocation,
// built once and either executed or only summarized in dry-run mode.
type ConvergencePlan struct {
	Steps []PlanStep
}

// Contains reports whether the plan includes a step of the given kind.
func (plan ConvergencePlan) Contains(kind StepKind) bool {
	for _, step := range plan.Steps {
		if step.Kind == kind {
			return true
		}
	}
	return false
}

// StepKinds lists the plan's step kinds in execution order.
func (plan ConvergencePlan) StepKinds() []StepKind {
	kinds := make([]StepKind, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		kinds = append(kinds, step.Kind)
	}
	return kinds
}

// Outcome is the sole externally observable result of a convergence. An empty
// BeforeCommit records that the destination held no repository beforehand.
type Outcome struct {
	BeforeCommit string
	AfterCommit  string
	Changed      bool
}

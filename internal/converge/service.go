package converge

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/temirov/checkout/internal/execshell"
	"github.com/temirov/checkout/internal/fsio"
	"github.com/temirov/checkout/internal/gitrepo"
)

const (
	serviceExecutorMissingMessageConstant       = "git executor not configured"
	serviceInspectorMissingMessageConstant      = "repository inspector not configured"
	serviceFileSystemMissingMessageConstant     = "file system not configured"
	destinationPreparationTemplateConstant      = "failed to prepare destination parent directory: %w"
	afterInspectionFailureTemplateConstant      = "converged but failed to read resulting commit: %w"
	unsupportedPlanStepTemplateConstant         = "unsupported plan step: %s"
	defaultRemoteNameConstant                   = "origin"
	defaultRevisionSpecConstant                 = "HEAD"
	gitCloneSubcommandConstant                  = "clone"
	gitFetchSubcommandConstant                  = "fetch"
	gitCheckoutSubcommandConstant               = "checkout"
	gitResetSubcommandConstant                  = "reset"
	gitSubmoduleSubcommandConstant              = "submodule"
	gitSubmoduleSyncActionConstant              = "sync"
	gitSubmoduleUpdateActionConstant            = "update"
	gitOriginFlagConstant                       = "--origin"
	gitBranchFlagConstant                       = "--branch"
	gitDepthFlagConstant                        = "--depth"
	gitTagsFlagConstant                         = "--tags"
	gitHardResetFlagConstant                    = "--hard"
	gitForceFlagConstant                        = "--force"
	gitTrackFlagConstant                        = "--track"
	gitCreateBranchFlagConstant                 = "-b"
	gitRecursiveFlagConstant                    = "--recursive"
	gitInitFlagConstant                         = "--init"
	gitArgumentTerminatorConstant               = "--"
	remoteBranchReferenceTemplateConstant       = "%s/%s"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	destinationDirectoryPermissionsConstant     = 0o755
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(serviceExecutorMissingMessageConstant)

// ErrInspectorNotConfigured indicates the repository inspector dependency was missing.
var ErrInspectorNotConfigured = errors.New(serviceInspectorMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the file system dependency was missing.
var ErrFileSystemNotConfigured = errors.New(serviceFileSystemMissingMessageConstant)

// GitExecutor exposes the subset of shell execution used by convergence.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryInspector exposes the local state queries consumed by planning and
// by the authoritative after-commit read.
type RepositoryInspector interface {
	Inspect(executionContext context.Context, destinationPath string) (gitrepo.RepositoryState, error)
	DefaultRemoteBranch(executionContext context.Context, destinationPath string, remoteName string) (string, error)
	CurrentCommit(executionContext context.Context, destinationPath string) (string, error)
	IsLocalBranch(executionContext context.Context, destinationPath string, branchName string) (bool, error)
	HasLocalCommit(executionContext context.Context, destinationPath string, revision string) (bool, error)
	HasSubmoduleManifest(destinationPath string) bool
}

// Dependencies enumerates external collaborators required for convergence.
type Dependencies struct {
	GitExecutor GitExecutor
	Inspector   RepositoryInspector
	FileSystem  fsio.FileSystem
}

// Options configures one convergence invocation.
type Options struct {
	RepositoryURL   string
	DestinationPath string
	Revision        string
	RemoteName      string
	Depth           int
	Force           bool
	Update          bool
	DryRun          bool
}

// sanitize trims inputs and applies the documented defaults.
func (options Options) sanitize() Options {
	sanitized := options
	sanitized.RepositoryURL = strings.TrimSpace(options.RepositoryURL)
	sanitized.DestinationPath = strings.TrimSpace(options.DestinationPath)
	sanitized.Revision = strings.TrimSpace(options.Revision)
	sanitized.RemoteName = strings.TrimSpace(options.RemoteName)
	if len(sanitized.Revision) == 0 {
		sanitized.Revision = defaultRevisionSpecConstant
	}
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaultRemoteNameConstant
	}
	if sanitized.Depth < 0 {
		sanitized.Depth = 0
	}
	return sanitized
}

// Service converges a destination onto a resolved revision through git.
type Service struct {
	executor   GitExecutor
	inspector  RepositoryInspector
	fileSystem fsio.FileSystem
	resolver   *RemoteResolver
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.Inspector == nil {
		return nil, ErrInspectorNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	resolver, resolverError := NewRemoteResolver(dependencies.GitExecutor)
	if resolverError != nil {
		return nil, resolverError
	}

	return &Service{
		executor:   dependencies.GitExecutor,
		inspector:  dependencies.Inspector,
		fileSystem: dependencies.FileSystem,
		resolver:   resolver,
	}, nil
}

// Converge brings the destination into the state named by the options and
// reports the before/after commit pair. The destination is re-inspected after
// execution so the reported after commit is authoritative regardless of which
// checkout branch was taken.
func (service *Service) Converge(executionContext context.Context, options Options) (Outcome, error) {
	sanitizedOptions := options.sanitize()
	if len(sanitizedOptions.RepositoryURL) == 0 {
		return Outcome{}, ErrRepositoryURLRequired
	}
	if len(sanitizedOptions.DestinationPath) == 0 {
		return Outcome{}, ErrDestinationPathRequired
	}

	state, inspectError := service.inspector.Inspect(executionContext, sanitizedOptions.DestinationPath)
	if inspectError != nil {
		return Outcome{}, inspectError
	}

	if ClassifyConvergenceState(state.Exists, sanitizedOptions.Update) == StatePresentNoUpdate {
		return Outcome{BeforeCommit: state.CurrentCommit, AfterCommit: state.CurrentCommit, Changed: false}, nil
	}

	if state.Exists && state.HasLocalModifications && !sanitizedOptions.Force {
		return Outcome{}, ErrDirtyWorkingTree
	}

	resolved, resolutionError := service.resolveRevision(executionContext, state, sanitizedOptions)
	if resolutionError != nil {
		return Outcome{}, resolutionError
	}

	plan := BuildPlan(PlanRequest{
		State:            state,
		RepositoryURL:    sanitizedOptions.RepositoryURL,
		RemoteName:       sanitizedOptions.RemoteName,
		Resolved:         resolved,
		Update:           sanitizedOptions.Update,
		Force:            sanitizedOptions.Force,
		Depth:            sanitizedOptions.Depth,
		SubmodulePresent: state.Exists && service.inspector.HasSubmoduleManifest(sanitizedOptions.DestinationPath),
	})

	if sanitizedOptions.DryRun {
		return PredictOutcome(executionContext, state, sanitizedOptions.DestinationPath, resolved, service.inspector)
	}

	for _, step := range plan.Steps {
		if stepError := service.executeStep(executionContext, step, sanitizedOptions, resolved); stepError != nil {
			return Outcome{}, stepError
		}
	}

	afterCommit, afterError := service.inspector.CurrentCommit(executionContext, sanitizedOptions.DestinationPath)
	if afterError != nil {
		return Outcome{}, fmt.Errorf(afterInspectionFailureTemplateConstant, afterError)
	}
	afterCommit = strings.TrimSpace(afterCommit)

	discardedModifications := state.HasLocalModifications && plan.Contains(StepReset)
	return Outcome{
		BeforeCommit: state.CurrentCommit,
		AfterCommit:  afterCommit,
		Changed:      state.CurrentCommit != afterCommit || discardedModifications,
	}, nil
}

// resolveRevision lists the remote's refs once and classifies the revision
// spec, substituting HEAD with the locally derived default branch when the
// destination already holds a repository.
func (service *Service) resolveRevision(executionContext context.Context, state gitrepo.RepositoryState, options Options) (ResolvedRevision, error) {
	defaultBranchName := ""
	if state.Exists {
		derivedBranch, derivationError := service.inspector.DefaultRemoteBranch(executionContext, options.DestinationPath, options.RemoteName)
		if derivationError != nil {
			return ResolvedRevision{}, derivationError
		}
		defaultBranchName = derivedBranch
	}

	listing, listingError := service.resolver.ListRefs(executionContext, options.RepositoryURL)
	if listingError != nil {
		return ResolvedRevision{}, listingError
	}

	resolved, classificationError := ClassifyRevision(listing, options.Revision, defaultBranchName)
	if classificationError != nil {
		return ResolvedRevision{}, RemoteResolutionError{
			Revision:      options.Revision,
			RepositoryURL: options.RepositoryURL,
			Cause:         classificationError,
		}
	}
	return resolved, nil
}

func (service *Service) executeStep(executionContext context.Context, step PlanStep, options Options, resolved ResolvedRevision) error {
	switch step.Kind {
	case StepClone:
		return service.executeClone(executionContext, step, options, resolved)
	case StepReset:
		return service.executeGit(executionContext, options.DestinationPath, gitResetSubcommandConstant, gitHardResetFlagConstant)
	case StepFetch:
		return service.executeFetch(executionContext, step, options)
	case StepCheckout:
		return service.executeCheckout(executionContext, step, options)
	case StepSubmoduleSync:
		return service.executeSubmoduleSync(executionContext, options)
	default:
		return fmt.Errorf(unsupportedPlanStepTemplateConstant, step.Kind)
	}
}

// executeClone creates the destination's parent directory, clones at the
// requested branch or tag, and detaches onto a concrete commit id when the
// revision named one.
func (service *Service) executeClone(executionContext context.Context, step PlanStep, options Options, resolved ResolvedRevision) error {
	parentDirectory := filepath.Dir(options.DestinationPath)
	if preparationError := service.fileSystem.MkdirAll(parentDirectory, destinationDirectoryPermissionsConstant); preparationError != nil {
		return fmt.Errorf(destinationPreparationTemplateConstant, preparationError)
	}

	cloneArguments := []string{gitCloneSubcommandConstant, gitOriginFlagConstant, step.RemoteName}
	if len(step.BranchName) > 0 {
		cloneArguments = append(cloneArguments, gitBranchFlagConstant, step.BranchName)
	}
	if step.Depth > 0 {
		cloneArguments = append(cloneArguments, gitDepthFlagConstant, strconv.Itoa(step.Depth))
	}
	cloneArguments = append(cloneArguments, gitArgumentTerminatorConstant, step.RepositoryURL, options.DestinationPath)

	if cloneError := service.executeGit(executionContext, "", cloneArguments...); cloneError != nil {
		return cloneError
	}

	if resolved.Kind == RevisionKindCommit {
		return service.executeGit(executionContext, options.DestinationPath, gitCheckoutSubcommandConstant, gitForceFlagConstant, resolved.CommitID)
	}
	return nil
}

func (service *Service) executeFetch(executionContext context.Context, step PlanStep, options Options) error {
	fetchArguments := []string{gitFetchSubcommandConstant, gitTagsFlagConstant}
	if step.Depth > 0 {
		fetchArguments = append(fetchArguments, gitDepthFlagConstant, strconv.Itoa(step.Depth))
	}
	fetchArguments = append(fetchArguments, step.RemoteName)
	return service.executeGit(executionContext, options.DestinationPath, fetchArguments...)
}

// executeCheckout applies the checkout sub-policy: track a remote branch not
// yet known locally, force-checkout then hard-reset an already tracked branch
// (checkout alone does not fast-forward a diverged local branch), or detach
// directly onto a tag or commit id.
func (service *Service) executeCheckout(executionContext context.Context, step PlanStep, options Options) error {
	if len(step.BranchName) == 0 {
		return service.executeGit(executionContext, options.DestinationPath, gitCheckoutSubcommandConstant, gitForceFlagConstant, step.Revision)
	}

	remoteBranchReference := fmt.Sprintf(remoteBranchReferenceTemplateConstant, step.RemoteName, step.BranchName)

	branchExistsLocally, probeError := service.inspector.IsLocalBranch(executionContext, options.DestinationPath, step.BranchName)
	if probeError != nil {
		return probeError
	}

	if !branchExistsLocally {
		return service.executeGit(executionContext, options.DestinationPath, gitCheckoutSubcommandConstant, gitTrackFlagConstant, gitCreateBranchFlagConstant, step.BranchName, remoteBranchReference)
	}

	if checkoutError := service.executeGit(executionContext, options.DestinationPath, gitCheckoutSubcommandConstant, gitForceFlagConstant, step.BranchName); checkoutError != nil {
		return checkoutError
	}
	return service.executeGit(executionContext, options.DestinationPath, gitResetSubcommandConstant, gitHardResetFlagConstant, remoteBranchReference)
}

// executeSubmoduleSync synchronizes recorded submodule URLs, then initializes
// and updates all submodules recursively. Failures here are reported as
// SubmoduleFailureError, distinct from the top-level fetch failure.
func (service *Service) executeSubmoduleSync(executionContext context.Context, options Options) error {
	if syncError := service.executeGit(executionContext, options.DestinationPath, gitSubmoduleSubcommandConstant, gitSubmoduleSyncActionConstant, gitRecursiveFlagConstant); syncError != nil {
		return SubmoduleFailureError{Cause: syncError}
	}
	if updateError := service.executeGit(executionContext, options.DestinationPath, gitSubmoduleSubcommandConstant, gitSubmoduleUpdateActionConstant, gitInitFlagConstant, gitRecursiveFlagConstant); updateError != nil {
		return SubmoduleFailureError{Cause: updateError}
	}
	return nil
}

// executeGit disables interactive credential prompts so a hung authentication
// exchange fails instead of blocking the invocation indefinitely.
func (service *Service) executeGit(executionContext context.Context, workingDirectory string, arguments ...string) error {
	_, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: workingDirectory,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	})
	return executionError
}

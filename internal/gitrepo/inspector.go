package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/checkout/internal/execshell"
	"github.com/temirov/checkout/internal/fsio"
)

const (
	gitExecutorMissingMessageConstant     = "git executor not configured"
	fileSystemMissingMessageConstant      = "file system not configured"
	corruptedMetadataTemplateConstant     = "repository metadata at %s is unusable: %s"
	statusCollectionTemplateConstant      = "failed to collect working tree status: %w"
	gitRevParseSubcommandConstant         = "rev-parse"
	gitStatusSubcommandConstant           = "status"
	gitSymbolicRefSubcommandConstant      = "symbolic-ref"
	gitStatusPorcelainFlagConstant        = "--porcelain"
	gitShortRevisionFlagConstant          = "--short=7"
	gitQuietFlagConstant                  = "--quiet"
	gitVerifyFlagConstant                 = "--verify"
	gitShortSymbolicFlagConstant          = "--short"
	gitHeadReferenceConstant              = "HEAD"
	gitCommitPeelSuffixConstant           = "^{commit}"
	gitLocalBranchNamespaceConstant       = "refs/heads/"
	untrackedStatusNotationConstant       = "??"
	symbolicReferencePrefixConstant       = "ref:"
	remoteHeadReferencePathTemplate       = "refs/remotes/%s/HEAD"
	remoteBranchNamespaceTemplateConstant = "refs/remotes/%s/"
	submoduleManifestFileNameConstant     = ".gitmodules"
)

// ShortCommitLength is the fixed abbreviation width used for before/after
// commit reporting; every comparison against a full commit id truncates the
// full id to this many characters.
const ShortCommitLength = 7

// ErrGitExecutorNotConfigured indicates the inspector was built without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the inspector was built without a file system.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// NotAGitDirectoryError reports destination metadata that exists but cannot be used.
type NotAGitDirectoryError struct {
	Path       string
	Diagnostic string
}

// Error describes the corrupted metadata including the raw git diagnostic.
func (corruptionError NotAGitDirectoryError) Error() string {
	return fmt.Sprintf(corruptedMetadataTemplateConstant, corruptionError.Path, corruptionError.Diagnostic)
}

// RepositoryState is a read-only snapshot of a destination, re-derived from
// disk on every inspection. CurrentCommit holds the abbreviated commit id and
// is empty when the repository is absent; CurrentBranch is empty when HEAD is
// detached.
type RepositoryState struct {
	Exists                bool
	CurrentCommit         string
	HasLocalModifications bool
	CurrentBranch         string
}

// GitExecutor exposes the subset of shell execution used for inspection.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryInspector derives repository state by querying git and the filesystem.
type RepositoryInspector struct {
	executor   GitExecutor
	fileSystem fsio.FileSystem
}

// NewRepositoryInspector validates collaborators and constructs an inspector.
func NewRepositoryInspector(executor GitExecutor, fileSystem fsio.FileSystem) (*RepositoryInspector, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	return &RepositoryInspector{executor: executor, fileSystem: fileSystem}, nil
}

// Inspect classifies the destination. Absence of metadata is a valid state;
// metadata that exists but cannot answer basic queries yields
// NotAGitDirectoryError carrying the raw git diagnostic.
func (inspector *RepositoryInspector) Inspect(executionContext context.Context, destinationPath string) (RepositoryState, error) {
	metadataLocation := LocateGitDir(inspector.fileSystem, destinationPath)
	if !metadataLocation.Present() {
		return RepositoryState{}, nil
	}

	currentCommit, commitError := inspector.CurrentCommit(executionContext, destinationPath)
	if commitError != nil {
		commandFailure := execshell.CommandFailedError{}
		if errors.As(commitError, &commandFailure) {
			return RepositoryState{}, NotAGitDirectoryError{
				Path:       destinationPath,
				Diagnostic: strings.TrimSpace(commandFailure.Result.StandardError),
			}
		}
		return RepositoryState{}, commitError
	}

	hasModifications, statusError := inspector.HasLocalModifications(executionContext, destinationPath)
	if statusError != nil {
		return RepositoryState{}, fmt.Errorf(statusCollectionTemplateConstant, statusError)
	}

	currentBranch, branchError := inspector.CurrentBranch(executionContext, destinationPath)
	if branchError != nil {
		return RepositoryState{}, branchError
	}

	return RepositoryState{
		Exists:                true,
		CurrentCommit:         currentCommit,
		HasLocalModifications: hasModifications,
		CurrentBranch:         currentBranch,
	}, nil
}

// CurrentCommit returns the abbreviated identifying hash of the checked-out commit.
func (inspector *RepositoryInspector) CurrentCommit(executionContext context.Context, destinationPath string) (string, error) {
	executionResult, executionError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitShortRevisionFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: destinationPath,
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// HasLocalModifications reports whether any tracked file is modified, staged,
// or deleted. Untracked files carry the ?? porcelain notation and never count.
func (inspector *RepositoryInspector) HasLocalModifications(executionContext context.Context, destinationPath string) (bool, error) {
	executionResult, executionError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant},
		WorkingDirectory: destinationPath,
	})
	if executionError != nil {
		return false, executionError
	}

	for _, statusLine := range strings.Split(executionResult.StandardOutput, "\n") {
		trimmedLine := strings.TrimSpace(statusLine)
		if len(trimmedLine) == 0 {
			continue
		}
		if strings.HasPrefix(trimmedLine, untrackedStatusNotationConstant) {
			continue
		}
		return true, nil
	}

	return false, nil
}

// CurrentBranch resolves HEAD's branch association via the symbolic reference.
// A detached HEAD yields an empty branch name without error.
func (inspector *RepositoryInspector) CurrentBranch(executionContext context.Context, destinationPath string) (string, error) {
	executionResult, executionError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitSymbolicRefSubcommandConstant, gitQuietFlagConstant, gitShortSymbolicFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: destinationPath,
	})
	if executionError != nil {
		commandFailure := execshell.CommandFailedError{}
		if errors.As(executionError, &commandFailure) {
			return "", nil
		}
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// DefaultRemoteBranch yields the branch name used to resolve the HEAD revision
// spec: the checked-out branch when HEAD is attached, otherwise the branch the
// remote's recorded HEAD pointer names. An unreadable or unparseable pointer
// yields an empty association rather than an error.
func (inspector *RepositoryInspector) DefaultRemoteBranch(executionContext context.Context, destinationPath string, remoteName string) (string, error) {
	currentBranch, branchError := inspector.CurrentBranch(executionContext, destinationPath)
	if branchError != nil {
		return "", branchError
	}
	if len(currentBranch) > 0 {
		return currentBranch, nil
	}

	metadataLocation := LocateGitDir(inspector.fileSystem, destinationPath)
	if !metadataLocation.Present() {
		return "", nil
	}

	remoteHeadPath := filepath.Join(metadataLocation.Path, filepath.FromSlash(fmt.Sprintf(remoteHeadReferencePathTemplate, remoteName)))
	remoteHeadContent, readError := inspector.fileSystem.ReadFile(remoteHeadPath)
	if readError != nil {
		return "", nil
	}

	return parseRemoteHeadPointer(string(remoteHeadContent), remoteName), nil
}

// IsLocalBranch reports whether the named branch exists in the local repository.
func (inspector *RepositoryInspector) IsLocalBranch(executionContext context.Context, destinationPath string, branchName string) (bool, error) {
	return inspector.verifyReference(executionContext, destinationPath, gitLocalBranchNamespaceConstant+branchName)
}

// HasLocalCommit reports whether the revision resolves to a commit known locally.
func (inspector *RepositoryInspector) HasLocalCommit(executionContext context.Context, destinationPath string, revision string) (bool, error) {
	return inspector.verifyReference(executionContext, destinationPath, revision+gitCommitPeelSuffixConstant)
}

// HasSubmoduleManifest reports whether a submodule manifest exists at the destination.
func (inspector *RepositoryInspector) HasSubmoduleManifest(destinationPath string) bool {
	_, statError := inspector.fileSystem.Stat(filepath.Join(destinationPath, submoduleManifestFileNameConstant))
	return statError == nil
}

// verifyReference probes a reference with rev-parse; a nonzero exit is the
// legitimate "not found" answer, not a failure.
func (inspector *RepositoryInspector) verifyReference(executionContext context.Context, destinationPath string, reference string) (bool, error) {
	_, executionError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitQuietFlagConstant, gitVerifyFlagConstant, reference},
		WorkingDirectory: destinationPath,
	})
	if executionError != nil {
		commandFailure := execshell.CommandFailedError{}
		if errors.As(executionError, &commandFailure) {
			return false, nil
		}
		return false, executionError
	}
	return true, nil
}

func parseRemoteHeadPointer(pointerContent string, remoteName string) string {
	trimmedContent := strings.TrimSpace(pointerContent)
	if !strings.HasPrefix(trimmedContent, symbolicReferencePrefixConstant) {
		return ""
	}

	referenceTarget := strings.TrimSpace(strings.TrimPrefix(trimmedContent, symbolicReferencePrefixConstant))
	remoteNamespace := fmt.Sprintf(remoteBranchNamespaceTemplateConstant, remoteName)
	if !strings.HasPrefix(referenceTarget, remoteNamespace) {
		return ""
	}

	return strings.TrimPrefix(referenceTarget, remoteNamespace)
}

package converge

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/checkout/internal/execshell"
)

const (
	resolverExecutorMissingMessageConstant = "git executor not configured"
	defaultBranchUnknownMessageConstant    = "no default branch association could be derived for HEAD"
	gitLSRemoteSubcommandConstant          = "ls-remote"
	gitSymrefFlagConstant                  = "--symref"
	argumentTerminatorConstant             = "--"
	remoteBranchNamespacePrefixConstant    = "refs/heads/"
	remoteTagNamespacePrefixConstant       = "refs/tags/"
	peeledReferenceSuffixConstant          = "^{}"
	symbolicReferenceLinePrefixConstant    = "ref:"
	headReferenceNameConstant              = "HEAD"
	headRevisionSpecConstant               = "HEAD"
)

// ErrResolverExecutorNotConfigured indicates the resolver was built without an executor.
var ErrResolverExecutorNotConfigured = errors.New(resolverExecutorMissingMessageConstant)

// ErrDefaultBranchUnknown indicates the HEAD spec could not be substituted
// with a branch name from either the local checkout or the remote listing.
var ErrDefaultBranchUnknown = errors.New(defaultBranchUnknownMessageConstant)

// RemoteRefListing is the remote's advertised references, queried once per
// invocation and reused by the pure classification helpers. Annotated tags are
// recorded under their peeled commit identity.
type RemoteRefListing struct {
	branchCommits     map[string]string
	tagCommits        map[string]string
	defaultBranchName string
}

// BranchCommit returns the tip commit of the named remote branch.
func (listing RemoteRefListing) BranchCommit(branchName string) (string, bool) {
	commitID, branchExists := listing.branchCommits[branchName]
	return commitID, branchExists
}

// TagCommit returns the commit pinned by the named remote tag, preferring the
// peeled identity of annotated tags.
func (listing RemoteRefListing) TagCommit(tagName string) (string, bool) {
	commitID, tagExists := listing.tagCommits[tagName]
	return commitID, tagExists
}

// DefaultBranchName reports the branch the remote's HEAD points at, when advertised.
func (listing RemoteRefListing) DefaultBranchName() string {
	return listing.defaultBranchName
}

// RemoteResolver pins revision specs to remote commit identities via ls-remote.
type RemoteResolver struct {
	executor GitExecutor
}

// NewRemoteResolver validates the executor and constructs a resolver.
func NewRemoteResolver(executor GitExecutor) (*RemoteResolver, error) {
	if executor == nil {
		return nil, ErrResolverExecutorNotConfigured
	}
	return &RemoteResolver{executor: executor}, nil
}

// ListRefs queries the remote's advertised references without fetching any
// objects. The query runs against the repository URL directly so it works for
// destinations that hold no repository yet.
func (resolver *RemoteResolver) ListRefs(executionContext context.Context, repositoryURL string) (RemoteRefListing, error) {
	executionResult, executionError := resolver.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitLSRemoteSubcommandConstant, gitSymrefFlagConstant, argumentTerminatorConstant, repositoryURL},
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	})
	if executionError != nil {
		return RemoteRefListing{}, RemoteResolutionError{
			Revision:      headRevisionSpecConstant,
			RepositoryURL: repositoryURL,
			Cause:         executionError,
		}
	}

	return parseRemoteRefListing(executionResult.StandardOutput), nil
}

// ClassifyRevision resolves a revision spec against the listing: remote branch
// first, then remote tag, otherwise the spec is treated as a concrete commit
// id and returned unresolved. The HEAD token is substituted with the derived
// default branch name before classification.
func ClassifyRevision(listing RemoteRefListing, revisionSpec string, defaultBranchName string) (ResolvedRevision, error) {
	referenceName := strings.TrimSpace(revisionSpec)
	if referenceName == headRevisionSpecConstant {
		referenceName = strings.TrimSpace(defaultBranchName)
		if len(referenceName) == 0 {
			referenceName = listing.DefaultBranchName()
		}
		if len(referenceName) == 0 {
			return ResolvedRevision{}, ErrDefaultBranchUnknown
		}
	}

	if branchCommit, branchExists := listing.BranchCommit(referenceName); branchExists {
		return ResolvedRevision{Kind: RevisionKindBranch, Name: referenceName, CommitID: branchCommit}, nil
	}

	if tagCommit, tagExists := listing.TagCommit(referenceName); tagExists {
		return ResolvedRevision{Kind: RevisionKindTag, Name: referenceName, CommitID: tagCommit}, nil
	}

	return ResolvedRevision{Kind: RevisionKindCommit, Name: referenceName, CommitID: referenceName}, nil
}

// parseRemoteRefListing reads the line-oriented ls-remote output: symbolic
// reference lines ("ref: refs/heads/main\tHEAD") announce the default branch,
// every other line pairs a commit id with a fully qualified reference name.
func parseRemoteRefListing(listingOutput string) RemoteRefListing {
	listing := RemoteRefListing{
		branchCommits: map[string]string{},
		tagCommits:    map[string]string{},
	}

	for _, listingLine := range strings.Split(listingOutput, "\n") {
		trimmedLine := strings.TrimSpace(listingLine)
		if len(trimmedLine) == 0 {
			continue
		}

		lineFields := strings.Fields(trimmedLine)
		if len(lineFields) < 2 {
			continue
		}

		if lineFields[0] == symbolicReferenceLinePrefixConstant {
			if len(lineFields) >= 3 && lineFields[2] == headReferenceNameConstant && strings.HasPrefix(lineFields[1], remoteBranchNamespacePrefixConstant) {
				listing.defaultBranchName = strings.TrimPrefix(lineFields[1], remoteBranchNamespacePrefixConstant)
			}
			continue
		}

		commitID := lineFields[0]
		referenceName := lineFields[1]

		switch {
		case strings.HasPrefix(referenceName, remoteBranchNamespacePrefixConstant):
			listing.branchCommits[strings.TrimPrefix(referenceName, remoteBranchNamespacePrefixConstant)] = commitID
		case strings.HasPrefix(referenceName, remoteTagNamespacePrefixConstant):
			tagName := strings.TrimPrefix(referenceName, remoteTagNamespacePrefixConstant)
			if strings.HasSuffix(tagName, peeledReferenceSuffixConstant) {
				listing.tagCommits[strings.TrimSuffix(tagName, peeledReferenceSuffixConstant)] = commitID
				continue
			}
			if _, alreadyRecorded := listing.tagCommits[tagName]; !alreadyRecorded {
				listing.tagCommits[tagName] = commitID
			}
		}
	}

	return listing
}

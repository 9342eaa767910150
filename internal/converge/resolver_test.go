package converge_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/checkout/internal/converge"
	"github.com/temirov/checkout/internal/execshell"
)

const (
	testRepositoryURLConstant = "https://example.com/library.git"
	testMainTipCommitConstant = "1111111111111111111111111111111111111111"
	testWorkTipCommitConstant = "2222222222222222222222222222222222222222"
	testTagObjectCommitIDName = "3333333333333333333333333333333333333333"
	testTagPeeledCommitIDName = "4444444444444444444444444444444444444444"
)

const testRemoteListingOutput = "ref: refs/heads/main\tHEAD\n" +
	testMainTipCommitConstant + "\tHEAD\n" +
	testMainTipCommitConstant + "\trefs/heads/main\n" +
	testWorkTipCommitConstant + "\trefs/heads/work\n" +
	testWorkTipCommitConstant + "\trefs/heads/v1.0\n" +
	testTagObjectCommitIDName + "\trefs/tags/v1.0\n" +
	testTagPeeledCommitIDName + "\trefs/tags/v1.0^{}\n" +
	testTagObjectCommitIDName + "\trefs/tags/lightweight\n"

type listingGitExecutor struct {
	listingOutput    string
	executionError   error
	recordedCommands []execshell.CommandDetails
}

func (executor *listingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	if executor.executionError != nil {
		return execshell.ExecutionResult{}, executor.executionError
	}
	return execshell.ExecutionResult{StandardOutput: executor.listingOutput}, nil
}

func TestNewRemoteResolverValidatesExecutor(testInstance *testing.T) {
	resolver, creationError := converge.NewRemoteResolver(nil)
	require.ErrorIs(testInstance, creationError, converge.ErrResolverExecutorNotConfigured)
	require.Nil(testInstance, resolver)
}

func TestListRefsQueriesRemoteOnce(testInstance *testing.T) {
	executor := &listingGitExecutor{listingOutput: testRemoteListingOutput}
	resolver, creationError := converge.NewRemoteResolver(executor)
	require.NoError(testInstance, creationError)

	listing, listError := resolver.ListRefs(context.Background(), testRepositoryURLConstant)
	require.NoError(testInstance, listError)
	require.Len(testInstance, executor.recordedCommands, 1)
	require.Equal(testInstance, []string{"ls-remote", "--symref", "--", testRepositoryURLConstant}, executor.recordedCommands[0].Arguments)
	require.Equal(testInstance, "main", listing.DefaultBranchName())
}

func TestListRefsWrapsRemoteFailure(testInstance *testing.T) {
	executor := &listingGitExecutor{executionError: errors.New("fatal: repository not found")}
	resolver, creationError := converge.NewRemoteResolver(executor)
	require.NoError(testInstance, creationError)

	_, listError := resolver.ListRefs(context.Background(), testRepositoryURLConstant)
	resolutionError := converge.RemoteResolutionError{}
	require.ErrorAs(testInstance, listError, &resolutionError)
	require.Equal(testInstance, testRepositoryURLConstant, resolutionError.RepositoryURL)
	require.ErrorContains(testInstance, listError, "repository not found")
}

func TestRemoteRefListingLookups(testInstance *testing.T) {
	executor := &listingGitExecutor{listingOutput: testRemoteListingOutput}
	resolver, creationError := converge.NewRemoteResolver(executor)
	require.NoError(testInstance, creationError)

	listing, listError := resolver.ListRefs(context.Background(), testRepositoryURLConstant)
	require.NoError(testInstance, listError)

	branchCommit, branchExists := listing.BranchCommit("work")
	require.True(testInstance, branchExists)
	require.Equal(testInstance, testWorkTipCommitConstant, branchCommit)

	_, missingBranchExists := listing.BranchCommit("gone")
	require.False(testInstance, missingBranchExists)

	annotatedTagCommit, annotatedTagExists := listing.TagCommit("v1.0")
	require.True(testInstance, annotatedTagExists)
	require.Equal(testInstance, testTagPeeledCommitIDName, annotatedTagCommit)

	lightweightTagCommit, lightweightTagExists := listing.TagCommit("lightweight")
	require.True(testInstance, lightweightTagExists)
	require.Equal(testInstance, testTagObjectCommitIDName, lightweightTagCommit)
}

func TestClassifyRevision(testInstance *testing.T) {
	executor := &listingGitExecutor{listingOutput: testRemoteListingOutput}
	resolver, creationError := converge.NewRemoteResolver(executor)
	require.NoError(testInstance, creationError)

	listing, listError := resolver.ListRefs(context.Background(), testRepositoryURLConstant)
	require.NoError(testInstance, listError)

	testCases := []struct {
		name              string
		revisionSpec      string
		defaultBranchName string
		expectedKind      converge.RevisionKind
		expectedName      string
		expectedCommitID  string
	}{
		{
			name:             "branch_name",
			revisionSpec:     "work",
			expectedKind:     converge.RevisionKindBranch,
			expectedName:     "work",
			expectedCommitID: testWorkTipCommitConstant,
		},
		{
			name:             "branch_shadows_tag_with_same_name",
			revisionSpec:     "v1.0",
			expectedKind:     converge.RevisionKindBranch,
			expectedName:     "v1.0",
			expectedCommitID: testWorkTipCommitConstant,
		},
		{
			name:             "tag_name",
			revisionSpec:     "lightweight",
			expectedKind:     converge.RevisionKindTag,
			expectedName:     "lightweight",
			expectedCommitID: testTagObjectCommitIDName,
		},
		{
			name:              "head_substituted_with_derived_branch",
			revisionSpec:      "HEAD",
			defaultBranchName: "work",
			expectedKind:      converge.RevisionKindBranch,
			expectedName:      "work",
			expectedCommitID:  testWorkTipCommitConstant,
		},
		{
			name:             "head_falls_back_to_advertised_default",
			revisionSpec:     "HEAD",
			expectedKind:     converge.RevisionKindBranch,
			expectedName:     "main",
			expectedCommitID: testMainTipCommitConstant,
		},
		{
			name:             "unmatched_spec_is_a_commit_id",
			revisionSpec:     "deadbeefcafe",
			expectedKind:     converge.RevisionKindCommit,
			expectedName:     "deadbeefcafe",
			expectedCommitID: "deadbeefcafe",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolved, classificationError := converge.ClassifyRevision(listing, testCase.revisionSpec, testCase.defaultBranchName)
			require.NoError(testInstance, classificationError)
			require.Equal(testInstance, testCase.expectedKind, resolved.Kind)
			require.Equal(testInstance, testCase.expectedName, resolved.Name)
			require.Equal(testInstance, testCase.expectedCommitID, resolved.CommitID)
		})
	}
}

func TestClassifyRevisionFailsWithoutDefaultBranch(testInstance *testing.T) {
	_, classificationError := converge.ClassifyRevision(converge.RemoteRefListing{}, "HEAD", "")
	require.ErrorIs(testInstance, classificationError, converge.ErrDefaultBranchUnknown)
}
